package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tradefolio/tradefolio"
	"github.com/tradefolio/tradefolio/renderer"
)

type equityCmd struct {
	ledgerFlags
}

func (*equityCmd) Name() string     { return "equity" }
func (*equityCmd) Synopsis() string { return "equity curve, drawdown and streak analysis" }
func (*equityCmd) Usage() string {
	return `tfo equity [-trades <file>] [-s <date>] [-d <date>] [-symbols <list>]

  Builds the cumulative realized P&L curve with drawdown depth, duration,
  and win/loss streaks.
`
}

func (c *equityCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *equityCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	report := tradefolio.Analyze(ledger)
	printMarkdown(renderer.EquityMarkdown(report.Equity))
	return subcommands.ExitSuccess
}
