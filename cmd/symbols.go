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

type symbolsCmd struct {
	ledgerFlags
}

func (*symbolsCmd) Name() string     { return "symbols" }
func (*symbolsCmd) Synopsis() string { return "per-symbol performance breakdown" }
func (*symbolsCmd) Usage() string {
	return `tfo symbols [-trades <file>] [-s <date>] [-d <date>] [-symbols <list>]

  Breaks realized performance down by symbol, best performer first.
`
}

func (c *symbolsCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *symbolsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	report := tradefolio.Analyze(ledger)
	printMarkdown(renderer.SymbolsMarkdown(report))
	return subcommands.ExitSuccess
}
