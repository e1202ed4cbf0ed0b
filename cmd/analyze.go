package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/tradefolio/tradefolio"
	"github.com/tradefolio/tradefolio/renderer"
)

// ledgerFlags are the flags shared by every subcommand that reads a
// trades file.
type ledgerFlags struct {
	trades  string
	start   string
	end     string
	symbols string
}

func (c *ledgerFlags) register(f *flag.FlagSet) {
	f.StringVar(&c.trades, "trades", "trades.csv", "Path to the broker trades CSV export")
	f.StringVar(&c.start, "s", "", "Start date of the reporting period (YYYY-MM-DD)")
	f.StringVar(&c.end, "d", "", "End date of the reporting period (YYYY-MM-DD)")
	f.StringVar(&c.symbols, "symbols", "", "Comma-separated list of symbols to restrict the report to")
}

func (c *ledgerFlags) load() (*tradefolio.Ledger, error) {
	var symbols []string
	if c.symbols != "" {
		for _, s := range strings.Split(c.symbols, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	return loadLedger(c.trades, c.start, c.end, symbols)
}

// analyzeCmd holds the flags for the 'analyze' subcommand.
type analyzeCmd struct {
	ledgerFlags
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "full performance analysis of the closed trades" }
func (*analyzeCmd) Usage() string {
	return `tfo analyze [-trades <file>] [-s <date>] [-d <date>] [-symbols <list>]

  Matches the trades FIFO, aggregates win/loss statistics, grades every
  closed trade, and prints the summary report.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *analyzeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	report := tradefolio.Analyze(ledger)
	printMarkdown(renderer.SummaryMarkdown(report))
	return subcommands.ExitSuccess
}
