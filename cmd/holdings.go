package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tradefolio/tradefolio"
	"github.com/tradefolio/tradefolio/renderer"
	"github.com/tradefolio/tradefolio/yahoo"
)

type holdingsCmd struct {
	ledgerFlags
	offline bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "open positions valued at current market prices" }
func (*holdingsCmd) Usage() string {
	return `tfo holdings [-trades <file>] [-offline]

  Lists the open positions left after FIFO matching with their cost basis,
  current market value, unrealized P&L, and sector allocation. Prices come
  from Yahoo Finance; -offline skips the lookup and reports cost basis only.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.BoolVar(&c.offline, "offline", false, "Skip the market price lookup")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	result := tradefolio.Match(ledger)

	var provider tradefolio.QuoteProvider = tradefolio.StaticQuotes{}
	if !c.offline {
		provider = yahoo.NewProvider(yahoo.Options{
			Currency: envCurrency(),
			Workers:  envQuoteWorkers(),
			Timeout:  envQuoteTimeout(),
		})
	}

	report, err := tradefolio.NewHoldingReport(ctx, result, provider)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating holding report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HoldingsMarkdown(report))
	return subcommands.ExitSuccess
}
