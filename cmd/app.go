// Package cmd implements the CLI application to analyze a trade ledger.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/tradefolio/tradefolio"
	"github.com/tradefolio/tradefolio/date"
)

// Commands lists every subcommand, in the order they appear in help.
// A main package registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&analyzeCmd{},
	&symbolsCmd{},
	&equityCmd{},
	&holdingsCmd{},
	&exportCmd{},
}

func init() {
	// Optional .env for TFO_* settings; absence is the normal case.
	godotenv.Load()
}

// envCurrency is the ledger currency assumed when the export has no
// currency column.
func envCurrency() string {
	if c := os.Getenv("TFO_CURRENCY"); c != "" {
		return c
	}
	return "USD"
}

func envQuoteWorkers() int {
	if v := os.Getenv("TFO_QUOTE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return tradefolio.DefaultQuoteWorkers
}

func envQuoteTimeout() time.Duration {
	if v := os.Getenv("TFO_QUOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return tradefolio.DefaultQuoteTimeout
}

// loadLedger reads and normalizes the trades file, optionally restricted to
// a date range and symbol list.
func loadLedger(path, start, end string, symbols []string) (*tradefolio.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trades file: %w", err)
	}
	defer f.Close()

	ledger, err := tradefolio.ImportTrades(f, envCurrency())
	if err != nil {
		return nil, err
	}

	var r date.Range
	if start != "" {
		if r.From, err = date.Parse(start); err != nil {
			return nil, fmt.Errorf("parsing start date: %w", err)
		}
	}
	if end != "" {
		if r.To, err = date.Parse(end); err != nil {
			return nil, fmt.Errorf("parsing end date: %w", err)
		}
	}
	if !r.From.IsZero() || !r.To.IsZero() || len(symbols) > 0 {
		ledger = ledger.Filter(r, symbols)
	}
	return ledger, nil
}

// printMarkdown renders a markdown report for the terminal, falling back to
// the raw text when styling fails (e.g. not a tty worth styling).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
