package renderer

import (
	"fmt"
	"strings"

	"github.com/tradefolio/tradefolio"
)

// SymbolsMarkdown renders the per-symbol performance breakdown, best first.
func SymbolsMarkdown(r *tradefolio.Report) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Performance by Symbol\n\n")
	if len(r.Symbols) == 0 {
		fmt.Fprint(&b, "No closed trades in the selected range.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Trades | Wins | Losses | Win Rate | Realized | Avg P&L | Best | Worst | Fees | Open |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|:---|")
	for _, s := range r.Symbols {
		open := ""
		if s.Open {
			open = "yes"
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Symbol, s.Trades, s.Wins, s.Losses, s.WinRate, s.Realized.SignedString(),
			s.AvgPnl.SignedString(), s.Best.SignedString(), s.Worst.SignedString(), s.Fees, open)
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | | | | **%s** | | | | | |\n",
		r.Stats.Total, r.NetRealized.SignedString())

	return b.String()
}
