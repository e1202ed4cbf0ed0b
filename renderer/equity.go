package renderer

import (
	"fmt"
	"strings"

	"github.com/tradefolio/tradefolio"
)

// EquityMarkdown renders the daily equity curve and its drawdown figures.
func EquityMarkdown(c *tradefolio.EquityCurve) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Equity Curve\n\n")
	daily := c.Daily()
	if len(daily) == 0 {
		fmt.Fprint(&b, "No closed trades in the selected range.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Final Equity | %s |\n", daily[len(daily)-1].Equity.SignedString())
	fmt.Fprintf(&b, "| Max Drawdown | %s (%s) |\n", c.MaxDrawdown, c.MaxDrawdownPct)
	fmt.Fprintf(&b, "| Drawdown Duration | %d trades |\n", c.DrawdownDuration)
	fmt.Fprintf(&b, "| Longest Win Streak | %d |\n", c.MaxWinStreak)
	fmt.Fprintf(&b, "| Longest Loss Streak | %d |\n", c.MaxLossStreak)

	fmt.Fprint(&b, "\n## Daily Curve\n\n")
	fmt.Fprintln(&b, "| Day | Equity | Drawdown |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, p := range daily {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			p.Time.Format("2006-01-02"), p.Equity.SignedString(), p.Drawdown)
	}

	return b.String()
}
