// Package renderer turns analysis results into markdown reports.
package renderer

import (
	"fmt"
	"strings"

	"github.com/tradefolio/tradefolio"
)

// SummaryMarkdown renders the headline statistics of a report.
func SummaryMarkdown(r *tradefolio.Report) string {
	var b strings.Builder
	s := r.Stats

	fmt.Fprint(&b, "# Trading Performance Summary\n\n")

	if s.Total == 0 {
		fmt.Fprint(&b, "No closed trades in the selected range.\n")
		return b.String()
	}

	fmt.Fprint(&b, "## Overview\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Closed Trades | %d |\n", s.Total)
	fmt.Fprintf(&b, "| Wins / Losses / Breakeven | %d / %d / %d |\n", s.Wins, s.Losses, s.Breakeven)
	fmt.Fprintf(&b, "| Win Rate | %s |\n", s.WinRate)
	fmt.Fprintf(&b, "| Net Realized P&L | %s |\n", r.NetRealized.SignedString())
	fmt.Fprintf(&b, "| Gross Profit | %s |\n", s.GrossProfit.SignedString())
	fmt.Fprintf(&b, "| Gross Loss | %s |\n", s.GrossLoss.SignedString())
	fmt.Fprintf(&b, "| Profit Factor | %s |\n", s.ProfitFactor)
	fmt.Fprintf(&b, "| Expectancy / Trade | %s |\n", s.Expectancy.SignedString())
	fmt.Fprintf(&b, "| Avg Win / Avg Loss | %s / %s |\n", s.AvgWin.SignedString(), s.AvgLoss.SignedString())
	fmt.Fprintf(&b, "| Risk / Reward | %s |\n", s.RiskReward)
	fmt.Fprintf(&b, "| Largest Win / Loss | %s / %s |\n", s.LargestWin.SignedString(), s.LargestLoss.SignedString())
	fmt.Fprintf(&b, "| Fear Index | %s |\n", s.FearIndex)
	fmt.Fprintf(&b, "| Total Fees | %s |\n", r.TotalFees)
	fmt.Fprintf(&b, "| Fees / Gross Profit | %s |\n", r.CommissionShare)

	fmt.Fprint(&b, "\n## Trade Grades\n\n")
	fmt.Fprintln(&b, "| Grade | Trades |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, g := range []tradefolio.Grade{
		tradefolio.GradeAPlus, tradefolio.GradeA, tradefolio.GradeB,
		tradefolio.GradeC, tradefolio.GradeD, tradefolio.GradeF,
	} {
		if n := s.Grades[g]; n > 0 {
			fmt.Fprintf(&b, "| %s | %d |\n", g, n)
		}
	}

	topTrades(&b, "Top Winners", r.TopWinners)
	topTrades(&b, "Top Losers", r.TopLosers)
	periodTable(&b, "P&L by Weekday", r.Weekdays)
	periodTable(&b, "P&L by Month", r.Months)

	if len(r.Insights) > 0 {
		fmt.Fprint(&b, "\n## Insights\n\n")
		for _, insight := range r.Insights {
			fmt.Fprintf(&b, "- %s\n", insight)
		}
	}

	warningsSection(&b, r)
	return b.String()
}

func topTrades(b *strings.Builder, title string, matches []tradefolio.ClosedTradeMatch) {
	if len(matches) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	fmt.Fprintln(b, "| Symbol | Closed | Quantity | P&L |")
	fmt.Fprintln(b, "|:---|:---|---:|---:|")
	for _, m := range matches {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			m.Symbol, m.Day(), m.Quantity, m.Realized.SignedString())
	}
}

func periodTable(b *strings.Builder, title string, periods []tradefolio.PeriodPnl) {
	if len(periods) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	fmt.Fprintln(b, "| Period | Trades | Realized |")
	fmt.Fprintln(b, "|:---|---:|---:|")
	for _, p := range periods {
		fmt.Fprintf(b, "| %s | %d | %s |\n", p.Period, p.Trades, p.Realized.SignedString())
	}
}

func warningsSection(b *strings.Builder, r *tradefolio.Report) {
	if len(r.Skipped) == 0 && len(r.Warnings) == 0 {
		return
	}
	fmt.Fprint(b, "\n## Data Warnings\n\n")
	for _, w := range r.Skipped {
		fmt.Fprintf(b, "- %s\n", w)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
}
