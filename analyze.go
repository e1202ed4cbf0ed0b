package tradefolio

import (
	"fmt"
	"sort"
	"time"
)

// SymbolStats is the per-symbol breakdown of closed-trade performance.
type SymbolStats struct {
	Symbol   string
	Trades   int
	Wins     int
	Losses   int
	WinRate  Percent
	Realized Money
	Fees     Money // round-trip commissions of the closed trades
	AvgPnl   Money
	Best     Money
	Worst    Money
	Open     bool // still holds an open position after matching
}

// PeriodPnl buckets realized P&L by a calendar period (weekday or month).
type PeriodPnl struct {
	Period   string
	Trades   int
	Realized Money
}

// Report is the full analysis of one ledger: the matched closed trades,
// aggregate and per-symbol statistics, the equity curve, cost figures, and
// the plain-language insights derived from them.
//
// Analyze never mutates the ledger; running it twice yields equal reports.
type Report struct {
	Stats   *Stats
	Equity  *EquityCurve
	Matches []ClosedTradeMatch

	Symbols    []SymbolStats // sorted by descending realized P&L
	Weekdays   []PeriodPnl   // Monday..Friday, plus weekend buckets when traded
	Months     []PeriodPnl   // chronological "2006-01" buckets
	TopWinners []ClosedTradeMatch
	TopLosers  []ClosedTradeMatch

	NetRealized     Money
	TotalFees       Money   // magnitude of all commissions, open rows included
	CommissionShare Percent // fees relative to gross profit
	AvgFeePerRow    Money

	Skipped  []Warning // rows dropped at import
	Warnings []Warning // matcher warnings (oversold positions)
	Insights []string
}

const topTradeCount = 5

// Analyze runs the whole pipeline over a ledger: FIFO matching, statistics,
// equity curve, breakdowns, and insights.
func Analyze(l *Ledger) *Report {
	result := Match(l)
	r := &Report{
		Stats:       NewStats(result.Matches),
		Equity:      NewEquityCurve(result.Matches),
		Matches:     result.Matches,
		NetRealized: result.TotalRealized(),
		TotalFees:   l.TotalCommission().Abs(),
		Skipped:     l.Skipped(),
		Warnings:    result.Warnings,
	}

	if l.Len() > 0 {
		r.AvgFeePerRow = r.TotalFees.Div(Q(int64(l.Len())))
	}
	if r.Stats.GrossProfit.IsPositive() {
		r.CommissionShare = Percent(r.TotalFees.ratioOf(r.Stats.GrossProfit).InexactFloat64() * 100)
	}

	r.Symbols = symbolBreakdown(result)
	r.Weekdays = weekdayBreakdown(result.Matches)
	r.Months = monthlyBreakdown(result.Matches)
	r.TopWinners, r.TopLosers = topTrades(result.Matches)
	r.Insights = insights(r)
	return r
}

func symbolBreakdown(result *MatchResult) []SymbolStats {
	bySymbol := make(map[string]*SymbolStats)
	for _, m := range result.Matches {
		s, ok := bySymbol[m.Symbol]
		if !ok {
			s = &SymbolStats{Symbol: m.Symbol}
			bySymbol[m.Symbol] = s
		}
		s.Trades++
		s.Realized = s.Realized.Add(m.Realized)
		s.Fees = s.Fees.Add(m.Commission)
		if s.Trades == 1 || m.Realized.GreaterThan(s.Best) {
			s.Best = m.Realized
		}
		if s.Trades == 1 || m.Realized.LessThan(s.Worst) {
			s.Worst = m.Realized
		}
		switch {
		case m.Realized.IsPositive():
			s.Wins++
		case m.Realized.IsNegative():
			s.Losses++
		}
	}
	stats := make([]SymbolStats, 0, len(bySymbol))
	for _, s := range bySymbol {
		s.WinRate = Percent(float64(s.Wins) / float64(s.Trades) * 100)
		s.AvgPnl = s.Realized.Div(Q(int64(s.Trades)))
		s.Open = result.OpenQuantity(s.Symbol).IsOpen()
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if !a.Realized.Equal(b.Realized) {
			return a.Realized.GreaterThan(b.Realized)
		}
		return a.Symbol < b.Symbol
	})
	return stats
}

func weekdayBreakdown(matches []ClosedTradeMatch) []PeriodPnl {
	buckets := make(map[time.Weekday]*PeriodPnl)
	for _, m := range matches {
		day := m.Time.Weekday()
		b, ok := buckets[day]
		if !ok {
			b = &PeriodPnl{Period: day.String()}
			buckets[day] = b
		}
		b.Trades++
		b.Realized = b.Realized.Add(m.Realized)
	}
	var periods []PeriodPnl
	// Monday-first trading week; weekend buckets only when something traded.
	for _, day := range []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		time.Saturday, time.Sunday,
	} {
		if b, ok := buckets[day]; ok {
			periods = append(periods, *b)
		}
	}
	return periods
}

func monthlyBreakdown(matches []ClosedTradeMatch) []PeriodPnl {
	buckets := make(map[string]*PeriodPnl)
	var order []string
	for _, m := range matches {
		month := m.Time.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &PeriodPnl{Period: month}
			buckets[month] = b
			order = append(order, month)
		}
		b.Trades++
		b.Realized = b.Realized.Add(m.Realized)
	}
	sort.Strings(order)
	periods := make([]PeriodPnl, 0, len(order))
	for _, month := range order {
		periods = append(periods, *buckets[month])
	}
	return periods
}

// topTrades returns the five largest winners and five largest losers.
func topTrades(matches []ClosedTradeMatch) (winners, losers []ClosedTradeMatch) {
	sorted := make([]ClosedTradeMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Realized.GreaterThan(sorted[j].Realized)
	})
	for _, m := range sorted {
		if !m.Realized.IsPositive() || len(winners) == topTradeCount {
			break
		}
		winners = append(winners, m)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		m := sorted[i]
		if !m.Realized.IsNegative() || len(losers) == topTradeCount {
			break
		}
		losers = append(losers, m)
	}
	return winners, losers
}

// Insight thresholds. A reading outside these bands is worth a sentence.
var (
	lowWinRate       = Percent(40)
	highWinRate      = Percent(70)
	lowRiskReward    = 1.5
	highRiskReward   = 2.5
	lowProfitFactor  = 1.0
	highProfitFactor = 2.0
	highFearIndex    = Percent(50)
	highCommission   = Percent(30)
	longLossStreak   = 5
)

// insights turns the aggregate numbers into plain-language observations.
func insights(r *Report) []string {
	s := r.Stats
	if s.Total == 0 {
		return nil
	}
	var out []string

	switch {
	case s.WinRate < lowWinRate:
		out = append(out, fmt.Sprintf("Win rate is %s; fewer than half your trades close green. Review entry criteria.", s.WinRate))
	case s.WinRate > highWinRate:
		out = append(out, fmt.Sprintf("Win rate is %s. Solid hit rate; make sure winners are not cut short to keep it.", s.WinRate))
	}

	if s.RiskReward.Defined() {
		switch {
		case s.RiskReward.LessThan(lowRiskReward):
			out = append(out, fmt.Sprintf("Average win is only %sx the average loss. Let winners run or tighten stops.", s.RiskReward))
		case s.RiskReward.GreaterThan(highRiskReward):
			out = append(out, fmt.Sprintf("Average win is %sx the average loss. Strong asymmetry.", s.RiskReward))
		}
	}

	switch {
	case !s.ProfitFactor.Defined():
		out = append(out, "No losing trades on record. Profit factor is undefined; sample may be too small to judge.")
	case s.ProfitFactor.LessThan(lowProfitFactor):
		out = append(out, fmt.Sprintf("Profit factor is %s: gross losses exceed gross profits. The system loses money before fees.", s.ProfitFactor))
	case s.ProfitFactor.GreaterThan(highProfitFactor):
		out = append(out, fmt.Sprintf("Profit factor is %s. Comfortable edge over losses.", s.ProfitFactor))
	}

	if s.FearIndex > highFearIndex {
		out = append(out, fmt.Sprintf("%s of wins are below 30%% of the average win. Winners are being cut early.", s.FearIndex))
	}

	if r.CommissionShare > highCommission {
		out = append(out, fmt.Sprintf("Commissions eat %s of gross profits. Trade less or trade bigger.", r.CommissionShare))
	}

	if r.Equity.MaxLossStreak >= longLossStreak {
		out = append(out, fmt.Sprintf("Longest losing streak is %d trades. Size positions to survive it.", r.Equity.MaxLossStreak))
	}

	switch {
	case s.Expectancy.IsPositive():
		out = append(out, fmt.Sprintf("Expectancy is %s per trade. Each trade has positive expected value.", s.Expectancy))
	case s.Expectancy.IsNegative():
		out = append(out, fmt.Sprintf("Expectancy is %s per trade. On average every trade costs money.", s.Expectancy))
	}

	if best := bestWeekday(r.Weekdays); best != nil && best.Realized.IsPositive() && len(r.Weekdays) > 1 {
		out = append(out, fmt.Sprintf("%s is your most profitable day (%s over %d trades).", best.Period, best.Realized, best.Trades))
	}

	return out
}

func bestWeekday(weekdays []PeriodPnl) *PeriodPnl {
	var best *PeriodPnl
	for i := range weekdays {
		w := &weekdays[i]
		if best == nil || w.Realized.GreaterThan(best.Realized) {
			best = w
		}
	}
	return best
}
