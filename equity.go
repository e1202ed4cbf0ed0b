package tradefolio

import (
	"time"

	"github.com/tradefolio/tradefolio/date"
)

// EquityPoint is the cumulative realized P&L up to and including one closed
// trade, with the drawdown from the running equity peak at that point.
type EquityPoint struct {
	Time     time.Time
	Equity   Money
	Drawdown Money // running peak minus equity, never negative
}

// EquityCurve is the time-ordered cumulative P&L of the closed trades, with
// its drawdown and streak statistics. One point per closed trade; Daily()
// collapses the curve to one point per calendar day for charting.
type EquityCurve struct {
	Points []EquityPoint

	MaxDrawdown    Money
	MaxDrawdownPct Percent // relative to the peak the drawdown fell from; 0 when that peak is not positive
	// DrawdownDuration counts the steps from the peak preceding the deepest
	// trough until equity first recovers to that peak, or to the series end
	// when it never does.
	DrawdownDuration int

	MaxWinStreak  int
	MaxLossStreak int
}

// NewEquityCurve builds the equity curve from closed trades already ordered
// by timestamp. Trades on the same day are not reordered.
func NewEquityCurve(matches []ClosedTradeMatch) *EquityCurve {
	c := &EquityCurve{}
	if len(matches) == 0 {
		return c
	}

	var equity Money
	var peak Money // running peak, floored at the zero starting equity
	peakIndex := -1
	maxDDPeakIndex := -1
	var maxDDPeak Money

	for i, m := range matches {
		equity = equity.Add(m.Realized)
		if equity.GreaterThan(peak) {
			peak = equity
			peakIndex = i
		}
		drawdown := peak.Sub(equity)
		c.Points = append(c.Points, EquityPoint{Time: m.Time, Equity: equity, Drawdown: drawdown})
		if drawdown.GreaterThan(c.MaxDrawdown) {
			c.MaxDrawdown = drawdown
			c.MaxDrawdownPct = drawdownPercent(drawdown, peak)
			maxDDPeakIndex = peakIndex
			maxDDPeak = peak
		}
	}

	if maxDDPeakIndex >= 0 {
		c.DrawdownDuration = len(c.Points) - 1 - maxDDPeakIndex
		for j := maxDDPeakIndex + 1; j < len(c.Points); j++ {
			if c.Points[j].Equity.GreaterThanOrEqual(maxDDPeak) {
				c.DrawdownDuration = j - maxDDPeakIndex
				break
			}
		}
	}

	c.MaxWinStreak, c.MaxLossStreak = streaks(matches)
	return c
}

// drawdownPercent guards against a zero or negative peak, where a relative
// drawdown is meaningless.
func drawdownPercent(drawdown, peak Money) Percent {
	if !peak.IsPositive() {
		return 0
	}
	return Percent(drawdown.ratioOf(peak).InexactFloat64() * 100)
}

// streaks returns the longest consecutive runs of wins and of losses in
// chronological order. A zero-P&L trade breaks the current streak without
// starting one of either kind.
func streaks(matches []ClosedTradeMatch) (maxWin, maxLoss int) {
	var win, loss int
	for _, m := range matches {
		switch {
		case m.Realized.IsPositive():
			win++
			loss = 0
		case m.Realized.IsNegative():
			loss++
			win = 0
		default:
			win, loss = 0, 0
		}
		maxWin = max(maxWin, win)
		maxLoss = max(maxLoss, loss)
	}
	return maxWin, maxLoss
}

// Daily collapses the curve to one point per calendar day, keeping the last
// cumulative value and the worst drawdown seen that day.
func (c *EquityCurve) Daily() []EquityPoint {
	var days []EquityPoint
	var currentDay date.Date
	for _, p := range c.Points {
		day := date.FromTime(p.Time)
		if len(days) > 0 && day == currentDay {
			last := &days[len(days)-1]
			last.Equity = p.Equity
			if p.Drawdown.GreaterThan(last.Drawdown) {
				last.Drawdown = p.Drawdown
			}
			continue
		}
		currentDay = day
		days = append(days, EquityPoint{
			Time:     time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Equity:   p.Equity,
			Drawdown: p.Drawdown,
		})
	}
	return days
}
