package tradefolio

import "github.com/shopspring/decimal"

// Grade rates one closed trade against its own commission magnitude c:
// the profit must clear a multiple of what the round trip cost to execute.
type Grade string

const (
	GradeAPlus Grade = "A+" // P&L > 5c
	GradeA     Grade = "A"  // P&L > 3c
	GradeB     Grade = "B"  // P&L > c
	GradeC     Grade = "C"  // 0 < P&L <= c
	GradeD     Grade = "D"  // -c <= P&L < 0
	GradeF     Grade = "F"  // P&L < -c
)

// GradeTrade grades a closed trade's P&L against its commission magnitude.
//
// All band comparisons are strict: a P&L of exactly 5c grades A (not A+),
// exactly 3c grades B, exactly c grades C, and exactly -c grades D.
// A free trade (zero commission) is graded against a one-cent floor so
// the bands stay meaningful.
func GradeTrade(pnl, commission Money) Grade {
	c := commission.Abs()
	if c.IsZero() {
		c = M(0.01, pnl.Currency())
	}
	switch {
	case pnl.GreaterThan(c.Mul(Q(5))):
		return GradeAPlus
	case pnl.GreaterThan(c.Mul(Q(3))):
		return GradeA
	case pnl.GreaterThan(c):
		return GradeB
	case pnl.IsPositive():
		return GradeC
	case pnl.GreaterThanOrEqual(c.Neg()):
		return GradeD
	default:
		return GradeF
	}
}

// Stats aggregates the closed-trade P&L stream into win/loss statistics.
//
// A trade with zero P&L counts as breakeven: it is in Total but is neither
// a win nor a loss. AvgLoss and LargestLoss are negative amounts.
type Stats struct {
	Total     int
	Wins      int
	Losses    int
	Breakeven int

	WinRate Percent

	GrossProfit Money // sum of positive P&L
	GrossLoss   Money // sum of negative P&L (negative)
	AvgWin      Money
	AvgLoss     Money
	LargestWin  Money
	LargestLoss Money
	Realized    Money // net sum over all closed trades

	// ProfitFactor is GrossProfit / |GrossLoss|, Undefined with no losses.
	ProfitFactor Ratio
	// RiskReward is AvgWin / |AvgLoss|, Undefined with no losses.
	RiskReward Ratio
	// Expectancy is WinRate*AvgWin + (1-WinRate)*AvgLoss, per-trade.
	Expectancy Money

	// FearIndex is the share of wins below 30% of the average win,
	// indicating prematurely cut winners. Zero when there are no wins.
	FearIndex Percent

	Grades map[Grade]int
}

// fearThresholdFactor marks a win as "small" below this share of the average win.
const fearThresholdFactor = 0.30

// NewStats computes win/loss statistics over a set of closed-trade matches.
func NewStats(matches []ClosedTradeMatch) *Stats {
	s := &Stats{Grades: make(map[Grade]int)}
	s.Total = len(matches)
	if s.Total == 0 {
		s.ProfitFactor = UndefinedRatio()
		s.RiskReward = UndefinedRatio()
		return s
	}

	for _, m := range matches {
		pnl := m.Realized
		s.Realized = s.Realized.Add(pnl)
		s.Grades[GradeTrade(pnl, m.Commission)]++
		switch {
		case pnl.IsPositive():
			s.Wins++
			s.GrossProfit = s.GrossProfit.Add(pnl)
			if pnl.GreaterThan(s.LargestWin) {
				s.LargestWin = pnl
			}
		case pnl.IsNegative():
			s.Losses++
			s.GrossLoss = s.GrossLoss.Add(pnl)
			if pnl.LessThan(s.LargestLoss) {
				s.LargestLoss = pnl
			}
		default:
			s.Breakeven++
		}
	}

	winRate := decimal.NewFromInt(int64(s.Wins)).Div(decimal.NewFromInt(int64(s.Total)))
	s.WinRate = Percent(winRate.Mul(decimal.NewFromInt(100)).InexactFloat64())

	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit.Div(Q(int64(s.Wins)))
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss.Div(Q(int64(s.Losses)))
	}

	if s.Losses > 0 {
		s.ProfitFactor = DefinedRatio(s.GrossProfit.ratioOf(s.GrossLoss.Abs()))
		s.RiskReward = DefinedRatio(s.AvgWin.Abs().ratioOf(s.AvgLoss.Abs()))
	} else {
		s.ProfitFactor = UndefinedRatio()
		s.RiskReward = UndefinedRatio()
	}

	// Expectancy = WinRate*AvgWin + (1-WinRate)*AvgLoss, with AvgLoss negative.
	lossRate := decimal.NewFromInt(1).Sub(winRate)
	s.Expectancy = s.AvgWin.Mul(Q(winRate)).Add(s.AvgLoss.Mul(Q(lossRate)))

	if s.Wins > 0 && s.AvgWin.IsPositive() {
		threshold := s.AvgWin.Mul(Q(decimal.NewFromFloat(fearThresholdFactor)))
		smallWins := 0
		for _, m := range matches {
			if m.Realized.IsPositive() && m.Realized.LessThan(threshold) {
				smallWins++
			}
		}
		s.FearIndex = Percent(float64(smallWins) / float64(s.Wins) * 100)
	}

	return s
}
