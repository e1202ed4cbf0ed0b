package tradefolio

import (
	"testing"
	"time"
)

func TestNewEquityCurve_Drawdown(t *testing.T) {
	// Equity path: 500, 1000, 2000, 800, 1500.
	// Peak 2000, trough 800: max drawdown 1200 (60%), never recovered.
	c := NewEquityCurve([]ClosedTradeMatch{
		match("2024-01-02", "AAPL", 500, -1),
		match("2024-01-03", "AAPL", 500, -1),
		match("2024-01-04", "AAPL", 1000, -1),
		match("2024-01-05", "AAPL", -1200, -1),
		match("2024-01-08", "AAPL", 700, -1),
	})

	if len(c.Points) != 5 {
		t.Fatalf("got %d points, want 5", len(c.Points))
	}
	if got := c.Points[4].Equity; !got.Equal(M(1500, "USD")) {
		t.Errorf("final equity = %s, want 1500", got)
	}
	if !c.MaxDrawdown.Equal(M(1200, "USD")) {
		t.Errorf("MaxDrawdown = %s, want 1200", c.MaxDrawdown)
	}
	if !c.MaxDrawdownPct.Equal(Percent(60)) {
		t.Errorf("MaxDrawdownPct = %s, want 60%%", c.MaxDrawdownPct)
	}
	// Peak at index 2, no recovery: duration runs to the series end.
	if c.DrawdownDuration != 2 {
		t.Errorf("DrawdownDuration = %d, want 2", c.DrawdownDuration)
	}
}

func TestNewEquityCurve_DrawdownRecovery(t *testing.T) {
	// Peak at index 0, trough at 1, recovered at 2.
	c := NewEquityCurve([]ClosedTradeMatch{
		match("2024-01-02", "AAPL", 1000, -1),
		match("2024-01-03", "AAPL", -400, -1),
		match("2024-01-04", "AAPL", 500, -1),
		match("2024-01-05", "AAPL", -100, -1),
	})

	if !c.MaxDrawdown.Equal(M(400, "USD")) {
		t.Errorf("MaxDrawdown = %s, want 400", c.MaxDrawdown)
	}
	if c.DrawdownDuration != 2 {
		t.Errorf("DrawdownDuration = %d, want 2 (peak to recovery)", c.DrawdownDuration)
	}
}

func TestNewEquityCurve_Streaks(t *testing.T) {
	testCases := []struct {
		name     string
		pnl      []float64
		wantWin  int
		wantLoss int
	}{
		{name: "mixed", pnl: []float64{100, 100, 100, -50, -50, 100}, wantWin: 3, wantLoss: 2},
		{name: "all wins", pnl: []float64{100, 100}, wantWin: 2, wantLoss: 0},
		{name: "all losses", pnl: []float64{-100, -100, -100}, wantWin: 0, wantLoss: 3},
		{name: "zero breaks both", pnl: []float64{100, 100, 0, 100, -50}, wantWin: 2, wantLoss: 1},
		{name: "empty", pnl: nil, wantWin: 0, wantLoss: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var matches []ClosedTradeMatch
			day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
			for i, pnl := range tc.pnl {
				m := match(day.AddDate(0, 0, i).Format("2006-01-02"), "AAPL", pnl, -1)
				matches = append(matches, m)
			}
			c := NewEquityCurve(matches)
			if c.MaxWinStreak != tc.wantWin {
				t.Errorf("MaxWinStreak = %d, want %d", c.MaxWinStreak, tc.wantWin)
			}
			if c.MaxLossStreak != tc.wantLoss {
				t.Errorf("MaxLossStreak = %d, want %d", c.MaxLossStreak, tc.wantLoss)
			}
		})
	}
}

func TestNewEquityCurve_NegativeStart(t *testing.T) {
	// Equity goes negative immediately; the peak stays at the zero start, so
	// the drawdown is the full loss and the percentage is meaningless (0).
	c := NewEquityCurve([]ClosedTradeMatch{
		match("2024-01-02", "AAPL", -300, -1),
	})
	if !c.MaxDrawdown.Equal(M(300, "USD")) {
		t.Errorf("MaxDrawdown = %s, want 300", c.MaxDrawdown)
	}
	if !c.MaxDrawdownPct.Equal(0) {
		t.Errorf("MaxDrawdownPct = %s, want 0 with a non-positive peak", c.MaxDrawdownPct)
	}
}

func TestEquityCurve_Daily(t *testing.T) {
	// Three fills on the same day collapse to the day's last equity and
	// worst drawdown.
	mk := func(ts string, pnl float64) ClosedTradeMatch {
		when, err := time.ParseInLocation("2006-01-02 15:04:05", ts, time.UTC)
		if err != nil {
			t.Fatalf("bad timestamp: %v", err)
		}
		return ClosedTradeMatch{Symbol: "AAPL", Time: when, Realized: M(pnl, "USD")}
	}
	c := NewEquityCurve([]ClosedTradeMatch{
		mk("2024-01-02 09:31:00", 1000),
		mk("2024-01-02 11:05:00", -600),
		mk("2024-01-02 15:55:00", 200),
		mk("2024-01-03 10:00:00", 100),
	})

	daily := c.Daily()
	if len(daily) != 2 {
		t.Fatalf("got %d daily points, want 2", len(daily))
	}
	if !daily[0].Equity.Equal(M(600, "USD")) {
		t.Errorf("day 1 equity = %s, want 600 (last fill of the day)", daily[0].Equity)
	}
	if !daily[0].Drawdown.Equal(M(600, "USD")) {
		t.Errorf("day 1 drawdown = %s, want 600 (worst of the day)", daily[0].Drawdown)
	}
	if !daily[1].Equity.Equal(M(700, "USD")) {
		t.Errorf("day 2 equity = %s, want 700", daily[1].Equity)
	}
}

func TestNewEquityCurve_Empty(t *testing.T) {
	c := NewEquityCurve(nil)
	if len(c.Points) != 0 || !c.MaxDrawdown.IsZero() || c.DrawdownDuration != 0 {
		t.Errorf("empty curve = %+v, want all zero", c)
	}
	if len(c.Daily()) != 0 {
		t.Errorf("Daily() on empty curve should be empty")
	}
}
