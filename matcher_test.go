package tradefolio

import (
	"testing"
	"time"

	"github.com/tradefolio/tradefolio/date"
)

func TestMatch_CommissionInclusiveCostBasis(t *testing.T) {
	// Buy 100 @ 150 (0.35 fee), sell 50, then buy 50 @ 160 (0.35 fee).
	// The remaining 100 shares are 50 @ 150.0035 and 50 @ 160.007.
	l := NewLedger(
		trade(t, 1, "2024-01-02", "AAPL", 100, 150, -0.35, 0),
		trade(t, 2, "2024-01-10", "AAPL", -50, 155, -0.35, 247.12),
		trade(t, 3, "2024-01-15", "AAPL", 50, 160, -0.35, 0),
	)
	r := Match(l)

	if got := r.OpenQuantity("AAPL"); !got.Equal(Q(100)) {
		t.Fatalf("OpenQuantity() = %s, want 100", got)
	}
	want := M(155.00525, "USD")
	if got := r.AverageCost("AAPL"); !got.Amount().Equal(want.Amount()) {
		t.Errorf("AverageCost() = %s, want %s", got.Amount(), want.Amount())
	}
	if got := r.CostBasis("AAPL"); !got.Amount().Equal(M(15500.525, "USD").Amount()) {
		t.Errorf("CostBasis() = %s, want 15500.525", got.Amount())
	}
}

func TestMatch_RealizedComesFromTheRow(t *testing.T) {
	// The realized figure on the sell row is authoritative; the matcher must
	// report it untouched, not recompute it from lot costs.
	l := NewLedger(
		trade(t, 1, "2024-01-02", "AAPL", 10, 100, -1, 0),
		trade(t, 2, "2024-01-10", "AAPL", -10, 110, -1, 98),
	)
	r := Match(l)

	if len(r.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(r.Matches))
	}
	m := r.Matches[0]
	if !m.Realized.Equal(M(98, "USD")) {
		t.Errorf("Realized = %s, want 98", m.Realized)
	}
	if !m.Quantity.Equal(Q(10)) {
		t.Errorf("Quantity = %s, want 10", m.Quantity)
	}
	// Round-trip commission: 1 exit + 1 amortized entry.
	if !m.Commission.Equal(M(2, "USD")) {
		t.Errorf("Commission = %s, want 2", m.Commission)
	}
	if !m.ExitPrice.Equal(M(110, "USD")) {
		t.Errorf("ExitPrice = %s, want 110", m.ExitPrice)
	}
}

func TestMatch_AccountingIdentity(t *testing.T) {
	// The sum of matched realized P&L equals the ledger's own sum.
	l := NewLedger(
		trade(t, 1, "2024-01-02", "AAPL", 100, 150, -0.35, 0),
		trade(t, 2, "2024-01-05", "MSFT", 50, 200, -0.5, 0),
		trade(t, 3, "2024-01-10", "AAPL", -60, 155, -0.35, 290),
		trade(t, 4, "2024-01-12", "MSFT", -50, 195, -0.5, -251),
		trade(t, 5, "2024-01-20", "AAPL", -40, 158, -0.35, 310.5),
	)
	r := Match(l)

	if got, want := r.TotalRealized(), l.TotalRealized(); !got.Equal(want) {
		t.Errorf("TotalRealized() = %s, ledger says %s", got, want)
	}
}

func TestMatch_ChronologicalAcrossSymbols(t *testing.T) {
	l := NewLedger(
		trade(t, 1, "2024-01-02", "MSFT", 10, 200, -1, 0),
		trade(t, 2, "2024-01-03", "AAPL", 10, 100, -1, 0),
		trade(t, 3, "2024-01-04", "MSFT", -10, 210, -1, 98),
		trade(t, 4, "2024-01-05", "AAPL", -10, 110, -1, 98),
	)
	r := Match(l)

	if len(r.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(r.Matches))
	}
	if r.Matches[0].Symbol != "MSFT" || r.Matches[1].Symbol != "AAPL" {
		t.Errorf("matches out of chronological order: %s then %s",
			r.Matches[0].Symbol, r.Matches[1].Symbol)
	}
}

func TestMatch_OversoldPosition(t *testing.T) {
	l := NewLedger(
		trade(t, 1, "2024-01-02", "AAPL", 50, 100, -1, 0),
		trade(t, 2, "2024-01-10", "AAPL", -80, 110, -1, 300),
	)
	r := Match(l)

	if len(r.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(r.Warnings))
	}
	w := r.Warnings[0]
	if w.Kind != OversoldPosition {
		t.Errorf("warning kind = %s, want %s", w.Kind, OversoldPosition)
	}
	if w.Symbol != "AAPL" || w.Row != 2 {
		t.Errorf("warning = %+v, want symbol AAPL row 2", w)
	}

	// The match still closes what was actually open.
	if len(r.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(r.Matches))
	}
	if got := r.Matches[0].Quantity; !got.Equal(Q(50)) {
		t.Errorf("closed quantity = %s, want 50", got)
	}
	if got := r.OpenQuantity("AAPL"); !got.IsZero() {
		t.Errorf("OpenQuantity() = %s, want 0", got)
	}
}

func TestMatch_ZeroRealizedSellConsumesQuietly(t *testing.T) {
	// A sell with zero realized P&L consumes lots but closes nothing.
	l := NewLedger(
		trade(t, 1, "2024-01-02", "AAPL", 100, 150, -0.35, 0),
		trade(t, 2, "2024-01-10", "AAPL", -40, 150, -0.35, 0),
	)
	r := Match(l)

	if len(r.Matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(r.Matches))
	}
	if got := r.OpenQuantity("AAPL"); !got.Equal(Q(60)) {
		t.Errorf("OpenQuantity() = %s, want 60", got)
	}
}

func TestMatch_OpenSymbols(t *testing.T) {
	l := NewLedger(
		trade(t, 1, "2024-01-02", "MSFT", 10, 200, -1, 0),
		trade(t, 2, "2024-01-03", "AAPL", 10, 100, -1, 0),
		trade(t, 3, "2024-01-04", "TSLA", 10, 300, -1, 0),
		trade(t, 4, "2024-01-05", "TSLA", -10, 310, -1, 98),
	)
	r := Match(l)

	var open []string
	for s := range r.OpenSymbols() {
		open = append(open, s)
	}
	want := []string{"AAPL", "MSFT"} // sorted, TSLA fully closed
	if len(open) != len(want) {
		t.Fatalf("OpenSymbols() = %v, want %v", open, want)
	}
	for i := range want {
		if open[i] != want[i] {
			t.Fatalf("OpenSymbols() = %v, want %v", open, want)
		}
	}
}

func TestMatch_OpenedSince(t *testing.T) {
	// Two buys; a partial sell leaves the first lot in front, a second sell
	// exhausts it and the entry day moves to the remaining lot.
	l := NewLedger(
		trade(t, 1, "2024-01-02", "AAPL", 100, 150, -1, 0),
		trade(t, 2, "2024-01-15", "AAPL", 50, 160, -1, 0),
		trade(t, 3, "2024-02-01", "AAPL", -40, 165, -1, 598),
	)
	r := Match(l)

	if got := r.OpenedSince("AAPL"); got != date.New(2024, time.January, 2) {
		t.Errorf("OpenedSince() = %s, want 2024-01-02 (oldest lot partially consumed)", got)
	}

	l = NewLedger(
		trade(t, 1, "2024-01-02", "AAPL", 100, 150, -1, 0),
		trade(t, 2, "2024-01-15", "AAPL", 50, 160, -1, 0),
		trade(t, 3, "2024-02-01", "AAPL", -100, 165, -1, 1498),
	)
	r = Match(l)

	if got := r.OpenedSince("AAPL"); got != date.New(2024, time.January, 15) {
		t.Errorf("OpenedSince() = %s, want 2024-01-15 (first lot fully consumed)", got)
	}

	if got := r.OpenedSince("MSFT"); !got.IsZero() {
		t.Errorf("OpenedSince() = %s for a symbol never traded, want zero", got)
	}
}
