package tradefolio

import (
	"testing"
	"time"
)

func TestParseSide(t *testing.T) {
	testCases := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{in: "BUY", want: Buy},
		{in: "buy", want: Buy},
		{in: "B", want: Buy},
		{in: " SELL ", want: Sell},
		{in: "s", want: Sell},
		{in: "HOLD", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSide(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseSide(%q) = %s, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSide(%q) failed: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseSide(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestTrade_Validate(t *testing.T) {
	valid := Trade{
		Symbol:     "AAPL",
		Time:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Quantity:   Q(10),
		Price:      M(100, "USD"),
		Commission: M(-1, "USD"),
		Side:       Buy,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid trade rejected: %v", err)
	}

	testCases := []struct {
		name   string
		mutate func(*Trade)
	}{
		{name: "missing symbol", mutate: func(tr *Trade) { tr.Symbol = "" }},
		{name: "missing date", mutate: func(tr *Trade) { tr.Time = time.Time{} }},
		{name: "zero quantity", mutate: func(tr *Trade) { tr.Quantity = Q(0) }},
		{name: "zero price", mutate: func(tr *Trade) { tr.Price = M(0, "USD") }},
		{name: "negative price", mutate: func(tr *Trade) { tr.Price = M(-5, "USD") }},
		{name: "positive commission", mutate: func(tr *Trade) { tr.Commission = M(1, "USD") }},
		{name: "buy with negative quantity", mutate: func(tr *Trade) { tr.Quantity = Q(-10) }},
		{name: "sell with positive quantity", mutate: func(tr *Trade) { tr.Side = Sell }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := valid
			tc.mutate(&tr)
			if err := tr.Validate(); err == nil {
				t.Errorf("Validate() accepted an invalid trade: %+v", tr)
			}
		})
	}
}
