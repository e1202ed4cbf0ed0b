package tradefolio

import (
	"testing"
	"time"
)

func testLot(qty, costPerShare, feePerShare float64) lot {
	return lot{
		openedAt:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		quantity:     Q(qty),
		costPerShare: M(costPerShare, "USD"),
		feePerShare:  M(feePerShare, "USD"),
	}
}

func TestLots_Consume(t *testing.T) {
	testCases := []struct {
		name          string
		queue         lots
		sell          float64
		wantRemaining float64
		wantConsumed  float64
		wantExcess    float64
	}{
		{
			name:          "partial front lot",
			queue:         lots{testLot(100, 150, 0.0035), testLot(100, 160, 0.007)},
			sell:          40,
			wantRemaining: 160,
			wantConsumed:  40,
			wantExcess:    0,
		},
		{
			name:          "exactly one lot",
			queue:         lots{testLot(100, 150, 0.0035), testLot(100, 160, 0.007)},
			sell:          100,
			wantRemaining: 100,
			wantConsumed:  100,
			wantExcess:    0,
		},
		{
			name:          "spanning two lots",
			queue:         lots{testLot(100, 150, 0.0035), testLot(100, 160, 0.007)},
			sell:          150,
			wantRemaining: 50,
			wantConsumed:  150,
			wantExcess:    0,
		},
		{
			name:          "oversell",
			queue:         lots{testLot(100, 150, 0.0035)},
			sell:          120,
			wantRemaining: 0,
			wantConsumed:  100,
			wantExcess:    20,
		},
		{
			name:          "empty queue",
			queue:         nil,
			sell:          10,
			wantRemaining: 0,
			wantConsumed:  0,
			wantExcess:    10,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			remaining, consumed, excess := tc.queue.consume(Q(tc.sell))
			if got := remaining.totalQuantity(); !got.Equal(Q(tc.wantRemaining)) {
				t.Errorf("remaining = %s, want %v", got, tc.wantRemaining)
			}
			if got := consumed.totalQuantity(); !got.Equal(Q(tc.wantConsumed)) {
				t.Errorf("consumed = %s, want %v", got, tc.wantConsumed)
			}
			if !excess.Equal(Q(tc.wantExcess)) {
				t.Errorf("excess = %s, want %v", excess, tc.wantExcess)
			}
		})
	}
}

func TestLots_ConsumeIsFIFO(t *testing.T) {
	queue := lots{testLot(100, 150, 0), testLot(100, 160, 0)}
	_, consumed, _ := queue.consume(Q(120))

	if len(consumed) != 2 {
		t.Fatalf("consumed %d lots, want 2", len(consumed))
	}
	if !consumed[0].costPerShare.Equal(M(150, "USD")) {
		t.Errorf("first consumed lot cost = %s, want the oldest (150)", consumed[0].costPerShare)
	}
	if !consumed[1].quantity.Equal(Q(20)) {
		t.Errorf("second consumed slice quantity = %s, want 20", consumed[1].quantity)
	}
}

func TestLots_AverageCost(t *testing.T) {
	queue := lots{testLot(50, 150.0035, 0.0035), testLot(50, 160.007, 0.007)}

	// (50*150.0035 + 50*160.007) / 100
	want := M(155.00525, "USD")
	if got := queue.averageCost(); !got.Amount().Equal(want.Amount()) {
		t.Errorf("averageCost() = %s, want %s", got.Amount(), want.Amount())
	}

	if got := lots(nil).averageCost(); !got.IsZero() {
		t.Errorf("averageCost() on empty lots = %s, want zero", got)
	}
}

func TestLots_WeightedCost(t *testing.T) {
	queue := lots{testLot(100, 150.0035, 0.0035), testLot(50, 160.007, 0.007)}
	costPerShare, entryFee := queue.weightedCost()

	// (100*150.0035 + 50*160.007) / 150
	if got := costPerShare.Amount().InexactFloat64(); got < 153.33 || got > 153.34 {
		t.Errorf("weightedCost() cost = %v, want ~153.338", got)
	}
	// 100*0.0035 + 50*0.007
	if !entryFee.Equal(M(0.70, "USD")) {
		t.Errorf("weightedCost() entryFee = %s, want 0.70", entryFee)
	}
}
