package tradefolio

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/tradefolio/tradefolio/date"
)

// ClosedTradeMatch is the result of one sell consuming one or more lots.
// Realized P&L is taken from the sell row itself, which is authoritative
// and already net of entry and exit commissions; lot costs are only used
// for the cost basis of what remains open.
type ClosedTradeMatch struct {
	Symbol    string
	Time      time.Time
	Quantity  Quantity // shares closed by this sell
	EntryCost Money    // quantity-weighted per-share cost of the consumed lots
	ExitPrice Money
	Realized  Money
	// Commission is the total commission magnitude attributable to the round
	// trip: the sell row's own commission plus the amortized entry commission
	// of the consumed lots. Used for grading.
	Commission Money

	row int
}

// Day returns the calendar day the trade was closed.
func (m ClosedTradeMatch) Day() date.Date { return date.FromTime(m.Time) }

// MatchResult is the output of one FIFO matching pass over a ledger:
// the closed-trade events in chronological order, the remaining open lots
// per symbol, and any data-integrity warnings hit along the way.
type MatchResult struct {
	Matches  []ClosedTradeMatch
	Warnings []Warning

	open     map[string]lots
	currency string
}

// Match runs the FIFO lot matcher over every symbol of the ledger.
//
// Each symbol's lot queue is independent; processing is per symbol in
// sorted order so the output is deterministic. Within one symbol trades
// are consumed strictly in ledger (chronological) order.
func Match(l *Ledger) *MatchResult {
	r := &MatchResult{
		open:     make(map[string]lots),
		currency: l.Currency(),
	}
	for symbol := range l.Symbols() {
		r.matchSymbol(symbol, l.SymbolTrades(symbol))
	}
	// Per-symbol passes emit in symbol order; restore global chronology.
	sort.SliceStable(r.Matches, func(i, j int) bool {
		return r.Matches[i].Time.Before(r.Matches[j].Time)
	})
	return r
}

// matchSymbol consumes one symbol's trades in time order, maintaining the
// symbol's FIFO lot queue and emitting a ClosedTradeMatch for every sell
// that carries a nonzero realized P&L.
func (r *MatchResult) matchSymbol(symbol string, trades iter.Seq[Trade]) {
	var queue lots
	for t := range trades {
		if t.Quantity.IsPositive() {
			// Buy: push a lot carrying cost and fee amortized per share.
			queue = append(queue, lot{
				openedAt:     t.Time,
				quantity:     t.Quantity,
				costPerShare: t.Price.Add(t.Commission.Abs().Div(t.Quantity)),
				feePerShare:  t.Commission.Abs().Div(t.Quantity),
			})
			continue
		}

		// Sell: consume lots oldest-first.
		sellQty := t.Quantity.Abs()
		remaining, consumed, excess := queue.consume(sellQty)
		queue = remaining
		if excess.IsPositive() {
			// More shares sold than ever bought: prior short or data gap.
			// The queue is exhausted and the excess goes unmatched.
			r.Warnings = append(r.Warnings, Warning{
				Kind:    OversoldPosition,
				Symbol:  symbol,
				Row:     t.row,
				Message: fmt.Sprintf("sell of %s exceeds open lots by %s", sellQty, excess),
			})
		}

		// A zero-P&L sell (break-even or non-P&L-bearing adjustment) still
		// consumes lots for cost-basis purposes but closes nothing.
		if t.Realized.IsZero() {
			continue
		}

		entryCost, entryFee := consumed.weightedCost()
		closedQty := sellQty.Sub(excess)
		r.Matches = append(r.Matches, ClosedTradeMatch{
			Symbol:     symbol,
			Time:       t.Time,
			Quantity:   closedQty,
			EntryCost:  entryCost,
			ExitPrice:  t.Price,
			Realized:   t.Realized,
			Commission: t.Commission.Abs().Add(entryFee),
			row:        t.row,
		})
	}
	if len(queue) > 0 {
		r.open[symbol] = queue
	}
}

// OpenSymbols iterates, sorted, over the symbols that still hold an open
// long position after matching.
func (r *MatchResult) OpenSymbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		symbols := make([]string, 0, len(r.open))
		for symbol, queue := range r.open {
			if queue.totalQuantity().IsOpen() {
				symbols = append(symbols, symbol)
			}
		}
		slices.Sort(symbols)
		for _, s := range symbols {
			if !yield(s) {
				return
			}
		}
	}
}

// OpenQuantity returns the total remaining lot quantity for a symbol.
func (r *MatchResult) OpenQuantity(symbol string) Quantity {
	return r.open[symbol].totalQuantity()
}

// OpenedSince returns the buy day of the oldest remaining lot for a symbol,
// the zero Date when nothing is open. FIFO keeps the oldest lot at the front,
// so a partially consumed position still reports its original entry day.
func (r *MatchResult) OpenedSince(symbol string) date.Date {
	queue := r.open[symbol]
	if len(queue) == 0 {
		return date.Date{}
	}
	return date.FromTime(queue[0].openedAt)
}

// AverageCost returns the commission-inclusive weighted average cost of the
// remaining lots for a symbol, zero when nothing is open.
func (r *MatchResult) AverageCost(symbol string) Money {
	return r.open[symbol].averageCost()
}

// CostBasis returns quantity times average cost for a symbol's open lots.
func (r *MatchResult) CostBasis(symbol string) Money {
	return r.open[symbol].costBasis()
}

// TotalRealized sums realized P&L over all matches. By construction it
// equals the ledger's sum of nonzero realized rows (accounting identity).
func (r *MatchResult) TotalRealized() Money {
	var total Money
	for _, m := range r.Matches {
		total = total.Add(m.Realized)
	}
	return total
}
