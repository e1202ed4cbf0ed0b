package tradefolio

import (
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/tradefolio/tradefolio/date"
)

// Ledger is the normalized, chronologically ordered sequence of trades for
// one analysis run. Trades are read-only once the ledger is built; every
// derived figure is recomputed from scratch on demand.
//
// The sort is stable: rows with equal timestamps keep their original file
// order, which the FIFO matcher depends on.
type Ledger struct {
	trades  []Trade
	skipped []Warning // rows dropped during normalization
}

// NewLedger builds a ledger from already-normalized trades.
func NewLedger(trades ...Trade) *Ledger {
	l := &Ledger{trades: slices.Clone(trades)}
	l.stableSort()
	return l
}

// stableSort sorts trades by timestamp; equal timestamps keep file order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.trades, func(i, j int) bool {
		return l.trades[i].Time.Before(l.trades[j].Time)
	})
}

// Len returns the number of trade rows in the ledger.
func (l *Ledger) Len() int { return len(l.trades) }

// Skipped returns the rows dropped during normalization.
func (l *Ledger) Skipped() []Warning { return l.skipped }

// Trades returns an iterator over all trades in chronological order.
func (l *Ledger) Trades() iter.Seq2[int, Trade] {
	return func(yield func(int, Trade) bool) {
		for i, t := range l.trades {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Symbols iterates over the distinct symbols of the ledger, sorted.
func (l *Ledger) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, t := range l.trades {
			visited[t.Symbol] = struct{}{}
		}
		symbols := slices.Collect(maps.Keys(visited))
		slices.Sort(symbols)
		for _, s := range symbols {
			if !yield(s) {
				return
			}
		}
	}
}

// SymbolTrades iterates over the trades of one symbol in chronological order.
func (l *Ledger) SymbolTrades(symbol string) iter.Seq[Trade] {
	return func(yield func(Trade) bool) {
		for _, t := range l.trades {
			if t.Symbol != symbol {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Position returns the signed net quantity held for a symbol, summed over
// every trade to date.
func (l *Ledger) Position(symbol string) Quantity {
	var position Quantity
	for t := range l.SymbolTrades(symbol) {
		position = position.Add(t.Quantity)
	}
	return position
}

// TotalRealized sums the realized P&L field over every row. Rows that closed
// nothing contribute zero, so this equals the sum over closed trades.
func (l *Ledger) TotalRealized() Money {
	var total Money
	for _, t := range l.trades {
		total = total.Add(t.Realized)
	}
	return total
}

// TotalCommission sums the (non-positive) commission over every row,
// including opening rows that never closed a trade.
func (l *Ledger) TotalCommission() Money {
	var total Money
	for _, t := range l.trades {
		total = total.Add(t.Commission)
	}
	return total
}

// Filter returns a new ledger restricted to a date range and, when symbols
// is non-empty, to the given symbols. Filtering happens before matching and
// aggregation; the original ledger is untouched.
func (l *Ledger) Filter(r date.Range, symbols []string) *Ledger {
	keep := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		keep[s] = struct{}{}
	}
	filtered := &Ledger{skipped: l.skipped}
	for _, t := range l.trades {
		if !r.Contains(t.Day()) {
			continue
		}
		if len(keep) > 0 {
			if _, ok := keep[t.Symbol]; !ok {
				continue
			}
		}
		filtered.trades = append(filtered.trades, t)
	}
	// already sorted: filtering preserves order
	return filtered
}

// OldestTradeDate returns the date of the earliest trade, or the zero date
// for an empty ledger.
func (l *Ledger) OldestTradeDate() date.Date {
	if len(l.trades) == 0 {
		return date.Date{}
	}
	return l.trades[0].Day()
}

// NewestTradeDate returns the date of the latest trade, or the zero date
// for an empty ledger.
func (l *Ledger) NewestTradeDate() date.Date {
	if len(l.trades) == 0 {
		return date.Date{}
	}
	return l.trades[len(l.trades)-1].Day()
}

// Currency returns the ledger's currency, taken from the first row that has
// one. Single-currency ledgers only; mixed currencies fail normalization.
func (l *Ledger) Currency() string {
	for _, t := range l.trades {
		if c := t.Price.Currency(); c != "" {
			return c
		}
	}
	return ""
}
