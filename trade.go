package tradefolio

import (
	"fmt"
	"strings"
	"time"

	"github.com/tradefolio/tradefolio/date"
)

// Side tags a trade row as a purchase or a sale.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "unknown"
	}
}

// ParseSide parses a side tag as found in broker exports.
func ParseSide(str string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "BUY", "B":
		return Buy, nil
	case "SELL", "S":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", str)
	}
}

// Trade is a single normalized execution (one fill). Immutable once built.
//
// Quantity is signed: positive for buys, negative for sells. Commission is
// a cost and therefore non-positive. Realized is the broker-reported FIFO
// realized P&L of the row, already net of entry and exit commissions; it is
// zero on rows that closed nothing.
type Trade struct {
	Symbol     string
	Time       time.Time // execution timestamp; midnight when the source had no time of day
	Quantity   Quantity
	Price      Money
	Commission Money
	Realized   Money
	Side       Side

	row int // original file row, tie-breaker for equal timestamps
}

// Day returns the calendar day of the execution.
func (t Trade) Day() date.Date { return date.FromTime(t.Time) }

// Row returns the 1-based row of the source file this trade came from.
func (t Trade) Row() int { return t.row }

// Validate checks the invariants of a normalized trade.
func (t Trade) Validate() error {
	if t.Symbol == "" {
		return fmt.Errorf("missing symbol")
	}
	if t.Time.IsZero() {
		return fmt.Errorf("missing trade date")
	}
	if t.Quantity.IsZero() {
		return fmt.Errorf("quantity must be nonzero")
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", t.Price)
	}
	if t.Commission.IsPositive() {
		return fmt.Errorf("commission must be a cost (non-positive), got %s", t.Commission)
	}
	switch t.Side {
	case Buy:
		if t.Quantity.IsNegative() {
			return fmt.Errorf("buy row with negative quantity %s", t.Quantity)
		}
	case Sell:
		if t.Quantity.IsPositive() {
			return fmt.Errorf("sell row with positive quantity %s", t.Quantity)
		}
	}
	return nil
}
