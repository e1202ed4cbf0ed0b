package tradefolio

import "fmt"

// WarningKind classifies the non-fatal data problems the pipeline can hit.
// No warning aborts a run; the worst outcome is a reduced result set.
type WarningKind string

const (
	// MalformedRow is an input row with a missing or unparseable required field.
	MalformedRow WarningKind = "malformed-row"
	// OversoldPosition is a sell whose quantity exceeds all open lots for the symbol.
	OversoldPosition WarningKind = "oversold-position"
	// PriceUnavailable is a holding whose quote lookup failed or timed out.
	PriceUnavailable WarningKind = "price-unavailable"
)

// Warning is a reportable data-integrity problem attached to a symbol or row.
type Warning struct {
	Kind    WarningKind
	Symbol  string
	Row     int // 1-based source row when applicable, 0 otherwise
	Message string
}

func (w Warning) String() string {
	switch {
	case w.Symbol != "" && w.Row > 0:
		return fmt.Sprintf("%s: %s (row %d): %s", w.Kind, w.Symbol, w.Row, w.Message)
	case w.Symbol != "":
		return fmt.Sprintf("%s: %s: %s", w.Kind, w.Symbol, w.Message)
	case w.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", w.Kind, w.Row, w.Message)
	default:
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
}
