package tradefolio

import "github.com/shopspring/decimal"

// Ratio is the result of a division that may have had a zero denominator.
// Profit factor with no losing trades, or risk/reward with no losses, are
// Undefined rather than +Inf, so downstream comparisons stay safe.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// DefinedRatio wraps a computed ratio value.
func DefinedRatio(v decimal.Decimal) Ratio { return Ratio{value: v, defined: true} }

// UndefinedRatio is the sentinel for a ratio with a zero denominator.
func UndefinedRatio() Ratio { return Ratio{} }

// Defined reports whether the ratio carries a value.
func (r Ratio) Defined() bool { return r.defined }

// Value returns the ratio value; zero when undefined.
func (r Ratio) Value() decimal.Decimal { return r.value }

// InexactFloat64 returns the closest float64 of the value; only for presentation.
func (r Ratio) InexactFloat64() float64 { return r.value.InexactFloat64() }

// GreaterThan reports whether the ratio is defined and greater than x.
// An undefined ratio (no losses at all) compares as greater than anything.
func (r Ratio) GreaterThan(x float64) bool {
	if !r.defined {
		return true
	}
	return r.value.GreaterThan(decimal.NewFromFloat(x))
}

// LessThan reports whether the ratio is defined and less than x.
func (r Ratio) LessThan(x float64) bool {
	if !r.defined {
		return false
	}
	return r.value.LessThan(decimal.NewFromFloat(x))
}

func (r Ratio) String() string {
	if !r.defined {
		return "∞"
	}
	return r.value.Round(2).String()
}
