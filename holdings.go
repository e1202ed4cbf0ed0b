package tradefolio

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tradefolio/tradefolio/date"
)

// PriceState tells whether a holding could be marked to market.
type PriceState int

const (
	Priced PriceState = iota
	Unpriced
)

// Holding is one open position valued at current market price. When the
// quote lookup failed, State is Unpriced and the market-dependent fields
// (MarketValue, Unrealized, Weight) are zero and must not be read.
type Holding struct {
	Symbol      string
	Quantity    Quantity
	AverageCost Money     // commission-inclusive weighted average
	CostBasis   Money
	Since       date.Date // buy day of the oldest remaining lot

	State         PriceState
	Price         Money
	MarketValue   Money
	Unrealized    Money   // MarketValue - CostBasis
	UnrealizedPct Percent // relative to cost basis
	Weight        Percent // share of total priced market value
	Sector        string
}

// SectorAllocation is the aggregated market value of the priced holdings
// sharing one sector tag.
type SectorAllocation struct {
	Sector string
	Value  Money
	Weight Percent
}

// Concentration warning thresholds, in percent of priced market value.
const (
	singlePositionConcentration = 50
	topFiveConcentration        = 70
	singleSectorConcentration   = 30
)

// HoldingReport values every open position left after matching.
//
// Totals and weights are computed over the priced holdings only; a symbol
// with an unavailable price is listed but excluded from every denominator,
// so the report degrades instead of silently misstating exposure.
type HoldingReport struct {
	Holdings []Holding // sorted by descending market value, unpriced last
	Sectors  []SectorAllocation

	TotalCostBasis   Money // priced holdings only
	TotalMarketValue Money
	TotalUnrealized  Money

	TopFiveShare   Percent
	TopSectorShare Percent

	Warnings []Warning // one PriceUnavailable warning per failed symbol
}

// NewHoldingReport fetches quotes for all open symbols in one provider call
// and builds the valuation. The provider error is only fatal when nothing at
// all could be fetched; a partial quote map yields a partial report.
func NewHoldingReport(ctx context.Context, r *MatchResult, provider QuoteProvider) (*HoldingReport, error) {
	var symbols []string
	for symbol := range r.OpenSymbols() {
		symbols = append(symbols, symbol)
	}

	report := &HoldingReport{}
	if len(symbols) == 0 {
		return report, nil
	}

	quotes, err := provider.Fetch(ctx, symbols)
	if err != nil && len(quotes) == 0 {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}

	for _, symbol := range symbols {
		h := Holding{
			Symbol:      symbol,
			Quantity:    r.OpenQuantity(symbol),
			AverageCost: r.AverageCost(symbol),
			CostBasis:   r.CostBasis(symbol),
			Since:       r.OpenedSince(symbol),
		}
		quote, ok := quotes[symbol]
		if !ok || !quote.Price.IsPositive() {
			h.State = Unpriced
			report.Warnings = append(report.Warnings, Warning{
				Kind:    PriceUnavailable,
				Symbol:  symbol,
				Message: "no current price; excluded from totals",
			})
			report.Holdings = append(report.Holdings, h)
			continue
		}
		h.Price = quote.Price
		h.Sector = quote.Sector
		h.MarketValue = quote.Price.Mul(h.Quantity)
		h.Unrealized = h.MarketValue.Sub(h.CostBasis)
		if h.CostBasis.IsPositive() {
			h.UnrealizedPct = Percent(h.Unrealized.ratioOf(h.CostBasis).InexactFloat64() * 100)
		}
		report.TotalCostBasis = report.TotalCostBasis.Add(h.CostBasis)
		report.TotalMarketValue = report.TotalMarketValue.Add(h.MarketValue)
		report.Holdings = append(report.Holdings, h)
	}
	report.TotalUnrealized = report.TotalMarketValue.Sub(report.TotalCostBasis)

	report.weigh()
	report.allocate()
	return report, nil
}

// weigh fills per-holding portfolio weights and sorts the slice by
// descending market value, unpriced holdings last in symbol order.
func (hr *HoldingReport) weigh() {
	if hr.TotalMarketValue.IsPositive() {
		for i := range hr.Holdings {
			h := &hr.Holdings[i]
			if h.State != Priced {
				continue
			}
			h.Weight = Percent(h.MarketValue.ratioOf(hr.TotalMarketValue).InexactFloat64() * 100)
		}
	}
	sort.SliceStable(hr.Holdings, func(i, j int) bool {
		a, b := hr.Holdings[i], hr.Holdings[j]
		if (a.State == Priced) != (b.State == Priced) {
			return a.State == Priced
		}
		if !a.MarketValue.Equal(b.MarketValue) {
			return a.MarketValue.GreaterThan(b.MarketValue)
		}
		return a.Symbol < b.Symbol
	})

	var topFive decimal.Decimal
	for i, h := range hr.Holdings {
		if i >= 5 || h.State != Priced {
			break
		}
		topFive = topFive.Add(decimal.NewFromFloat(float64(h.Weight)))
	}
	hr.TopFiveShare = Percent(topFive.InexactFloat64())
}

// allocate aggregates priced holdings by sector. Holdings with no sector
// tag fall into "Unknown".
func (hr *HoldingReport) allocate() {
	values := make(map[string]Money)
	for _, h := range hr.Holdings {
		if h.State != Priced {
			continue
		}
		sector := h.Sector
		if sector == "" {
			sector = "Unknown"
		}
		values[sector] = values[sector].Add(h.MarketValue)
	}
	for sector, value := range values {
		a := SectorAllocation{Sector: sector, Value: value}
		if hr.TotalMarketValue.IsPositive() {
			a.Weight = Percent(value.ratioOf(hr.TotalMarketValue).InexactFloat64() * 100)
		}
		hr.Sectors = append(hr.Sectors, a)
	}
	sort.Slice(hr.Sectors, func(i, j int) bool {
		a, b := hr.Sectors[i], hr.Sectors[j]
		if !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return a.Sector < b.Sector
	})
	if len(hr.Sectors) > 0 {
		hr.TopSectorShare = hr.Sectors[0].Weight
	}
}

// ConcentrationWarnings lists the threshold breaches of the current
// allocation: any single position above 50% of market value, the top five
// above 70%, or any single sector above 30%.
func (hr *HoldingReport) ConcentrationWarnings() []string {
	var warnings []string
	for _, h := range hr.Holdings {
		if h.State == Priced && h.Weight > singlePositionConcentration {
			warnings = append(warnings, fmt.Sprintf("%s is %s of the portfolio (above %d%%)", h.Symbol, h.Weight, singlePositionConcentration))
		}
	}
	if len(hr.Holdings) > 5 && hr.TopFiveShare > topFiveConcentration {
		warnings = append(warnings, fmt.Sprintf("top 5 positions hold %s of the portfolio (above %d%%)", hr.TopFiveShare, topFiveConcentration))
	}
	for _, s := range hr.Sectors {
		if s.Sector != "Unknown" && s.Weight > singleSectorConcentration {
			warnings = append(warnings, fmt.Sprintf("sector %s is %s of the portfolio (above %d%%)", s.Sector, s.Weight, singleSectorConcentration))
		}
	}
	return warnings
}
