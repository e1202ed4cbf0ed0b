package renderer

import (
	"fmt"
	"strings"

	"github.com/tradefolio/tradefolio"
)

// HoldingsMarkdown renders the open-position valuation. Positions without a
// current price are listed with their cost basis but marked unavailable.
func HoldingsMarkdown(hr *tradefolio.HoldingReport) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Current Holdings\n\n")
	if len(hr.Holdings) == 0 {
		fmt.Fprint(&b, "No open positions.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Quantity | Since | Avg Cost | Cost Basis | Price | Market Value | Unrealized | Weight |")
	fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|---:|---:|---:|---:|")
	for _, h := range hr.Holdings {
		if h.State == tradefolio.Unpriced {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | n/a | n/a | n/a | n/a |\n",
				h.Symbol, h.Quantity, h.Since, h.AverageCost, h.CostBasis)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s (%s) | %s |\n",
			h.Symbol, h.Quantity, h.Since, h.AverageCost, h.CostBasis,
			h.Price, h.MarketValue, h.Unrealized.SignedString(), h.UnrealizedPct.SignedString(), h.Weight)
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** | | **%s** | **%s** | |\n",
		hr.TotalCostBasis, hr.TotalMarketValue, hr.TotalUnrealized.SignedString())

	if len(hr.Sectors) > 0 {
		fmt.Fprint(&b, "\n## Sector Allocation\n\n")
		fmt.Fprintln(&b, "| Sector | Market Value | Weight |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, s := range hr.Sectors {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Sector, s.Value, s.Weight)
		}
	}

	warnings := hr.ConcentrationWarnings()
	if len(warnings) > 0 || len(hr.Warnings) > 0 {
		fmt.Fprint(&b, "\n## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		for _, w := range hr.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
