package tradefolio

import "time"

// lot represents the remaining unconsumed quantity from a single buy,
// used for cost basis calculations. The per-share cost folds the buy's
// commission in, amortized over the full bought quantity.
type lot struct {
	openedAt     time.Time
	quantity     Quantity
	costPerShare Money // trade price plus amortized commission
	feePerShare  Money // amortized entry commission magnitude, for trade grading
}

type lots []lot

// totalQuantity sums the remaining quantity across all lots.
func (l lots) totalQuantity() Quantity {
	var total Quantity
	for _, currentLot := range l {
		total = total.Add(currentLot.quantity)
	}
	return total
}

// costBasis is the commission-inclusive cost of all remaining shares.
func (l lots) costBasis() Money {
	var cost Money
	for _, currentLot := range l {
		cost = cost.Add(currentLot.costPerShare.Mul(currentLot.quantity))
	}
	return cost
}

// averageCost is the weighted average per-share cost of the remaining lots.
// Zero when no lots remain.
func (l lots) averageCost() Money {
	total := l.totalQuantity()
	if total.IsZero() {
		return Money{}
	}
	return l.costBasis().Div(total)
}

// consume removes quantityToSell shares from the front of the queue (FIFO)
// and returns the remaining lots plus the consumed slices. A partially
// consumed lot stays at the front with reduced quantity. When the queue
// runs dry first, the unfilled excess is returned for the caller to report.
func (l lots) consume(quantityToSell Quantity) (remaining lots, consumed lots, excess Quantity) {
	remaining = l
	for quantityToSell.IsPositive() && len(remaining) > 0 {
		front := remaining[0]
		if front.quantity.GreaterThan(quantityToSell) {
			// Partial sale from the oldest lot.
			part := front
			part.quantity = quantityToSell
			consumed = append(consumed, part)
			remaining[0].quantity = front.quantity.Sub(quantityToSell)
			return remaining, consumed, Quantity{}
		}
		// Full sale of the oldest lot.
		consumed = append(consumed, front)
		quantityToSell = quantityToSell.Sub(front.quantity)
		remaining = remaining[1:]
	}
	return remaining, consumed, quantityToSell
}

// weightedCost returns the quantity-weighted average per-share cost and the
// total amortized entry fee of a set of consumed lot slices.
func (l lots) weightedCost() (costPerShare Money, entryFee Money) {
	total := l.totalQuantity()
	if total.IsZero() {
		return Money{}, Money{}
	}
	var cost Money
	for _, currentLot := range l {
		cost = cost.Add(currentLot.costPerShare.Mul(currentLot.quantity))
		entryFee = entryFee.Add(currentLot.feePerShare.Mul(currentLot.quantity))
	}
	return cost.Div(total), entryFee
}
