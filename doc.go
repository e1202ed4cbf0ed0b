// Package tradefolio turns a broker trade export into a performance
// analysis: FIFO lot matching, realized win/loss statistics, equity and
// drawdown curves, and a valuation of what is still open.
//
// The pipeline is Trade rows -> Ledger -> Match -> {Stats, EquityCurve,
// HoldingReport}. The realized P&L of a closed trade always comes from the
// broker's own figure on the sell row; lot costs are only used for the cost
// basis of what remains open. All monetary arithmetic is exact decimal, so
// analyzing the same ledger twice gives bit-identical results.
package tradefolio
