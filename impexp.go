package tradefolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names accepted in a trade export, compared case-insensitively.
// The canonical set is the Interactive Brokers flex query layout.
var (
	colSymbol     = []string{"symbol"}
	colDate       = []string{"tradedate", "date", "datetime"}
	colTime       = []string{"tradetime", "time"}
	colQuantity   = []string{"quantity", "qty"}
	colPrice      = []string{"tradeprice", "price"}
	colCommission = []string{"ibcommission", "commission", "fee"}
	colRealized   = []string{"fifopnlrealized", "realizedpnl", "realized"}
	colSide       = []string{"buy/sell", "buysell", "side"}
	colCurrency   = []string{"currencyprimary", "currency"}
)

// tradeDateLayouts are tried in order against the date cell, possibly
// concatenated with the time cell when the export splits them.
var tradeDateLayouts = []string{
	"20060102;150405",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102",
	"2006-01-02",
	"01/02/2006",
}

// ImportTrades reads a broker trade export in CSV form and normalizes it
// into a ledger. Rows that cannot be normalized are skipped with a warning
// recorded on the ledger, never failing the whole import; only a missing
// required column or a currency mix is fatal.
//
// defaultCurrency applies to rows without a currency column.
func ImportTrades(r io.Reader, defaultCurrency string) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	l := &Ledger{}
	currency := ""
	for row := 2; ; row++ { // row 1 is the header
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.skip(row, err)
			continue
		}
		t, rowCurrency, err := cols.normalize(record, defaultCurrency)
		if err != nil {
			l.skip(row, err)
			continue
		}
		if currency == "" {
			currency = rowCurrency
		} else if rowCurrency != currency {
			return nil, fmt.Errorf("row %d: mixed currencies %s and %s; one currency per import", row, currency, rowCurrency)
		}
		t.row = row
		if err := t.Validate(); err != nil {
			l.skip(row, err)
			continue
		}
		l.trades = append(l.trades, t)
	}
	l.stableSort()
	return l, nil
}

func (l *Ledger) skip(row int, err error) {
	l.skipped = append(l.skipped, Warning{
		Kind:    MalformedRow,
		Row:     row,
		Message: err.Error(),
	})
}

// columns holds the resolved index of each known column, -1 when absent.
type columns struct {
	symbol, date, clock, quantity, price, commission, realized, side, currency int
}

func mapColumns(header []string) (*columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff") // exports sometimes lead with a BOM
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	find := func(names []string) int {
		for _, n := range names {
			if i, ok := index[n]; ok {
				return i
			}
		}
		return -1
	}
	c := &columns{
		symbol:     find(colSymbol),
		date:       find(colDate),
		clock:      find(colTime),
		quantity:   find(colQuantity),
		price:      find(colPrice),
		commission: find(colCommission),
		realized:   find(colRealized),
		side:       find(colSide),
		currency:   find(colCurrency),
	}
	missing := func(i int, names []string) error {
		if i < 0 {
			return fmt.Errorf("missing required column %q", names[0])
		}
		return nil
	}
	for _, check := range []error{
		missing(c.symbol, colSymbol),
		missing(c.date, colDate),
		missing(c.quantity, colQuantity),
		missing(c.price, colPrice),
		missing(c.commission, colCommission),
		missing(c.realized, colRealized),
		missing(c.side, colSide),
	} {
		if check != nil {
			return nil, check
		}
	}
	return c, nil
}

func (c *columns) cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// normalize turns one raw record into a Trade plus its currency.
func (c *columns) normalize(record []string, defaultCurrency string) (Trade, string, error) {
	var t Trade

	t.Symbol = c.cell(record, c.symbol)

	when, err := parseTradeTime(c.cell(record, c.date), c.cell(record, c.clock))
	if err != nil {
		return t, "", err
	}
	t.Time = when

	qty, err := decimal.NewFromString(c.cell(record, c.quantity))
	if err != nil {
		return t, "", fmt.Errorf("bad quantity %q: %w", c.cell(record, c.quantity), err)
	}
	t.Quantity = Q(qty)

	currency := c.cell(record, c.currency)
	if currency == "" {
		currency = defaultCurrency
	}

	price, err := decimal.NewFromString(c.cell(record, c.price))
	if err != nil {
		return t, "", fmt.Errorf("bad price %q: %w", c.cell(record, c.price), err)
	}
	t.Price = M(price, currency)

	commission, err := parseMoneyCell(c.cell(record, c.commission), currency)
	if err != nil {
		return t, "", fmt.Errorf("bad commission: %w", err)
	}
	// Some exports report commissions as positive costs; normalize to non-positive.
	if commission.IsPositive() {
		commission = commission.Neg()
	}
	t.Commission = commission

	realized, err := parseMoneyCell(c.cell(record, c.realized), currency)
	if err != nil {
		return t, "", fmt.Errorf("bad realized p&l: %w", err)
	}
	t.Realized = realized

	side, err := ParseSide(c.cell(record, c.side))
	if err != nil {
		return t, "", err
	}
	t.Side = side

	return t, currency, nil
}

// parseMoneyCell treats an empty cell as zero, which exports use for
// "not applicable" rather than writing 0.
func parseMoneyCell(cell, currency string) (Money, error) {
	if cell == "" {
		return M(decimal.Zero, currency), nil
	}
	v, err := decimal.NewFromString(cell)
	if err != nil {
		return Money{}, fmt.Errorf("%q: %w", cell, err)
	}
	return M(v, currency), nil
}

// parseTradeTime parses the date cell, joined with the separate time cell
// when one exists, trying each known layout.
func parseTradeTime(dateCell, timeCell string) (time.Time, error) {
	if dateCell == "" {
		return time.Time{}, fmt.Errorf("missing trade date")
	}
	candidates := []string{dateCell}
	if timeCell != "" {
		candidates = []string{
			dateCell + ";" + timeCell,
			dateCell + " " + timeCell,
			dateCell,
		}
	}
	for _, candidate := range candidates {
		for _, layout := range tradeDateLayouts {
			if when, err := time.ParseInLocation(layout, candidate, time.UTC); err == nil {
				return when, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unparseable trade date %q", dateCell)
}

// ExportMatches writes the closed trades as CSV, one row per match, in the
// order they appear in the result.
func ExportMatches(w io.Writer, r *MatchResult) error {
	cw := csv.NewWriter(w)
	header := []string{"Symbol", "ClosedAt", "Quantity", "EntryCost", "ExitPrice", "RealizedPnl", "Commission", "Grade"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for _, m := range r.Matches {
		record := []string{
			m.Symbol,
			m.Time.Format("2006-01-02 15:04:05"),
			m.Quantity.String(),
			m.EntryCost.Amount().String(),
			m.ExitPrice.Amount().String(),
			m.Realized.Amount().String(),
			m.Commission.Amount().String(),
			string(GradeTrade(m.Realized, m.Commission)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
