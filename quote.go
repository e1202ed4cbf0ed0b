package tradefolio

import (
	"context"
	"log"
	"sync"
	"time"
)

// Quote is the externally supplied market state for one symbol.
// Sector may be empty when the provider does not know it.
type Quote struct {
	Price  Money
	Sector string
}

// QuoteProvider resolves current prices and sector tags for a set of
// symbols in one call. Implementations must be safe for concurrent use and
// return a partial map on partial failure: a missing symbol means its
// lookup failed, and must never fail the whole batch.
type QuoteProvider interface {
	Fetch(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// LookupFunc resolves a single symbol. Used with BulkFetch to turn a
// per-symbol lookup into a QuoteProvider-shaped bulk call.
type LookupFunc func(ctx context.Context, symbol string) (Quote, error)

const (
	// DefaultQuoteWorkers bounds concurrent symbol lookups.
	DefaultQuoteWorkers = 10
	// DefaultQuoteTimeout bounds each individual lookup, so one slow symbol
	// cannot stall the rest of the valuation.
	DefaultQuoteTimeout = 10 * time.Second
)

// BulkFetch looks up every symbol concurrently through a bounded worker
// pool, one request per distinct symbol, each under its own timeout.
// Failed lookups are logged and dropped from the result; the returned map
// is whatever succeeded.
func BulkFetch(ctx context.Context, lookup LookupFunc, symbols []string, workers int, timeout time.Duration) map[string]Quote {
	if workers <= 0 {
		workers = DefaultQuoteWorkers
	}
	if timeout <= 0 {
		timeout = DefaultQuoteTimeout
	}

	// Dedupe while preserving a deterministic work order.
	seen := make(map[string]struct{}, len(symbols))
	work := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		work = append(work, s)
	}

	type result struct {
		symbol string
		quote  Quote
		err    error
	}

	jobs := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	for range min(workers, len(work)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				reqCtx, cancel := context.WithTimeout(ctx, timeout)
				quote, err := lookup(reqCtx, symbol)
				cancel()
				results <- result{symbol: symbol, quote: quote, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, s := range work {
			select {
			case jobs <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	quotes := make(map[string]Quote, len(work))
	for r := range results {
		if r.err != nil {
			log.Printf("quote lookup failed for %s: %v", r.symbol, r.err)
			continue
		}
		quotes[r.symbol] = r.quote
	}
	return quotes
}

// StaticQuotes is an in-memory QuoteProvider, handy for offline valuation
// and tests. Symbols absent from the map are reported as failed lookups.
type StaticQuotes map[string]Quote

func (s StaticQuotes) Fetch(_ context.Context, symbols []string) (map[string]Quote, error) {
	quotes := make(map[string]Quote, len(symbols))
	for _, symbol := range symbols {
		if q, ok := s[symbol]; ok {
			quotes[symbol] = q
		}
	}
	return quotes, nil
}
