// Package yahoo resolves market prices and sector tags from the Yahoo
// Finance public endpoints. The API is unofficial: every data request needs
// a session cookie and a "crumb" token, both obtained by visiting the site
// first like a browser would.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"

	"github.com/tradefolio/tradefolio"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Options configures a Provider. The zero value works against the real
// Yahoo endpoints with defaults.
type Options struct {
	// Currency tags fetched prices; Yahoo reports prices in the listing
	// currency and this package assumes a single-currency portfolio.
	Currency string
	// Workers bounds concurrent symbol lookups, DefaultQuoteWorkers when 0.
	Workers int
	// Timeout bounds each lookup, DefaultQuoteTimeout when 0.
	Timeout time.Duration
	// CacheTTL keeps fetched quotes for repeated runs, 15 minutes when 0.
	CacheTTL time.Duration

	// QueryURL and SessionURL override the Yahoo hosts, for tests.
	QueryURL   string
	SessionURL string

	Logger *slog.Logger
}

// Provider fetches quotes from Yahoo Finance. Safe for concurrent use.
type Provider struct {
	client     *http.Client
	queryURL   string
	sessionURL string
	currency   string
	workers    int
	timeout    time.Duration
	log        *slog.Logger

	quotes *cache.Cache

	mu    sync.Mutex
	crumb string
}

// NewProvider builds a quote provider. The Yahoo session is established
// lazily on the first fetch.
func NewProvider(opts Options) *Provider {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	if opts.QueryURL == "" {
		opts.QueryURL = "https://query1.finance.yahoo.com"
	}
	if opts.SessionURL == "" {
		opts.SessionURL = "https://fc.yahoo.com"
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Provider{
		client:     &http.Client{Jar: jar, Timeout: 20 * time.Second},
		queryURL:   opts.QueryURL,
		sessionURL: opts.SessionURL,
		currency:   opts.Currency,
		workers:    opts.Workers,
		timeout:    opts.Timeout,
		log:        opts.Logger,
		quotes:     cache.New(opts.CacheTTL, 2*opts.CacheTTL),
	}
}

// Fetch resolves quotes for all symbols through a bounded worker pool.
// Lookups that fail are absent from the result; Fetch itself only errors
// when the session could not be established at all.
func (p *Provider) Fetch(ctx context.Context, symbols []string) (map[string]tradefolio.Quote, error) {
	if err := p.ensureSession(ctx); err != nil {
		return nil, fmt.Errorf("yahoo session: %w", err)
	}
	return tradefolio.BulkFetch(ctx, p.lookup, symbols, p.workers, p.timeout), nil
}

// lookup resolves one symbol: price from the chart endpoint, sector from
// quoteSummary. A missing sector is not an error.
func (p *Provider) lookup(ctx context.Context, symbol string) (tradefolio.Quote, error) {
	if cached, ok := p.quotes.Get(symbol); ok {
		return cached.(tradefolio.Quote), nil
	}

	price, err := p.fetchPrice(ctx, symbol)
	if err != nil {
		return tradefolio.Quote{}, err
	}
	quote := tradefolio.Quote{Price: tradefolio.M(price, p.currency)}

	sector, err := p.fetchSector(ctx, symbol)
	if err != nil {
		p.log.Warn("no sector information", "symbol", symbol, "error", err)
	}
	quote.Sector = sector

	p.quotes.SetDefault(symbol, quote)
	return quote, nil
}

// ensureSession primes cookies and fetches the crumb token, once.
func (p *Provider) ensureSession(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.crumb != "" {
		return nil
	}

	// Visiting the consent host sets the cookies the crumb endpoint checks.
	if err := p.visit(ctx, p.sessionURL); err != nil {
		p.log.Debug("session cookie visit failed", "error", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.queryURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("crumb endpoint returned %s", resp.Status)
	}
	crumb, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	p.crumb = string(crumb)
	p.log.Info("yahoo session initialized")
	return nil
}

func (p *Provider) visit(ctx context.Context, addr string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// invalidateSession drops the crumb so the next fetch re-authenticates.
func (p *Provider) invalidateSession() {
	p.mu.Lock()
	p.crumb = ""
	p.mu.Unlock()
}

func (p *Provider) currentCrumb() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.crumb
}

// fetchPrice reads the regular market price from the chart endpoint.
func (p *Provider) fetchPrice(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?crumb=%s",
		p.queryURL, url.PathEscape(symbol), url.QueryEscape(p.currentCrumb()))
	jobj, err := p.jget(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("chart for %q: %w", symbol, err)
	}
	jval, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", jobj)
	if err != nil {
		return 0, fmt.Errorf("no price in chart response for %q: %w", symbol, err)
	}
	price, ok := jval.(float64)
	if !ok || price == 0 {
		return 0, fmt.Errorf("no price data for %q", symbol)
	}
	return price, nil
}

// sectorPaths are tried in order; funds report a category instead of a sector.
var sectorPaths = []string{
	"$.quoteSummary.result[0].assetProfile.sector",
	"$.quoteSummary.result[0].summaryProfile.sector",
	"$.quoteSummary.result[0].fundProfile.categoryName",
}

// fetchSector reads the sector tag from the quoteSummary endpoint.
func (p *Provider) fetchSector(ctx context.Context, symbol string) (string, error) {
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile,summaryProfile,fundProfile&crumb=%s",
		p.queryURL, url.PathEscape(symbol), url.QueryEscape(p.currentCrumb()))
	jobj, err := p.jget(ctx, addr)
	if err != nil {
		return "", err
	}
	for _, path := range sectorPaths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if sector, ok := jval.(string); ok && sector != "" {
			return sector, nil
		}
	}
	return "", fmt.Errorf("no sector in quoteSummary response for %q", symbol)
}

// jget fetches a JSON document into a generic value for jsonpath queries.
func (p *Provider) jget(ctx context.Context, addr string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		// Crumb expired; the next fetch will re-authenticate.
		p.invalidateSession()
		return nil, fmt.Errorf("unauthorized, crumb expired")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return jobj, nil
}
