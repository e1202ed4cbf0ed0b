package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer fakes the Yahoo endpoints: crumb, chart, and quoteSummary.
// prices maps symbols to prices; symbols absent from the map return 404.
func newTestServer(t *testing.T, prices map[string]float64, chartCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "test-crumb")
	})

	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		if chartCalls != nil {
			chartCalls.Add(1)
		}
		assert.Equal(t, "test-crumb", r.URL.Query().Get("crumb"))
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		price, ok := prices[symbol]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"chart":{"result":[{"meta":{"currency":"USD","symbol":%q,"regularMarketPrice":%v}}],"error":null}}`, symbol, price)
	})

	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology"}}],"error":null}}`)
	})

	return httptest.NewServer(mux)
}

func testProvider(server *httptest.Server) *Provider {
	return NewProvider(Options{
		Currency:   "USD",
		QueryURL:   server.URL,
		SessionURL: server.URL,
		Timeout:    2 * time.Second,
	})
}

func TestProvider_Fetch(t *testing.T) {
	server := newTestServer(t, map[string]float64{"AAPL": 170.25, "MSFT": 250}, nil)
	defer server.Close()

	p := testProvider(server)
	quotes, err := p.Fetch(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	aapl := quotes["AAPL"]
	assert.InDelta(t, 170.25, aapl.Price.InexactFloat64(), 0.0001)
	assert.Equal(t, "USD", aapl.Price.Currency())
	assert.Equal(t, "Technology", aapl.Sector)
}

func TestProvider_PartialFailure(t *testing.T) {
	server := newTestServer(t, map[string]float64{"AAPL": 170}, nil)
	defer server.Close()

	p := testProvider(server)
	quotes, err := p.Fetch(context.Background(), []string{"AAPL", "UNKNOWN"})
	require.NoError(t, err, "a single failed symbol must not fail the batch")

	assert.Len(t, quotes, 1)
	assert.Contains(t, quotes, "AAPL")
	assert.NotContains(t, quotes, "UNKNOWN")
}

func TestProvider_CachesQuotes(t *testing.T) {
	var chartCalls atomic.Int32
	server := newTestServer(t, map[string]float64{"AAPL": 170}, &chartCalls)
	defer server.Close()

	p := testProvider(server)
	_, err := p.Fetch(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	_, err = p.Fetch(context.Background(), []string{"AAPL"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), chartCalls.Load(), "second fetch should hit the cache")
}

func TestProvider_SessionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	p := testProvider(server)
	_, err := p.Fetch(context.Background(), []string{"AAPL"})
	require.Error(t, err, "an unusable session must fail the fetch")
}
