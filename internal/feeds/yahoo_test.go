package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

func yahooChartBody(symbol, currency string, marketPrice float64, closes string) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"symbol": %q, "currency": %q, "regularMarketPrice": %v},
				"indicators": {"quote": [{"close": %s}]}
			}],
			"error": null
		}
	}`, symbol, currency, marketPrice, closes)
}

func TestYahooFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GC=F", r.URL.Path)
		w.Write([]byte(yahooChartBody("GC=F", "USD", 2031.40, "[2020.1, 2031.4]")))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.Client(), srv.URL, testLogger())

	q, err := c.FetchQuote(context.Background(), goldEntry())
	require.NoError(t, err)
	assert.Equal(t, "yahoo", q.Source)
	assert.Equal(t, 2031.40, q.Price)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, engine.TroyOunceGrams, q.UnitDivisor)
}

func TestYahooFetchQuoteFallsBackToLastClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooChartBody("GC=F", "USD", 0, "[2020.1, 2031.4]")))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.Client(), srv.URL, testLogger())

	q, err := c.FetchQuote(context.Background(), goldEntry())
	require.NoError(t, err)
	assert.Equal(t, 2031.4, q.Price)
}

func TestYahooFetchSeriesDropsNulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(yahooChartBody("GC=F", "USD", 2031.40, "[2020.1, null, 2031.4, null]")))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.Client(), srv.URL, testLogger())

	s, err := c.FetchSeries(context.Background(), goldEntry(), "5y")
	require.NoError(t, err)
	assert.Equal(t, []float64{2020.1, 2031.4}, s.Points)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, engine.TroyOunceGrams, s.UnitDivisor)
}

func TestYahooFetchFXSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// USD base collapses to the bare TRY=X ticker.
		assert.Equal(t, "/TRY=X", r.URL.Path)
		w.Write([]byte(yahooChartBody("TRY=X", "TRY", 41.02, "[40.95, 41.02]")))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.Client(), srv.URL, testLogger())

	fx, err := c.FetchFXSeries(context.Background(), "USD", "TRY", "5y")
	require.NoError(t, err)
	assert.Equal(t, []float64{40.95, 41.02}, fx)
}

func TestYahooFetchFXSeriesCrossTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/EURTRY=X", r.URL.Path)
		w.Write([]byte(yahooChartBody("EURTRY=X", "TRY", 44.80, "[44.75, 44.80]")))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.Client(), srv.URL, testLogger())

	fx, err := c.FetchFXSeries(context.Background(), "EUR", "TRY", "5y")
	require.NoError(t, err)
	assert.Equal(t, []float64{44.75, 44.80}, fx)
}

func TestYahooChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.Client(), srv.URL, testLogger())

	_, err := c.FetchQuote(context.Background(), goldEntry())
	assert.ErrorIs(t, err, engine.ErrSourceUnavailable)
}

func TestYahooUnknownAsset(t *testing.T) {
	c := NewYahooClient(http.DefaultClient, "http://unused", testLogger())
	_, err := c.FetchQuote(context.Background(), models.CatalogEntry{Key: "btc", Code: "BTC", Type: models.AssetTypeCrypto})
	assert.ErrorIs(t, err, engine.ErrSourceUnavailable)
}
