package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

func btcEntry() models.CatalogEntry {
	return models.CatalogEntry{Key: "btc", Name: "Bitcoin", Code: "BTC", Type: models.AssetTypeCrypto}
}

func TestBinanceFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/24hr", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbol": "BTCUSDT", "lastPrice": "97450.12", "bidPrice": "97449.50", "priceChangePercent": "-1.234"}`))
	}))
	defer srv.Close()

	c := NewBinanceClient(srv.Client(), srv.URL, testLogger())

	q, err := c.FetchQuote(context.Background(), btcEntry())
	require.NoError(t, err)
	assert.Equal(t, "binance", q.Source)
	assert.Equal(t, 97450.12, q.Price)
	assert.Equal(t, 97449.50, q.Buying)
	assert.Equal(t, -1.234, q.ChangePercent)
	assert.True(t, q.HasChange)
	assert.Equal(t, "USD", q.Currency)
}

func TestBinanceFetchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1826", r.URL.Query().Get("limit"))
		// Kline rows: open time, open, high, low, close, volume, ...
		w.Write([]byte(`[
			[1700000000000, "96000.0", "97500.0", "95800.0", "97100.5", "1234.5"],
			[1700086400000, "97100.5", "98000.0", "96900.0", "97450.12", "2345.6"]
		]`))
	}))
	defer srv.Close()

	c := NewBinanceClient(srv.Client(), srv.URL, testLogger())

	s, err := c.FetchSeries(context.Background(), btcEntry(), "5y")
	require.NoError(t, err)
	assert.Equal(t, []float64{97100.5, 97450.12}, s.Points)
	assert.Equal(t, "USD", s.Currency)
	assert.Zero(t, s.UnitDivisor)
}

func TestBinanceRejectsNonCrypto(t *testing.T) {
	c := NewBinanceClient(http.DefaultClient, "http://unused", testLogger())

	_, err := c.FetchQuote(context.Background(), goldEntry())
	assert.ErrorIs(t, err, engine.ErrSourceUnavailable)

	_, err = c.FetchSeries(context.Background(), goldEntry(), "5y")
	assert.ErrorIs(t, err, engine.ErrSourceUnavailable)
}

func TestSpanDays(t *testing.T) {
	assert.Equal(t, 1826, SpanDays("5y"))
	assert.Equal(t, 365, SpanDays("1y"))
	assert.Equal(t, 90, SpanDays("90d"))
	assert.Equal(t, 1826, SpanDays(""))
	assert.Equal(t, 1826, SpanDays("max"))
	assert.Equal(t, 1826, SpanDays("-3y"))
}
