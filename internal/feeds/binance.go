package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// BinanceClient serves crypto assets: 24hr ticker for the current quote and
// daily klines for history. USDT pairs are treated as USD for normalization.
type BinanceClient struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry
}

// NewBinanceClient creates a Binance REST client.
func NewBinanceClient(httpClient *http.Client, baseURL string, logger *logrus.Logger) *BinanceClient {
	return &BinanceClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		log:        logger.WithField("component", "binance"),
	}
}

// Name returns the source identifier.
func (c *BinanceClient) Name() string { return "binance" }

type binanceTicker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	BidPrice           string `json:"bidPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// FetchQuote returns the 24hr ticker price for the asset's USDT pair.
func (c *BinanceClient) FetchQuote(ctx context.Context, entry models.CatalogEntry) (models.RawQuote, error) {
	if entry.Type != models.AssetTypeCrypto {
		return models.RawQuote{}, fmt.Errorf("binance: %s is not a crypto asset: %w", entry.Key, engine.ErrSourceUnavailable)
	}

	pair := strings.ToUpper(entry.Code) + "USDT"
	u := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", c.baseURL, pair)

	body, err := fetchJSON(ctx, c.httpClient, u)
	if err != nil {
		return models.RawQuote{}, err
	}

	var t binanceTicker
	if err := json.Unmarshal(body, &t); err != nil {
		return models.RawQuote{}, fmt.Errorf("binance %s: %v: %w", pair, err, engine.ErrSourceUnavailable)
	}

	price, err := strconv.ParseFloat(t.LastPrice, 64)
	if err != nil || price <= 0 {
		return models.RawQuote{}, fmt.Errorf("binance %s: lastPrice %q: %w", pair, t.LastPrice, engine.ErrParse)
	}

	q := models.RawQuote{
		Source:   c.Name(),
		AssetKey: entry.Key,
		Price:    price,
		Currency: "USD",
		AsOf:     time.Now().UTC(),
	}
	if bid, err := strconv.ParseFloat(t.BidPrice, 64); err == nil && bid > 0 {
		q.Buying = bid
	}
	if change, err := strconv.ParseFloat(t.PriceChangePercent, 64); err == nil {
		q.ChangePercent = change
		q.HasChange = true
	}
	return q, nil
}

// FetchSeries returns the daily close series from klines for the requested
// span.
func (c *BinanceClient) FetchSeries(ctx context.Context, entry models.CatalogEntry, span string) (models.RawSeries, error) {
	if entry.Type != models.AssetTypeCrypto {
		return models.RawSeries{}, fmt.Errorf("binance: %s is not a crypto asset: %w", entry.Key, engine.ErrSourceUnavailable)
	}

	pair := strings.ToUpper(entry.Code) + "USDT"
	u := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=1d&limit=%d", c.baseURL, pair, SpanDays(span))

	body, err := fetchJSON(ctx, c.httpClient, u)
	if err != nil {
		return models.RawSeries{}, err
	}

	var klines [][]json.RawMessage
	if err := json.Unmarshal(body, &klines); err != nil {
		return models.RawSeries{}, fmt.Errorf("binance %s klines: %v: %w", pair, err, engine.ErrSourceUnavailable)
	}

	points := make([]float64, 0, len(klines))
	for _, k := range klines {
		// Kline column 4 is the close, encoded as a JSON string.
		if len(k) < 5 {
			continue
		}
		var closeStr string
		if err := json.Unmarshal(k[4], &closeStr); err != nil {
			continue
		}
		v, err := strconv.ParseFloat(closeStr, 64)
		if err != nil || v <= 0 {
			continue
		}
		points = append(points, v)
	}

	return models.RawSeries{
		Source:   c.Name(),
		AssetKey: entry.Key,
		Points:   points,
		Currency: "USD",
	}, nil
}

// SpanDays converts a range string like "5y", "1y" or "90d" into a day
// count, defaulting to five years.
func SpanDays(span string) int {
	span = strings.ToLower(strings.TrimSpace(span))
	if span == "" {
		return 1826
	}
	unit := span[len(span)-1]
	n, err := strconv.Atoi(span[:len(span)-1])
	if err != nil || n <= 0 {
		return 1826
	}
	switch unit {
	case 'y':
		// Five years of daily candles is 1826 points, leap day included.
		return n*365 + n/4
	case 'd':
		return n
	default:
		return 1826
	}
}
