package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// yahooSymbol maps a catalog key to its Yahoo Finance ticker, the currency
// the ticker trades in, and the unit divisor for per-ounce futures.
type yahooSymbol struct {
	Symbol   string
	Currency string
	Divisor  float64
}

var yahooSymbols = map[string]yahooSymbol{
	// Metals: USD per troy ounce futures.
	"gram-altin":    {Symbol: "GC=F", Currency: "USD", Divisor: engine.TroyOunceGrams},
	"gumus":         {Symbol: "SI=F", Currency: "USD", Divisor: engine.OunceDivisorAgPt},
	"gram-platin":   {Symbol: "PL=F", Currency: "USD", Divisor: engine.OunceDivisorAgPt},
	"gram-paladyum": {Symbol: "PA=F", Currency: "USD", Divisor: engine.OunceDivisorAgPt},

	// TRY crosses.
	"USD": {Symbol: "TRY=X", Currency: "TRY"},
	"EUR": {Symbol: "EURTRY=X", Currency: "TRY"},
	"GBP": {Symbol: "GBPTRY=X", Currency: "TRY"},
	"CHF": {Symbol: "CHFTRY=X", Currency: "TRY"},
	"SAR": {Symbol: "SARTRY=X", Currency: "TRY"},
	"JPY": {Symbol: "JPYTRY=X", Currency: "TRY"},

	// USD-traded commodities.
	"emtia-cl": {Symbol: "CL=F", Currency: "USD"},
	"emtia-bz": {Symbol: "BZ=F", Currency: "USD"},
	"emtia-ng": {Symbol: "NG=F", Currency: "USD"},

	// BIST equities, already in TRY.
	"hisse-thyao": {Symbol: "THYAO.IS", Currency: "TRY"},
	"hisse-garan": {Symbol: "GARAN.IS", Currency: "TRY"},
	"hisse-asels": {Symbol: "ASELS.IS", Currency: "TRY"},
	"hisse-tuprs": {Symbol: "TUPRS.IS", Currency: "TRY"},
}

// yahooChartResponse is the v8 chart API envelope.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooClient is the generic cross-rate fallback: daily close series for
// metals futures, TRY currency crosses, commodities and BIST equities, plus
// the FX reference series used for currency normalization.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry
}

// NewYahooClient creates a Yahoo Finance chart API client.
func NewYahooClient(httpClient *http.Client, baseURL string, logger *logrus.Logger) *YahooClient {
	return &YahooClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		log:        logger.WithField("component", "yahoo"),
	}
}

// Name returns the source identifier.
func (c *YahooClient) Name() string { return "yahoo" }

// FetchQuote returns the regular market price for the asset's ticker.
func (c *YahooClient) FetchQuote(ctx context.Context, entry models.CatalogEntry) (models.RawQuote, error) {
	sym, ok := yahooSymbols[entry.Key]
	if !ok {
		return models.RawQuote{}, fmt.Errorf("yahoo: no ticker for %s: %w", entry.Key, engine.ErrSourceUnavailable)
	}

	chart, err := c.chart(ctx, sym.Symbol, "1d", "1d")
	if err != nil {
		return models.RawQuote{}, err
	}

	price := chart.Meta.RegularMarketPrice
	if price <= 0 {
		closes := closesOf(chart)
		if len(closes) == 0 {
			return models.RawQuote{}, fmt.Errorf("yahoo %s: no price: %w", sym.Symbol, engine.ErrParse)
		}
		price = closes[len(closes)-1]
	}

	return models.RawQuote{
		Source:      c.Name(),
		AssetKey:    entry.Key,
		Price:       price,
		Currency:    sym.Currency,
		UnitDivisor: sym.Divisor,
		AsOf:        time.Now().UTC(),
	}, nil
}

// FetchSeries returns the daily close series for the asset's ticker over the
// requested range (e.g. "5y").
func (c *YahooClient) FetchSeries(ctx context.Context, entry models.CatalogEntry, span string) (models.RawSeries, error) {
	sym, ok := yahooSymbols[entry.Key]
	if !ok {
		return models.RawSeries{}, fmt.Errorf("yahoo: no ticker for %s: %w", entry.Key, engine.ErrSourceUnavailable)
	}

	chart, err := c.chart(ctx, sym.Symbol, span, "1d")
	if err != nil {
		return models.RawSeries{}, err
	}

	return models.RawSeries{
		Source:      c.Name(),
		AssetKey:    entry.Key,
		Points:      closesOf(chart),
		Currency:    sym.Currency,
		UnitDivisor: sym.Divisor,
	}, nil
}

// FetchFXSeries returns the daily rate series converting base into quote,
// e.g. USD into TRY via the TRY=X ticker.
func (c *YahooClient) FetchFXSeries(ctx context.Context, base, quote, span string) ([]float64, error) {
	ticker := base + quote + "=X"
	if base == "USD" {
		ticker = quote + "=X"
	}

	chart, err := c.chart(ctx, ticker, span, "1d")
	if err != nil {
		return nil, err
	}
	return closesOf(chart), nil
}

func (c *YahooClient) chart(ctx context.Context, ticker, span, interval string) (*yahooChartResult, error) {
	u := fmt.Sprintf("%s/%s?range=%s&interval=%s", c.baseURL, url.PathEscape(ticker), span, interval)

	body, err := fetchJSON(ctx, c.httpClient, u)
	if err != nil {
		return nil, err
	}

	var resp yahooChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("yahoo %s: %v: %w", ticker, err, engine.ErrSourceUnavailable)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s: %w", ticker, resp.Chart.Error.Code, engine.ErrSourceUnavailable)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: empty result: %w", ticker, engine.ErrSourceUnavailable)
	}

	return &resp.Chart.Result[0], nil
}

// closesOf flattens the close column, dropping the null gaps Yahoo leaves in
// thin sessions.
func closesOf(r *yahooChartResult) []float64 {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	var out []float64
	for _, p := range r.Indicators.Quote[0].Close {
		if p != nil && *p > 0 {
			out = append(out, *p)
		}
	}
	return out
}
