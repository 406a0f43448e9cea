package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// GenelParaClient is the commodity quote fallback. Quotes are TRY
// denominated, Turkish number format, no historical endpoint.
type GenelParaClient struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry

	mu        sync.Mutex
	payload   map[string]genelParaRow
	fetchedAt time.Time
	cacheTTL  time.Duration
}

type genelParaRow struct {
	Satis   string `json:"satis"`
	Alis    string `json:"alis"`
	Oran    string `json:"oran"`
	Degisim string `json:"degisim"`
}

type genelParaResponse struct {
	Data map[string]genelParaRow `json:"data"`
}

// NewGenelParaClient creates a GenelPara commodity client.
func NewGenelParaClient(httpClient *http.Client, baseURL string, logger *logrus.Logger) *GenelParaClient {
	return &GenelParaClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		log:        logger.WithField("component", "genelpara"),
		cacheTTL:   30 * time.Second,
	}
}

// Name returns the source identifier.
func (c *GenelParaClient) Name() string { return "genelpara" }

// FetchQuote returns the current commodity quote by the asset's vendor code.
func (c *GenelParaClient) FetchQuote(ctx context.Context, entry models.CatalogEntry) (models.RawQuote, error) {
	if entry.Type != models.AssetTypeCommodity {
		return models.RawQuote{}, fmt.Errorf("genelpara: %s is not a commodity: %w", entry.Key, engine.ErrSourceUnavailable)
	}

	rows, err := c.commodities(ctx)
	if err != nil {
		return models.RawQuote{}, err
	}

	row, ok := rows[strings.ToUpper(entry.Code)]
	if !ok {
		return models.RawQuote{}, fmt.Errorf("genelpara: no row for %s: %w", entry.Code, engine.ErrSourceUnavailable)
	}

	selling, err := ParseTurkish(row.Satis)
	if err != nil {
		return models.RawQuote{}, fmt.Errorf("genelpara %s selling: %w", entry.Code, err)
	}
	if selling <= 0 {
		return models.RawQuote{}, fmt.Errorf("genelpara %s: non-positive selling price: %w", entry.Code, engine.ErrParse)
	}

	q := models.RawQuote{
		Source:   c.Name(),
		AssetKey: entry.Key,
		Price:    selling,
		Currency: "TRY",
		AsOf:     time.Now().UTC(),
	}
	if buying, err := ParseTurkish(row.Alis); err == nil && buying > 0 {
		q.Buying = buying
	}
	changeStr := row.Oran
	if changeStr == "" {
		changeStr = row.Degisim
	}
	if change, err := ParseTurkish(changeStr); err == nil {
		q.ChangePercent = change
		q.HasChange = true
	}
	return q, nil
}

// FetchSeries always fails: GenelPara has no historical endpoint.
func (c *GenelParaClient) FetchSeries(ctx context.Context, entry models.CatalogEntry, span string) (models.RawSeries, error) {
	return models.RawSeries{}, fmt.Errorf("genelpara: no historical data: %w", engine.ErrSourceUnavailable)
}

// commodities returns the cached commodity table, refetching after the TTL.
func (c *GenelParaClient) commodities(ctx context.Context) (map[string]genelParaRow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.payload != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.payload, nil
	}

	u := fmt.Sprintf("%s?list=emtia&sembol=all", c.baseURL)
	body, err := fetchJSON(ctx, c.httpClient, u)
	if err != nil {
		return nil, err
	}

	var resp genelParaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("genelpara: %v: %w", err, engine.ErrSourceUnavailable)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("genelpara: empty payload: %w", engine.ErrSourceUnavailable)
	}

	rows := make(map[string]genelParaRow, len(resp.Data))
	for sym, row := range resp.Data {
		rows[strings.ToUpper(sym)] = row
	}

	c.payload = rows
	c.fetchedAt = time.Now()
	return rows, nil
}
