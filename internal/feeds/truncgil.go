package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// TruncgilClient is the primary regional source for gold, currency and
// precious-metal quotes, already denominated in TRY. The whole today.json
// payload is fetched once and cached briefly, since one run asks for dozens
// of assets out of the same document.
type TruncgilClient struct {
	httpClient *http.Client
	url        string
	log        *logrus.Entry

	mu        sync.Mutex
	payload   map[string]json.RawMessage
	fetchedAt time.Time
	cacheTTL  time.Duration
}

// NewTruncgilClient creates a Truncgil today.json client.
func NewTruncgilClient(httpClient *http.Client, url string, logger *logrus.Logger) *TruncgilClient {
	return &TruncgilClient{
		httpClient: httpClient,
		url:        url,
		log:        logger.WithField("component", "truncgil"),
		cacheTTL:   30 * time.Second,
	}
}

// Name returns the source identifier.
func (c *TruncgilClient) Name() string { return "truncgil" }

// FetchQuote returns the current quote for gold, currency and precious-metal
// keys present in the today.json document.
func (c *TruncgilClient) FetchQuote(ctx context.Context, entry models.CatalogEntry) (models.RawQuote, error) {
	doc, err := c.today(ctx)
	if err != nil {
		return models.RawQuote{}, err
	}

	raw, ok := doc[entry.Key]
	if !ok {
		return models.RawQuote{}, fmt.Errorf("truncgil: no row for %s: %w", entry.Key, engine.ErrSourceUnavailable)
	}

	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return models.RawQuote{}, fmt.Errorf("truncgil %s: %v: %w", entry.Key, err, engine.ErrSourceUnavailable)
	}

	selling, err := ParseTurkish(field(row, "Satış", "Satis"))
	if err != nil {
		return models.RawQuote{}, fmt.Errorf("truncgil %s selling: %w", entry.Key, err)
	}
	if selling <= 0 {
		return models.RawQuote{}, fmt.Errorf("truncgil %s: non-positive selling price: %w", entry.Key, engine.ErrParse)
	}

	q := models.RawQuote{
		Source:   c.Name(),
		AssetKey: entry.Key,
		Price:    selling,
		Currency: "TRY",
		AsOf:     time.Now().UTC(),
	}

	if buying, err := ParseTurkish(field(row, "Alış", "Alis")); err == nil && buying > 0 {
		q.Buying = buying
	}
	if change, err := ParseTurkish(field(row, "Değişim", "Degisim")); err == nil {
		q.ChangePercent = change
		q.HasChange = true
	}

	return q, nil
}

// FetchSeries always fails: Truncgil has no historical endpoint.
func (c *TruncgilClient) FetchSeries(ctx context.Context, entry models.CatalogEntry, span string) (models.RawSeries, error) {
	return models.RawSeries{}, fmt.Errorf("truncgil: no historical data: %w", engine.ErrSourceUnavailable)
}

// today returns the cached today.json document, refetching after the TTL.
func (c *TruncgilClient) today(ctx context.Context) (map[string]json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.payload != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.payload, nil
	}

	body, err := fetchJSON(ctx, c.httpClient, c.url)
	if err != nil {
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("truncgil: %v: %w", err, engine.ErrSourceUnavailable)
	}

	c.payload = doc
	c.fetchedAt = time.Now()
	c.log.WithField("rows", len(doc)).Debug("Fetched today.json")
	return doc, nil
}

// field returns the first present key; the vendor switches between accented
// and plain spellings.
func field(row map[string]any, names ...string) string {
	for _, n := range names {
		if v, ok := row[n]; ok {
			switch t := v.(type) {
			case string:
				return t
			case float64:
				return fmt.Sprintf("%v", t)
			}
		}
	}
	return ""
}
