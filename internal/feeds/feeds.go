// Package feeds contains the source adapters. Each adapter owns one vendor's
// wire format and produces the canonical RawQuote/RawSeries shapes; nothing
// vendor-specific leaks into the engine.
package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
)

// Some upstreams serve an HTML error page with status 200; a browser-like
// User-Agent avoids the worst of their bot filtering.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0"

// fetchJSON performs a GET and returns the body, mapping transport errors,
// non-200 statuses and HTML responses to ErrSourceUnavailable.
func fetchJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json,text/html,*/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, engine.ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, engine.ErrSourceUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %v: %w", err, engine.ErrSourceUnavailable)
	}

	if strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		return nil, fmt.Errorf("non-JSON response: %w", engine.ErrSourceUnavailable)
	}

	return body, nil
}
