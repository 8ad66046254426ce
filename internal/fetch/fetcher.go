// Package fetch retrieves source-page markup on behalf of clients
// that cannot reach the target site directly because of cross-origin
// limits. The body comes back verbatim; parsing is scrape's job.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"auctiondesk-api/internal/cache"
)

// Fetcher retrieves pages with a cache in front so repeated
// ingestion of the same listing does not re-hit the source site.
type Fetcher struct {
	client *http.Client
	cache  cache.Cache
	ttl    time.Duration
}

// New creates a fetcher. pageCache may be nil to disable caching.
func New(timeout time.Duration, pageCache cache.Cache, ttl time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		cache:  pageCache,
		ttl:    ttl,
	}
}

// Fetch returns the target page's status and raw markup. Network
// failures are returned as errors; HTTP error statuses are passed
// through with their body. Only 200 responses are cached.
func (f *Fetcher) Fetch(ctx context.Context, target string) (int, []byte, error) {
	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() {
		return 0, nil, fmt.Errorf("invalid target url %q", target)
	}

	if f.cache != nil {
		if body, err := f.cache.Get(ctx, target); err == nil {
			return http.StatusOK, body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %s: %w", target, err)
	}

	if resp.StatusCode == http.StatusOK && f.cache != nil {
		if err := f.cache.Set(ctx, target, body, f.ttl); err != nil {
			log.Printf("[Fetcher] cache set failed for %s: %v", target, err)
		}
	}

	return resp.StatusCode, body, nil
}
