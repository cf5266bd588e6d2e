package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// CacheTTL bounds how long fetched items are reused before hitting the
	// mirror network again.
	CacheTTL = 5 * time.Minute

	// Per-mirror attempt timeout. There is no overall deadline across the
	// mirror list.
	fetchTimeout = 15 * time.Second

	feedPath = "/bilibili/user/video/"
)

// Fallback RSSHub mirrors, tried in order. A locally hosted instance goes
// first; the public mirrors are rate-limited and flaky.
var defaultMirrors = []string{
	"http://localhost:3200",
	"https://rsshub.app",
	"https://rsshub.rssforever.com",
	"https://hub.slarker.me",
}

// ExhaustedError is returned when every mirror either failed or produced
// an empty feed for a uid.
type ExhaustedError struct {
	UID     string
	LastErr error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("all feed mirrors failed for uid %s: %v", e.UID, e.LastErr)
	}
	return fmt.Sprintf("no feed mirror available for uid %s", e.UID)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	cache      *ItemCache
	mirrors    []string
	userAgent  string
}

// NewFetcher builds a fetcher over the given mirror order. customMirror,
// when non-empty, is tried before the built-in fallbacks.
func NewFetcher(httpClient *http.Client, parser *Parser, cache *ItemCache, customMirror, userAgent string) *Fetcher {
	mirrors := make([]string, 0, len(defaultMirrors)+1)
	if customMirror != "" {
		mirrors = append(mirrors, customMirror)
	}
	mirrors = append(mirrors, defaultMirrors...)

	return &Fetcher{
		httpClient: httpClient,
		parser:     parser,
		cache:      cache,
		mirrors:    mirrors,
		userAgent:  userAgent,
	}
}

// Run returns the current item list for a uid, preferring the cache. A
// mirror response only counts as success when it parses to at least one
// item; otherwise the next mirror is tried.
func (f *Fetcher) Run(ctx context.Context, uid string) ([]Item, error) {
	if items, ok := f.cache.Get(uid); ok {
		slog.Debug("Using cached feed items", "uid", uid, "count", len(items))
		return items, nil
	}

	var lastErr error
	for _, mirror := range f.mirrors {
		items, err := f.tryMirror(ctx, mirror, uid)
		if err != nil {
			lastErr = err
			slog.Warn("Feed mirror failed", "mirror", mirror, "uid", uid, "error", err)
			continue
		}

		if len(items) == 0 {
			lastErr = fmt.Errorf("mirror %s returned an empty feed", mirror)
			slog.Warn("Feed mirror returned no items", "mirror", mirror, "uid", uid)
			continue
		}

		f.cache.Set(uid, items)
		slog.Info("Feed fetched", "mirror", mirror, "uid", uid, "count", len(items))
		return items, nil
	}

	return nil, &ExhaustedError{UID: uid, LastErr: lastErr}
}

func (f *Fetcher) tryMirror(ctx context.Context, mirror, uid string) ([]Item, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	url := mirror + feedPath + uid
	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return f.parser.Run(data)
}
