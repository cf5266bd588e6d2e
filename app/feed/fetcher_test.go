package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const validFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test UP - Videos</title>
    <link>https://space.bilibili.com/123</link>
    <description>uploads</description>
    <item>
      <title>Video One</title>
      <link>https://www.bilibili.com/video/BV1xx411c7mD</link>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

const emptyFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Empty</title>
    <link>https://example.com</link>
    <description>nothing</description>
  </channel>
</rss>`

func newTestFetcher(mirrors []string, cache *ItemCache) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{},
		parser:     NewParser(),
		cache:      cache,
		mirrors:    mirrors,
		userAgent:  "test-agent",
	}
}

func TestFetcher_Failover(t *testing.T) {
	var badCalls, goodCalls atomic.Int32

	badMirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		badCalls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer badMirror.Close()

	goodMirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		goodCalls.Add(1)
		w.Write([]byte(validFeed))
	}))
	defer goodMirror.Close()

	cache := NewItemCache(time.Minute)
	fetcher := newTestFetcher([]string{badMirror.URL, goodMirror.URL}, cache)

	items, err := fetcher.Run(context.Background(), "123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Video One" {
		t.Errorf("Unexpected items: %+v", items)
	}
	if badCalls.Load() != 1 || goodCalls.Load() != 1 {
		t.Errorf("Expected one call to each mirror, got %d and %d", badCalls.Load(), goodCalls.Load())
	}

	// A second run within the TTL must come from the cache
	if _, err := fetcher.Run(context.Background(), "123"); err != nil {
		t.Fatalf("Expected no error on cached run, got: %v", err)
	}
	if badCalls.Load() != 1 || goodCalls.Load() != 1 {
		t.Errorf("Expected cached run to make no network calls, got %d and %d", badCalls.Load(), goodCalls.Load())
	}
}

func TestFetcher_EmptyParseIsNotSuccess(t *testing.T) {
	emptyMirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyFeed))
	}))
	defer emptyMirror.Close()

	goodMirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validFeed))
	}))
	defer goodMirror.Close()

	fetcher := newTestFetcher([]string{emptyMirror.URL, goodMirror.URL}, NewItemCache(time.Minute))

	items, err := fetcher.Run(context.Background(), "123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected fallback mirror's items, got %d items", len(items))
	}
}

func TestFetcher_Exhausted(t *testing.T) {
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer mirror.Close()

	fetcher := newTestFetcher([]string{mirror.URL, mirror.URL}, NewItemCache(time.Minute))

	_, err := fetcher.Run(context.Background(), "123")
	if err == nil {
		t.Fatalf("Expected error when all mirrors fail")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected ExhaustedError, got: %T", err)
	}
	if exhausted.UID != "123" {
		t.Errorf("Unexpected uid in error: %s", exhausted.UID)
	}
	if exhausted.LastErr == nil {
		t.Errorf("Expected last underlying error to be carried")
	}
}

func TestFetcher_CacheExpiryTriggersRefetch(t *testing.T) {
	var calls atomic.Int32

	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(validFeed))
	}))
	defer mirror.Close()

	fetcher := newTestFetcher([]string{mirror.URL}, NewItemCache(30*time.Millisecond))

	if _, err := fetcher.Run(context.Background(), "123"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := fetcher.Run(context.Background(), "123"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected refetch after TTL expiry, got %d calls", calls.Load())
	}
}

func TestFetcher_SendsUserAgent(t *testing.T) {
	var gotUA string
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(validFeed))
	}))
	defer mirror.Close()

	fetcher := newTestFetcher([]string{mirror.URL}, NewItemCache(time.Minute))

	if _, err := fetcher.Run(context.Background(), "123"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if gotUA != "test-agent" {
		t.Errorf("Expected custom user agent, got: %s", gotUA)
	}
}

func TestNewFetcher_CustomMirrorFirst(t *testing.T) {
	fetcher := NewFetcher(&http.Client{}, NewParser(), NewItemCache(time.Minute), "https://my-rsshub.example.com", "ua")

	if fetcher.mirrors[0] != "https://my-rsshub.example.com" {
		t.Errorf("Expected custom mirror first, got: %s", fetcher.mirrors[0])
	}
	if len(fetcher.mirrors) != len(defaultMirrors)+1 {
		t.Errorf("Expected custom mirror prepended to defaults, got %d mirrors", len(fetcher.mirrors))
	}
}
