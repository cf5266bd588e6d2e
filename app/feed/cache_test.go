package feed

import (
	"testing"
	"time"
)

func TestItemCache_SetGet(t *testing.T) {
	cache := NewItemCache(time.Minute)

	items := []Item{{Title: "a", Link: "https://example.com/a"}}
	cache.Set("123", items)

	got, ok := cache.Get("123")
	if !ok {
		t.Fatalf("Expected cache hit")
	}
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("Unexpected cached items: %+v", got)
	}

	if _, ok := cache.Get("456"); ok {
		t.Errorf("Expected cache miss for unknown uid")
	}
}

func TestItemCache_Expiry(t *testing.T) {
	cache := NewItemCache(30 * time.Millisecond)

	cache.Set("123", []Item{{Title: "a", Link: "https://example.com/a"}})

	if _, ok := cache.Get("123"); !ok {
		t.Fatalf("Expected cache hit before expiry")
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := cache.Get("123"); ok {
		t.Errorf("Expected cache miss after expiry")
	}
}

func TestItemCache_Overwrite(t *testing.T) {
	cache := NewItemCache(time.Minute)

	cache.Set("123", []Item{{Title: "old", Link: "https://example.com/old"}})
	cache.Set("123", []Item{{Title: "new", Link: "https://example.com/new"}})

	got, ok := cache.Get("123")
	if !ok {
		t.Fatalf("Expected cache hit")
	}
	if len(got) != 1 || got[0].Title != "new" {
		t.Errorf("Expected overwritten entry, got: %+v", got)
	}
}
