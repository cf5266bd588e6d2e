package feed

import (
	"time"
)

// Item is one parsed feed entry. Items are ephemeral: they live for a
// single sync pass and are never stored directly.
type Item struct {
	Title       string
	Link        string
	PubDate     string // Raw pubDate text as published by the feed
	PublishedAt *time.Time
	Description string // Plain text, entities decoded and tags stripped
	Author      string
	CoverURL    string // Extracted from the description, may be empty
}
