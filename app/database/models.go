package database

import (
	"time"
)

type Subscription struct {
	ID                  string // Database UUID
	UID                 string // Bilibili user ID of the tracked uploader
	UpName              string // Display name of the uploader
	IsActive            bool
	AutoPublishKeywords string // Newline-delimited custom keywords, may be empty
	DefaultNature       string // Nature applied to imported works (e.g. "fanmade")
	LastSyncAt          *time.Time
	SyncCount           int // Cumulative number of works imported by sync
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Work struct {
	ID                  string
	Title               string
	Author              string
	Description         string
	CoverImageURL       string
	OriginalPublishDate *time.Time
	Nature              string
	WorkType            string
	Link                string
	SourceURL           string // Dedup key
	SourcePlatform      string
	SourceID            string // Bilibili BV code extracted from the link
	IsAutoImported      bool
	ImportedAt          *time.Time
	IsActive            bool
	PublishedAt         *time.Time // nil means pending moderation
	CreatedAt           time.Time
}
