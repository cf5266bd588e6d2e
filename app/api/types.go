package api

import (
	"time"

	"github.com/kivotos-dev/fanhub/app/database"
)

type subscriptionRequest struct {
	UID                 string `json:"uid" binding:"required"`
	UpName              string `json:"upName" binding:"required"`
	IsActive            *bool  `json:"isActive"`
	AutoPublishKeywords string `json:"autoPublishKeywords"`
	DefaultNature       string `json:"defaultNature"`
}

type subscriptionResponse struct {
	ID                  string     `json:"id"`
	UID                 string     `json:"uid"`
	UpName              string     `json:"upName"`
	IsActive            bool       `json:"isActive"`
	AutoPublishKeywords string     `json:"autoPublishKeywords"`
	DefaultNature       string     `json:"defaultNature"`
	LastSyncAt          *time.Time `json:"lastSyncAt"`
	SyncCount           int        `json:"syncCount"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type workResponse struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Author              string     `json:"author"`
	Description         string     `json:"description"`
	CoverImageURL       string     `json:"coverImageUrl"`
	OriginalPublishDate *time.Time `json:"originalPublishDate"`
	Nature              string     `json:"nature"`
	WorkType            string     `json:"workType"`
	Link                string     `json:"link"`
	SourcePlatform      string     `json:"sourcePlatform"`
	SourceID            string     `json:"sourceId"`
	PublishedAt         *time.Time `json:"publishedAt"`
}

func newSubscriptionResponse(sub database.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:                  sub.ID,
		UID:                 sub.UID,
		UpName:              sub.UpName,
		IsActive:            sub.IsActive,
		AutoPublishKeywords: sub.AutoPublishKeywords,
		DefaultNature:       sub.DefaultNature,
		LastSyncAt:          sub.LastSyncAt,
		SyncCount:           sub.SyncCount,
		CreatedAt:           sub.CreatedAt,
		UpdatedAt:           sub.UpdatedAt,
	}
}

func newWorkResponse(work database.Work) workResponse {
	return workResponse{
		ID:                  work.ID,
		Title:               work.Title,
		Author:              work.Author,
		Description:         work.Description,
		CoverImageURL:       work.CoverImageURL,
		OriginalPublishDate: work.OriginalPublishDate,
		Nature:              work.Nature,
		WorkType:            work.WorkType,
		Link:                work.Link,
		SourcePlatform:      work.SourcePlatform,
		SourceID:            work.SourceID,
		PublishedAt:         work.PublishedAt,
	}
}
