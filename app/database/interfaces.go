package database

import (
	"time"
)

type SubscriptionRepository interface {
	GetAll() ([]Subscription, error)
	GetActive() ([]Subscription, error)
	GetByID(id string) (*Subscription, error)
	GetByUID(uid string) (*Subscription, error)
	GetCount() (int, error)

	Create(sub Subscription) (*Subscription, error)
	Update(id string, sub Subscription) error
	Delete(id string) error
	UpdateSyncStats(id string, lastSyncAt time.Time, syncCount int) error
}

type WorkRepository interface {
	ExistsBySourceURL(sourceURL string) (bool, error)
	Create(work Work) (*Work, error)
	GetPublished(limit, offset int) ([]Work, error)
	GetCount() (int, error)
}
