package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ SubscriptionRepository = (*SubscriptionRepositoryImpl)(nil)

type SubscriptionRepositoryImpl struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepositoryImpl {
	return &SubscriptionRepositoryImpl{db: db}
}

const subscriptionColumns = `id, uid, up_name, is_active, auto_publish_keywords,
	default_nature, last_sync_at, sync_count, created_at, updated_at`

func (r *SubscriptionRepositoryImpl) GetAll() ([]Subscription, error) {
	rows, err := r.db.Query(`
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

func (r *SubscriptionRepositoryImpl) GetActive() ([]Subscription, error) {
	rows, err := r.db.Query(`
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE is_active = 1
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get active subscriptions: %w", err)
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

func (r *SubscriptionRepositoryImpl) GetByID(id string) (*Subscription, error) {
	sub, err := r.getOne("id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by id: %w", err)
	}
	return sub, nil
}

func (r *SubscriptionRepositoryImpl) GetByUID(uid string) (*Subscription, error) {
	sub, err := r.getOne("uid", uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by uid: %w", err)
	}
	return sub, nil
}

func (r *SubscriptionRepositoryImpl) GetCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM subscriptions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get subscription count: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepositoryImpl) Create(sub Subscription) (*Subscription, error) {
	now := time.Now().UTC()
	sub.ID = uuid.NewString()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO subscriptions (id, uid, up_name, is_active, auto_publish_keywords,
			default_nature, last_sync_at, sync_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.UID, sub.UpName, sub.IsActive, sub.AutoPublishKeywords,
		sub.DefaultNature, sub.LastSyncAt, sub.SyncCount, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) Update(id string, sub Subscription) error {
	_, err := r.db.Exec(`
		UPDATE subscriptions
		SET uid = ?, up_name = ?, is_active = ?, auto_publish_keywords = ?,
		    default_nature = ?, updated_at = ?
		WHERE id = ?
	`, sub.UID, sub.UpName, sub.IsActive, sub.AutoPublishKeywords,
		sub.DefaultNature, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM subscriptions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateSyncStats(id string, lastSyncAt time.Time, syncCount int) error {
	_, err := r.db.Exec(`
		UPDATE subscriptions
		SET last_sync_at = ?, sync_count = ?, updated_at = ?
		WHERE id = ?
	`, lastSyncAt, syncCount, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update sync stats: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) getOne(field, value string) (*Subscription, error) {
	row := r.db.QueryRow(`
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE `+field+` = ?
	`, value)

	var sub Subscription
	err := row.Scan(
		&sub.ID, &sub.UID, &sub.UpName, &sub.IsActive, &sub.AutoPublishKeywords,
		&sub.DefaultNature, &sub.LastSyncAt, &sub.SyncCount, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func scanSubscriptions(rows *sql.Rows) ([]Subscription, error) {
	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		err := rows.Scan(
			&sub.ID, &sub.UID, &sub.UpName, &sub.IsActive, &sub.AutoPublishKeywords,
			&sub.DefaultNature, &sub.LastSyncAt, &sub.SyncCount, &sub.CreatedAt, &sub.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}

	return subs, nil
}
