package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/kivotos-dev/fanhub/app/database"
	"github.com/kivotos-dev/fanhub/app/feed"
)

const (
	// Only the most recent items are considered per pass, to bound work
	// per subscription per cycle.
	itemsPerSync = 5

	// DefaultRetryDelay is how long a failed-subscription retry wave waits
	// before re-running.
	DefaultRetryDelay = 5 * time.Minute
)

// Syncer drives subscriptions end-to-end: fetch, classify, dedup, create,
// bookkeeping. A fleet pass runs all active subscriptions concurrently and
// schedules one delayed retry wave for subscriptions that wholly failed.
type Syncer struct {
	fetcher    ItemFetcher
	subRepo    database.SubscriptionRepository
	workRepo   database.WorkRepository
	retryDelay time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	retryWG    gosync.WaitGroup
}

func NewSyncer(fetcher ItemFetcher, subRepo database.SubscriptionRepository,
	workRepo database.WorkRepository) *Syncer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Syncer{
		fetcher:    fetcher,
		subRepo:    subRepo,
		workRepo:   workRepo,
		retryDelay: DefaultRetryDelay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Stop cancels any pending retry wave. Retries are best-effort: one lost
// on shutdown is acceptable.
func (s *Syncer) Stop() {
	s.cancel()
	s.retryWG.Wait()
}

// SyncSubscription runs one subscription through a full pass. Errors are
// absorbed into the result at item granularity; processing continues past
// a failing item.
func (s *Syncer) SyncSubscription(ctx context.Context, sub database.Subscription) Result {
	result := Result{Errors: []string{}}

	if !sub.IsActive {
		slog.Info("Skipping inactive subscription", "up", sub.UpName)
		return result
	}

	items, err := s.fetcher.Run(ctx, sub.UID)
	if err != nil {
		msg := fmt.Sprintf("failed to sync subscription %q: %v", sub.UpName, err)
		slog.Error("Subscription sync failed", "up", sub.UpName, "uid", sub.UID, "error", err)
		result.Errors = append(result.Errors, msg)
		return result
	}

	if len(items) > itemsPerSync {
		items = items[:itemsPerSync]
	}
	slog.Info("Processing feed items", "up", sub.UpName, "count", len(items))

	for _, item := range items {
		if err := s.processItem(item, sub, &result); err != nil {
			msg := fmt.Sprintf("failed to process item %q: %v", item.Title, err)
			slog.Error("Item processing failed", "up", sub.UpName, "title", item.Title, "error", err)
			result.Errors = append(result.Errors, msg)
		}
	}

	err = s.subRepo.UpdateSyncStats(sub.ID, time.Now().UTC(), sub.SyncCount+result.Created)
	if err != nil {
		msg := fmt.Sprintf("failed to sync subscription %q: %v", sub.UpName, err)
		slog.Error("Bookkeeping update failed", "up", sub.UpName, "error", err)
		result.Errors = append(result.Errors, msg)
	}

	return result
}

func (s *Syncer) processItem(item feed.Item, sub database.Subscription, result *Result) error {
	exists, err := s.workRepo.ExistsBySourceURL(item.Link)
	if err != nil {
		return err
	}
	if exists {
		result.Skipped++
		return nil
	}

	autoPublish := feed.ShouldAutoPublish(item.Title, sub.AutoPublishKeywords)

	if _, err := s.workRepo.Create(s.buildWork(item, sub, autoPublish)); err != nil {
		return err
	}

	status := "pending"
	if autoPublish {
		status = "published"
	}
	slog.Info("Work imported", "title", item.Title, "up", sub.UpName, "status", status)

	result.Created++
	return nil
}

func (s *Syncer) buildWork(item feed.Item, sub database.Subscription, autoPublish bool) database.Work {
	now := time.Now().UTC()

	work := database.Work{
		Title:               item.Title,
		Author:              sub.UpName,
		Description:         item.Description,
		CoverImageURL:       item.CoverURL,
		OriginalPublishDate: item.PublishedAt,
		Nature:              sub.DefaultNature,
		WorkType:            "video",
		Link:                item.Link,
		SourceURL:           item.Link,
		SourcePlatform:      "bilibili",
		SourceID:            feed.ExtractSourceID(item.Link),
		IsAutoImported:      true,
		ImportedAt:          &now,
		IsActive:            true,
	}

	if work.Nature == "" {
		work.Nature = "fanmade"
	}
	if autoPublish {
		work.PublishedAt = &now
	}

	return work
}

// SyncAll runs every active subscription concurrently and aggregates the
// results. One failing subscription never aborts its siblings. The caller
// gets the aggregate immediately; a retry wave for wholly failed
// subscriptions runs in the background after a delay.
func (s *Syncer) SyncAll(ctx context.Context) (*FleetResult, error) {
	subs, err := s.subRepo.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	fleet := &FleetResult{Total: len(subs), Errors: []string{}}
	var failed []database.Subscription

	var mu gosync.Mutex
	var wg gosync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub database.Subscription) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					defer mu.Unlock()
					fleet.Errors = append(fleet.Errors, fmt.Sprintf("failed to sync subscription %q: %v", sub.UpName, r))
					failed = append(failed, sub)
				}
			}()

			result := s.SyncSubscription(ctx, sub)

			mu.Lock()
			defer mu.Unlock()
			fleet.Created += result.Created
			fleet.Skipped += result.Skipped
			fleet.Errors = append(fleet.Errors, result.Errors...)
			if len(result.Errors) > 0 && result.Created == 0 {
				failed = append(failed, sub)
			}
		}(sub)
	}
	wg.Wait()

	slog.Info("Fleet sync completed", "total", fleet.Total, "created", fleet.Created,
		"skipped", fleet.Skipped, "errors", len(fleet.Errors))

	if len(failed) > 0 {
		slog.Info("Scheduling retry for failed subscriptions", "count", len(failed), "delay", s.retryDelay.String())
		s.scheduleRetry(failed)
	}

	return fleet, nil
}

// scheduleRetry re-runs wholly failed subscriptions sequentially after the
// retry delay. The outcome is observable only through logs and the
// subscriptions' bookkeeping; it is never reported to the original caller.
func (s *Syncer) scheduleRetry(failed []database.Subscription) {
	s.retryWG.Add(1)
	go func() {
		defer s.retryWG.Done()

		timer := time.NewTimer(s.retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Info("Retry wave dropped on shutdown", "subscriptions", len(failed))
			return
		case <-timer.C:
		}

		slog.Info("Retrying failed subscriptions", "count", len(failed))
		for _, sub := range failed {
			result := s.SyncSubscription(s.ctx, sub)
			if result.Created > 0 {
				slog.Info("Retry succeeded", "up", sub.UpName, "created", result.Created)
			} else if len(result.Errors) > 0 {
				slog.Warn("Retry still failing", "up", sub.UpName, "errors", len(result.Errors))
			}
		}
	}()
}
