package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kivotos-dev/fanhub/app/sync"
)

type SyncAllTask struct {
	Task
	syncer *sync.Syncer
}

func NewSyncAllTask(syncer *sync.Syncer) *SyncAllTask {
	return &SyncAllTask{
		Task:   NewTask(TaskTypeSyncAll),
		syncer: syncer,
	}
}

func (t *SyncAllTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.syncer.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to run fleet sync: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncAll",
		"duration", t.GetDuration(),
		"total", result.Total,
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	return nil
}
