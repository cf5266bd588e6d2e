package sync

import (
	"context"

	"github.com/kivotos-dev/fanhub/app/feed"
)

type ItemFetcher interface {
	Run(ctx context.Context, uid string) ([]feed.Item, error)
}
