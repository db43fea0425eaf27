package service

import (
	"context"
	"fmt"

	"github.com/smallplatform/personnel-api/internal/core/ports"
)

// FeedRecorder writes dequeued login events into the recent-logins feed.
type FeedRecorder struct {
	feed ports.LoginFeed
}

func NewFeedRecorder(feed ports.LoginFeed) *FeedRecorder {
	return &FeedRecorder{feed: feed}
}

func (r *FeedRecorder) Record(ctx context.Context, event ports.LoginEvent) error {
	if err := r.feed.Push(ctx, event); err != nil {
		return fmt.Errorf("record login event: %w", err)
	}
	return nil
}
