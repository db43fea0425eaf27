package ports

import (
	"context"
	"time"
)

// LoginEvent is emitted after each successful login and consumed
// asynchronously by the recent-logins pipeline.
type LoginEvent struct {
	UserID string
	Name   string
	Email  string
	At     time.Time
}

// LoginFeed is the fast-path store for the dashboard's latest-logins view.
type LoginFeed interface {
	Push(ctx context.Context, event LoginEvent) error
	Latest(ctx context.Context, limit int) ([]RecentLogin, error)
}

// LoginRecorder consumes login events dequeued by the dispatcher.
type LoginRecorder interface {
	Record(ctx context.Context, event LoginEvent) error
}
