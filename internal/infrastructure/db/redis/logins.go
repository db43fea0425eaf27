package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallplatform/personnel-api/internal/core/ports"
)

const (
	recentLoginsKey = "logins:recent"
	recentLoginsCap = 50
	recentLoginsTTL = 7 * 24 * time.Hour
)

// LoginFeed keeps a capped list of the latest successful logins, newest
// first, backing the admin dashboard's recent-logins view.
type LoginFeed struct {
	client *redis.Client
}

// NewLoginFeed creates a LoginFeed wrapping the given Redis client.
func NewLoginFeed(client *redis.Client) *LoginFeed {
	return &LoginFeed{client: client}
}

type feedEntry struct {
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

// Push prepends event to the feed and trims it to recentLoginsCap entries.
func (f *LoginFeed) Push(ctx context.Context, event ports.LoginEvent) error {
	payload, err := json.Marshal(feedEntry(event))
	if err != nil {
		return fmt.Errorf("encode login event: %w", err)
	}

	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, recentLoginsKey, payload)
	pipe.LTrim(ctx, recentLoginsKey, 0, recentLoginsCap-1)
	pipe.Expire(ctx, recentLoginsKey, recentLoginsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push login event: %w", err)
	}
	return nil
}

// Latest returns up to limit feed entries, newest first.
func (f *LoginFeed) Latest(ctx context.Context, limit int) ([]ports.RecentLogin, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := f.client.LRange(ctx, recentLoginsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read login feed: %w", err)
	}

	recent := make([]ports.RecentLogin, 0, len(raw))
	for _, item := range raw {
		var entry feedEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue // skip entries written by an incompatible revision
		}
		recent = append(recent, ports.RecentLogin{
			UserID: entry.UserID,
			Name:   entry.Name,
			Email:  entry.Email,
			At:     entry.At,
		})
	}
	return recent, nil
}
