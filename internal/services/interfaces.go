package services

import (
	"context"
	"log/slog"
	"time"

	"gasflow/internal/realtime"
)

// Pusher delivers an event to a user's live session, best effort.
type Pusher interface {
	Send(userID string, event realtime.Event) bool
}

// Cache is the JSON cache used for dashboard aggregates.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const dashboardCacheKey = "analytics:dashboard"

func invalidateDashboard(ctx context.Context, cache Cache) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, dashboardCacheKey); err != nil {
		slog.Warn("failed to invalidate dashboard cache", "error", err)
	}
}
