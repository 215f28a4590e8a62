package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type brokenCache struct{}

func (brokenCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (brokenCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Delete(ctx context.Context, keys ...string) error {
	return errors.New("connection refused")
}

func TestInvalidateDashboardLogsCacheFailure(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	invalidateDashboard(context.Background(), brokenCache{})

	assert.Contains(t, buf.String(), "failed to invalidate dashboard cache")
	assert.Contains(t, buf.String(), "connection refused")
}
