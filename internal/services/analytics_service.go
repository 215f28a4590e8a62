package services

import (
	"context"
	"log/slog"
	"time"

	"gasflow/internal/repository"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*repository.DashboardStats, error)
}

type analyticsService struct {
	repos             *repository.Repositories
	cache             Cache
	ttl               time.Duration
	lowStockThreshold int
}

func NewAnalyticsService(repos *repository.Repositories, cache Cache, ttl time.Duration, lowStockThreshold int) AnalyticsService {
	return &analyticsService{
		repos:             repos,
		cache:             cache,
		ttl:               ttl,
		lowStockThreshold: lowStockThreshold,
	}
}

// Dashboard serves the admin aggregates from cache when possible. Cache
// failures fall through to the database.
func (s *analyticsService) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	if s.cache != nil {
		var cached repository.DashboardStats
		if err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repos.Orders.DashboardStats(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, s.ttl); err != nil {
			slog.Warn("failed to cache dashboard", "error", err)
		}
	}
	return stats, nil
}
