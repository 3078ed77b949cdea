package services

import (
	"context"
	"fmt"
	"time"

	"hermanar_app/internal/models"
)

const (
	statsCachePrefix = "stats:cuotas:"
	statsCacheTTL    = 5 * time.Minute
)

// DueStatsStore is the slice of the due repository the statistics service uses.
type DueStatsStore interface {
	Statistics(year *int) (*models.DueStatistics, error)
}

// StatsService serves dues statistics, optionally through the Redis cache.
// With a nil cache every call goes straight to the repository.
type StatsService struct {
	dues  DueStatsStore
	cache *RedisCache
}

func NewStatsService(dues DueStatsStore, cache *RedisCache) *StatsService {
	return &StatsService{dues: dues, cache: cache}
}

// Get returns the statistics for the optional year scope.
func (s *StatsService) Get(ctx context.Context, year *int) (*models.DueStatistics, error) {
	if s.cache == nil {
		return s.dues.Statistics(year)
	}

	key := statsCachePrefix + "all"
	if year != nil {
		key = fmt.Sprintf("%s%d", statsCachePrefix, *year)
	}
	return GetOrSet(s.cache, ctx, key, statsCacheTTL, func() (*models.DueStatistics, error) {
		return s.dues.Statistics(year)
	})
}

// Invalidate drops every cached statistics entry. Called after any due write.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePrefix(ctx, statsCachePrefix)
}
