package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/models"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

const (
	visitTotalKey  = "visits:total"
	visitByDateKey = "visits:by_date"
)

// AnalyticsService keeps site visit counters in Redis, outside the
// relational store. When Redis is not configured the service degrades to a
// no-op recorder and an empty summary.
type AnalyticsService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewAnalyticsService constructs an AnalyticsService. A nil client is
// allowed and disables counting.
func NewAnalyticsService(client *redis.Client, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{redis: client, logger: logger}
}

// Enabled reports whether a Redis backend is wired.
func (s *AnalyticsService) Enabled() bool {
	return s.redis != nil
}

// RecordVisit bumps the total and per-day counters. Counter failures are
// logged, never surfaced; a broken counter must not fail a request.
func (s *AnalyticsService) RecordVisit(ctx context.Context) {
	if s.redis == nil {
		return
	}
	day := time.Now().UTC().Format("2006-01-02")
	pipe := s.redis.Pipeline()
	pipe.Incr(ctx, visitTotalKey)
	pipe.HIncrBy(ctx, visitByDateKey, day, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("visit counter update failed", zap.Error(err))
	}
}

// VisitSummary returns the total visit count and the per-day breakdown,
// most recent day first. Admin only.
func (s *AnalyticsService) VisitSummary(ctx context.Context, actor models.Actor) (*models.VisitSummary, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if s.redis == nil {
		return &models.VisitSummary{ByDate: []models.VisitCount{}}, nil
	}

	total, err := s.redis.Get(ctx, visitTotalKey).Int64()
	if err != nil && err != redis.Nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "visit counters unavailable")
	}

	byDate, err := s.redis.HGetAll(ctx, visitByDateKey).Result()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "visit counters unavailable")
	}

	counts := make([]models.VisitCount, 0, len(byDate))
	for day, raw := range byDate {
		n, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			continue
		}
		counts = append(counts, models.VisitCount{Date: day, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date > counts[j].Date })

	return &models.VisitSummary{Total: total, ByDate: counts}, nil
}
