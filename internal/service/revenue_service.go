package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

// RevenueService derives collection figures from registrations and event
// pricing. Nothing is stored; every summary is computed from the current
// state, so withdrawals and event deletions reflect immediately.
type RevenueService struct {
	events         store.EventStore
	participations store.ParticipationStore
	logger         *zap.Logger
}

// NewRevenueService constructs a RevenueService.
func NewRevenueService(events store.EventStore, participations store.ParticipationStore, logger *zap.Logger) *RevenueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevenueService{events: events, participations: participations, logger: logger}
}

// Summary computes per-event and total expected collections. Admin only.
// Soft-deleted events are excluded even when their registrations remain.
func (s *RevenueService) Summary(ctx context.Context, actor models.Actor) (*models.RevenueSummary, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	events, err := s.events.List(ctx, models.EventFilter{})
	if err != nil {
		return nil, storeFailure(err, "list events")
	}
	counts, err := s.participations.CountByEvent(ctx)
	if err != nil {
		return nil, storeFailure(err, "count participations")
	}

	summary := &models.RevenueSummary{ByEvent: make(map[string]models.EventRevenue, len(events))}
	for _, event := range events {
		count := counts[event.ID]
		amount := count * event.Cost
		summary.ByEvent[event.ID] = models.EventRevenue{
			Title:  event.Title,
			Count:  count,
			Amount: amount,
		}
		summary.Total += amount
	}
	return summary, nil
}
