package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

// AssignmentService is the coordinator capacity ledger. A coordinator may
// run at most maxActive events that are still open or ongoing; completed
// and closed events stop counting automatically.
type AssignmentService struct {
	assignments store.AssignmentStore
	events      store.EventStore
	users       store.UserStore
	logger      *zap.Logger
	maxActive   int
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(assignments store.AssignmentStore, events store.EventStore, users store.UserStore, logger *zap.Logger, maxActive int) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxActive <= 0 {
		maxActive = 2
	}
	return &AssignmentService{
		assignments: assignments,
		events:      events,
		users:       users,
		logger:      logger,
		maxActive:   maxActive,
	}
}

// Join assigns the acting coordinator to an event, enforcing the active
// capacity limit atomically in the store.
func (s *AssignmentService) Join(ctx context.Context, actor models.Actor, eventID string) (*models.Assignment, error) {
	if err := requireRole(actor, models.RoleCoordinator); err != nil {
		return nil, err
	}

	coordinator, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeFailure(err, "load coordinator")
	}
	if !coordinator.Approved() {
		return nil, appErrors.Clone(appErrors.ErrPendingApproval, "")
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}
	if event.Deleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	if !event.Status.Active() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "event no longer accepts coordinators")
	}

	assignment := &models.Assignment{CoordinatorID: actor.ID, EventID: eventID}
	if err := s.assignments.Join(ctx, assignment, s.maxActive); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, appErrors.Clone(appErrors.ErrConflict, "already assigned to this event")
		case errors.Is(err, store.ErrCapacity):
			return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "")
		default:
			return nil, storeFailure(err, "join event")
		}
	}

	s.logger.Info("coordinator joined event",
		zap.String("coordinator_id", actor.ID), zap.String("event_id", eventID))
	return assignment, nil
}

// Leave removes the acting coordinator from an event. Leaving an event the
// coordinator never joined is a no-op.
func (s *AssignmentService) Leave(ctx context.Context, actor models.Actor, eventID string) error {
	if err := requireRole(actor, models.RoleCoordinator); err != nil {
		return err
	}
	removed, err := s.assignments.Leave(ctx, actor.ID, eventID)
	if err != nil {
		return storeFailure(err, "leave event")
	}
	if removed {
		s.logger.Info("coordinator left event",
			zap.String("coordinator_id", actor.ID), zap.String("event_id", eventID))
	}
	return nil
}

// MyEvents lists the acting coordinator's assignments with event details.
func (s *AssignmentService) MyEvents(ctx context.Context, actor models.Actor) ([]models.CoordinatorEvent, error) {
	if err := requireRole(actor, models.RoleCoordinator); err != nil {
		return nil, err
	}
	list, err := s.assignments.ListByCoordinator(ctx, actor.ID)
	if err != nil {
		return nil, storeFailure(err, "list coordinator events")
	}
	return list, nil
}

// EventCoordinators lists the coordinators assigned to an event.
func (s *AssignmentService) EventCoordinators(ctx context.Context, actor models.Actor, eventID string) ([]models.Assignment, error) {
	if err := requireRole(actor, models.RoleCoordinator, models.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, storeFailure(err, "load event")
	}
	list, err := s.assignments.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "list event coordinators")
	}
	return list, nil
}

// AuthorizeEventStaff reports whether the actor may manage participations
// and scores for the event: admins always, coordinators only when assigned.
// Sibling services lean on it for their staff checks.
func (s *AssignmentService) AuthorizeEventStaff(ctx context.Context, actor models.Actor, eventID string) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleCoordinator {
		return appErrors.Clone(appErrors.ErrForbidden, "")
	}
	ok, err := s.assignments.Exists(ctx, actor.ID, eventID)
	if err != nil {
		return storeFailure(err, "check assignment")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "not assigned to this event")
	}
	return nil
}
