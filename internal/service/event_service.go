package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

// CreateEventRequest describes event creation payload.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time"`
	Venue       string `json:"venue" validate:"required"`
	Category    string `json:"category"`
	Cost        *int   `json:"cost" validate:"omitempty,gte=0"`
	Rules       string `json:"rules"`
	TeamSize    string `json:"teamSize"`
}

// UpdateEventRequest describes the mutable event fields. Status changes are
// rejected here; they go through SetStatus.
type UpdateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time"`
	Venue       string `json:"venue" validate:"required"`
	Category    string `json:"category"`
	Cost        *int   `json:"cost" validate:"omitempty,gte=0"`
	Rules       string `json:"rules"`
	TeamSize    string `json:"teamSize"`
}

// EventService owns the event lifecycle: creation, generic updates, the
// status state machine and soft deletion.
type EventService struct {
	events      store.EventStore
	validator   *validator.Validate
	logger      *zap.Logger
	defaultCost int
}

// NewEventService constructs an EventService.
func NewEventService(events store.EventStore, validate *validator.Validate, logger *zap.Logger, defaultCost int) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCost <= 0 {
		defaultCost = models.DefaultEventCost
	}
	return &EventService{events: events, validator: validate, logger: logger, defaultCost: defaultCost}
}

// Create inserts a new event with status open.
func (s *EventService) Create(ctx context.Context, actor models.Actor, req CreateEventRequest) (*models.Event, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	cost := s.defaultCost
	if req.Cost != nil {
		cost = *req.Cost
	}
	category := req.Category
	if category == "" {
		category = "General"
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Venue:       req.Venue,
		Category:    category,
		Cost:        cost,
		Rules:       req.Rules,
		TeamSize:    req.TeamSize,
		Status:      models.EventStatusOpen,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, storeFailure(err, "create event")
	}

	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("title", event.Title))
	return event, nil
}

// Update replaces the mutable fields of an event.
func (s *EventService) Update(ctx context.Context, actor models.Actor, id string, req UpdateEventRequest) (*models.Event, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Date = req.Date
	event.Time = req.Time
	event.Venue = req.Venue
	if req.Category != "" {
		event.Category = req.Category
	}
	if req.Cost != nil {
		event.Cost = *req.Cost
	}
	event.Rules = req.Rules
	event.TeamSize = req.TeamSize

	if err := s.events.Update(ctx, event); err != nil {
		return nil, storeFailure(err, "update event")
	}
	return event, nil
}

// SetStatus enforces the state machine: open→ongoing→completed plus
// open|ongoing→closed, nothing else. Completion itself belongs to the
// leaderboard engine, which also freezes winners; this entry point moves
// events between the remaining states.
func (s *EventService) SetStatus(ctx context.Context, actor models.Actor, id string, target models.EventStatus) (*models.Event, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown event status")
	}
	if target == models.EventStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "completion requires the complete operation so winners are recorded")
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}
	if !event.Status.CanTransition(target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			"cannot move event from "+string(event.Status)+" to "+string(target))
	}

	if err := s.events.UpdateStatus(ctx, id, []models.EventStatus{event.Status}, target); err != nil {
		if errors.Is(err, store.ErrInvalidState) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "event status changed concurrently")
		}
		return nil, storeFailure(err, "update event status")
	}

	event.Status = target
	s.logger.Info("event status changed", zap.String("event_id", id), zap.String("status", string(target)))
	return event, nil
}

// Delete soft-deletes the event. Participations, leaderboard entries and
// winners referencing it survive.
func (s *EventService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.events.SoftDelete(ctx, id); err != nil {
		return storeFailure(err, "delete event")
	}
	s.logger.Info("event deleted", zap.String("event_id", id))
	return nil
}

// Get returns one listed event. Soft-deleted events are hidden from callers.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}
	if event.Deleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return event, nil
}

// List returns non-deleted events matching the filter.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, storeFailure(err, "list events")
	}
	return events, nil
}
