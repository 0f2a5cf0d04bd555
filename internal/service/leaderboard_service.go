package service

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

// UpsertScoreRequest sets or overwrites a participant's score in an event.
type UpsertScoreRequest struct {
	EventID   string  `json:"eventId" validate:"required"`
	StudentID string  `json:"studentId" validate:"required"`
	Score     float64 `json:"score"`
}

// CompleteEventRequest finishes an event. Winners, when given, override the
// score-derived top three; at most three places are accepted.
type CompleteEventRequest struct {
	EventID string   `json:"eventId" validate:"required"`
	Winners []string `json:"winners" validate:"max=3"`
}

// LeaderboardService ranks scored participants and freezes winners when an
// event completes.
type LeaderboardService struct {
	leaderboards   store.LeaderboardStore
	events         store.EventStore
	participations store.ParticipationStore
	users          store.UserStore
	staff          *AssignmentService
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewLeaderboardService constructs a LeaderboardService.
func NewLeaderboardService(leaderboards store.LeaderboardStore, events store.EventStore, participations store.ParticipationStore, users store.UserStore, staff *AssignmentService, validate *validator.Validate, logger *zap.Logger) *LeaderboardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardService{
		leaderboards:   leaderboards,
		events:         events,
		participations: participations,
		users:          users,
		staff:          staff,
		validator:      validate,
		logger:         logger,
	}
}

// UpsertScore records or overwrites a registered participant's score.
// Assigned coordinators and admins only; the event must not be completed.
func (s *LeaderboardService) UpsertScore(ctx context.Context, actor models.Actor, req UpsertScoreRequest) (*models.LeaderboardEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	if math.IsNaN(req.Score) || math.IsInf(req.Score, 0) {
		return nil, appErrors.Clone(appErrors.ErrInvalidScore, "")
	}
	if err := s.staff.AuthorizeEventStaff(ctx, actor, req.EventID); err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}
	switch event.Status {
	case models.EventStatusCompleted:
		return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "cannot score a completed event")
	case models.EventStatusClosed:
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "cannot score a closed event")
	}

	participation, err := s.participations.FindByPair(ctx, req.EventID, req.StudentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not registered for this event")
		}
		return nil, storeFailure(err, "load participation")
	}

	entry := &models.LeaderboardEntry{
		EventID:       req.EventID,
		ParticipantID: participation.StudentID,
		Name:          participation.Name,
		LeoID:         participation.LeoID,
		RollNo:        participation.RollNo,
		Score:         req.Score,
		EnteredBy:     actor.ID,
	}
	if err := s.leaderboards.Upsert(ctx, entry); err != nil {
		return nil, storeFailure(err, "save score")
	}

	s.logger.Info("score recorded",
		zap.String("event_id", req.EventID),
		zap.String("student_id", req.StudentID),
		zap.Float64("score", req.Score))
	return entry, nil
}

// Leaderboard returns the event's entries ranked by score descending, ties
// broken by first-entry order. Ranks are 1-based and dense.
func (s *LeaderboardService) Leaderboard(ctx context.Context, eventID string) ([]models.RankedEntry, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, storeFailure(err, "load event")
	}
	entries, err := s.leaderboards.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "list leaderboard")
	}
	ranked := make([]models.RankedEntry, len(entries))
	for i, entry := range entries {
		ranked[i] = models.RankedEntry{LeaderboardEntry: entry, Rank: i + 1}
	}
	return ranked, nil
}

// Complete finishes an event and freezes its winners in one atomic step.
// When the request names winners they are recorded as given; otherwise the
// top three of the leaderboard win. Completing twice fails, as does
// completing a closed event.
func (s *LeaderboardService) Complete(ctx context.Context, actor models.Actor, req CompleteEventRequest) ([]models.Winner, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}

	event, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}
	switch event.Status {
	case models.EventStatusCompleted:
		return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "")
	case models.EventStatusClosed:
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "cannot complete a closed event")
	}
	if frozen, err := s.leaderboards.HasWinners(ctx, req.EventID); err != nil {
		return nil, storeFailure(err, "check winners")
	} else if frozen {
		return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "winners already recorded")
	}

	winners, err := s.resolveWinners(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.events.CompleteWithWinners(ctx, req.EventID, winners); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "winners already recorded")
		case errors.Is(err, store.ErrInvalidState):
			// The CAS lost a race; re-read to tell completed from closed.
			current, readErr := s.events.FindByID(ctx, req.EventID)
			if readErr == nil && current.Status == models.EventStatusCompleted {
				return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "")
			}
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "cannot complete a closed event")
		default:
			return nil, storeFailure(err, "complete event")
		}
	}

	s.logger.Info("event completed",
		zap.String("event_id", req.EventID), zap.Int("winners", len(winners)))
	return winners, nil
}

// resolveWinners builds the winner list, explicit when given, top three of
// the leaderboard otherwise. Explicit winners must be registered for the
// event.
func (s *LeaderboardService) resolveWinners(ctx context.Context, req CompleteEventRequest) ([]models.Winner, error) {
	if len(req.Winners) > 0 {
		winners := make([]models.Winner, 0, len(req.Winners))
		seen := make(map[string]struct{}, len(req.Winners))
		for i, participantID := range req.Winners {
			if _, dup := seen[participantID]; dup {
				return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate winner")
			}
			seen[participantID] = struct{}{}
			if _, err := s.participations.FindByPair(ctx, req.EventID, participantID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, appErrors.Clone(appErrors.ErrValidation, "winner is not registered for this event")
				}
				return nil, storeFailure(err, "load participation")
			}
			winners = append(winners, models.Winner{EventID: req.EventID, Place: i + 1, ParticipantID: participantID})
		}
		return winners, nil
	}

	entries, err := s.leaderboards.ListByEvent(ctx, req.EventID)
	if err != nil {
		return nil, storeFailure(err, "list leaderboard")
	}
	limit := len(entries)
	if limit > models.MaxWinners {
		limit = models.MaxWinners
	}
	winners := make([]models.Winner, 0, limit)
	for i := 0; i < limit; i++ {
		winners = append(winners, models.Winner{EventID: req.EventID, Place: i + 1, ParticipantID: entries[i].ParticipantID})
	}
	return winners, nil
}

// Winners returns the frozen winner list of a completed event.
func (s *LeaderboardService) Winners(ctx context.Context, eventID string) ([]models.Winner, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, storeFailure(err, "load event")
	}
	winners, err := s.leaderboards.Winners(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "list winners")
	}
	return winners, nil
}

// ScoreAuthors returns the coordinators who entered scores for an event,
// resolved to user records, in first-entry order. Unresolvable ids are
// skipped.
func (s *LeaderboardService) ScoreAuthors(ctx context.Context, actor models.Actor, eventID string) ([]models.User, error) {
	if err := requireRole(actor, models.RoleAdmin, models.RoleCoordinator); err != nil {
		return nil, err
	}
	ids, err := s.leaderboards.ScoreAuthors(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "list score authors")
	}
	authors := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, storeFailure(err, "load score author")
		}
		user.PasswordHash = ""
		authors = append(authors, *user)
	}
	return authors, nil
}
