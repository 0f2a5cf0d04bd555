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

// RegisterParticipationRequest is a student's registration payload for an
// event. Payment is a self-reported tag, not a verified transaction.
type RegisterParticipationRequest struct {
	EventID     string `json:"eventId" validate:"required"`
	RollNo      string `json:"rollNo"`
	PaymentType string `json:"paymentType" validate:"required"`
}

// RegistrationResult carries the participation together with whether this
// call created it, so handlers can answer 201 vs 200.
type RegistrationResult struct {
	Participation *models.Participation
	Created       bool
}

// ParticipationService is the registration registry: idempotent student
// registrations, withdrawal, and the staff-side arrival and payment marks.
type ParticipationService struct {
	participations store.ParticipationStore
	events         store.EventStore
	users          store.UserStore
	staff          *AssignmentService
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewParticipationService constructs a ParticipationService.
func NewParticipationService(participations store.ParticipationStore, events store.EventStore, users store.UserStore, staff *AssignmentService, validate *validator.Validate, logger *zap.Logger) *ParticipationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipationService{
		participations: participations,
		events:         events,
		users:          users,
		staff:          staff,
		validator:      validate,
		logger:         logger,
	}
}

// Register creates the student's participation for an event. Registering
// twice for the same event returns the original record unchanged.
func (s *ParticipationService) Register(ctx context.Context, actor models.Actor, req RegisterParticipationRequest) (*RegistrationResult, error) {
	if err := requireRole(actor, models.RoleStudent); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	payment := models.PaymentType(req.PaymentType)
	if !payment.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown payment type")
	}

	event, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		return nil, storeFailure(err, "load event")
	}
	if event.Deleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	if !event.Status.Active() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "event no longer accepts registrations")
	}

	student, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeFailure(err, "load student")
	}

	participation := &models.Participation{
		EventID:     req.EventID,
		StudentID:   actor.ID,
		Name:        student.Name,
		LeoID:       student.LeoID,
		RollNo:      req.RollNo,
		PaymentType: payment,
	}
	record, created, err := s.participations.Register(ctx, participation)
	if err != nil {
		return nil, storeFailure(err, "register participation")
	}

	if created {
		s.logger.Info("student registered",
			zap.String("event_id", req.EventID), zap.String("student_id", actor.ID))
	}
	return &RegistrationResult{Participation: record, Created: created}, nil
}

// Withdraw removes the student's own registration.
func (s *ParticipationService) Withdraw(ctx context.Context, actor models.Actor, participationID string) error {
	if err := requireRole(actor, models.RoleStudent); err != nil {
		return err
	}
	participation, err := s.participations.FindByID(ctx, participationID)
	if err != nil {
		return storeFailure(err, "load participation")
	}
	if participation.StudentID != actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot withdraw another student's registration")
	}

	if err := s.participations.Delete(ctx, participationID); err != nil {
		return storeFailure(err, "withdraw participation")
	}
	s.logger.Info("student withdrew",
		zap.String("event_id", participation.EventID), zap.String("student_id", actor.ID))
	return nil
}

// SetArrived marks whether the participant showed up. Staff only.
func (s *ParticipationService) SetArrived(ctx context.Context, actor models.Actor, participationID string, arrived bool) (*models.Participation, error) {
	participation, err := s.loadForStaff(ctx, actor, participationID)
	if err != nil {
		return nil, err
	}
	if err := s.participations.SetArrived(ctx, participationID, arrived); err != nil {
		return nil, storeFailure(err, "update arrival")
	}
	participation.Arrived = arrived
	return participation, nil
}

// SetPaymentStatus records the staff-side payment verdict. Staff only.
func (s *ParticipationService) SetPaymentStatus(ctx context.Context, actor models.Actor, participationID, status string) (*models.Participation, error) {
	if status == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment status is required")
	}
	participation, err := s.loadForStaff(ctx, actor, participationID)
	if err != nil {
		return nil, err
	}
	if err := s.participations.SetPaymentStatus(ctx, participationID, status); err != nil {
		return nil, storeFailure(err, "update payment status")
	}
	participation.PaymentStatus = status
	return participation, nil
}

// ListByEvent returns an event's registrations in registration order.
// Admins and assigned coordinators only.
func (s *ParticipationService) ListByEvent(ctx context.Context, actor models.Actor, eventID string) ([]models.Participation, error) {
	if err := s.staff.AuthorizeEventStaff(ctx, actor, eventID); err != nil {
		return nil, err
	}
	list, err := s.participations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeFailure(err, "list participations")
	}
	return list, nil
}

// ListMine returns the acting student's registrations across events.
func (s *ParticipationService) ListMine(ctx context.Context, actor models.Actor) ([]models.Participation, error) {
	if err := requireRole(actor, models.RoleStudent); err != nil {
		return nil, err
	}
	list, err := s.participations.ListByStudent(ctx, actor.ID)
	if err != nil {
		return nil, storeFailure(err, "list registrations")
	}
	return list, nil
}

func (s *ParticipationService) loadForStaff(ctx context.Context, actor models.Actor, participationID string) (*models.Participation, error) {
	participation, err := s.participations.FindByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participation not found")
		}
		return nil, storeFailure(err, "load participation")
	}
	if err := s.staff.AuthorizeEventStaff(ctx, actor, participation.EventID); err != nil {
		return nil, err
	}
	return participation, nil
}
