package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

// CreateUserRequest is the admin-side payload for provisioning coordinator
// and admin accounts.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Role  string `json:"role" validate:"required,oneof=coordinator admin"`
}

// CreatedUser pairs the stored record with the one-time generated password.
// The password is shown once and never retrievable again.
type CreatedUser struct {
	User              *models.User `json:"user"`
	TemporaryPassword string       `json:"temporaryPassword"`
}

// UserService manages coordinator and admin accounts plus the coordinator
// approval flow.
type UserService struct {
	users        store.UserStore
	validator    *validator.Validate
	logger       *zap.Logger
	passwordSize int
}

// NewUserService constructs a UserService.
func NewUserService(users store.UserStore, validate *validator.Validate, logger *zap.Logger, passwordSize int) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if passwordSize <= 0 {
		passwordSize = 9
	}
	return &UserService{users: users, validator: validate, logger: logger, passwordSize: passwordSize}
}

// CreateUser provisions a coordinator or admin with a generated temporary
// password. Admin-created coordinators start approved; self-registered ones
// would start pending, but self-registration for staff is not offered.
func (s *UserService) CreateUser(ctx context.Context, actor models.Actor, req CreateUserRequest) (*CreatedUser, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	password, err := randomToken(s.passwordSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Role:         models.UserRole(req.Role),
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	}
	if user.Role == models.RoleCoordinator {
		user.Status = models.CoordinatorApproved
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a user with this email and role already exists")
		}
		return nil, storeFailure(err, "create user")
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &CreatedUser{User: user, TemporaryPassword: password}, nil
}

// ListCoordinators returns all coordinator accounts with their approval
// status. Admin only.
func (s *UserService) ListCoordinators(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := s.users.ListByRole(ctx, models.RoleCoordinator)
	if err != nil {
		return nil, storeFailure(err, "list coordinators")
	}
	for i := range list {
		list[i].PasswordHash = ""
	}
	return list, nil
}

// SetCoordinatorStatus approves or rejects a coordinator account.
func (s *UserService) SetCoordinatorStatus(ctx context.Context, actor models.Actor, coordinatorID string, status models.CoordinatorStatus) (*models.User, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown coordinator status")
	}

	user, err := s.users.FindByID(ctx, coordinatorID)
	if err != nil {
		return nil, storeFailure(err, "load coordinator")
	}
	if user.Role != models.RoleCoordinator {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is not a coordinator")
	}

	if err := s.users.UpdateCoordinatorStatus(ctx, coordinatorID, status); err != nil {
		return nil, storeFailure(err, "update coordinator status")
	}
	user.Status = status
	user.PasswordHash = ""

	s.logger.Info("coordinator status changed",
		zap.String("coordinator_id", coordinatorID), zap.String("status", string(status)))
	return user, nil
}

// Profile returns the acting user's own record.
func (s *UserService) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeFailure(err, "load profile")
	}
	user.PasswordHash = ""
	return user, nil
}
