package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	"github.com/leoclub/leofest-api/pkg/config"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

// RegisterStudentRequest is the open student sign-up payload. Students have
// no password; possession of the generated LEO id and email identifies them.
type RegisterStudentRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	RollNo string `json:"rollNo"`
	Phone  string `json:"phone"`
}

// LoginRequest authenticates one of the three roles. Students log in with
// email alone; coordinators and admins supply a password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"required,oneof=student coordinator admin"`
}

// AuthService issues and validates access tokens and owns student sign-up.
type AuthService struct {
	users     store.UserStore
	validator *validator.Validate
	logger    *zap.Logger
	jwt       config.JWTConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(users store.UserStore, validate *validator.Validate, logger *zap.Logger, jwtCfg config.JWTConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, validator: validate, logger: logger, jwt: jwtCfg}
}

// RegisterStudent signs a student up and returns a logged-in session. The
// LEO id is generated server-side and handed back once on creation.
func (s *AuthService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	leoID, err := newLeoID()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate leo id")
	}
	user := &models.User{
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Role:   models.RoleStudent,
		Name:   req.Name,
		RollNo: req.RollNo,
		Phone:  req.Phone,
		LeoID:  leoID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email already exists")
		}
		return nil, storeFailure(err, "create student")
	}

	s.logger.Info("student registered", zap.String("user_id", user.ID))
	return s.issueSession(user)
}

// Login authenticates a user for the requested role and issues a token.
// Failed logins never reveal whether the account exists.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	role := models.UserRole(req.Role)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmailRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, storeFailure(err, "load user")
	}

	if role != models.RoleStudent {
		if req.Password == "" {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
	}
	if role == models.RoleCoordinator && !user.Approved() {
		return nil, appErrors.Clone(appErrors.ErrPendingApproval, "")
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID), zap.String("role", string(role)))
	return s.issueSession(user)
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// Me resolves the actor back to its user record.
func (s *AuthService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeFailure(err, "load user")
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *AuthService) issueSession(user *models.User) (*models.LoginResponse, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwt.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	public := *user
	public.PasswordHash = ""
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.jwt.Expiration.Seconds()),
		IssuedAt:    now,
		User:        &public,
	}, nil
}
