package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

const userColumns = `id, email, role, name, roll_no, phone, leo_id, password_hash, status, created_at, updated_at`

// UserRepository provides database access for identity records. A unique
// index on (role, lower(email)) backs the per-role email uniqueness.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, email, role, name, roll_no, phone, leo_id, password_hash, status, created_at, updated_at)
        VALUES (:id, :email, :role, :name, :roll_no, :phone, :leo_id, :password_hash, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return translate("create user", err)
	}
	return nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translate("find user by id", err)
	}
	return &user, nil
}

// FindByEmailRole resolves a user by email within one role.
func (r *UserRepository) FindByEmailRole(ctx context.Context, email string, role models.UserRole) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1) AND role = $2 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, strings.TrimSpace(email), role); err != nil {
		return nil, translate("find user by email", err)
	}
	return &user, nil
}

// ListByRole returns users of one role, oldest first.
func (r *UserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 ORDER BY created_at ASC, id`, userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

// UpdateCoordinatorStatus moves a coordinator through the approval workflow.
func (r *UserRepository) UpdateCoordinatorStatus(ctx context.Context, id string, status models.CoordinatorStatus) error {
	const query = `UPDATE users SET status = $2, updated_at = $3 WHERE id = $1 AND role = $4`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC(), models.RoleCoordinator)
	if err != nil {
		return translate("update coordinator status", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update coordinator status: %w", store.ErrNotFound)
	}
	return nil
}
