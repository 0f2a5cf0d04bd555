package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

// Users is the in-memory identity store. Emails are unique per role,
// compared case-insensitively.
type Users struct {
	mu     sync.Mutex
	items  map[string]models.User
	emails map[string]string // role+"\x00"+lower(email) -> user id
}

// NewUsers constructs the user store.
func NewUsers() *Users {
	return &Users{
		items:  make(map[string]models.User),
		emails: make(map[string]string),
	}
}

func emailKey(email string, role models.UserRole) string {
	return string(role) + "\x00" + strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user, rejecting duplicate (email, role) pairs.
func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email, user.Role)
	if _, exists := s.emails[key]; exists {
		return store.ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.items[user.ID] = *user
	s.emails[key] = user.ID
	return nil
}

// FindByID returns a user by id.
func (s *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	user := current
	return &user, nil
}

// FindByEmailRole resolves a user by email within one role.
func (s *Users) FindByEmailRole(_ context.Context, email string, role models.UserRole) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[emailKey(email, role)]
	if !ok {
		return nil, store.ErrNotFound
	}
	user := s.items[id]
	return &user, nil
}

// ListByRole returns users of one role, oldest first.
func (s *Users) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.User, 0)
	for _, user := range s.items {
		if user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateCoordinatorStatus moves a coordinator through the approval workflow.
func (s *Users) UpdateCoordinatorStatus(_ context.Context, id string, status models.CoordinatorStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	if current.Role != models.RoleCoordinator {
		return store.ErrInvalidState
	}
	current.Status = status
	current.UpdatedAt = time.Now().UTC()
	s.items[id] = current
	return nil
}
