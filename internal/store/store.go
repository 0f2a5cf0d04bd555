// Package store defines the storage collaborator the festival engine is
// written against. Two implementations exist: repository (PostgreSQL) and
// memstore (in-memory fallback). All lifecycle invariants live above this
// boundary; the store contributes uniqueness constraints and atomic
// conditional writes so concurrent callers cannot race past them.
package store

import (
	"context"
	"errors"

	"github.com/leoclub/leofest-api/internal/models"
)

// Sentinel errors shared by both implementations. Services translate them
// into the caller-facing taxonomy.
var (
	// ErrNotFound signals an unknown id.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate signals a uniqueness constraint violation.
	ErrDuplicate = errors.New("store: duplicate")
	// ErrCapacity signals a conditional insert rejected by a capacity bound.
	ErrCapacity = errors.New("store: capacity exceeded")
	// ErrInvalidState signals a conditional update whose precondition failed.
	ErrInvalidState = errors.New("store: invalid state")
	// ErrUnavailable signals the backing store could not be reached.
	ErrUnavailable = errors.New("store: unavailable")
)

// EventStore holds event records and owns their lifecycle writes.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	// Update replaces mutable fields. Status and deletion flags are not
	// touched here; those go through UpdateStatus, SoftDelete and
	// CompleteWithWinners.
	Update(ctx context.Context, event *models.Event) error
	// UpdateStatus compares-and-sets the status: the write only applies when
	// the current status is one of from. ErrInvalidState otherwise.
	UpdateStatus(ctx context.Context, id string, from []models.EventStatus, to models.EventStatus) error
	// SoftDelete marks the event excluded from listings. Participations,
	// leaderboard entries and winners referencing it are untouched.
	SoftDelete(ctx context.Context, id string) error
	// FindByID returns the event regardless of the deleted flag so records
	// referencing a deleted event still resolve.
	FindByID(ctx context.Context, id string) (*models.Event, error)
	// List returns non-deleted events matching the filter, newest first.
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	// CompleteWithWinners atomically moves an open or ongoing event to
	// completed and records its winners. ErrInvalidState when the event is
	// closed or already completed, ErrDuplicate when winners exist.
	CompleteWithWinners(ctx context.Context, eventID string, winners []models.Winner) error
}

// AssignmentStore is the coordinator assignment ledger.
type AssignmentStore interface {
	// Join inserts the (coordinator, event) relation only while the
	// coordinator stays within maxActive assignments to open or ongoing
	// events. ErrDuplicate when the pair exists, ErrCapacity when the bound
	// would be exceeded. The check and the insert are a single atomic step.
	Join(ctx context.Context, assignment *models.Assignment, maxActive int) error
	// Leave removes the relation. Returns false when it was not present.
	Leave(ctx context.Context, coordinatorID, eventID string) (bool, error)
	Exists(ctx context.Context, coordinatorID, eventID string) (bool, error)
	// ListByCoordinator returns every event the coordinator ever joined,
	// including completed and closed ones, for the work-history view.
	ListByCoordinator(ctx context.Context, coordinatorID string) ([]models.CoordinatorEvent, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Assignment, error)
}

// ParticipationStore holds one registration per (event, student) pair.
type ParticipationStore interface {
	// Register inserts the participation or, when the pair already exists,
	// returns the existing record with created=false. Never creates a
	// duplicate, even under concurrent registration of the same pair.
	Register(ctx context.Context, participation *models.Participation) (*models.Participation, bool, error)
	FindByID(ctx context.Context, id string) (*models.Participation, error)
	FindByPair(ctx context.Context, eventID, studentID string) (*models.Participation, error)
	Delete(ctx context.Context, id string) error
	SetArrived(ctx context.Context, id string, arrived bool) error
	SetPaymentStatus(ctx context.Context, id, status string) error
	// ListByEvent orders by registeredAt ascending.
	ListByEvent(ctx context.Context, eventID string) ([]models.Participation, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Participation, error)
	// CountByEvent returns registration counts keyed by event id.
	CountByEvent(ctx context.Context) (map[string]int, error)
}

// LeaderboardStore holds scored entries and frozen winners.
type LeaderboardStore interface {
	// Upsert inserts or overwrites the entry for (event, participant).
	// The first insert fixes the entry's position used for stable tie order.
	Upsert(ctx context.Context, entry *models.LeaderboardEntry) error
	// ListByEvent orders by score descending, ties by insertion order.
	ListByEvent(ctx context.Context, eventID string) ([]models.LeaderboardEntry, error)
	Winners(ctx context.Context, eventID string) ([]models.Winner, error)
	HasWinners(ctx context.Context, eventID string) (bool, error)
	// ScoreAuthors lists the distinct coordinator ids that entered scores.
	ScoreAuthors(ctx context.Context, eventID string) ([]string, error)
}

// UserStore persists identities for all three roles.
type UserStore interface {
	// Create inserts a user. ErrDuplicate when the (email, role) pair exists,
	// matched case-insensitively on email.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmailRole(ctx context.Context, email string, role models.UserRole) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	UpdateCoordinatorStatus(ctx context.Context, id string, status models.CoordinatorStatus) error
}

// Store aggregates the per-entity stores so wiring swaps implementations in
// one place.
type Store struct {
	Events         EventStore
	Assignments    AssignmentStore
	Participations ParticipationStore
	Leaderboards   LeaderboardStore
	Users          UserStore
}
