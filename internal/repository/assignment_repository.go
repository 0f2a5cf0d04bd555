package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

// AssignmentRepository is the PostgreSQL coordinator assignment ledger. The
// capacity bound is enforced inside a transaction holding a per-coordinator
// advisory lock, so two simultaneous joins by the same coordinator serialize
// instead of both passing the count.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Join inserts the relation while the coordinator has fewer than maxActive
// assignments to open or ongoing events.
func (r *AssignmentRepository) Join(ctx context.Context, assignment *models.Assignment, maxActive int) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.JoinedAt.IsZero() {
		assignment.JoinedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate("join event", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, assignment.CoordinatorID); err != nil {
		return translate("join event", err)
	}

	const countQuery = `SELECT COUNT(*) FROM assignments a
        JOIN events e ON e.id = a.event_id
        WHERE a.coordinator_id = $1 AND e.status IN ('open', 'ongoing')`
	var active int
	if err := tx.GetContext(ctx, &active, countQuery, assignment.CoordinatorID); err != nil {
		return translate("join event", err)
	}
	if active >= maxActive {
		return fmt.Errorf("join event: %w", store.ErrCapacity)
	}

	const insertQuery = `INSERT INTO assignments (id, coordinator_id, event_id, joined_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertQuery, assignment.ID, assignment.CoordinatorID, assignment.EventID, assignment.JoinedAt); err != nil {
		return translate("join event", err)
	}

	if err := tx.Commit(); err != nil {
		return translate("join event", err)
	}
	return nil
}

// Leave removes the relation, reporting whether it was present.
func (r *AssignmentRepository) Leave(ctx context.Context, coordinatorID, eventID string) (bool, error) {
	const query = `DELETE FROM assignments WHERE coordinator_id = $1 AND event_id = $2`
	result, err := r.db.ExecContext(ctx, query, coordinatorID, eventID)
	if err != nil {
		return false, translate("leave event", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, translate("leave event", err)
	}
	return affected > 0, nil
}

// Exists reports whether the coordinator staffs the event.
func (r *AssignmentRepository) Exists(ctx context.Context, coordinatorID, eventID string) (bool, error) {
	const query = `SELECT 1 FROM assignments WHERE coordinator_id = $1 AND event_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, coordinatorID, eventID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, translate("check assignment", err)
	}
	return true, nil
}

// ListByCoordinator returns every event the coordinator ever joined,
// completed and closed included, oldest join first.
func (r *AssignmentRepository) ListByCoordinator(ctx context.Context, coordinatorID string) ([]models.CoordinatorEvent, error) {
	const query = `SELECT a.id, a.coordinator_id, a.event_id, a.joined_at,
        e.title AS event_title, e.date AS event_date, e.venue AS event_venue, e.status AS event_status
        FROM assignments a
        JOIN events e ON e.id = a.event_id
        WHERE a.coordinator_id = $1
        ORDER BY a.joined_at ASC`
	var result []models.CoordinatorEvent
	if err := r.db.SelectContext(ctx, &result, query, coordinatorID); err != nil {
		return nil, translate("list coordinator events", err)
	}
	return result, nil
}

// ListByEvent returns the assignments staffing one event.
func (r *AssignmentRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Assignment, error) {
	const query = `SELECT id, coordinator_id, event_id, joined_at FROM assignments WHERE event_id = $1 ORDER BY joined_at ASC`
	var result []models.Assignment
	if err := r.db.SelectContext(ctx, &result, query, eventID); err != nil {
		return nil, translate("list event assignments", err)
	}
	return result, nil
}
