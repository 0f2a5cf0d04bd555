package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

const eventColumns = `id, title, description, date, time, venue, category, cost, rules, team_size, status, deleted, created_at, updated_at`

// EventRepository manages persistence for event records.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event record.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	const query = `INSERT INTO events (id, title, description, date, time, venue, category, cost, rules, team_size, status, deleted, created_at, updated_at)
        VALUES (:id, :title, :description, :date, :time, :venue, :category, :cost, :rules, :team_size, :status, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return translate("create event", err)
	}
	return nil
}

// Update replaces mutable fields. Status and the deleted flag stay untouched,
// lifecycle writes go through UpdateStatus and SoftDelete.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET title = :title, description = :description, date = :date, time = :time,
        venue = :venue, category = :category, cost = :cost, rules = :rules, team_size = :team_size, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return translate("update event", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update event: %w", store.ErrNotFound)
	}
	return nil
}

// UpdateStatus compares-and-sets the lifecycle status at the store boundary.
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, from []models.EventStatus, to models.EventStatus) error {
	states := make([]string, len(from))
	for i, status := range from {
		states[i] = string(status)
	}
	const query = `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1 AND status = ANY($4)`
	result, err := r.db.ExecContext(ctx, query, id, to, time.Now().UTC(), pq.Array(states))
	if err != nil {
		return translate("update event status", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return r.missingOrInvalid(ctx, "update event status", id)
	}
	return nil
}

// SoftDelete marks the event excluded from listings.
func (r *EventRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE events SET deleted = TRUE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return translate("soft delete event", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("soft delete event: %w", store.ErrNotFound)
	}
	return nil
}

// FindByID fetches an event by id, deleted or not.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, translate("find event", err)
	}
	return &event, nil
}

// List returns non-deleted events matching the filter, newest first.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	conditions := []string{"deleted = FALSE"}
	args := []interface{}{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY created_at DESC, id`, eventColumns, strings.Join(conditions, " AND "))
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, translate("list events", err)
	}
	return events, nil
}

// CompleteWithWinners flips the status to completed and records the winners
// in one transaction, so a completed event without its winners is never
// observable.
func (r *EventRepository) CompleteWithWinners(ctx context.Context, eventID string, winners []models.Winner) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate("complete event", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const statusQuery = `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1 AND status = ANY($4)`
	active := pq.Array([]string{string(models.EventStatusOpen), string(models.EventStatusOngoing)})
	result, err := tx.ExecContext(ctx, statusQuery, eventID, models.EventStatusCompleted, time.Now().UTC(), active)
	if err != nil {
		return translate("complete event", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return r.missingOrInvalid(ctx, "complete event", eventID)
	}

	const winnerQuery = `INSERT INTO winners (event_id, place, participant_id) VALUES ($1, $2, $3)`
	for _, winner := range winners {
		if _, err := tx.ExecContext(ctx, winnerQuery, winner.EventID, winner.Place, winner.ParticipantID); err != nil {
			return translate("record winners", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translate("complete event", err)
	}
	return nil
}

// missingOrInvalid tells an unknown id apart from a failed status
// precondition after a zero-row conditional update.
func (r *EventRepository) missingOrInvalid(ctx context.Context, op, id string) error {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM events WHERE id = $1 LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	if err != nil {
		return translate(op, err)
	}
	return fmt.Errorf("%s: %w", op, store.ErrInvalidState)
}
