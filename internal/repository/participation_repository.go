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

const participationColumns = `id, event_id, student_id, name, leo_id, roll_no, payment_type, payment_status, arrived, registered_at`

// ParticipationRepository is the PostgreSQL participation registry. The
// unique constraint on (event_id, student_id) makes registration idempotent
// under concurrent double-submission.
type ParticipationRepository struct {
	db *sqlx.DB
}

// NewParticipationRepository constructs a ParticipationRepository.
func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// Register inserts the participation, or returns the existing record for the
// (event, student) pair with created=false.
func (r *ParticipationRepository) Register(ctx context.Context, participation *models.Participation) (*models.Participation, bool, error) {
	if participation.ID == "" {
		participation.ID = uuid.NewString()
	}
	if participation.RegisteredAt.IsZero() {
		participation.RegisteredAt = time.Now().UTC()
	}

	const query = `INSERT INTO participations (id, event_id, student_id, name, leo_id, roll_no, payment_type, payment_status, arrived, registered_at)
        VALUES (:id, :event_id, :student_id, :name, :leo_id, :roll_no, :payment_type, :payment_status, :arrived, :registered_at)
        ON CONFLICT (event_id, student_id) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, participation)
	if err != nil {
		return nil, false, translate("register participation", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, translate("register participation", err)
	}
	if affected > 0 {
		created := *participation
		return &created, true, nil
	}

	existing, err := r.FindByPair(ctx, participation.EventID, participation.StudentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindByPair resolves the registration for one (event, student) pair.
func (r *ParticipationRepository) FindByPair(ctx context.Context, eventID, studentID string) (*models.Participation, error) {
	query := fmt.Sprintf(`SELECT %s FROM participations WHERE event_id = $1 AND student_id = $2 LIMIT 1`, participationColumns)
	var participation models.Participation
	if err := r.db.GetContext(ctx, &participation, query, eventID, studentID); err != nil {
		return nil, translate("find participation by pair", err)
	}
	return &participation, nil
}

// FindByID fetches a participation by id.
func (r *ParticipationRepository) FindByID(ctx context.Context, id string) (*models.Participation, error) {
	query := fmt.Sprintf(`SELECT %s FROM participations WHERE id = $1`, participationColumns)
	var participation models.Participation
	if err := r.db.GetContext(ctx, &participation, query, id); err != nil {
		return nil, translate("find participation", err)
	}
	return &participation, nil
}

// Delete removes a participation.
func (r *ParticipationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participations WHERE id = $1`, id)
	if err != nil {
		return translate("delete participation", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("delete participation: %w", store.ErrNotFound)
	}
	return nil
}

// SetArrived updates the attendance flag.
func (r *ParticipationRepository) SetArrived(ctx context.Context, id string, arrived bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participations SET arrived = $2 WHERE id = $1`, id, arrived)
	if err != nil {
		return translate("set arrived", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("set arrived: %w", store.ErrNotFound)
	}
	return nil
}

// SetPaymentStatus updates the coordinator-set payment status text.
func (r *ParticipationRepository) SetPaymentStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participations SET payment_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return translate("set payment status", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("set payment status: %w", store.ErrNotFound)
	}
	return nil
}

// ListByEvent orders by registeredAt ascending.
func (r *ParticipationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Participation, error) {
	query := fmt.Sprintf(`SELECT %s FROM participations WHERE event_id = $1 ORDER BY registered_at ASC, id`, participationColumns)
	var result []models.Participation
	if err := r.db.SelectContext(ctx, &result, query, eventID); err != nil {
		return nil, translate("list participations", err)
	}
	return result, nil
}

// ListByStudent returns a student's registrations, oldest first.
func (r *ParticipationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Participation, error) {
	query := fmt.Sprintf(`SELECT %s FROM participations WHERE student_id = $1 ORDER BY registered_at ASC, id`, participationColumns)
	var result []models.Participation
	if err := r.db.SelectContext(ctx, &result, query, studentID); err != nil {
		return nil, translate("list student participations", err)
	}
	return result, nil
}

// CountByEvent returns registration counts keyed by event id.
func (r *ParticipationRepository) CountByEvent(ctx context.Context) (map[string]int, error) {
	const query = `SELECT event_id, COUNT(*) AS count FROM participations GROUP BY event_id`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, translate("count participations", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventID string
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, translate("count participations", err)
		}
		counts[eventID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, translate("count participations", err)
	}
	return counts, nil
}
