package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/leoclub/leofest-api/internal/models"
)

// LeaderboardRepository persists scored entries and frozen winners. The
// bigserial position column is assigned on first insert and survives score
// overwrites, which keeps tie order stable across updates.
type LeaderboardRepository struct {
	db *sqlx.DB
}

// NewLeaderboardRepository constructs a LeaderboardRepository.
func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Upsert inserts or overwrites the entry for (event, participant).
func (r *LeaderboardRepository) Upsert(ctx context.Context, entry *models.LeaderboardEntry) error {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	const query = `INSERT INTO leaderboard_entries (event_id, participant_id, name, leo_id, roll_no, score, entered_by, created_at, updated_at)
        VALUES (:event_id, :participant_id, :name, :leo_id, :roll_no, :score, :entered_by, :created_at, :updated_at)
        ON CONFLICT (event_id, participant_id) DO UPDATE SET
            score = EXCLUDED.score,
            name = EXCLUDED.name,
            leo_id = EXCLUDED.leo_id,
            roll_no = EXCLUDED.roll_no,
            entered_by = EXCLUDED.entered_by,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return translate("upsert score", err)
	}
	return nil
}

// ListByEvent orders by score descending, ties by first-insertion order.
func (r *LeaderboardRepository) ListByEvent(ctx context.Context, eventID string) ([]models.LeaderboardEntry, error) {
	const query = `SELECT event_id, participant_id, name, leo_id, roll_no, score, position, entered_by, created_at, updated_at
        FROM leaderboard_entries WHERE event_id = $1 ORDER BY score DESC, position ASC`
	var entries []models.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, eventID); err != nil {
		return nil, translate("list leaderboard", err)
	}
	return entries, nil
}

// Winners returns the frozen winner list in place order.
func (r *LeaderboardRepository) Winners(ctx context.Context, eventID string) ([]models.Winner, error) {
	const query = `SELECT event_id, place, participant_id FROM winners WHERE event_id = $1 ORDER BY place ASC`
	winners := []models.Winner{}
	if err := r.db.SelectContext(ctx, &winners, query, eventID); err != nil {
		return nil, translate("list winners", err)
	}
	return winners, nil
}

// HasWinners reports whether winners were already recorded.
func (r *LeaderboardRepository) HasWinners(ctx context.Context, eventID string) (bool, error) {
	const query = `SELECT 1 FROM winners WHERE event_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, eventID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, translate("check winners", err)
	}
	return true, nil
}

// ScoreAuthors lists the distinct coordinator ids that entered scores for the
// event, in first-entry order.
func (r *LeaderboardRepository) ScoreAuthors(ctx context.Context, eventID string) ([]string, error) {
	const query = `SELECT entered_by FROM leaderboard_entries
        WHERE event_id = $1 AND entered_by <> ''
        GROUP BY entered_by ORDER BY MIN(position) ASC`
	var authors []string
	if err := r.db.SelectContext(ctx, &authors, query, eventID); err != nil {
		return nil, translate("list score authors", err)
	}
	return authors, nil
}
