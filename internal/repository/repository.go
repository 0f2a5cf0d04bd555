package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/leoclub/leofest-api/internal/store"
)

// New wires the PostgreSQL-backed store aggregate.
func New(db *sqlx.DB) *store.Store {
	return &store.Store{
		Events:         NewEventRepository(db),
		Assignments:    NewAssignmentRepository(db),
		Participations: NewParticipationRepository(db),
		Leaderboards:   NewLeaderboardRepository(db),
		Users:          NewUserRepository(db),
	}
}
