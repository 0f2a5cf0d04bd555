// Package memstore implements the storage collaborator entirely in process
// memory. It is the local fallback behind the same interface the PostgreSQL
// repository implements, and the fixture of choice in service tests. Each
// entity store serializes its own mutations with a mutex so concurrent calls
// on the same key cannot race past the uniqueness and capacity invariants.
package memstore

import "github.com/leoclub/leofest-api/internal/store"

// New assembles a fully wired in-memory store.
func New() *store.Store {
	leaderboards := NewLeaderboards()
	events := NewEvents(leaderboards)
	return &store.Store{
		Events:         events,
		Assignments:    NewAssignments(events),
		Participations: NewParticipations(),
		Leaderboards:   leaderboards,
		Users:          NewUsers(),
	}
}
