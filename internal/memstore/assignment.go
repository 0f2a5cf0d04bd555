package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

// Assignments is the in-memory coordinator assignment ledger. The capacity
// check and the insert run under one lock so simultaneous joins by the same
// coordinator cannot both slip under the bound.
type Assignments struct {
	mu     sync.Mutex
	items  map[string]models.Assignment
	pairs  map[string]string // pairKey -> assignment id
	events *Events
}

// NewAssignments constructs the ledger.
func NewAssignments(events *Events) *Assignments {
	return &Assignments{
		items:  make(map[string]models.Assignment),
		pairs:  make(map[string]string),
		events: events,
	}
}

func pairKey(coordinatorID, eventID string) string {
	return coordinatorID + "\x00" + eventID
}

// Join inserts the relation while the coordinator stays within maxActive
// assignments to open or ongoing events. Finished events keep their
// assignment rows but no longer count toward the bound.
func (s *Assignments) Join(_ context.Context, assignment *models.Assignment, maxActive int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pairs[pairKey(assignment.CoordinatorID, assignment.EventID)]; exists {
		return store.ErrDuplicate
	}

	active := 0
	for _, existing := range s.items {
		if existing.CoordinatorID != assignment.CoordinatorID {
			continue
		}
		if status, ok := s.events.statusOf(existing.EventID); ok && status.Active() {
			active++
		}
	}
	if active >= maxActive {
		return store.ErrCapacity
	}

	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.JoinedAt.IsZero() {
		assignment.JoinedAt = time.Now().UTC()
	}
	s.items[assignment.ID] = *assignment
	s.pairs[pairKey(assignment.CoordinatorID, assignment.EventID)] = assignment.ID
	return nil
}

// Leave removes the relation. Missing pairs are a no-op.
func (s *Assignments) Leave(_ context.Context, coordinatorID, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(coordinatorID, eventID)
	id, exists := s.pairs[key]
	if !exists {
		return false, nil
	}
	delete(s.items, id)
	delete(s.pairs, key)
	return true, nil
}

// Exists reports whether the coordinator staffs the event.
func (s *Assignments) Exists(_ context.Context, coordinatorID, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.pairs[pairKey(coordinatorID, eventID)]
	return exists, nil
}

// ListByCoordinator returns every event the coordinator ever joined,
// completed and closed included, oldest join first.
func (s *Assignments) ListByCoordinator(_ context.Context, coordinatorID string) ([]models.CoordinatorEvent, error) {
	s.mu.Lock()
	assignments := make([]models.Assignment, 0)
	for _, assignment := range s.items {
		if assignment.CoordinatorID == coordinatorID {
			assignments = append(assignments, assignment)
		}
	}
	s.mu.Unlock()

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].JoinedAt.Before(assignments[j].JoinedAt)
	})

	result := make([]models.CoordinatorEvent, 0, len(assignments))
	for _, assignment := range assignments {
		entry := models.CoordinatorEvent{Assignment: assignment}
		if event, ok := s.events.snapshot(assignment.EventID); ok {
			entry.EventTitle = event.Title
			entry.EventDate = event.Date
			entry.EventVenue = event.Venue
			entry.EventStatus = event.Status
		}
		result = append(result, entry)
	}
	return result, nil
}

// ListByEvent returns the assignments staffing one event.
func (s *Assignments) ListByEvent(_ context.Context, eventID string) ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Assignment, 0)
	for _, assignment := range s.items {
		if assignment.EventID == eventID {
			result = append(result, assignment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}
