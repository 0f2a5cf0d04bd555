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

// Events is the in-memory event store. Completion writes winners through the
// leaderboard store while holding the event lock, so a completed status and
// its winners become visible together.
type Events struct {
	mu           sync.Mutex
	items        map[string]models.Event
	leaderboards *Leaderboards
}

// NewEvents constructs the event store.
func NewEvents(leaderboards *Leaderboards) *Events {
	return &Events{items: make(map[string]models.Event), leaderboards: leaderboards}
}

// Create inserts a new event.
func (s *Events) Create(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if _, exists := s.items[event.ID]; exists {
		return store.ErrDuplicate
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	s.items[event.ID] = *event
	return nil
}

// Update replaces the mutable fields of an existing event. Status and the
// deleted flag are preserved from the stored record.
func (s *Events) Update(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[event.ID]
	if !ok {
		return store.ErrNotFound
	}
	event.Status = current.Status
	event.Deleted = current.Deleted
	event.CreatedAt = current.CreatedAt
	event.UpdatedAt = time.Now().UTC()
	s.items[event.ID] = *event
	return nil
}

// UpdateStatus compares-and-sets the event status.
func (s *Events) UpdateStatus(_ context.Context, id string, from []models.EventStatus, to models.EventStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	matched := false
	for _, status := range from {
		if current.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return store.ErrInvalidState
	}
	current.Status = to
	current.UpdatedAt = time.Now().UTC()
	s.items[id] = current
	return nil
}

// SoftDelete hides the event from listings without removing it.
func (s *Events) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	current.Deleted = true
	current.UpdatedAt = time.Now().UTC()
	s.items[id] = current
	return nil
}

// FindByID returns the event, deleted or not.
func (s *Events) FindByID(_ context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	event := current
	return &event, nil
}

// List returns non-deleted events matching the filter, newest first.
func (s *Events) List(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]models.Event, 0, len(s.items))
	for _, event := range s.items {
		if event.Deleted {
			continue
		}
		if filter.Status != nil && event.Status != *filter.Status {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(event.Category, filter.Category) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(filter.Search)) {
			continue
		}
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

// CompleteWithWinners moves an open or ongoing event to completed and records
// winners as one observable step.
func (s *Events) CompleteWithWinners(_ context.Context, eventID string, winners []models.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[eventID]
	if !ok {
		return store.ErrNotFound
	}
	if !current.Status.Active() {
		return store.ErrInvalidState
	}

	s.leaderboards.mu.Lock()
	defer s.leaderboards.mu.Unlock()
	if _, exists := s.leaderboards.winners[eventID]; exists {
		return store.ErrDuplicate
	}
	frozen := make([]models.Winner, len(winners))
	copy(frozen, winners)
	s.leaderboards.winners[eventID] = frozen

	current.Status = models.EventStatusCompleted
	current.UpdatedAt = time.Now().UTC()
	s.items[eventID] = current
	return nil
}

// statusOf reports the current status of an event for sibling stores.
func (s *Events) statusOf(id string) (models.EventStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[id]
	if !ok {
		return "", false
	}
	return current.Status, true
}

// snapshot returns a copy of an event for sibling stores.
func (s *Events) snapshot(id string) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[id]
	return current, ok
}
