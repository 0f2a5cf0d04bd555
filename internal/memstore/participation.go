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

// Participations is the in-memory participation registry. One record per
// (event, student) pair; the lookup and the insert share a lock so the pair
// uniqueness holds under concurrent registration.
type Participations struct {
	mu    sync.Mutex
	items map[string]models.Participation
	pairs map[string]string // eventID+"\x00"+studentID -> participation id
}

// NewParticipations constructs the registry.
func NewParticipations() *Participations {
	return &Participations{
		items: make(map[string]models.Participation),
		pairs: make(map[string]string),
	}
}

// Register inserts the participation or returns the existing record for the
// pair with created=false.
func (s *Participations) Register(_ context.Context, participation *models.Participation) (*models.Participation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(participation.EventID, participation.StudentID)
	if id, exists := s.pairs[key]; exists {
		existing := s.items[id]
		return &existing, false, nil
	}

	if participation.ID == "" {
		participation.ID = uuid.NewString()
	}
	if participation.RegisteredAt.IsZero() {
		participation.RegisteredAt = time.Now().UTC()
	}
	s.items[participation.ID] = *participation
	s.pairs[key] = participation.ID

	created := *participation
	return &created, true, nil
}

// FindByPair resolves the registration for one (event, student) pair.
func (s *Participations) FindByPair(_ context.Context, eventID, studentID string) (*models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.pairs[pairKey(eventID, studentID)]
	if !ok {
		return nil, store.ErrNotFound
	}
	participation := s.items[id]
	return &participation, nil
}

// FindByID returns a participation by id.
func (s *Participations) FindByID(_ context.Context, id string) (*models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	participation := current
	return &participation, nil
}

// Delete removes a participation.
func (s *Participations) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.items, id)
	delete(s.pairs, pairKey(current.EventID, current.StudentID))
	return nil
}

// SetArrived updates the attendance flag.
func (s *Participations) SetArrived(_ context.Context, id string, arrived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	current.Arrived = arrived
	s.items[id] = current
	return nil
}

// SetPaymentStatus updates the coordinator-set payment status text.
func (s *Participations) SetPaymentStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return store.ErrNotFound
	}
	current.PaymentStatus = status
	s.items[id] = current
	return nil
}

// ListByEvent orders by registeredAt ascending.
func (s *Participations) ListByEvent(_ context.Context, eventID string) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Participation, 0)
	for _, participation := range s.items {
		if participation.EventID == eventID {
			result = append(result, participation)
		}
	}
	sortByRegisteredAt(result)
	return result, nil
}

// ListByStudent returns a student's registrations, oldest first.
func (s *Participations) ListByStudent(_ context.Context, studentID string) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Participation, 0)
	for _, participation := range s.items {
		if participation.StudentID == studentID {
			result = append(result, participation)
		}
	}
	sortByRegisteredAt(result)
	return result, nil
}

// CountByEvent returns registration counts keyed by event id.
func (s *Participations) CountByEvent(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, participation := range s.items {
		counts[participation.EventID]++
	}
	return counts, nil
}

func sortByRegisteredAt(list []models.Participation) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].RegisteredAt.Equal(list[j].RegisteredAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].RegisteredAt.Before(list[j].RegisteredAt)
	})
}
