package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

// Leaderboards holds scored entries per event plus the winners frozen at
// completion. Entry positions are assigned once, on first insert, so ties in
// the ranking keep their insertion order.
type Leaderboards struct {
	mu      sync.Mutex
	entries map[string]map[string]models.LeaderboardEntry // eventID -> participantID -> entry
	winners map[string][]models.Winner
	seq     int64
}

// NewLeaderboards constructs the leaderboard store.
func NewLeaderboards() *Leaderboards {
	return &Leaderboards{
		entries: make(map[string]map[string]models.LeaderboardEntry),
		winners: make(map[string][]models.Winner),
	}
}

// Upsert inserts or overwrites the entry for (event, participant).
func (s *Leaderboards) Upsert(_ context.Context, entry *models.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byParticipant, ok := s.entries[entry.EventID]
	if !ok {
		byParticipant = make(map[string]models.LeaderboardEntry)
		s.entries[entry.EventID] = byParticipant
	}

	now := time.Now().UTC()
	if existing, exists := byParticipant[entry.ParticipantID]; exists {
		entry.Position = existing.Position
		entry.CreatedAt = existing.CreatedAt
	} else {
		s.seq++
		entry.Position = s.seq
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	byParticipant[entry.ParticipantID] = *entry
	return nil
}

// ListByEvent orders by score descending, ties by insertion order.
func (s *Leaderboards) ListByEvent(_ context.Context, eventID string) ([]models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byParticipant := s.entries[eventID]
	result := make([]models.LeaderboardEntry, 0, len(byParticipant))
	for _, entry := range byParticipant {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score == result[j].Score {
			return result[i].Position < result[j].Position
		}
		return result[i].Score > result[j].Score
	})
	return result, nil
}

// Winners returns the frozen winner list, empty when the event has not been
// completed.
func (s *Leaderboards) Winners(_ context.Context, eventID string) ([]models.Winner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	winners, ok := s.winners[eventID]
	if !ok {
		return []models.Winner{}, nil
	}
	result := make([]models.Winner, len(winners))
	copy(result, winners)
	return result, nil
}

// HasWinners reports whether winners were already recorded.
func (s *Leaderboards) HasWinners(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.winners[eventID]
	return ok, nil
}

// ScoreAuthors lists the distinct coordinator ids that entered scores for the
// event, in first-entry order.
func (s *Leaderboards) ScoreAuthors(_ context.Context, eventID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byParticipant := s.entries[eventID]
	ordered := make([]models.LeaderboardEntry, 0, len(byParticipant))
	for _, entry := range byParticipant {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	seen := make(map[string]struct{})
	authors := make([]string, 0)
	for _, entry := range ordered {
		if entry.EnteredBy == "" {
			continue
		}
		if _, dup := seen[entry.EnteredBy]; dup {
			continue
		}
		seen[entry.EnteredBy] = struct{}{}
		authors = append(authors, entry.EnteredBy)
	}
	return authors, nil
}

// Compile-time interface check.
var _ store.LeaderboardStore = (*Leaderboards)(nil)
