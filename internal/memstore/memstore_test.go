package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

func openEvent(t *testing.T, s *store.Store, title string) *models.Event {
	t.Helper()
	event := &models.Event{Title: title, Date: "2026-03-14", Venue: "Hall", Status: models.EventStatusOpen, Cost: 10}
	require.NoError(t, s.Events.Create(context.Background(), event))
	return event
}

func TestRegisterRaceCreatesOneRecord(t *testing.T) {
	s := New()
	ctx := context.Background()
	event := openEvent(t, s, "Quiz")

	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, wasCreated, err := s.Participations.Register(ctx, &models.Participation{
				EventID:   event.ID,
				StudentID: "s1",
				Name:      "Student",
			})
			if assert.NoError(t, err) && wasCreated {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	list, err := s.Participations.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestJoinRaceHonorsCapacity(t *testing.T) {
	s := New()
	ctx := context.Background()

	const attempts = 10
	events := make([]*models.Event, attempts)
	for i := range events {
		events[i] = openEvent(t, s, fmt.Sprintf("Event %d", i))
	}

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Assignments.Join(ctx, &models.Assignment{CoordinatorID: "c1", EventID: events[i].ID}, 2)
		}(i)
	}
	wg.Wait()

	joined := 0
	for _, err := range results {
		if err == nil {
			joined++
		} else {
			assert.True(t, errors.Is(err, store.ErrCapacity))
		}
	}
	assert.Equal(t, 2, joined)
}

func TestJoinCountsOnlyActiveEvents(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := openEvent(t, s, "First")
	second := openEvent(t, s, "Second")
	third := openEvent(t, s, "Third")

	require.NoError(t, s.Assignments.Join(ctx, &models.Assignment{CoordinatorID: "c1", EventID: first.ID}, 2))
	require.NoError(t, s.Assignments.Join(ctx, &models.Assignment{CoordinatorID: "c1", EventID: second.ID}, 2))

	require.NoError(t, s.Events.UpdateStatus(ctx, first.ID, []models.EventStatus{models.EventStatusOpen}, models.EventStatusClosed))

	require.NoError(t, s.Assignments.Join(ctx, &models.Assignment{CoordinatorID: "c1", EventID: third.ID}, 2))
}

func TestUpdateStatusCAS(t *testing.T) {
	s := New()
	ctx := context.Background()
	event := openEvent(t, s, "Quiz")

	err := s.Events.UpdateStatus(ctx, event.ID, []models.EventStatus{models.EventStatusOngoing}, models.EventStatusClosed)
	assert.True(t, errors.Is(err, store.ErrInvalidState))

	require.NoError(t, s.Events.UpdateStatus(ctx, event.ID, []models.EventStatus{models.EventStatusOpen}, models.EventStatusOngoing))

	err = s.Events.UpdateStatus(ctx, "missing", []models.EventStatus{models.EventStatusOpen}, models.EventStatusOngoing)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestLeaderboardStableTiePositions(t *testing.T) {
	s := New()
	ctx := context.Background()
	event := openEvent(t, s, "Quiz")

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Leaderboards.Upsert(ctx, &models.LeaderboardEntry{
			EventID:       event.ID,
			ParticipantID: id,
			Score:         50,
			EnteredBy:     "c1",
		}))
	}

	// overwriting b's score keeps its original slot among ties
	require.NoError(t, s.Leaderboards.Upsert(ctx, &models.LeaderboardEntry{
		EventID:       event.ID,
		ParticipantID: "b",
		Score:         50,
		EnteredBy:     "c1",
	}))

	entries, err := s.Leaderboards.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].ParticipantID)
	assert.Equal(t, "b", entries[1].ParticipantID)
	assert.Equal(t, "c", entries[2].ParticipantID)
}

func TestCompleteWithWinnersIsAtomicAndSingleShot(t *testing.T) {
	s := New()
	ctx := context.Background()
	event := openEvent(t, s, "Quiz")

	winners := []models.Winner{{EventID: event.ID, Place: 1, ParticipantID: "a"}}
	require.NoError(t, s.Events.CompleteWithWinners(ctx, event.ID, winners))

	stored, err := s.Events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCompleted, stored.Status)

	got, err := s.Leaderboards.Winners(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, winners, got)

	err = s.Events.CompleteWithWinners(ctx, event.ID, winners)
	assert.True(t, errors.Is(err, store.ErrInvalidState))
}

func TestCompleteWithWinnersRejectsClosedEvent(t *testing.T) {
	s := New()
	ctx := context.Background()
	event := openEvent(t, s, "Quiz")

	require.NoError(t, s.Events.UpdateStatus(ctx, event.ID, []models.EventStatus{models.EventStatusOpen}, models.EventStatusClosed))

	err := s.Events.CompleteWithWinners(ctx, event.ID, nil)
	assert.True(t, errors.Is(err, store.ErrInvalidState))

	frozen, err := s.Leaderboards.HasWinners(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, frozen)
}

func TestUserEmailUniquePerRole(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, &models.User{Email: "Dup@Test", Role: models.RoleStudent, Name: "One"}))

	err := s.Users.Create(ctx, &models.User{Email: "dup@test", Role: models.RoleStudent, Name: "Two"})
	assert.True(t, errors.Is(err, store.ErrDuplicate))

	// same email under a different role is a distinct account
	require.NoError(t, s.Users.Create(ctx, &models.User{Email: "dup@test", Role: models.RoleCoordinator, Name: "Three"}))

	found, err := s.Users.FindByEmailRole(ctx, "DUP@test", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "One", found.Name)
}

func TestSoftDeleteKeepsRecordResolvable(t *testing.T) {
	s := New()
	ctx := context.Background()
	event := openEvent(t, s, "Quiz")

	require.NoError(t, s.Events.SoftDelete(ctx, event.ID))

	// FindByID still resolves for records referencing the event
	stored, err := s.Events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, stored.Deleted)

	events, err := s.Events.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}
