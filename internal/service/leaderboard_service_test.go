package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoclub/leofest-api/internal/models"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

// scoredEvent seeds an event with three registered students and an assigned
// coordinator, returning everything the leaderboard tests need.
type scoredEvent struct {
	event       *models.Event
	coordinator models.Actor
	students    []models.Actor
}

func newScoredEvent(t *testing.T, env *testEnv) *scoredEvent {
	t.Helper()
	ctx := context.Background()

	event := env.newEvent(t, "Quiz", 10)
	coordinator := env.newCoordinator(t, "scorer@leofest.test", models.CoordinatorApproved)
	_, err := env.assignments.Join(ctx, coordinator, event.ID)
	require.NoError(t, err)

	students := []models.Actor{
		env.newStudent(t, "alpha@leofest.test"),
		env.newStudent(t, "bravo@leofest.test"),
		env.newStudent(t, "charlie@leofest.test"),
	}
	for _, s := range students {
		env.register(t, s, event.ID)
	}
	return &scoredEvent{event: event, coordinator: coordinator, students: students}
}

func (f *scoredEvent) score(t *testing.T, env *testEnv, student models.Actor, score float64) {
	t.Helper()
	_, err := env.leaderboards.UpsertScore(context.Background(), f.coordinator, UpsertScoreRequest{
		EventID:   f.event.ID,
		StudentID: student.ID,
		Score:     score,
	})
	require.NoError(t, err)
}

func TestUpsertScoreRejectsNonFinite(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := env.leaderboards.UpsertScore(context.Background(), f.coordinator, UpsertScoreRequest{
			EventID:   f.event.ID,
			StudentID: f.students[0].ID,
			Score:     bad,
		})
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidScore))
	}
}

func TestUpsertScoreRequiresRegistration(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	stranger := env.newStudent(t, "stranger@leofest.test")

	_, err := env.leaderboards.UpsertScore(context.Background(), f.coordinator, UpsertScoreRequest{
		EventID:   f.event.ID,
		StudentID: stranger.ID,
		Score:     50,
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestLeaderboardRankingAndStableTies(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	f.score(t, env, f.students[0], 80) // alpha scored first
	f.score(t, env, f.students[1], 95)
	f.score(t, env, f.students[2], 80) // ties with alpha, entered later

	ranked, err := env.leaderboards.Leaderboard(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, f.students[1].ID, ranked[0].ParticipantID)
	assert.Equal(t, 1, ranked[0].Rank)
	// tie resolves by first entry
	assert.Equal(t, f.students[0].ID, ranked[1].ParticipantID)
	assert.Equal(t, f.students[2].ID, ranked[2].ParticipantID)

	// overwriting alpha's score with the same value keeps the tie order
	f.score(t, env, f.students[0], 80)
	ranked, err = env.leaderboards.Leaderboard(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, f.students[0].ID, ranked[1].ParticipantID)
}

func TestScoreOverwriteMovesRank(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	f.score(t, env, f.students[0], 40)
	f.score(t, env, f.students[1], 60)
	f.score(t, env, f.students[0], 99)

	ranked, err := env.leaderboards.Leaderboard(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, f.students[0].ID, ranked[0].ParticipantID)
	assert.Equal(t, float64(99), ranked[0].Score)
}

func TestCompleteFreezesTopThree(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	f.score(t, env, f.students[0], 70)
	f.score(t, env, f.students[1], 90)
	f.score(t, env, f.students[2], 80)

	winners, err := env.leaderboards.Complete(ctx, env.admin, CompleteEventRequest{EventID: f.event.ID})
	require.NoError(t, err)
	require.Len(t, winners, 3)
	assert.Equal(t, f.students[1].ID, winners[0].ParticipantID)
	assert.Equal(t, 1, winners[0].Place)
	assert.Equal(t, f.students[2].ID, winners[1].ParticipantID)
	assert.Equal(t, f.students[0].ID, winners[2].ParticipantID)

	event, err := env.events.Get(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCompleted, event.Status)

	// results survive and later score writes are rejected
	frozen, err := env.leaderboards.Winners(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, winners, frozen)

	_, err = env.leaderboards.UpsertScore(ctx, f.coordinator, UpsertScoreRequest{
		EventID:   f.event.ID,
		StudentID: f.students[0].ID,
		Score:     100,
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyCompleted))
}

func TestCompleteWithExplicitWinners(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	f.score(t, env, f.students[0], 99)

	// explicit list overrides the scores entirely
	winners, err := env.leaderboards.Complete(ctx, env.admin, CompleteEventRequest{
		EventID: f.event.ID,
		Winners: []string{f.students[2].ID, f.students[1].ID},
	})
	require.NoError(t, err)
	require.Len(t, winners, 2)
	assert.Equal(t, f.students[2].ID, winners[0].ParticipantID)
	assert.Equal(t, f.students[1].ID, winners[1].ParticipantID)
}

func TestCompleteRejectsUnregisteredWinner(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	stranger := env.newStudent(t, "stranger@leofest.test")

	_, err := env.leaderboards.Complete(context.Background(), env.admin, CompleteEventRequest{
		EventID: f.event.ID,
		Winners: []string{stranger.ID},
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCompleteTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	f.score(t, env, f.students[0], 70)

	_, err := env.leaderboards.Complete(ctx, env.admin, CompleteEventRequest{EventID: f.event.ID})
	require.NoError(t, err)

	_, err = env.leaderboards.Complete(ctx, env.admin, CompleteEventRequest{EventID: f.event.ID})
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyCompleted))
}

func TestCompleteClosedEventFails(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	_, err := env.events.SetStatus(ctx, env.admin, f.event.ID, models.EventStatusClosed)
	require.NoError(t, err)

	_, err = env.leaderboards.Complete(ctx, env.admin, CompleteEventRequest{EventID: f.event.ID})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestCompleteWithFewerThanThreeEntries(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	f.score(t, env, f.students[1], 55)

	winners, err := env.leaderboards.Complete(ctx, env.admin, CompleteEventRequest{EventID: f.event.ID})
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, f.students[1].ID, winners[0].ParticipantID)
}

func TestScoreAuthorsInFirstEntryOrder(t *testing.T) {
	env := newTestEnv(t)
	f := newScoredEvent(t, env)
	ctx := context.Background()

	second := env.newCoordinator(t, "second-scorer@leofest.test", models.CoordinatorApproved)
	_, err := env.assignments.Join(ctx, second, f.event.ID)
	require.NoError(t, err)

	f.score(t, env, f.students[0], 10)
	_, err = env.leaderboards.UpsertScore(ctx, second, UpsertScoreRequest{
		EventID:   f.event.ID,
		StudentID: f.students[1].ID,
		Score:     20,
	})
	require.NoError(t, err)

	authors, err := env.leaderboards.ScoreAuthors(ctx, env.admin, f.event.ID)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, f.coordinator.ID, authors[0].ID)
	assert.Equal(t, second.ID, authors[1].ID)
}
