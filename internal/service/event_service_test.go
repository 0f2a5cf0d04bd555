package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoclub/leofest-api/internal/models"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

func TestEventCreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, err := env.events.Create(ctx, env.admin, CreateEventRequest{
		Title: "Treasure Hunt",
		Date:  "2026-03-14",
		Venue: "Quad",
	})
	require.NoError(t, err)

	assert.Equal(t, models.EventStatusOpen, event.Status)
	assert.Equal(t, models.DefaultEventCost, event.Cost)
	assert.Equal(t, "General", event.Category)
	assert.NotEmpty(t, event.ID)
}

func TestEventCreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	student := env.newStudent(t, "s1@leofest.test")

	_, err := env.events.Create(context.Background(), student, CreateEventRequest{
		Title: "Treasure Hunt",
		Date:  "2026-03-14",
		Venue: "Quad",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestEventCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.events.Create(context.Background(), env.admin, CreateEventRequest{Title: "No venue"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEventStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.newEvent(t, "Quiz", 10)

	updated, err := env.events.SetStatus(ctx, env.admin, event.ID, models.EventStatusOngoing)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusOngoing, updated.Status)

	// back to open is not a legal move
	_, err = env.events.SetStatus(ctx, env.admin, event.ID, models.EventStatusOpen)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))

	updated, err = env.events.SetStatus(ctx, env.admin, event.ID, models.EventStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusClosed, updated.Status)

	// closed is terminal
	_, err = env.events.SetStatus(ctx, env.admin, event.ID, models.EventStatusOngoing)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestEventSetStatusRejectsCompletion(t *testing.T) {
	env := newTestEnv(t)
	event := env.newEvent(t, "Quiz", 10)

	_, err := env.events.SetStatus(context.Background(), env.admin, event.ID, models.EventStatusCompleted)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestEventSetStatusUnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	event := env.newEvent(t, "Quiz", 10)

	_, err := env.events.SetStatus(context.Background(), env.admin, event.ID, models.EventStatus("archived"))
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEventSoftDeleteHidesFromListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	kept := env.newEvent(t, "Kept", 10)
	dropped := env.newEvent(t, "Dropped", 10)

	require.NoError(t, env.events.Delete(ctx, env.admin, dropped.ID))

	events, err := env.events.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, kept.ID, events[0].ID)

	_, err = env.events.Get(ctx, dropped.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestEventUpdateNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.events.Update(context.Background(), env.admin, "missing", UpdateEventRequest{
		Title: "X",
		Date:  "2026-03-14",
		Venue: "Quad",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestEventListFilterByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	open := env.newEvent(t, "Open", 10)
	running := env.newEvent(t, "Running", 10)
	_, err := env.events.SetStatus(ctx, env.admin, running.ID, models.EventStatusOngoing)
	require.NoError(t, err)

	openStatus := models.EventStatusOpen
	events, err := env.events.List(ctx, models.EventFilter{Status: &openStatus})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, open.ID, events[0].ID)
}
