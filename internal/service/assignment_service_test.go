package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoclub/leofest-api/internal/models"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

func TestAssignmentJoinAndLeave(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	coordinator := env.newCoordinator(t, "c1@leofest.test", models.CoordinatorApproved)
	event := env.newEvent(t, "Quiz", 10)

	assignment, err := env.assignments.Join(ctx, coordinator, event.ID)
	require.NoError(t, err)
	assert.Equal(t, coordinator.ID, assignment.CoordinatorID)

	// joining again is a conflict
	_, err = env.assignments.Join(ctx, coordinator, event.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	require.NoError(t, env.assignments.Leave(ctx, coordinator, event.ID))
	// leaving an event never joined succeeds silently
	require.NoError(t, env.assignments.Leave(ctx, coordinator, event.ID))
}

func TestAssignmentCapacityLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	coordinator := env.newCoordinator(t, "c1@leofest.test", models.CoordinatorApproved)
	first := env.newEvent(t, "First", 10)
	second := env.newEvent(t, "Second", 10)
	third := env.newEvent(t, "Third", 10)

	_, err := env.assignments.Join(ctx, coordinator, first.ID)
	require.NoError(t, err)
	_, err = env.assignments.Join(ctx, coordinator, second.ID)
	require.NoError(t, err)

	_, err = env.assignments.Join(ctx, coordinator, third.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrCapacityExceeded))
}

func TestAssignmentCapacityFreedByTerminalEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	coordinator := env.newCoordinator(t, "c1@leofest.test", models.CoordinatorApproved)
	first := env.newEvent(t, "First", 10)
	second := env.newEvent(t, "Second", 10)
	third := env.newEvent(t, "Third", 10)

	_, err := env.assignments.Join(ctx, coordinator, first.ID)
	require.NoError(t, err)
	_, err = env.assignments.Join(ctx, coordinator, second.ID)
	require.NoError(t, err)

	// closing the first event frees a slot without the coordinator leaving
	_, err = env.events.SetStatus(ctx, env.admin, first.ID, models.EventStatusClosed)
	require.NoError(t, err)

	_, err = env.assignments.Join(ctx, coordinator, third.ID)
	require.NoError(t, err)

	// the history still lists all three
	history, err := env.assignments.MyEvents(ctx, coordinator)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestAssignmentJoinRequiresApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pending := env.newCoordinator(t, "pending@leofest.test", models.CoordinatorPending)
	event := env.newEvent(t, "Quiz", 10)

	_, err := env.assignments.Join(ctx, pending, event.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrPendingApproval))
}

func TestAssignmentJoinRejectsInactiveEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	coordinator := env.newCoordinator(t, "c1@leofest.test", models.CoordinatorApproved)
	event := env.newEvent(t, "Quiz", 10)
	_, err := env.events.SetStatus(ctx, env.admin, event.ID, models.EventStatusClosed)
	require.NoError(t, err)

	_, err = env.assignments.Join(ctx, coordinator, event.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestAssignmentJoinRequiresCoordinatorRole(t *testing.T) {
	env := newTestEnv(t)
	student := env.newStudent(t, "s1@leofest.test")
	event := env.newEvent(t, "Quiz", 10)

	_, err := env.assignments.Join(context.Background(), student, event.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestAssignmentConcurrentJoinsHonorCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	coordinator := env.newCoordinator(t, "c1@leofest.test", models.CoordinatorApproved)

	const attempts = 8
	events := make([]*models.Event, attempts)
	for i := range events {
		events[i] = env.newEvent(t, fmt.Sprintf("Event %d", i), 10)
	}

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.assignments.Join(ctx, coordinator, events[i].ID)
		}(i)
	}
	wg.Wait()

	joined := 0
	for _, err := range results {
		if err == nil {
			joined++
			continue
		}
		assert.True(t, appErrors.Is(err, appErrors.ErrCapacityExceeded))
	}
	assert.Equal(t, 2, joined)
}
