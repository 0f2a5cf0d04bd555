package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoclub/leofest-api/internal/models"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

func TestRegisterIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := env.newStudent(t, "s1@leofest.test")
	event := env.newEvent(t, "Quiz", 10)

	first, err := env.participations.Register(ctx, student, RegisterParticipationRequest{
		EventID:     event.ID,
		PaymentType: string(models.PayViaUPI),
	})
	require.NoError(t, err)
	assert.True(t, first.Created)

	// same pair again, even with a different payment tag
	second, err := env.participations.Register(ctx, student, RegisterParticipationRequest{
		EventID:     event.ID,
		PaymentType: string(models.PayViaCash),
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Participation.ID, second.Participation.ID)
	assert.Equal(t, models.PayViaUPI, second.Participation.PaymentType)
}

func TestRegisterConcurrentSamePair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := env.newStudent(t, "s1@leofest.test")
	event := env.newEvent(t, "Quiz", 10)

	const attempts = 8
	var wg sync.WaitGroup
	created := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := env.participations.Register(ctx, student, RegisterParticipationRequest{
				EventID:     event.ID,
				PaymentType: string(models.PayViaCash),
			})
			if assert.NoError(t, err) {
				created[i] = result.Created
			}
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, c := range created {
		if c {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	list, err := env.participations.ListByEvent(ctx, env.admin, event.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegisterValidatesPaymentType(t *testing.T) {
	env := newTestEnv(t)
	student := env.newStudent(t, "s1@leofest.test")
	event := env.newEvent(t, "Quiz", 10)

	_, err := env.participations.Register(context.Background(), student, RegisterParticipationRequest{
		EventID:     event.ID,
		PaymentType: "pay_via_crypto",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRegisterRejectsInactiveEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := env.newStudent(t, "s1@leofest.test")
	event := env.newEvent(t, "Quiz", 10)
	_, err := env.events.SetStatus(ctx, env.admin, event.ID, models.EventStatusClosed)
	require.NoError(t, err)

	_, err = env.participations.Register(ctx, student, RegisterParticipationRequest{
		EventID:     event.ID,
		PaymentType: string(models.PayViaCash),
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestWithdrawOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.newStudent(t, "owner@leofest.test")
	other := env.newStudent(t, "other@leofest.test")
	event := env.newEvent(t, "Quiz", 10)
	participation := env.register(t, owner, event.ID)

	err := env.participations.Withdraw(ctx, other, participation.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	require.NoError(t, env.participations.Withdraw(ctx, owner, participation.ID))

	list, err := env.participations.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWithdrawAllowedAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := env.newStudent(t, "late@leofest.test")
	event := env.newEvent(t, "Quiz", 10)
	participation := env.register(t, student, event.ID)

	_, err := env.leaderboards.Complete(ctx, env.admin, CompleteEventRequest{
		EventID: event.ID,
		Winners: []string{student.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.participations.Withdraw(ctx, student, participation.ID))

	list, err := env.participations.ListMine(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStaffChecksForArrivalAndPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assigned := env.newCoordinator(t, "assigned@leofest.test", models.CoordinatorApproved)
	outsider := env.newCoordinator(t, "outsider@leofest.test", models.CoordinatorApproved)
	student := env.newStudent(t, "s1@leofest.test")
	event := env.newEvent(t, "Quiz", 10)
	participation := env.register(t, student, event.ID)

	_, err := env.assignments.Join(ctx, assigned, event.ID)
	require.NoError(t, err)

	// a coordinator not assigned to the event cannot touch its records
	_, err = env.participations.SetArrived(ctx, outsider, participation.ID, true)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	updated, err := env.participations.SetArrived(ctx, assigned, participation.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Arrived)

	updated, err = env.participations.SetPaymentStatus(ctx, assigned, participation.ID, "verified")
	require.NoError(t, err)
	assert.Equal(t, "verified", updated.PaymentStatus)

	// admins bypass the assignment check
	_, err = env.participations.SetArrived(ctx, env.admin, participation.ID, false)
	require.NoError(t, err)
}

func TestListByEventOrdersByRegistration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.newEvent(t, "Quiz", 10)
	first := env.newStudent(t, "first@leofest.test")
	second := env.newStudent(t, "second@leofest.test")

	env.register(t, first, event.ID)
	env.register(t, second, event.ID)

	list, err := env.participations.ListByEvent(ctx, env.admin, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].StudentID)
	assert.Equal(t, second.ID, list[1].StudentID)
}
