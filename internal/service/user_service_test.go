package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/leoclub/leofest-api/internal/models"
	appErrors "github.com/leoclub/leofest-api/pkg/errors"
)

func TestCreateUserGeneratesTemporaryPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.CreateUser(ctx, env.admin, CreateUserRequest{
		Email: "Coord@Leofest.Test",
		Name:  "Coordinator",
		Role:  "coordinator",
	})
	require.NoError(t, err)

	assert.Len(t, created.TemporaryPassword, 9)
	assert.Equal(t, "coord@leofest.test", created.User.Email)
	// admin-created coordinators start approved
	assert.Equal(t, models.CoordinatorApproved, created.User.Status)

	stored, err := env.stores.Users.FindByID(ctx, created.User.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(created.TemporaryPassword)))
}

func TestCreateUserDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := CreateUserRequest{Email: "coord@leofest.test", Name: "Coordinator", Role: "coordinator"}
	_, err := env.users.CreateUser(ctx, env.admin, req)
	require.NoError(t, err)

	_, err = env.users.CreateUser(ctx, env.admin, req)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCreateUserRejectsStudentRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.CreateUser(context.Background(), env.admin, CreateUserRequest{
		Email: "s@leofest.test",
		Name:  "Student",
		Role:  "student",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestListCoordinatorsHidesHashes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.CreateUser(ctx, env.admin, CreateUserRequest{
		Email: "coord@leofest.test",
		Name:  "Coordinator",
		Role:  "coordinator",
	})
	require.NoError(t, err)

	list, err := env.users.ListCoordinators(ctx, env.admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].PasswordHash)
}

func TestSetCoordinatorStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := env.newStudent(t, "s@leofest.test")

	_, err := env.users.SetCoordinatorStatus(ctx, env.admin, student.ID, models.CoordinatorApproved)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = env.users.SetCoordinatorStatus(ctx, env.admin, "missing", models.CoordinatorApproved)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
