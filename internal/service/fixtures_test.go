package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leoclub/leofest-api/internal/memstore"
	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
	"github.com/leoclub/leofest-api/pkg/config"
)

// testEnv wires the full facade over the in-memory stores so tests exercise
// the same code paths as the memory-backed server.
type testEnv struct {
	stores         *store.Store
	events         *EventService
	assignments    *AssignmentService
	participations *ParticipationService
	leaderboards   *LeaderboardService
	revenue        *RevenueService
	users          *UserService
	auth           *AuthService

	admin models.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stores := memstore.New()
	logger := zap.NewNop()

	assignments := NewAssignmentService(stores.Assignments, stores.Events, stores.Users, logger, 2)
	env := &testEnv{
		stores:         stores,
		events:         NewEventService(stores.Events, nil, logger, 0),
		assignments:    assignments,
		participations: NewParticipationService(stores.Participations, stores.Events, stores.Users, assignments, nil, logger),
		leaderboards:   NewLeaderboardService(stores.Leaderboards, stores.Events, stores.Participations, stores.Users, assignments, nil, logger),
		revenue:        NewRevenueService(stores.Events, stores.Participations, logger),
		users:          NewUserService(stores.Users, nil, logger, 9),
		auth: NewAuthService(stores.Users, nil, logger, config.JWTConfig{
			Secret:     "test_secret",
			Expiration: time.Hour,
			Issuer:     "leofest-test",
		}),
	}

	admin := &models.User{Email: "admin@leofest.test", Role: models.RoleAdmin, Name: "Root Admin"}
	require.NoError(t, stores.Users.Create(context.Background(), admin))
	env.admin = models.Actor{ID: admin.ID, Role: models.RoleAdmin}

	return env
}

func (e *testEnv) newStudent(t *testing.T, email string) models.Actor {
	t.Helper()
	user := &models.User{Email: email, Role: models.RoleStudent, Name: "Student " + email, LeoID: "LEO-" + email}
	require.NoError(t, e.stores.Users.Create(context.Background(), user))
	return models.Actor{ID: user.ID, Role: models.RoleStudent}
}

func (e *testEnv) newCoordinator(t *testing.T, email string, status models.CoordinatorStatus) models.Actor {
	t.Helper()
	user := &models.User{Email: email, Role: models.RoleCoordinator, Name: "Coordinator " + email, Status: status}
	require.NoError(t, e.stores.Users.Create(context.Background(), user))
	return models.Actor{ID: user.ID, Role: models.RoleCoordinator}
}

func (e *testEnv) newEvent(t *testing.T, title string, cost int) *models.Event {
	t.Helper()
	event, err := e.events.Create(context.Background(), e.admin, CreateEventRequest{
		Title: title,
		Date:  "2026-03-14",
		Venue: "Main Hall",
		Cost:  &cost,
	})
	require.NoError(t, err)
	return event
}

func (e *testEnv) register(t *testing.T, student models.Actor, eventID string) *models.Participation {
	t.Helper()
	result, err := e.participations.Register(context.Background(), student, RegisterParticipationRequest{
		EventID:     eventID,
		PaymentType: string(models.PayViaCash),
	})
	require.NoError(t, err)
	require.True(t, result.Created)
	return result.Participation
}
