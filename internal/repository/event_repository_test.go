package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/store"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "date", "time", "venue", "category", "cost", "rules", "team_size", "status", "deleted", "created_at", "updated_at"})
}

func TestEventRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &models.Event{Title: "Quiz", Date: "2026-03-14", Venue: "Hall", Status: models.EventStatusOpen}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM events WHERE id =").
		WithArgs("e1").
		WillReturnRows(eventRows().AddRow("e1", "Quiz", "", "2026-03-14", "18:00", "Hall", "General", 10, "", "", "open", false, now, now))

	event, err := repo.FindByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Quiz", event.Title)
	assert.Equal(t, models.EventStatusOpen, event.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("SELECT .* FROM events WHERE id =").
		WithArgs("missing").
		WillReturnRows(eventRows())

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateStatusCAS(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("UPDATE events SET status =").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "e1", []models.EventStatus{models.EventStatusOpen}, models.EventStatusOngoing)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateStatusLostRace(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	// zero rows updated, but the event exists: the precondition failed
	mock.ExpectExec("UPDATE events SET status =").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM events WHERE id =").
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	err := repo.UpdateStatus(context.Background(), "e1", []models.EventStatus{models.EventStatusOpen}, models.EventStatusOngoing)
	assert.True(t, errors.Is(err, store.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateStatusMissingEvent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("UPDATE events SET status =").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM events WHERE id =").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	err := repo.UpdateStatus(context.Background(), "missing", []models.EventStatus{models.EventStatusOpen}, models.EventStatusOngoing)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCompleteWithWinnersTx(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE events SET status =").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO winners").
		WithArgs("e1", 1, "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO winners").
		WithArgs("e1", 2, "s2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	winners := []models.Winner{
		{EventID: "e1", Place: 1, ParticipantID: "s1"},
		{EventID: "e1", Place: 2, ParticipantID: "s2"},
	}
	require.NoError(t, repo.CompleteWithWinners(context.Background(), "e1", winners))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCompleteRollsBackOnWinnerFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE events SET status =").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO winners").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.CompleteWithWinners(context.Background(), "e1", []models.Winner{{EventID: "e1", Place: 1, ParticipantID: "s1"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM events WHERE deleted = FALSE AND status =").
		WillReturnRows(eventRows().AddRow("e1", "Quiz", "", "2026-03-14", "", "Hall", "General", 10, "", "", "open", false, now, now))

	status := models.EventStatusOpen
	events, err := repo.List(context.Background(), models.EventFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
