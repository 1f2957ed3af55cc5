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

	"github.com/brightmont/admissions-engine/internal/models"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() } //nolint:errcheck
}

var applicationRowColumns = []string{
	"email", "application_id", "status", "submitted_at", "last_updated",
	"status_history", "notes", "personal", "contact", "parent", "academic",
	"documents", "created_by", "reviewed_by",
}

func applicationRow(email string, status models.ApplicationStatus) *sqlmock.Rows {
	now := time.Now().UTC()
	history := []byte(`[{"status":"` + string(status) + `","timestamp":"2026-03-01T12:00:00Z"}]`)
	return sqlmock.NewRows(applicationRowColumns).
		AddRow(email, "app-1", string(status), now, now,
			history, "", []byte(`{"first_name":"Jane","last_name":"Doe"}`), []byte(`{}`),
			[]byte(`{}`), []byte(`{"grade":"Grade 5"}`), []byte(`{"birth_certificate":"s3://docs/bc.pdf"}`), "", "")
}

func TestApplicationRepositoryGet(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM applications WHERE email").
		WithArgs("jane@example.com").
		WillReturnRows(applicationRow("jane@example.com", models.StatusSubmitted))

	app, err := repo.Get(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", app.Email)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Equal(t, "Jane", app.Personal.FirstName)
	require.Len(t, app.StatusHistory, 1)
	assert.Equal(t, "s3://docs/bc.pdf", app.Documents["birth_certificate"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryGetNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM applications WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(applicationRowColumns))

	_, err := repo.Get(context.Background(), "ghost@example.com")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO applications").
		WithArgs("jane@example.com", "app-1", models.StatusSubmitted, sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	err := repo.Upsert(context.Background(), &models.Application{
		ApplicationID: "app-1",
		Email:         "jane@example.com",
		Status:        models.StatusSubmitted,
		SubmittedAt:   now,
		LastUpdated:   now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryTransition(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("UPDATE applications SET(.+)status_history(.+)jsonb_build_array(.+)RETURNING").
		WithArgs("jane@example.com", models.StatusApproved, sqlmock.AnyArg(), sqlmock.AnyArg(), "reviewer@school.test", nil).
		WillReturnRows(applicationRow("jane@example.com", models.StatusApproved))

	change := models.StatusChange{
		Status:    models.StatusApproved,
		Timestamp: time.Now().UTC(),
		By:        "reviewer@school.test",
	}
	app, err := repo.Transition(context.Background(), "jane@example.com", change, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryPatchMergesDocuments(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(`UPDATE applications SET last_updated = NOW\(\), documents = COALESCE(.+)RETURNING`).
		WithArgs("jane@example.com", sqlmock.AnyArg()).
		WillReturnRows(applicationRow("jane@example.com", models.StatusSubmitted))

	_, err := repo.Patch(context.Background(), "jane@example.com", models.ApplicationPatch{
		Documents: map[string]string{"transcript": "s3://docs/tr.pdf"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("DELETE FROM applications").
		WithArgs("jane@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM applications").
		WithArgs("jane@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	existed, err := repo.Delete(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := applicationRow("a@example.com", models.StatusSubmitted)
	now := time.Now().UTC()
	rows.AddRow("b@example.com", "app-2", string(models.StatusUnderReview), now, now,
		[]byte(`[]`), "", []byte(`{}`), []byte(`{}`), []byte(`{}`), []byte(`{}`), nil, "", "")

	mock.ExpectQuery("SELECT (.+) FROM applications ORDER BY submitted_at").
		WillReturnRows(rows)

	apps, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "a@example.com", apps[0].Email)
	assert.Nil(t, apps[1].Documents)
	assert.NoError(t, mock.ExpectationsWereMet())
}
