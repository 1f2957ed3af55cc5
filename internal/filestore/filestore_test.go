package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/models"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	return s, dir
}

func sampleApplication(email string) *models.Application {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Application{
		ApplicationID: "app-" + email,
		Email:         email,
		Status:        models.StatusSubmitted,
		SubmittedAt:   now,
		LastUpdated:   now,
		StatusHistory: []models.StatusChange{
			{Status: models.StatusSubmitted, Timestamp: now},
		},
		Personal: models.PersonalInfo{FirstName: "Jane", LastName: "Doe"},
		Academic: models.AcademicInfo{Grade: "Grade 5"},
	}
}

func TestApplicationLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	apps := s.ApplicationStore()
	ctx := context.Background()

	_, err := apps.Get(ctx, "jane@example.com")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	require.NoError(t, apps.Upsert(ctx, sampleApplication("jane@example.com")))

	got, err := apps.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)

	notes := "looks good"
	patched, err := apps.Patch(ctx, "jane@example.com", models.ApplicationPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "looks good", patched.Notes)

	existed, err := apps.Delete(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, existed)

	// Deleting again reports absence without error.
	existed, err = apps.Delete(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestTransitionAppendsHistory(t *testing.T) {
	s, _ := newTestStore(t)
	apps := s.ApplicationStore()
	ctx := context.Background()

	require.NoError(t, apps.Upsert(ctx, sampleApplication("jane@example.com")))

	change := models.StatusChange{
		Status:    models.StatusUnderReview,
		Timestamp: time.Now().UTC(),
		By:        "admin@school.test",
	}
	got, err := apps.Transition(ctx, "jane@example.com", change, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusUnderReview, got.Status)
	require.Len(t, got.StatusHistory, 2)
	assert.Equal(t, got.Status, got.StatusHistory[len(got.StatusHistory)-1].Status)
	assert.Equal(t, "admin@school.test", got.ReviewedBy)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ApplicationStore().Upsert(ctx, sampleApplication("jane@example.com")))
	require.NoError(t, s.StudentStore().Upsert(ctx, &models.Student{
		StudentID: "STU20260001",
		Status:    models.StudentActive,
		Year:      2026,
	}))

	agg := models.NewEnrollmentAggregate(2026)
	agg.Record("STU20260001", "Grade 5", "female", time.Now().UTC())
	require.NoError(t, s.AggregateStore().Upsert(ctx, agg))

	reopened, err := Open(dir, zap.NewNop())
	require.NoError(t, err)

	app, err := reopened.ApplicationStore().Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, app.Status)

	st, err := reopened.StudentStore().Get(ctx, "STU20260001")
	require.NoError(t, err)
	assert.Equal(t, 2026, st.Year)

	got, err := reopened.AggregateStore().Get(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalStudents)
	assert.True(t, got.Consistent())
}

func TestFilesArePrettyPrinted(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ApplicationStore().Upsert(ctx, sampleApplication("jane@example.com")))

	raw, err := os.ReadFile(filepath.Join(dir, applicationsFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  ")

	var decoded map[string]models.Application
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "jane@example.com")
}

func TestReturnedRecordsDoNotAliasStoreState(t *testing.T) {
	s, _ := newTestStore(t)
	apps := s.ApplicationStore()
	ctx := context.Background()

	require.NoError(t, apps.Upsert(ctx, sampleApplication("jane@example.com")))

	got, err := apps.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	got.StatusHistory = append(got.StatusHistory, models.StatusChange{Status: models.StatusApproved})
	got.Status = models.StatusApproved

	fresh, err := apps.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, fresh.Status)
	assert.Len(t, fresh.StatusHistory, 1)
}

func TestStudentListOrderedByID(t *testing.T) {
	s, _ := newTestStore(t)
	students := s.StudentStore()
	ctx := context.Background()

	for _, id := range []string{"STU20260003", "STU20260001", "STU20260002"} {
		require.NoError(t, students.Upsert(ctx, &models.Student{StudentID: id, Year: 2026}))
	}
	require.NoError(t, students.Upsert(ctx, &models.Student{StudentID: "STU20250001", Year: 2025}))

	all, err := students.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "STU20250001", all[0].StudentID)
	assert.Equal(t, "STU20260003", all[3].StudentID)

	byYear, err := students.ListByYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, byYear, 3)
	assert.Equal(t, "STU20260001", byYear[0].StudentID)

	count, err := students.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestLockRespectsContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.lock(ctx))
	defer s.unlock()

	expired, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	_, err := s.ApplicationStore().Get(expired, "jane@example.com")
	assert.True(t, errors.Is(err, appErrors.ErrTimeout))
}

func TestFailedFlushRollsBackMemory(t *testing.T) {
	s, dir := newTestStore(t)
	apps := s.ApplicationStore()
	ctx := context.Background()

	require.NoError(t, apps.Upsert(ctx, sampleApplication("jane@example.com")))

	// A directory squatting on the temp file path makes every write fail,
	// permission bits aside.
	blocker := filepath.Join(dir, applicationsFile+".tmp")
	require.NoError(t, os.Mkdir(blocker, 0o755))

	notes := "should not stick"
	_, err := apps.Patch(ctx, "jane@example.com", models.ApplicationPatch{Notes: &notes})
	require.Error(t, err)

	got, err := apps.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Empty(t, got.Notes)

	existed, err := apps.Delete(ctx, "jane@example.com")
	require.Error(t, err)
	assert.False(t, existed)

	got, err = apps.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)

	require.Error(t, apps.Upsert(ctx, sampleApplication("john@example.com")))

	_, err = apps.Get(ctx, "john@example.com")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	// Once writes succeed again the store picks up where disk left it.
	require.NoError(t, os.Remove(blocker))

	patched, err := apps.Patch(ctx, "jane@example.com", models.ApplicationPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "should not stick", patched.Notes)

	reopened, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	persisted, err := reopened.ApplicationStore().Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "should not stick", persisted.Notes)
}
