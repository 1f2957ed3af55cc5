package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/filestore"
	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/internal/store"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

type parityBackend struct {
	name       string
	apps       store.ApplicationStore
	students   store.StudentStore
	aggregates store.AggregateStore
}

// runAdmissionSequence drives one full admission through the services on
// top of the given backend and returns the final records plus the year's
// aggregate, then deletes the application and checks the delete semantics.
func runAdmissionSequence(t *testing.T, b parityBackend) (*models.Application, *models.Student, *models.EnrollmentAggregate) {
	t.Helper()
	ctx := context.Background()

	enrollments := NewEnrollmentService(b.aggregates, b.students, nil, nil, nil, time.Second)
	apps := NewApplicationService(b.apps, b.students, enrollments, nil, nil, nil, time.Second)
	students := NewStudentService(b.students, nil, nil, time.Second)

	const email = "jane@example.com"
	req := validCreateRequest(email)
	req.Documents = map[string]string{"birth_certificate": "s3://docs/bc.pdf"}
	_, err := apps.Create(ctx, req, "registrar@school.test")
	require.NoError(t, err, b.name)

	notes := "sibling already enrolled"
	_, err = apps.Patch(ctx, email, models.ApplicationPatch{
		Notes:     &notes,
		Documents: map[string]string{"transcript": "s3://docs/tr.pdf"},
	})
	require.NoError(t, err, b.name)

	_, err = apps.Transition(ctx, email, TransitionRequest{Status: models.StatusUnderReview, Comment: "screening"}, "admin@school.test")
	require.NoError(t, err, b.name)
	_, err = apps.Transition(ctx, email, TransitionRequest{Status: models.StatusApproved, Comment: "meets requirements"}, "admin@school.test")
	require.NoError(t, err, b.name)

	promoted, err := apps.Promote(ctx, email, "admin@school.test")
	require.NoError(t, err, b.name)

	_, err = students.Patch(ctx, promoted.StudentID, models.StudentPatch{
		VerificationStatus: map[string]bool{"birth_certificate": true},
	})
	require.NoError(t, err, b.name)

	app, err := apps.Get(ctx, email)
	require.NoError(t, err, b.name)
	student, err := students.Get(ctx, promoted.StudentID)
	require.NoError(t, err, b.name)
	agg, err := enrollments.Aggregate(ctx, promoted.Year)
	require.NoError(t, err, b.name)

	existed, err := apps.Delete(ctx, email)
	require.NoError(t, err, b.name)
	require.True(t, existed, b.name)
	_, err = apps.Get(ctx, email)
	require.True(t, errors.Is(err, appErrors.ErrNotFound), b.name)
	existed, err = apps.Delete(ctx, email)
	require.NoError(t, err, b.name)
	require.False(t, existed, b.name)

	return app, student, agg
}

// scrubApplication zeroes the generated identifier and timestamps that
// legitimately differ between runs, leaving everything else comparable.
func scrubApplication(app *models.Application) *models.Application {
	out := app.Clone()
	out.ApplicationID = ""
	out.SubmittedAt = time.Time{}
	out.LastUpdated = time.Time{}
	for i := range out.StatusHistory {
		out.StatusHistory[i].Timestamp = time.Time{}
	}
	return out
}

func scrubStudent(st *models.Student) *models.Student {
	out := st.Clone()
	out.ApplicationID = ""
	out.EnrolledAt = time.Time{}
	return out
}

func scrubAggregate(agg *models.EnrollmentAggregate) *models.EnrollmentAggregate {
	out := agg.Clone()
	out.UpdatedAt = time.Time{}
	return out
}

func TestBackendsProduceEqualRecords(t *testing.T) {
	fs, err := filestore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	mem := parityBackend{
		name:       "memory",
		apps:       newMemApplicationStore(),
		students:   newMemStudentStore(),
		aggregates: newMemAggregateStore(),
	}
	file := parityBackend{
		name:       "file",
		apps:       fs.ApplicationStore(),
		students:   fs.StudentStore(),
		aggregates: fs.AggregateStore(),
	}

	memApp, memStudent, memAgg := runAdmissionSequence(t, mem)
	fileApp, fileStudent, fileAgg := runAdmissionSequence(t, file)

	assert.Equal(t, scrubApplication(memApp), scrubApplication(fileApp))
	assert.Equal(t, scrubStudent(memStudent), scrubStudent(fileStudent))
	assert.Equal(t, scrubAggregate(memAgg), scrubAggregate(fileAgg))

	// Sanity on the shared outcome rather than just mutual equality.
	require.Len(t, fileApp.StatusHistory, 3)
	assert.Equal(t, models.StatusApproved, fileApp.Status)
	assert.Equal(t, fileApp.Status, fileApp.StatusHistory[len(fileApp.StatusHistory)-1].Status)
	assert.True(t, fileStudent.VerificationStatus["birth_certificate"])
	assert.False(t, fileStudent.VerificationStatus["transcript"])
	assert.True(t, fileAgg.Consistent())
	assert.Equal(t, []string{fileStudent.StudentID}, fileAgg.StudentIDs)
}
