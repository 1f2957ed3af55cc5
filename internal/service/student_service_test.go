package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightmont/admissions-engine/internal/models"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

func seedStudent(t *testing.T, students *memStudentStore, id string) {
	t.Helper()
	require.NoError(t, students.Upsert(context.Background(), &models.Student{
		StudentID: id,
		Status:    models.StudentActive,
		Year:      2026,
		Personal:  models.PersonalInfo{FirstName: "Jane", LastName: "Doe", Gender: "female"},
		Academic:  models.AcademicInfo{Grade: "Grade 5"},
		Documents: map[string]string{"birth_certificate": "s3://docs/bc.pdf"},
		VerificationStatus: map[string]bool{
			"birth_certificate": false,
		},
	}))
}

func TestStudentGetNotFound(t *testing.T) {
	svc := NewStudentService(newMemStudentStore(), nil, nil, time.Second)

	_, err := svc.Get(context.Background(), "STU20260001")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestStudentPatchKeepsMapsParallel(t *testing.T) {
	students := newMemStudentStore()
	seedStudent(t, students, "STU20260001")
	svc := NewStudentService(students, nil, nil, time.Second)
	ctx := context.Background()

	st, err := svc.Patch(ctx, "STU20260001", models.StudentPatch{
		Documents: map[string]string{"transcript": "s3://docs/tr.pdf"},
	})
	require.NoError(t, err)

	// Every document type has a verification entry after the patch.
	for name := range st.Documents {
		_, ok := st.VerificationStatus[name]
		assert.True(t, ok, "missing verification entry for %s", name)
	}
	assert.False(t, st.VerificationStatus["transcript"])
	assert.Equal(t, 2, st.PendingVerifications())
}

func TestStudentPatchVerifyDocument(t *testing.T) {
	students := newMemStudentStore()
	seedStudent(t, students, "STU20260001")
	svc := NewStudentService(students, nil, nil, time.Second)

	st, err := svc.Patch(context.Background(), "STU20260001", models.StudentPatch{
		VerificationStatus: map[string]bool{"birth_certificate": true},
	})
	require.NoError(t, err)
	assert.True(t, st.VerificationStatus["birth_certificate"])
	assert.Equal(t, 0, st.PendingVerifications())
}

func TestStudentPatchRejectsUnknownStatus(t *testing.T) {
	students := newMemStudentStore()
	seedStudent(t, students, "STU20260001")
	svc := NewStudentService(students, nil, nil, time.Second)

	bad := models.StudentStatus("expelled")
	_, err := svc.Patch(context.Background(), "STU20260001", models.StudentPatch{Status: &bad})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStatus))
}

func TestStudentPatchEmptyRejected(t *testing.T) {
	svc := NewStudentService(newMemStudentStore(), nil, nil, time.Second)

	_, err := svc.Patch(context.Background(), "STU20260001", models.StudentPatch{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStudentDeleteIdempotent(t *testing.T) {
	students := newMemStudentStore()
	seedStudent(t, students, "STU20260001")
	svc := NewStudentService(students, nil, nil, time.Second)
	ctx := context.Background()

	existed, err := svc.Delete(ctx, "STU20260001")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.Delete(ctx, "STU20260001")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestStudentMutationsInvalidateStatisticsCache(t *testing.T) {
	students := newMemStudentStore()
	seedStudent(t, students, "STU20260001")
	cacheRepo := &memCacheRepo{entries: make(map[string][]byte)}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewStudentService(students, cacheSvc, nil, time.Second)
	ctx := context.Background()

	seedCache := func() {
		cacheSvc.Set(ctx, statisticsCacheKey, &models.EnrollmentStatistics{TotalStudents: 1}, 0)
	}
	cacheMiss := func() bool {
		var stats models.EnrollmentStatistics
		return !cacheSvc.Get(ctx, statisticsCacheKey, &stats)
	}

	seedCache()
	inactive := models.StudentInactive
	_, err := svc.Patch(ctx, "STU20260001", models.StudentPatch{Status: &inactive})
	require.NoError(t, err)
	assert.True(t, cacheMiss(), "status patch must drop cached statistics")

	seedCache()
	existed, err := svc.Delete(ctx, "STU20260001")
	require.NoError(t, err)
	require.True(t, existed)
	assert.True(t, cacheMiss(), "delete must drop cached statistics")

	// A no-op delete leaves the cache alone.
	seedCache()
	existed, err = svc.Delete(ctx, "STU20260001")
	require.NoError(t, err)
	require.False(t, existed)
	assert.False(t, cacheMiss())
}
