package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/internal/store"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

// StudentService exposes student-record reads and partial updates. Mutations
// feed the global statistics, so each one drops the cached summary just like
// the enrollment paths do.
type StudentService struct {
	students store.StudentStore
	cache    *CacheService
	logger   *zap.Logger
	timeout  time.Duration
}

// NewStudentService constructs StudentService.
func NewStudentService(students store.StudentStore, cache *CacheService, logger *zap.Logger, timeout time.Duration) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, cache: cache, logger: logger, timeout: timeout}
}

// Get returns one student by ID.
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.Student, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	st, err := s.students.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.MapDeadline(err)
	}
	return st, nil
}

// List returns all students ordered by ID.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.MapDeadline(err)
	}
	return students, nil
}

// Patch merges only the supplied fields into the student record. A patched
// document type always ends up with a verification entry, so the two maps
// stay parallel.
func (s *StudentService) Patch(ctx context.Context, studentID string, patch models.StudentPatch) (*models.Student, error) {
	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "patch names no fields")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unrecognized student status %q", *patch.Status))
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	st, err := s.students.Patch(ctx, studentID, patch)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.MapDeadline(err)
	}
	s.cache.Invalidate(ctx, statisticsCacheKey)
	return st, nil
}

// Delete removes a student record. Absent keys return false without error.
func (s *StudentService) Delete(ctx context.Context, studentID string) (bool, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	existed, err := s.students.Delete(ctx, studentID)
	if err != nil {
		return false, appErrors.MapDeadline(err)
	}
	if existed {
		s.cache.Invalidate(ctx, statisticsCacheKey)
		s.logger.Info("student deleted", zap.String("student_id", studentID))
	}
	return existed, nil
}

func (s *StudentService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
