package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/internal/store"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
	"github.com/brightmont/admissions-engine/pkg/keylock"
)

const statisticsCacheKey = "statistics:global"

// EnrollmentService maintains the derived per-year enrollment aggregates.
// Aggregates are updated incrementally as students enroll; a full recount
// happens only in Reconcile, which exists for repair.
type EnrollmentService struct {
	aggregates store.AggregateStore
	students   store.StudentStore
	cache      *CacheService
	locks      *keylock.KeyLock
	logger     *zap.Logger
	timeout    time.Duration
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(aggregates store.AggregateStore, students store.StudentStore, cache *CacheService, locks *keylock.KeyLock, logger *zap.Logger, timeout time.Duration) *EnrollmentService {
	if locks == nil {
		locks = keylock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		aggregates: aggregates,
		students:   students,
		cache:      cache,
		locks:      locks,
		logger:     logger,
		timeout:    timeout,
	}
}

// RecordEnrollment counts one student into the year's aggregate. Updates
// for the same year are serialized so concurrent enrollments are never
// lost; different years proceed independently.
func (s *EnrollmentService) RecordEnrollment(ctx context.Context, studentID string, year int, grade, gender string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	key := "aggregate:" + strconv.Itoa(year)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	agg, err := s.aggregates.Get(ctx, year)
	if err != nil {
		if !errors.Is(err, appErrors.ErrNotFound) {
			return appErrors.MapDeadline(err)
		}
		agg = models.NewEnrollmentAggregate(year)
	}

	agg.Record(studentID, grade, gender, time.Now().UTC())
	if err := s.aggregates.Upsert(ctx, agg); err != nil {
		return appErrors.MapDeadline(err)
	}

	s.cache.Invalidate(ctx, statisticsCacheKey)
	s.logger.Info("enrollment recorded",
		zap.String("student_id", studentID),
		zap.Int("year", year),
		zap.String("grade", grade),
	)
	return nil
}

// Aggregate returns the stored aggregate for one year.
func (s *EnrollmentService) Aggregate(ctx context.Context, year int) (*models.EnrollmentAggregate, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	agg, err := s.aggregates.Get(ctx, year)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no aggregate for year "+strconv.Itoa(year))
		}
		return nil, appErrors.MapDeadline(err)
	}
	return agg, nil
}

// Reconcile rebuilds a year's aggregate from a full student scan. This is
// the repair path, never the hot path: the rebuilt aggregate matches what
// incremental updates would have produced, since student IDs are assigned
// monotonically and the scan returns them in ID order.
func (s *EnrollmentService) Reconcile(ctx context.Context, year int) (*models.EnrollmentAggregate, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	key := "aggregate:" + strconv.Itoa(year)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	students, err := s.students.ListByYear(ctx, year)
	if err != nil {
		return nil, appErrors.MapDeadline(err)
	}

	agg := models.NewEnrollmentAggregate(year)
	for _, st := range students {
		agg.Record(st.StudentID, st.Academic.Grade, st.Personal.Gender, time.Now().UTC())
	}

	if err := s.aggregates.Upsert(ctx, agg); err != nil {
		return nil, appErrors.MapDeadline(err)
	}

	s.cache.Invalidate(ctx, statisticsCacheKey)
	s.logger.Info("aggregate reconciled",
		zap.Int("year", year),
		zap.Int("total_students", agg.TotalStudents),
	)
	return agg, nil
}

// Statistics computes the dashboard summary: per-year aggregates plus
// global totals derived from a direct student scan. This read path is the
// one place allowed to scan the student collection; the result is cached.
func (s *EnrollmentService) Statistics(ctx context.Context) (*models.EnrollmentStatistics, error) {
	var cached models.EnrollmentStatistics
	if s.cache.Get(ctx, statisticsCacheKey, &cached) {
		return &cached, nil
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	aggs, err := s.aggregates.List(ctx)
	if err != nil {
		return nil, appErrors.MapDeadline(err)
	}
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.MapDeadline(err)
	}

	stats := &models.EnrollmentStatistics{
		Years:       make(map[int]*models.EnrollmentAggregate, len(aggs)),
		GeneratedAt: time.Now().UTC(),
	}
	for i := range aggs {
		agg := aggs[i]
		stats.Years[agg.Year] = &agg
	}
	for _, st := range students {
		stats.TotalStudents++
		switch st.Status {
		case models.StudentActive:
			stats.ActiveStudents++
		default:
			stats.InactiveStudents++
		}
		stats.PendingVerifications += st.PendingVerifications()
	}

	s.cache.Set(ctx, statisticsCacheKey, stats, 0)
	return stats, nil
}

func (s *EnrollmentService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
