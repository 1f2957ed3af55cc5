package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/brightmont/admissions-engine/internal/models"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

// memApplicationStore is an in-memory store.ApplicationStore for tests.
type memApplicationStore struct {
	mu   sync.Mutex
	apps map[string]models.Application
	err  error
}

func newMemApplicationStore() *memApplicationStore {
	return &memApplicationStore{apps: make(map[string]models.Application)}
}

func (m *memApplicationStore) Get(ctx context.Context, email string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	app, ok := m.apps[email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return app.Clone(), nil
}

func (m *memApplicationStore) Upsert(ctx context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.apps[app.Email] = *app.Clone()
	return nil
}

func (m *memApplicationStore) Patch(ctx context.Context, email string, patch models.ApplicationPatch) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	app, ok := m.apps[email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	updated := patch.Apply(&app, time.Now().UTC())
	m.apps[email] = *updated
	return updated.Clone(), nil
}

func (m *memApplicationStore) Delete(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.apps[email]; !ok {
		return false, nil
	}
	delete(m.apps, email)
	return true, nil
}

func (m *memApplicationStore) Transition(ctx context.Context, email string, change models.StatusChange, notes *string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	app, ok := m.apps[email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	updated := app.Clone()
	updated.StatusHistory = append(updated.StatusHistory, change)
	updated.Status = change.Status
	updated.LastUpdated = change.Timestamp
	if change.By != "" {
		updated.ReviewedBy = change.By
	}
	if notes != nil {
		updated.Notes = *notes
	}
	m.apps[email] = *updated
	return updated.Clone(), nil
}

func (m *memApplicationStore) List(ctx context.Context) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	apps := make([]models.Application, 0, len(m.apps))
	for _, app := range m.apps {
		apps = append(apps, *app.Clone())
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].SubmittedAt.Before(apps[j].SubmittedAt) })
	return apps, nil
}

// memStudentStore is an in-memory store.StudentStore for tests.
type memStudentStore struct {
	mu       sync.Mutex
	students map[string]models.Student
	err      error
}

func newMemStudentStore() *memStudentStore {
	return &memStudentStore{students: make(map[string]models.Student)}
}

func (m *memStudentStore) Get(ctx context.Context, studentID string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.students[studentID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return st.Clone(), nil
}

func (m *memStudentStore) Upsert(ctx context.Context, st *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.students[st.StudentID] = *st.Clone()
	return nil
}

func (m *memStudentStore) Patch(ctx context.Context, studentID string, patch models.StudentPatch) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.students[studentID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	updated := patch.Apply(&st)
	m.students[studentID] = *updated
	return updated.Clone(), nil
}

func (m *memStudentStore) Delete(ctx context.Context, studentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.students[studentID]; !ok {
		return false, nil
	}
	delete(m.students, studentID)
	return true, nil
}

func (m *memStudentStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return len(m.students), nil
}

func (m *memStudentStore) List(ctx context.Context) ([]models.Student, error) {
	return m.collect(func(models.Student) bool { return true })
}

func (m *memStudentStore) ListByYear(ctx context.Context, year int) ([]models.Student, error) {
	return m.collect(func(st models.Student) bool { return st.Year == year })
}

func (m *memStudentStore) collect(keep func(models.Student) bool) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	students := make([]models.Student, 0, len(m.students))
	for _, st := range m.students {
		if keep(st) {
			students = append(students, *st.Clone())
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return students, nil
}

// memAggregateStore is an in-memory store.AggregateStore for tests.
type memAggregateStore struct {
	mu         sync.Mutex
	aggregates map[int]models.EnrollmentAggregate
	upsertErr  error
}

func newMemAggregateStore() *memAggregateStore {
	return &memAggregateStore{aggregates: make(map[int]models.EnrollmentAggregate)}
}

func (m *memAggregateStore) Get(ctx context.Context, year int) (*models.EnrollmentAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agg, ok := m.aggregates[year]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return agg.Clone(), nil
}

func (m *memAggregateStore) Upsert(ctx context.Context, agg *models.EnrollmentAggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.aggregates[agg.Year] = *agg.Clone()
	return nil
}

func (m *memAggregateStore) List(ctx context.Context) ([]models.EnrollmentAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	aggs := make([]models.EnrollmentAggregate, 0, len(m.aggregates))
	for _, agg := range m.aggregates {
		aggs = append(aggs, *agg.Clone())
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Year < aggs[j].Year })
	return aggs, nil
}

// memCacheRepo is an in-memory CacheRepository for tests.
type memCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// failingRecorder simulates an aggregate update failure after promotion.
type failingRecorder struct {
	err   error
	calls int
}

func (f *failingRecorder) RecordEnrollment(ctx context.Context, studentID string, year int, grade, gender string) error {
	f.calls++
	return f.err
}
