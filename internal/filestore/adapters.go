package filestore

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/brightmont/admissions-engine/internal/models"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

// Applications satisfies store.ApplicationStore over the shared maps.
type Applications struct{ s *Store }

func (a *Applications) Get(ctx context.Context, email string) (*models.Application, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	app, ok := a.s.applications[email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return app.Clone(), nil
}

func (a *Applications) Upsert(ctx context.Context, app *models.Application) error {
	if err := a.s.lock(ctx); err != nil {
		return err
	}
	defer a.s.unlock()

	return commit(a.s, applicationsFile, a.s.applications, app.Email, app.Clone())
}

func (a *Applications) Patch(ctx context.Context, email string, patch models.ApplicationPatch) (*models.Application, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	app, ok := a.s.applications[email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	updated := patch.Apply(&app, time.Now().UTC())
	if err := commit(a.s, applicationsFile, a.s.applications, email, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (a *Applications) Delete(ctx context.Context, email string) (bool, error) {
	if err := a.s.lock(ctx); err != nil {
		return false, err
	}
	defer a.s.unlock()

	if _, ok := a.s.applications[email]; !ok {
		return false, nil
	}
	if err := commit(a.s, applicationsFile, a.s.applications, email, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Applications) Transition(ctx context.Context, email string, change models.StatusChange, notes *string) (*models.Application, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	app, ok := a.s.applications[email]
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
	if err := commit(a.s, applicationsFile, a.s.applications, email, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (a *Applications) List(ctx context.Context) ([]models.Application, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	apps := make([]models.Application, 0, len(a.s.applications))
	for _, app := range a.s.applications {
		apps = append(apps, *app.Clone())
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].SubmittedAt.Before(apps[j].SubmittedAt) })
	return apps, nil
}

// Students satisfies store.StudentStore.
type Students struct{ s *Store }

func (a *Students) Get(ctx context.Context, studentID string) (*models.Student, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	st, ok := a.s.students[studentID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return st.Clone(), nil
}

func (a *Students) Upsert(ctx context.Context, st *models.Student) error {
	if err := a.s.lock(ctx); err != nil {
		return err
	}
	defer a.s.unlock()

	return commit(a.s, studentsFile, a.s.students, st.StudentID, st.Clone())
}

func (a *Students) Patch(ctx context.Context, studentID string, patch models.StudentPatch) (*models.Student, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	st, ok := a.s.students[studentID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	updated := patch.Apply(&st)
	if err := commit(a.s, studentsFile, a.s.students, studentID, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (a *Students) Delete(ctx context.Context, studentID string) (bool, error) {
	if err := a.s.lock(ctx); err != nil {
		return false, err
	}
	defer a.s.unlock()

	if _, ok := a.s.students[studentID]; !ok {
		return false, nil
	}
	if err := commit(a.s, studentsFile, a.s.students, studentID, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Students) Count(ctx context.Context) (int, error) {
	if err := a.s.lock(ctx); err != nil {
		return 0, err
	}
	defer a.s.unlock()
	return len(a.s.students), nil
}

func (a *Students) List(ctx context.Context) ([]models.Student, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()
	return a.collect(func(models.Student) bool { return true }), nil
}

func (a *Students) ListByYear(ctx context.Context, year int) ([]models.Student, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()
	return a.collect(func(st models.Student) bool { return st.Year == year }), nil
}

func (a *Students) collect(keep func(models.Student) bool) []models.Student {
	students := make([]models.Student, 0, len(a.s.students))
	for _, st := range a.s.students {
		if keep(st) {
			students = append(students, *st.Clone())
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return students
}

// Profiles satisfies store.ProfileStore.
type Profiles struct{ s *Store }

func (a *Profiles) Get(ctx context.Context, email string) (*models.Profile, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	p, ok := a.s.profiles[email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return p.Clone(), nil
}

func (a *Profiles) Upsert(ctx context.Context, p *models.Profile) error {
	if err := a.s.lock(ctx); err != nil {
		return err
	}
	defer a.s.unlock()

	return commit(a.s, profilesFile, a.s.profiles, p.Email, p.Clone())
}

func (a *Profiles) Patch(ctx context.Context, email string, patch models.ProfilePatch) (*models.Profile, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	p, ok := a.s.profiles[email]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	updated := patch.Apply(&p, time.Now().UTC())
	if err := commit(a.s, profilesFile, a.s.profiles, email, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (a *Profiles) Delete(ctx context.Context, email string) (bool, error) {
	if err := a.s.lock(ctx); err != nil {
		return false, err
	}
	defer a.s.unlock()

	if _, ok := a.s.profiles[email]; !ok {
		return false, nil
	}
	if err := commit(a.s, profilesFile, a.s.profiles, email, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Aggregates satisfies store.AggregateStore. Aggregates are keyed by the
// decimal year in the JSON file.
type Aggregates struct{ s *Store }

func (a *Aggregates) Get(ctx context.Context, year int) (*models.EnrollmentAggregate, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	agg, ok := a.s.aggregates[strconv.Itoa(year)]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return agg.Clone(), nil
}

func (a *Aggregates) Upsert(ctx context.Context, agg *models.EnrollmentAggregate) error {
	if err := a.s.lock(ctx); err != nil {
		return err
	}
	defer a.s.unlock()

	return commit(a.s, aggregatesFile, a.s.aggregates, strconv.Itoa(agg.Year), agg.Clone())
}

func (a *Aggregates) List(ctx context.Context) ([]models.EnrollmentAggregate, error) {
	if err := a.s.lock(ctx); err != nil {
		return nil, err
	}
	defer a.s.unlock()

	aggs := make([]models.EnrollmentAggregate, 0, len(a.s.aggregates))
	for _, agg := range a.s.aggregates {
		aggs = append(aggs, *agg.Clone())
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Year < aggs[j].Year })
	return aggs, nil
}
