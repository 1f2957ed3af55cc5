package store

import (
	"context"
	"time"

	"github.com/brightmont/admissions-engine/internal/models"
)

// Instrument wraps every store with per-operation timing observations.
// A nil observer returns the backends unchanged.
func Instrument(b *Backends, obs Observer) *Backends {
	if obs == nil {
		return b
	}
	return &Backends{
		Applications: &observedApplications{next: b.Applications, obs: obs, backend: b.Kind},
		Students:     &observedStudents{next: b.Students, obs: obs, backend: b.Kind},
		Profiles:     &observedProfiles{next: b.Profiles, obs: obs, backend: b.Kind},
		Aggregates:   &observedAggregates{next: b.Aggregates, obs: obs, backend: b.Kind},
		Kind:         b.Kind,
	}
}

type observedApplications struct {
	next    ApplicationStore
	obs     Observer
	backend string
}

func (o *observedApplications) observe(op string, err error, start time.Time) {
	o.obs.ObserveStoreOperation(o.backend, "application", op, err, time.Since(start))
}

func (o *observedApplications) Get(ctx context.Context, email string) (*models.Application, error) {
	start := time.Now()
	app, err := o.next.Get(ctx, email)
	o.observe("get", err, start)
	return app, err
}

func (o *observedApplications) Upsert(ctx context.Context, app *models.Application) error {
	start := time.Now()
	err := o.next.Upsert(ctx, app)
	o.observe("upsert", err, start)
	return err
}

func (o *observedApplications) Patch(ctx context.Context, email string, patch models.ApplicationPatch) (*models.Application, error) {
	start := time.Now()
	app, err := o.next.Patch(ctx, email, patch)
	o.observe("patch", err, start)
	return app, err
}

func (o *observedApplications) Delete(ctx context.Context, email string) (bool, error) {
	start := time.Now()
	existed, err := o.next.Delete(ctx, email)
	o.observe("delete", err, start)
	return existed, err
}

func (o *observedApplications) Transition(ctx context.Context, email string, change models.StatusChange, notes *string) (*models.Application, error) {
	start := time.Now()
	app, err := o.next.Transition(ctx, email, change, notes)
	o.observe("transition", err, start)
	return app, err
}

func (o *observedApplications) List(ctx context.Context) ([]models.Application, error) {
	start := time.Now()
	apps, err := o.next.List(ctx)
	o.observe("list", err, start)
	return apps, err
}

type observedStudents struct {
	next    StudentStore
	obs     Observer
	backend string
}

func (o *observedStudents) observe(op string, err error, start time.Time) {
	o.obs.ObserveStoreOperation(o.backend, "student", op, err, time.Since(start))
}

func (o *observedStudents) Get(ctx context.Context, studentID string) (*models.Student, error) {
	start := time.Now()
	st, err := o.next.Get(ctx, studentID)
	o.observe("get", err, start)
	return st, err
}

func (o *observedStudents) Upsert(ctx context.Context, st *models.Student) error {
	start := time.Now()
	err := o.next.Upsert(ctx, st)
	o.observe("upsert", err, start)
	return err
}

func (o *observedStudents) Patch(ctx context.Context, studentID string, patch models.StudentPatch) (*models.Student, error) {
	start := time.Now()
	st, err := o.next.Patch(ctx, studentID, patch)
	o.observe("patch", err, start)
	return st, err
}

func (o *observedStudents) Delete(ctx context.Context, studentID string) (bool, error) {
	start := time.Now()
	existed, err := o.next.Delete(ctx, studentID)
	o.observe("delete", err, start)
	return existed, err
}

func (o *observedStudents) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := o.next.Count(ctx)
	o.observe("count", err, start)
	return n, err
}

func (o *observedStudents) List(ctx context.Context) ([]models.Student, error) {
	start := time.Now()
	students, err := o.next.List(ctx)
	o.observe("list", err, start)
	return students, err
}

func (o *observedStudents) ListByYear(ctx context.Context, year int) ([]models.Student, error) {
	start := time.Now()
	students, err := o.next.ListByYear(ctx, year)
	o.observe("list_by_year", err, start)
	return students, err
}

type observedProfiles struct {
	next    ProfileStore
	obs     Observer
	backend string
}

func (o *observedProfiles) observe(op string, err error, start time.Time) {
	o.obs.ObserveStoreOperation(o.backend, "profile", op, err, time.Since(start))
}

func (o *observedProfiles) Get(ctx context.Context, email string) (*models.Profile, error) {
	start := time.Now()
	p, err := o.next.Get(ctx, email)
	o.observe("get", err, start)
	return p, err
}

func (o *observedProfiles) Upsert(ctx context.Context, p *models.Profile) error {
	start := time.Now()
	err := o.next.Upsert(ctx, p)
	o.observe("upsert", err, start)
	return err
}

func (o *observedProfiles) Patch(ctx context.Context, email string, patch models.ProfilePatch) (*models.Profile, error) {
	start := time.Now()
	p, err := o.next.Patch(ctx, email, patch)
	o.observe("patch", err, start)
	return p, err
}

func (o *observedProfiles) Delete(ctx context.Context, email string) (bool, error) {
	start := time.Now()
	existed, err := o.next.Delete(ctx, email)
	o.observe("delete", err, start)
	return existed, err
}

type observedAggregates struct {
	next    AggregateStore
	obs     Observer
	backend string
}

func (o *observedAggregates) observe(op string, err error, start time.Time) {
	o.obs.ObserveStoreOperation(o.backend, "aggregate", op, err, time.Since(start))
}

func (o *observedAggregates) Get(ctx context.Context, year int) (*models.EnrollmentAggregate, error) {
	start := time.Now()
	agg, err := o.next.Get(ctx, year)
	o.observe("get", err, start)
	return agg, err
}

func (o *observedAggregates) Upsert(ctx context.Context, agg *models.EnrollmentAggregate) error {
	start := time.Now()
	err := o.next.Upsert(ctx, agg)
	o.observe("upsert", err, start)
	return err
}

func (o *observedAggregates) List(ctx context.Context) ([]models.EnrollmentAggregate, error) {
	start := time.Now()
	aggs, err := o.next.List(ctx)
	o.observe("list", err, start)
	return aggs, err
}
