// Package store defines the document-store contracts shared by the
// relational and file-backed backends, and selects a backend at startup.
// Components above never branch on which backend is active.
package store

import (
	"context"
	"time"

	"github.com/brightmont/admissions-engine/internal/models"
)

// ApplicationStore is the per-key contract for admission applications.
// Get returns pkg/errors.ErrNotFound for absent keys; Delete of an absent
// key returns (false, nil). Patch and Transition are serialized per key so
// a reader never observes a partially merged record.
type ApplicationStore interface {
	Get(ctx context.Context, email string) (*models.Application, error)
	Upsert(ctx context.Context, app *models.Application) error
	Patch(ctx context.Context, email string, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, email string) (bool, error)

	// Transition atomically appends the status change to the history, sets
	// the status field and last_updated, and optionally replaces notes.
	Transition(ctx context.Context, email string, change models.StatusChange, notes *string) (*models.Application, error)

	List(ctx context.Context) ([]models.Application, error)
}

// StudentStore is the per-key contract for enrolled students.
type StudentStore interface {
	Get(ctx context.Context, studentID string) (*models.Student, error)
	Upsert(ctx context.Context, st *models.Student) error
	Patch(ctx context.Context, studentID string, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, studentID string) (bool, error)

	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]models.Student, error)
	ListByYear(ctx context.Context, year int) ([]models.Student, error)
}

// ProfileStore is the per-key contract for identity profiles.
type ProfileStore interface {
	Get(ctx context.Context, email string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	Patch(ctx context.Context, email string, patch models.ProfilePatch) (*models.Profile, error)
	Delete(ctx context.Context, email string) (bool, error)
}

// AggregateStore persists the derived per-year enrollment aggregates in
// their own key space.
type AggregateStore interface {
	Get(ctx context.Context, year int) (*models.EnrollmentAggregate, error)
	Upsert(ctx context.Context, agg *models.EnrollmentAggregate) error
	List(ctx context.Context) ([]models.EnrollmentAggregate, error)
}

// Backends bundles the four stores produced by one backend implementation.
type Backends struct {
	Applications ApplicationStore
	Students     StudentStore
	Profiles     ProfileStore
	Aggregates   AggregateStore

	// Kind names the active backend, for logs and health reporting only.
	Kind string
}

// Observer receives per-operation store timings.
type Observer interface {
	ObserveStoreOperation(backend, kind, op string, err error, duration time.Duration)
}
