package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/internal/store"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
	"github.com/brightmont/admissions-engine/pkg/keylock"
)

// studentIDKey serializes student-ID assignment during promotion.
const studentIDKey = "student-id-seq"

type enrollmentRecorder interface {
	RecordEnrollment(ctx context.Context, studentID string, year int, grade, gender string) error
}

// CreateApplicationRequest carries the fields required to open an admission
// application. Required sub-object fields are enforced at this boundary.
type CreateApplicationRequest struct {
	Email     string              `json:"email" validate:"required,email"`
	Draft     bool                `json:"draft,omitempty"`
	Personal  models.PersonalInfo `json:"personal" validate:"required"`
	Contact   models.ContactInfo  `json:"contact" validate:"required"`
	Parent    models.ParentInfo   `json:"parent"`
	Academic  models.AcademicInfo `json:"academic" validate:"required"`
	Documents map[string]string   `json:"documents,omitempty"`
	Notes     string              `json:"notes,omitempty"`
}

// TransitionRequest describes a status-change payload.
type TransitionRequest struct {
	Status  models.ApplicationStatus `json:"status" validate:"required"`
	Comment string                   `json:"comment,omitempty"`
	Notes   *string                  `json:"notes,omitempty"`
}

// ApplicationService owns the admission application lifecycle: creation,
// partial updates, the status workflow with its audit trail, and promotion
// of approved applications into student records.
type ApplicationService struct {
	apps        store.ApplicationStore
	students    store.StudentStore
	enrollments enrollmentRecorder
	locks       *keylock.KeyLock
	validator   *validator.Validate
	logger      *zap.Logger
	timeout     time.Duration
}

// NewApplicationService constructs ApplicationService.
func NewApplicationService(apps store.ApplicationStore, students store.StudentStore, enrollments enrollmentRecorder, locks *keylock.KeyLock, validate *validator.Validate, logger *zap.Logger, timeout time.Duration) *ApplicationService {
	if locks == nil {
		locks = keylock.New()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		apps:        apps,
		students:    students,
		enrollments: enrollments,
		locks:       locks,
		validator:   validate,
		logger:      logger,
		timeout:     timeout,
	}
}

// Create opens a new application for the applicant email. Duplicate
// creation is rejected rather than silently overwriting the existing
// record.
func (s *ApplicationService) Create(ctx context.Context, req CreateApplicationRequest, createdBy string) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	s.locks.Lock("application:" + req.Email)
	defer s.locks.Unlock("application:" + req.Email)

	if _, err := s.apps.Get(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrAlreadyExists, "application already exists for "+req.Email)
	} else if !errors.Is(err, appErrors.ErrNotFound) {
		return nil, appErrors.MapDeadline(err)
	}

	now := time.Now().UTC()
	status := models.StatusSubmitted
	if req.Draft {
		status = models.StatusDraft
	}

	app := &models.Application{
		ApplicationID: uuid.NewString(),
		Email:         req.Email,
		Status:        status,
		SubmittedAt:   now,
		LastUpdated:   now,
		Notes:         req.Notes,
		Personal:      req.Personal,
		Contact:       req.Contact,
		Parent:        req.Parent,
		Academic:      req.Academic,
		Documents:     req.Documents,
		CreatedBy:     createdBy,
	}
	if !req.Draft {
		app.StatusHistory = []models.StatusChange{{
			Status:    models.StatusSubmitted,
			Timestamp: now,
			Comment:   "application submitted",
			By:        createdBy,
		}}
	}

	if err := s.apps.Upsert(ctx, app); err != nil {
		return nil, appErrors.MapDeadline(err)
	}

	s.logger.Info("application created",
		zap.String("email", app.Email),
		zap.String("application_id", app.ApplicationID),
		zap.String("status", string(app.Status)),
	)
	return app, nil
}

// Get returns one application by applicant email.
func (s *ApplicationService) Get(ctx context.Context, email string) (*models.Application, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	app, err := s.apps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.MapDeadline(err)
	}
	return app, nil
}

// Patch merges only the supplied fields into the application.
func (s *ApplicationService) Patch(ctx context.Context, email string, patch models.ApplicationPatch) (*models.Application, error) {
	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "patch names no fields")
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	app, err := s.apps.Patch(ctx, email, patch)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.MapDeadline(err)
	}
	return app, nil
}

// Delete removes an application permanently. Students promoted from it are
// untouched; their application reference is lookup-only. Deleting an absent
// key returns false without error.
func (s *ApplicationService) Delete(ctx context.Context, email string) (bool, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	existed, err := s.apps.Delete(ctx, email)
	if err != nil {
		return false, appErrors.MapDeadline(err)
	}
	if existed {
		s.logger.Info("application deleted", zap.String("email", email))
	}
	return existed, nil
}

// List returns all applications ordered by submission time.
func (s *ApplicationService) List(ctx context.Context) ([]models.Application, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, appErrors.MapDeadline(err)
	}
	return apps, nil
}

// Transition moves the application to newStatus and appends the change to
// its audit trail in one atomic store operation. Any known status may
// follow any other: corrections past approved/rejected are allowed but
// logged, and policy enforcement belongs to callers. A retried transition
// after a timeout may append a duplicate history entry; the trail records
// what happened rather than deduplicating it.
func (s *ApplicationService) Transition(ctx context.Context, email string, req TransitionRequest, reviewedBy string) (*models.Application, error) {
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unrecognized status %q", req.Status))
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	change := models.StatusChange{
		Status:    req.Status,
		Timestamp: time.Now().UTC(),
		Comment:   req.Comment,
		By:        reviewedBy,
	}
	app, err := s.apps.Transition(ctx, email, change, req.Notes)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.MapDeadline(err)
	}

	if n := len(app.StatusHistory); n >= 2 && app.StatusHistory[n-2].Status.Terminal() {
		s.logger.Warn("transition past terminal status",
			zap.String("email", email),
			zap.String("from", string(app.StatusHistory[n-2].Status)),
			zap.String("to", string(req.Status)),
		)
	}

	s.logger.Info("application transitioned",
		zap.String("email", email),
		zap.String("status", string(req.Status)),
	)
	return app, nil
}

// Promote turns an approved application into an enrolled student. The
// student ID sequence is assigned under a critical section so concurrent
// promotions never collide. The enrollment aggregate is updated as part of
// the same logical operation; if that update fails the student record
// stands and the failure is returned alongside it so the caller can trigger
// reconciliation.
func (s *ApplicationService) Promote(ctx context.Context, email, promotedBy string) (*models.Student, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	app, err := s.apps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.MapDeadline(err)
	}
	if app.Status != models.StatusApproved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "application is not approved")
	}

	s.locks.Lock(studentIDKey)
	count, err := s.students.Count(ctx)
	if err != nil {
		s.locks.Unlock(studentIDKey)
		return nil, appErrors.MapDeadline(err)
	}

	year := time.Now().UTC().Year()
	st := &models.Student{
		StudentID:     fmt.Sprintf("STU%d%04d", year, count+1),
		ApplicationID: app.ApplicationID,
		Status:        models.StudentActive,
		Year:          year,
		EnrolledAt:    time.Now().UTC(),
		Personal:      app.Personal,
		Contact:       app.Contact,
		Parent:        app.Parent,
		Academic:      app.Academic,
		Documents:     app.Documents,
	}
	if len(st.Documents) > 0 {
		st.VerificationStatus = make(map[string]bool, len(st.Documents))
		for name := range st.Documents {
			st.VerificationStatus[name] = false
		}
	}

	if err := s.students.Upsert(ctx, st); err != nil {
		s.locks.Unlock(studentIDKey)
		return nil, appErrors.MapDeadline(err)
	}
	s.locks.Unlock(studentIDKey)

	s.logger.Info("application promoted",
		zap.String("email", email),
		zap.String("student_id", st.StudentID),
		zap.String("by", promotedBy),
	)

	if err := s.enrollments.RecordEnrollment(ctx, st.StudentID, st.Year, st.Academic.Grade, st.Personal.Gender); err != nil {
		s.logger.Error("enrollment aggregate update failed after promotion",
			zap.String("student_id", st.StudentID),
			zap.Error(err),
		)
		return st, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			"student created but enrollment aggregate update failed; run reconciliation")
	}
	return st, nil
}

// opContext applies the configured backend timeout.
func (s *ApplicationService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
