package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/internal/store"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

// UpsertProfileRequest carries a wholesale profile write from its owner.
type UpsertProfileRequest struct {
	Email     string                  `json:"email" validate:"required,email"`
	FullName  string                  `json:"full_name,omitempty"`
	Phone     string                  `json:"phone,omitempty"`
	Address   string                  `json:"address,omitempty"`
	Guardian  models.GuardianInfo     `json:"guardian,omitempty"`
	Emergency models.EmergencyContact `json:"emergency,omitempty"`
	Academic  models.AcademicInfo     `json:"academic,omitempty"`
}

// ProfileService owns identity profiles. Profiles are created on first
// write and replaced wholesale by their owner.
type ProfileService struct {
	profiles  store.ProfileStore
	validator *validator.Validate
	logger    *zap.Logger
	timeout   time.Duration
}

// NewProfileService constructs ProfileService.
func NewProfileService(profiles store.ProfileStore, validate *validator.Validate, logger *zap.Logger, timeout time.Duration) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, validator: validate, logger: logger, timeout: timeout}
}

// Get returns one profile by email.
func (s *ProfileService) Get(ctx context.Context, email string) (*models.Profile, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	p, err := s.profiles.Get(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.MapDeadline(err)
	}
	return p, nil
}

// Upsert replaces the whole profile, creating it on first write. The
// original creation time survives replacement.
func (s *ProfileService) Upsert(ctx context.Context, req UpsertProfileRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	p := &models.Profile{
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		Guardian:  req.Guardian,
		Emergency: req.Emergency,
		Academic:  req.Academic,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.profiles.Get(ctx, req.Email); err == nil {
		p.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, appErrors.ErrNotFound) {
		return nil, appErrors.MapDeadline(err)
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, appErrors.MapDeadline(err)
	}
	return p, nil
}

// Patch merges only the supplied fields into the profile.
func (s *ProfileService) Patch(ctx context.Context, email string, patch models.ProfilePatch) (*models.Profile, error) {
	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "patch names no fields")
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	p, err := s.profiles.Patch(ctx, email, patch)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.MapDeadline(err)
	}
	return p, nil
}

// Delete removes a profile. Not part of normal operation, but exposed for
// administrative cleanup; absent keys return false without error.
func (s *ProfileService) Delete(ctx context.Context, email string) (bool, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	existed, err := s.profiles.Delete(ctx, email)
	if err != nil {
		return false, appErrors.MapDeadline(err)
	}
	return existed, nil
}

func (s *ProfileService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
