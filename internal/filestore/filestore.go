// Package filestore is the degraded document-store backend used when the
// relational driver cannot be initialized. Each record kind lives in one
// pretty-printed JSON file keyed by identifier; the whole map is loaded once
// at startup and rewritten to disk on every mutation. A single process lock
// held across each read-modify-write provides the same per-key atomicity the
// relational backend gets from its statements. Not scalable, by contract.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/models"
	appErrors "github.com/brightmont/admissions-engine/pkg/errors"
)

const (
	profilesFile     = "profiles.json"
	applicationsFile = "applications.json"
	studentsFile     = "students.json"
	aggregatesFile   = "aggregates.json"
)

// Store owns the in-memory maps and their on-disk files.
type Store struct {
	dir    string
	logger *zap.Logger

	mu           chan struct{} // capacity-1 semaphore; acquisition respects ctx
	profiles     map[string]models.Profile
	applications map[string]models.Application
	students     map[string]models.Student
	aggregates   map[string]models.EnrollmentAggregate
}

// Open loads any existing data files from dir, creating the directory when
// missing.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{
		dir:          dir,
		logger:       logger,
		mu:           make(chan struct{}, 1),
		profiles:     make(map[string]models.Profile),
		applications: make(map[string]models.Application),
		students:     make(map[string]models.Student),
		aggregates:   make(map[string]models.EnrollmentAggregate),
	}

	if err := loadFile(filepath.Join(dir, profilesFile), &s.profiles); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, applicationsFile), &s.applications); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, studentsFile), &s.students); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, aggregatesFile), &s.aggregates); err != nil {
		return nil, err
	}

	logger.Info("file store loaded",
		zap.String("dir", dir),
		zap.Int("profiles", len(s.profiles)),
		zap.Int("applications", len(s.applications)),
		zap.Int("students", len(s.students)),
	)
	return s, nil
}

// ApplicationStore exposes the applications map through the shared
// document-store contract.
func (s *Store) ApplicationStore() *Applications { return &Applications{s} }

// StudentStore exposes the students map.
func (s *Store) StudentStore() *Students { return &Students{s} }

// ProfileStore exposes the profiles map.
func (s *Store) ProfileStore() *Profiles { return &Profiles{s} }

// AggregateStore exposes the per-year aggregates map.
func (s *Store) AggregateStore() *Aggregates { return &Aggregates{s} }

// lock acquires the store lock or fails when ctx expires first, so a stuck
// disk write surfaces as Timeout instead of hanging every caller.
func (s *Store) lock(ctx context.Context) error {
	select {
	case s.mu <- struct{}{}:
		return nil
	case <-ctx.Done():
		return appErrors.MapDeadline(ctx.Err())
	}
}

func (s *Store) unlock() {
	<-s.mu
}

func loadFile(path string, dest interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// commit stages one change into a kind's map and writes the map through to
// disk before making the change visible: when the flush fails the prior
// entry is restored, so memory never runs ahead of the file. A nil val
// deletes the key.
func commit[V any](s *Store, file string, m map[string]V, key string, val *V) error {
	prev, existed := m[key]
	if val == nil {
		delete(m, key)
	} else {
		m[key] = *val
	}
	if err := s.flush(file, m); err != nil {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
		return err
	}
	return nil
}

// flush rewrites one kind's file. Pretty-printed for inspectability; the
// write goes through a temp file and rename so a crash never truncates data.
func (s *Store) flush(file string, data interface{}) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", file, err)
	}
	path := filepath.Join(s.dir, file)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
