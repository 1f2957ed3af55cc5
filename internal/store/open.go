package store

import (
	"go.uber.org/zap"

	"github.com/brightmont/admissions-engine/internal/filestore"
	"github.com/brightmont/admissions-engine/internal/repository"
	"github.com/brightmont/admissions-engine/pkg/config"
	"github.com/brightmont/admissions-engine/pkg/database"
)

// Open selects the storage backend once at process start. When the
// relational driver cannot be initialized the engine degrades to the
// file-backed store with a warning instead of failing startup, so the
// application stays usable in constrained environments.
func Open(cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	if cfg.Storage.Backend != config.BackendFile {
		db, err := database.NewPostgres(cfg.Database)
		if err == nil {
			logger.Info("storage backend ready", zap.String("backend", config.BackendPostgres))
			return &Backends{
				Applications: repository.NewApplicationRepository(db),
				Students:     repository.NewStudentRepository(db),
				Profiles:     repository.NewProfileRepository(db),
				Aggregates:   repository.NewAggregateRepository(db),
				Kind:         config.BackendPostgres,
			}, nil
		}
		logger.Warn("relational backend unavailable, degrading to file store",
			zap.Error(err), zap.String("data_dir", cfg.Storage.DataDir))
	}

	fs, err := filestore.Open(cfg.Storage.DataDir, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("storage backend ready", zap.String("backend", config.BackendFile))
	return &Backends{
		Applications: fs.ApplicationStore(),
		Students:     fs.StudentStore(),
		Profiles:     fs.ProfileStore(),
		Aggregates:   fs.AggregateStore(),
		Kind:         config.BackendFile,
	}, nil
}
