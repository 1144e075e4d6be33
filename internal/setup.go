// Package internal wires configuration, the storage engine and the
// serve-mode runtime together.
package internal

import (
	"errors"
	"log/slog"
	"os"

	"github.com/fennhauser/werkbank/internal/project"
	"github.com/fennhauser/werkbank/internal/storage"
	"github.com/fennhauser/werkbank/internal/vcs"
)

// Engine is the storage engine specialized to the YAML project type.
type Engine = storage.Storage[*project.Project]

// SetupStorage builds the engine from configuration and verifies the
// directory layout is healthy.
func SetupStorage(cfg *Config, logger *slog.Logger) (*Engine, error) {
	s, err := SetupStorageUnchecked(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := s.HealthCheck(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetupStorageUnchecked builds the engine without the health check,
// for operations that create the directory layout in the first place.
func SetupStorageUnchecked(cfg *Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	required := []struct{ key, value string }{
		{"storage.dirs.working", cfg.Storage.Dirs.Working},
		{"storage.dirs.archive", cfg.Storage.Dirs.Archive},
		{"storage.dirs.templates", cfg.Storage.Dirs.Templates},
		{"storage.extensions.project", cfg.Storage.Extensions.Project},
		{"storage.extensions.template", cfg.Storage.Extensions.Template},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &storage.FaultyConfigError{Key: r.key}
		}
	}

	root, err := storage.ResolveRoot(cfg.Storage.Path, cfg.Storage.BaseDir)
	if err != nil {
		return nil, err
	}

	opener := project.Type{
		ProjectExt:  cfg.Storage.Extensions.Project,
		TemplateExt: cfg.Storage.Extensions.Template,
	}

	opts := []storage.Option[*project.Project]{
		storage.WithLogger[*project.Project](logger),
		storage.WithDirNames[*project.Project](
			cfg.Storage.Dirs.Working,
			cfg.Storage.Dirs.Archive,
			cfg.Storage.Dirs.Templates,
			cfg.Storage.Dirs.Extras,
		),
	}

	if GitEnabled(cfg) {
		repo, err := vcs.New(root, logger)
		switch {
		case err == nil:
			opts = append(opts, storage.WithRepository[*project.Project](repo))
		case errors.Is(err, vcs.ErrNotARepository):
			logger.Warn("storage root is not a git repository, continuing without one",
				slog.String("root", root))
		default:
			return nil, err
		}
	}

	return storage.New(root, opener, opts...)
}

// GitEnabled reports whether version-control integration is active:
// enabled in configuration and not switched off via the environment.
func GitEnabled(cfg *Config) bool {
	return cfg.Git.Enabled && os.Getenv(NoGitEnv) == ""
}
