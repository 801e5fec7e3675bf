package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"mymusic/internal/config"
	"mymusic/internal/store"
	"mymusic/internal/store/memstore"
)

// Open connects the backend named by cfg, brings its schema up to date and
// returns a Datastore over it. It does not fail: when the backend cannot be
// opened the returned Datastore is degraded and the cause is logged.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *Datastore {
	opts := Options{
		Files:    afero.NewOsFs(),
		FileRoot: cfg.FileRoot(),
		Logger:   logger,
	}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Str("backend", string(cfg.Backend)).Msg("open backend")
	} else {
		opts.Backend = backend
		logger.Info().Str("backend", string(cfg.Backend)).Str("files", opts.FileRoot).Msg("datastore ready")
	}
	return New(opts)
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memstore.New(nil), nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		if err := store.Migrate(store.SQLite, cfg.SQLitePath, store.Up); err != nil {
			return nil, err
		}
		s, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return resume(ctx, s)

	case config.BackendPostgres:
		s, err := store.OpenPostgres(ctx, cfg.Database.URL, cfg.Database.ConnectWait)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(store.Postgres, cfg.Database.URL, store.Up); err != nil {
			_ = s.Close()
			return nil, err
		}
		return resume(ctx, s)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// resume seeds the log clock from the stored log so that times issued after
// a restart never sort before earlier entries.
func resume(ctx context.Context, s *store.Store) (store.Backend, error) {
	if err := s.Resume(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("resume transaction log: %w", err)
	}
	return s, nil
}
