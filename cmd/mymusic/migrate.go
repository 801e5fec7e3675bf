package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mymusic/internal/config"
	"mymusic/internal/store"
)

func newMigrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.migrate(cmd, store.Up)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.migrate(cmd, store.Down)
			},
		},
	)
	return cmd
}

func (a *app) migrate(cmd *cobra.Command, dir store.Direction) error {
	var (
		dialect store.Dialect
		target  string
	)
	switch a.cfg.Backend {
	case config.BackendPostgres:
		dialect, target = store.Postgres, a.cfg.Database.URL
	case config.BackendSQLite:
		dialect, target = store.SQLite, a.cfg.SQLitePath
	case config.BackendMemory:
		return errors.New("the memory backend has no schema to migrate")
	default:
		return fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}

	if err := store.Migrate(dialect, target, dir); err != nil {
		return err
	}

	direction := "up"
	if dir == store.Down {
		direction = "down"
	}
	a.logger.WithContext(cmd.Context()).Info().
		Str("backend", string(a.cfg.Backend)).
		Str("direction", direction).
		Msg("migrations applied")
	return nil
}
