package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mymusic/internal/config"
	"mymusic/internal/datastore"
	"mymusic/internal/logging"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	envFile string
	cfg     *config.Config
	logger  *logging.Logger
	ds      *datastore.Datastore
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "mymusic",
		Short:         "Administer a MyMusic library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "config/local.env", "optional env file read before the environment")

	root.AddCommand(
		newMigrateCommand(a),
		newStatusCommand(a),
		newTransactionsCommand(a),
		newListCommand(a),
		newFilesCommand(a),
		newSeedCommand(a),
	)
	return root
}

// execute runs cmd and closes the datastore whether or not the command
// succeeded. Cobra skips post-run hooks when RunE fails.
func execute(cmd *cobra.Command, a *app) error {
	return errors.Join(cmd.Execute(), a.close())
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	logging.SetGlobalLogger(a.logger)

	ctx := context.WithValue(cmd.Context(), logging.CommandKey, cmd.Name())
	cmd.SetContext(ctx)
	return nil
}

// library opens the configured backend on first use.
func (a *app) library(ctx context.Context) *datastore.Datastore {
	if a.ds == nil {
		a.ds = datastore.Open(ctx, a.cfg, a.logger.Component(ctx, "datastore"))
	}
	return a.ds
}

func (a *app) close() error {
	if a.ds == nil {
		return nil
	}
	return a.ds.Close()
}

// requireDatastore is library for commands that cannot run degraded.
func (a *app) requireDatastore(ctx context.Context) (*datastore.Datastore, error) {
	ds := a.library(ctx)
	if !ds.Available() {
		return nil, fmt.Errorf("%s backend: %w", a.cfg.Backend, datastore.ErrServiceUnavailable)
	}
	return ds, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
