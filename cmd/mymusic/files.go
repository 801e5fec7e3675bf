package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mymusic/internal/datastore"
	"mymusic/internal/music"
	"mymusic/internal/vault"
)

type fileOptions struct {
	upload  string
	replace string
	remove  bool
	tags    bool
}

type fileReport struct {
	Path   string      `json:"path"`
	Exists bool        `json:"exists"`
	Size   int         `json:"size,omitempty"`
	Tags   *vault.Tags `json:"tags,omitempty"`
}

func newFilesCommand(a *app) *cobra.Command {
	var opts fileOptions

	cmd := &cobra.Command{
		Use:   "files <album|single> <id> <filename>",
		Short: "Inspect or change a file stored for a record",
		Long: `Without flags, print where the file lives and whether it exists.

	mymusic files album 0d6c... 01.flac --tags
	mymusic files single 42ab... track.mp3 --upload ./track.mp3
	mymusic files single 42ab... track.mp3 --replace ./remaster.mp3
	mymusic files album 0d6c... cover.jpg --delete`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := music.ParseKind(args[0])
			if err != nil {
				return err
			}
			ds, err := a.requireDatastore(cmd.Context())
			if err != nil {
				return err
			}

			switch kind {
			case music.KindAlbum:
				return runFile(cmd, ds.Albums(), args[1], args[2], opts)
			case music.KindSingle:
				return runFile(cmd, ds.Singles(), args[1], args[2], opts)
			}
			return fmt.Errorf("%s records have no files", kind)
		},
	}
	cmd.Flags().StringVar(&opts.upload, "upload", "", "store a new file from this local path")
	cmd.Flags().StringVar(&opts.replace, "replace", "", "overwrite the file from this local path")
	cmd.Flags().BoolVar(&opts.remove, "delete", false, "delete the file")
	cmd.Flags().BoolVar(&opts.tags, "tags", false, "read audio tags from the file")
	cmd.MarkFlagsMutuallyExclusive("upload", "replace", "delete")
	return cmd
}

func runFile[T music.Entity](cmd *cobra.Command, c *datastore.Collection[T], id, filename string, opts fileOptions) error {
	ctx := cmd.Context()

	switch {
	case opts.upload != "":
		data, err := os.ReadFile(opts.upload)
		if err != nil {
			return fmt.Errorf("read upload: %w", err)
		}
		if err := c.CreateFile(ctx, id, filename, data); err != nil {
			return err
		}
	case opts.replace != "":
		data, err := os.ReadFile(opts.replace)
		if err != nil {
			return fmt.Errorf("read replacement: %w", err)
		}
		if err := c.ReplaceFile(ctx, id, filename, data); err != nil {
			return err
		}
	case opts.remove:
		if err := c.DeleteFile(ctx, id, filename); err != nil {
			return err
		}
	}

	report, err := describeFile(ctx, c, id, filename, opts.tags)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report)
}

func describeFile[T music.Entity](ctx context.Context, c *datastore.Collection[T], id, filename string, withTags bool) (fileReport, error) {
	path, ok, err := c.FilePath(ctx, id, filename)
	if err != nil {
		return fileReport{}, err
	}
	if !ok {
		return fileReport{}, fmt.Errorf("%s %s has no files directory: %w", c.Kind(), id, datastore.ErrNotFound)
	}

	report := fileReport{Path: path}
	data, exists, err := c.ReadFile(ctx, id, filename)
	if err != nil {
		return fileReport{}, err
	}
	report.Exists, report.Size = exists, len(data)

	if withTags && exists {
		tags, err := c.FileTags(ctx, id, filename)
		switch {
		case err == nil:
			report.Tags = &tags
		case errors.Is(err, datastore.ErrBadRequest):
			// not an audio file
		default:
			return fileReport{}, err
		}
	}
	return report, nil
}
