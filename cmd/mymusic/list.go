package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mymusic/internal/datastore"
	"mymusic/internal/music"
)

// page is one slice of a listing. Total counts every record of the kind and
// is omitted for filtered playlist listings, where it would overstate.
type page[T any] struct {
	Total  *int `json:"total,omitempty"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
	Items  []T  `json:"items"`
}

func newListCommand(a *app) *cobra.Command {
	var (
		limit, offset int
		fields, user  string
		visible       bool
	)

	cmd := &cobra.Command{
		Use:   "list <albums|singles|playlists>",
		Short: "List records of one kind",
		Long: `List records in insertion order. --fields keeps only the id, the title
and the named attributes of every record:

	mymusic list albums --limit 5 --fields artist,genre
	mymusic list playlists --user avery`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := music.ParseKind(args[0])
			if err != nil {
				return err
			}
			ds, err := a.requireDatastore(cmd.Context())
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = datastore.DefaultLimit
			}

			ctx := cmd.Context()
			switch kind {
			case music.KindAlbum:
				return printPage(cmd, ds.Albums(), limit, offset, fields)
			case music.KindSingle:
				return printPage(cmd, ds.Singles(), limit, offset, fields)
			case music.KindPlaylist:
				if user == "" && !visible {
					return printPage(cmd, ds.Playlists(), limit, offset, fields)
				}
				var viewer *string
				if user != "" {
					viewer = &user
				}
				items, err := ds.ListPlaylists(ctx, viewer, limit, offset, fields)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), page[music.Playlist]{
					Limit:  limit,
					Offset: offset,
					Items:  items,
				})
			}
			return fmt.Errorf("cannot list %s", kind)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", datastore.DefaultLimit, "maximum number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "records to skip")
	cmd.Flags().StringVar(&fields, "fields", "", "comma-separated attributes to keep")
	cmd.Flags().StringVar(&user, "user", "", "playlists: only those owned by user or shared")
	cmd.Flags().BoolVar(&visible, "shared", false, "playlists: only shared playlists")
	return cmd
}

func printPage[T music.Entity](cmd *cobra.Command, c *datastore.Collection[T], limit, offset int, fields string) error {
	items, err := c.List(cmd.Context(), limit, offset, fields)
	if err != nil {
		return err
	}
	total := c.Count(cmd.Context())
	return writeJSON(cmd.OutOrStdout(), page[T]{
		Total:  &total,
		Limit:  limit,
		Offset: offset,
		Items:  items,
	})
}

