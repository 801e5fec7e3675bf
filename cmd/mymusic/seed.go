package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mymusic/internal/datastore"
	"mymusic/internal/music"
)

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo albums and a shared playlist into an empty library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.requireDatastore(cmd.Context())
			if err != nil {
				return err
			}
			created, err := seedDemoLibrary(cmd.Context(), ds)
			if err != nil {
				return err
			}
			a.logger.WithContext(cmd.Context()).Info().Int("records", created).Msg("demo library seeded")
			return nil
		},
	}
}

type seedAlbum struct {
	Artist   string
	Title    string
	Year     int
	Tracks   []string
	Genre    string
	Label    string
}

var demoAlbums = []seedAlbum{
	{
		Artist: "Boards of Canada",
		Title:  "Music Has the Right to Children",
		Year:   1998,
		Tracks: []string{"Turquoise Hexagon Sun", "Roygbiv", "Aquarius"},
		Genre:  "Electronic",
		Label:  "Warp",
	},
	{
		Artist: "Massive Attack",
		Title:  "Mezzanine",
		Year:   1998,
		Tracks: []string{"Angel", "Teardrop", "Inertia Creeps"},
		Genre:  "Trip Hop",
		Label:  "Virgin",
	},
	{
		Artist: "Portishead",
		Title:  "Dummy",
		Year:   1994,
		Tracks: []string{"Mysterons", "Sour Times", "Glory Box"},
		Genre:  "Trip Hop",
		Label:  "Go! Beat",
	},
	{
		Artist: "Radiohead",
		Title:  "OK Computer",
		Year:   1997,
		Tracks: []string{"Airbag", "Paranoid Android", "No Surprises"},
		Genre:  "Alternative Rock",
		Label:  "Parlophone",
	},
	{
		Artist: "Nils Frahm",
		Title:  "Spaces",
		Year:   2013,
		Tracks: []string{"An Aborted Beginning", "Says", "Hammers"},
		Genre:  "Modern Classical",
		Label:  "Erased Tapes",
	},
}

// seedDemoLibrary fills an empty album table. A library that already holds
// albums is left alone.
func seedDemoLibrary(ctx context.Context, ds *datastore.Datastore) (int, error) {
	count := ds.Albums().Count(ctx)
	if count < 0 {
		return 0, fmt.Errorf("count albums: %w", datastore.ErrServiceUnavailable)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	playlist := music.Playlist{
		ID:     music.NewID(),
		Title:  "Late Night Listening",
		Shared: true,
	}

	for _, seed := range demoAlbums {
		dir := seed.Artist + "/" + seed.Title
		album := music.Album{
			ID:        music.NewID(),
			Title:     seed.Title,
			Artist:    seed.Artist,
			Genre:     seed.Genre,
			Released:  strconv.Itoa(seed.Year),
			Label:     seed.Label,
			Directory: &dir,
		}
		for i, title := range seed.Tracks {
			album.Contents = append(album.Contents, music.Track{
				Title:    title,
				Track:    i + 1,
				Disk:     1,
				Filename: fmt.Sprintf("%02d %s.mp3", i+1, title),
			})
		}

		if _, err := ds.Albums().Create(ctx, &album); err != nil {
			if errors.Is(err, datastore.ErrConflict) {
				continue
			}
			return created, fmt.Errorf("seed album %q: %w", seed.Title, err)
		}
		created++

		playlist.Items = append(playlist.Items, music.PlaylistItem{
			Kind:  music.KindAlbum,
			ID:    album.ID,
			Title: album.Title,
		})
	}

	if _, err := ds.Playlists().Create(ctx, &playlist); err != nil {
		return created, fmt.Errorf("seed playlist: %w", err)
	}
	return created + 1, nil
}
