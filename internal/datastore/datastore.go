// Package datastore pairs every metadata mutation with its transaction log
// entry and manages the files that belong to each record.
package datastore

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"mymusic/internal/music"
	"mymusic/internal/store"
	"mymusic/internal/vault"
)

// DefaultSince is used by TransactionsSince when no timestamp is given.
// It sorts before every stored time.
const DefaultSince = "20000101"

// DefaultLimit is the page size used when a listing asks for none.
const DefaultLimit = 10

// Options configures a Datastore.
type Options struct {
	// Backend stores records and the log. A nil backend yields a degraded
	// Datastore that reports ErrServiceUnavailable.
	Backend store.Backend
	// Files holds record files; defaults to the OS filesystem.
	Files    afero.Fs
	FileRoot string
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Datastore is the library core. It is safe for concurrent use.
type Datastore struct {
	backend store.Backend
	files   *vault.Root
	logger  zerolog.Logger
	now     func() time.Time
	started time.Time

	albums    *Collection[music.Album]
	singles   *Collection[music.Single]
	playlists *Collection[music.Playlist]
}

// New builds a Datastore around opts.Backend.
func New(opts Options) *Datastore {
	if opts.Files == nil {
		opts.Files = afero.NewOsFs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ds := &Datastore{
		backend: opts.Backend,
		files:   vault.NewRoot(opts.Files, opts.FileRoot, opts.Logger),
		logger:  opts.Logger,
		now:     opts.Now,
		started: opts.Now(),
	}
	if ds.backend == nil {
		ds.logger.Warn().Msg("datastore running without a backend")
	}

	ds.albums = newCollection[music.Album](ds, music.KindAlbum)
	ds.singles = newCollection[music.Single](ds, music.KindSingle)
	ds.playlists = newCollection[music.Playlist](ds, music.KindPlaylist)
	return ds
}

// Albums returns the album collection.
func (ds *Datastore) Albums() *Collection[music.Album] { return ds.albums }

// Singles returns the single collection.
func (ds *Datastore) Singles() *Collection[music.Single] { return ds.singles }

// Playlists returns the playlist collection. Its List ignores ownership; use
// ListPlaylists for what one user may see.
func (ds *Datastore) Playlists() *Collection[music.Playlist] { return ds.playlists }

// Available reports whether a backend is attached.
func (ds *Datastore) Available() bool {
	return ds.backend != nil
}

// Ping checks that the backend responds.
func (ds *Datastore) Ping(ctx context.Context) error {
	if ds.backend == nil {
		return ErrServiceUnavailable
	}
	return classify("ping", ds.backend.Ping(ctx))
}

// ListPlaylists returns the playlists owned by user or shared with everyone.
// A nil user sees shared playlists only.
func (ds *Datastore) ListPlaylists(ctx context.Context, user *string, limit, offset int, fields string) ([]music.Playlist, error) {
	return ds.playlists.list(ctx, store.ListOptions{
		Limit:   limit,
		Offset:  offset,
		Visible: &store.Viewer{User: user},
	}, fields)
}

// TransactionsSince returns log entries with a time at or after since,
// oldest first. An empty since returns the whole log.
func (ds *Datastore) TransactionsSince(ctx context.Context, since string) ([]music.Transaction, error) {
	if ds.backend == nil {
		return []music.Transaction{}, nil
	}
	if since == "" {
		since = DefaultSince
	}
	entries, err := ds.backend.Log().Since(ctx, since)
	if err != nil {
		return nil, classify("transactions since", err)
	}
	if entries == nil {
		entries = []music.Transaction{}
	}
	return entries, nil
}

// LastTransactionTime returns the time of the newest log entry; ok is false
// when the log is empty or unavailable.
func (ds *Datastore) LastTransactionTime(ctx context.Context) (string, bool, error) {
	if ds.backend == nil {
		return "", false, nil
	}
	last, ok, err := ds.backend.Log().MostRecent(ctx)
	if err != nil {
		return "", false, classify("last transaction", err)
	}
	return last, ok, nil
}

// Status summarises the library for health checks.
type Status struct {
	Available       bool          `json:"available"`
	Albums          int           `json:"albums"`
	Singles         int           `json:"singles"`
	Playlists       int           `json:"playlists"`
	LastTransaction string        `json:"lastTransactionTime,omitempty"`
	Started         time.Time     `json:"started"`
	Uptime          time.Duration `json:"uptime"`
}

// Status reports record counts, the newest log time and uptime. Counts are
// -1 when the backend cannot be queried.
func (ds *Datastore) Status(ctx context.Context) Status {
	st := Status{
		Available: ds.backend != nil,
		Albums:    ds.albums.Count(ctx),
		Singles:   ds.singles.Count(ctx),
		Playlists: ds.playlists.Count(ctx),
		Started:   ds.started,
		Uptime:    ds.now().Sub(ds.started),
	}
	if last, ok, err := ds.LastTransactionTime(ctx); err == nil && ok {
		st.LastTransaction = last
	}
	return st
}

// Close releases the backend.
func (ds *Datastore) Close() error {
	if ds.backend == nil {
		return nil
	}
	return ds.backend.Close()
}
