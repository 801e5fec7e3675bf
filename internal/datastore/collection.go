package datastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mymusic/internal/logging"
	"mymusic/internal/music"
	"mymusic/internal/store"
	"mymusic/internal/vault"
)

// Collection exposes the records of one kind and their files.
type Collection[T music.Entity] struct {
	ds    *Datastore
	kind  music.Kind
	vault *vault.Vault
}

func newCollection[T music.Entity](ds *Datastore, kind music.Kind) *Collection[T] {
	c := &Collection[T]{ds: ds, kind: kind}
	c.vault = ds.files.Vault(locator[T]{c: c})
	return c
}

// Kind returns the kind of record held by the collection.
func (c *Collection[T]) Kind() music.Kind { return c.kind }

func (c *Collection[T]) records() store.RecordStore {
	return c.ds.backend.Records(c.kind)
}

// Exists reports whether a record with id is stored.
func (c *Collection[T]) Exists(ctx context.Context, id string) (bool, error) {
	id = music.NormalizeID(id)
	if c.ds.backend == nil || id == "" {
		return false, nil
	}
	ok, err := c.records().Exists(ctx, id)
	if err != nil {
		return false, classify("exists "+string(c.kind), err)
	}
	return ok, nil
}

// Get returns the record with id, or nil if there is none.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	id = music.NormalizeID(id)
	if c.ds.backend == nil || id == "" {
		return nil, nil
	}
	return c.get(ctx, c.records(), id)
}

func (c *Collection[T]) get(ctx context.Context, rs store.RecordStore, id string) (*T, error) {
	row, err := rs.Get(ctx, id)
	if err != nil {
		return nil, classify("get "+string(c.kind), err)
	}
	if row == nil {
		return nil, nil
	}
	rec, err := music.Decode[T](row.Payload)
	if err != nil {
		return nil, classify("get "+string(c.kind), err)
	}
	return &rec, nil
}

// List returns up to limit records after skipping offset, in insertion
// order. A non-empty fields list projects each record onto its id, title
// and the named attributes.
func (c *Collection[T]) List(ctx context.Context, limit, offset int, fields string) ([]T, error) {
	return c.list(ctx, store.ListOptions{Limit: limit, Offset: offset}, fields)
}

func (c *Collection[T]) list(ctx context.Context, opts store.ListOptions, fields string) ([]T, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	out := []T{}
	if c.ds.backend == nil {
		return out, nil
	}

	rows, err := c.records().List(ctx, opts)
	if err != nil {
		return nil, classify("list "+c.kind.Table(), err)
	}
	for _, row := range rows {
		rec, err := music.Decode[T](row.Payload)
		if err != nil {
			return nil, classify("list "+c.kind.Table(), err)
		}
		if rec, err = music.Project(rec, fields); err != nil {
			return nil, classify("list "+c.kind.Table(), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Count returns the number of stored records, or -1 when the backend
// cannot be queried.
func (c *Collection[T]) Count(ctx context.Context) int {
	if c.ds.backend == nil {
		return -1
	}
	return c.records().Count(ctx)
}

// Create stores a new record and logs a CREATE entry in the same
// transaction. It fails with ErrConflict when the id is taken.
func (c *Collection[T]) Create(ctx context.Context, rec *T) (music.Transaction, error) {
	row, err := c.prepare(rec)
	if err != nil {
		return music.Transaction{}, err
	}

	entry := music.NewTransaction(music.MethodCreate, *rec)
	err = c.ds.mutate(ctx, &entry, func(tx store.Tx) error {
		if err := tx.Records(c.kind).Insert(ctx, row); err != nil {
			return err
		}
		return tx.Log().Append(ctx, &entry)
	})
	if err != nil {
		return music.Transaction{}, err
	}
	return entry, nil
}

// Update replaces a stored record and logs an UPDATE entry in the same
// transaction. It fails with ErrNotFound when the id is absent.
func (c *Collection[T]) Update(ctx context.Context, rec *T) (music.Transaction, error) {
	row, err := c.prepare(rec)
	if err != nil {
		return music.Transaction{}, err
	}

	entry := music.NewTransaction(music.MethodUpdate, *rec)
	err = c.ds.mutate(ctx, &entry, func(tx store.Tx) error {
		if err := tx.Records(c.kind).Replace(ctx, row); err != nil {
			return err
		}
		return tx.Log().Append(ctx, &entry)
	})
	if err != nil {
		return music.Transaction{}, err
	}
	return entry, nil
}

// Delete removes a record and logs a DELETE entry in the same transaction.
// Once that commits the record's directory tree is removed; failing to do
// so is logged and not reported.
func (c *Collection[T]) Delete(ctx context.Context, id string) (music.Transaction, error) {
	if c.ds.backend == nil {
		return music.Transaction{}, ErrServiceUnavailable
	}
	id = music.NormalizeID(id)
	if id == "" {
		return music.Transaction{}, ErrNotFound
	}

	entry := music.Transaction{Method: music.MethodDelete, Entity: c.kind, EntityID: id}
	var (
		dir     string
		located bool
	)
	err := c.ds.mutate(ctx, &entry, func(tx store.Tx) error {
		rs := tx.Records(c.kind)
		rec, err := c.get(ctx, rs, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrNotFound
		}
		entry.Title = (*rec).RecordTitle()
		dir, located = directoryOf(*rec)

		removed, err := rs.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotFound
		}
		return tx.Log().Append(ctx, &entry)
	})
	if err != nil {
		return music.Transaction{}, err
	}

	if located {
		c.removeTree(dir)
	}
	return entry, nil
}

func (c *Collection[T]) removeTree(rel string) {
	abs, ok := c.ds.files.Join(rel)
	if !ok {
		return
	}
	if err := c.vault.RemoveAll(abs); err != nil {
		c.ds.logger.Warn().Err(err).
			Str("entity", string(c.kind)).
			Str("dir", abs).
			Msg("remove record directory")
	}
}

// prepare canonicalises the record id and encodes the stored row.
func (c *Collection[T]) prepare(rec *T) (store.Row, error) {
	if rec == nil {
		return store.Row{}, ErrNoContent
	}
	if c.ds.backend == nil {
		return store.Row{}, ErrServiceUnavailable
	}

	id := music.NormalizeID((*rec).RecordID())
	if id == "" {
		return store.Row{}, fmt.Errorf("%w: record id is required", ErrBadRequest)
	}
	if keyed, ok := any(rec).(music.Keyed); ok {
		keyed.SetRecordID(id)
	}

	payload, err := music.Encode(*rec)
	if err != nil {
		return store.Row{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if len(payload) == 0 {
		return store.Row{}, ErrNoContent
	}

	row := store.Row{ID: id, Payload: payload}
	if owned, ok := any(*rec).(music.Owned); ok {
		row.Owner = owned.Owner()
		row.Shared = owned.IsShared()
	}
	return row, nil
}

func directoryOf(rec music.Entity) (string, bool) {
	located, ok := rec.(music.Located)
	if !ok {
		return "", false
	}
	return located.DirectoryPath()
}

// mutate runs fn in one backend transaction and logs the outcome. Expected
// rejections such as conflicts log at debug; store failures log at error.
func (ds *Datastore) mutate(ctx context.Context, entry *music.Transaction, fn func(tx store.Tx) error) error {
	start := time.Now()
	err := classify(string(entry.Method)+" "+string(entry.Entity), ds.backend.Atomic(ctx, fn))

	var failure error
	if errors.Is(err, ErrInternal) || errors.Is(err, ErrServiceUnavailable) {
		failure = err
	}
	event := logging.Operation(ds.logger, "mutate", time.Since(start), failure).
		Str("method", string(entry.Method)).
		Str("entity", string(entry.Entity)).
		Str("id", entry.EntityID)
	if err != nil {
		if failure == nil {
			event = event.AnErr("rejected", err)
		}
		event.Msg("mutation rolled back")
		return err
	}
	event.Str("time", entry.Time).Msg("mutation committed")
	return nil
}
