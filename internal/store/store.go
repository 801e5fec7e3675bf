// Package store persists library records and the transaction log. The
// Backend interface is implemented by the SQL Store in this package and by
// the in-memory backend in memstore.
package store

import (
	"context"
	"errors"

	"mymusic/internal/music"
)

var (
	// ErrConflict signals that a record with the same identifier already exists.
	ErrConflict = errors.New("record already exists")
	// ErrNotFound signals that no record with the identifier exists.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable signals that the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")
)

// Row is the stored form of one record: its key, its serialized payload and,
// for playlists, the owner and sharing flag used by listing filters.
type Row struct {
	ID      string
	Owner   *string
	Shared  bool
	Payload []byte
}

// Viewer restricts a listing to rows owned by User or marked shared.
// A nil User matches shared rows only.
type Viewer struct {
	User *string
}

// ListOptions controls a page of records.
type ListOptions struct {
	Limit  int
	Offset int
	// Visible is only honoured for kinds that carry ownership.
	Visible *Viewer
}

// RecordStore is keyed persistence for one kind's payloads.
type RecordStore interface {
	// Get returns nil without error when no record has the id.
	Get(ctx context.Context, id string) (*Row, error)
	Exists(ctx context.Context, id string) (bool, error)
	// List returns rows in insertion order.
	List(ctx context.Context, opts ListOptions) ([]Row, error)
	// Count returns -1 when the backend cannot be queried. The value only
	// feeds pagination metadata, so failure is reported in-band.
	Count(ctx context.Context) int
	// Insert fails with ErrConflict when the id is taken.
	Insert(ctx context.Context, row Row) error
	// Replace fails with ErrNotFound when the id is absent.
	Replace(ctx context.Context, row Row) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// TransactionLog is the append-only ledger of mutations.
type TransactionLog interface {
	// Append assigns entry.Time and stores the entry.
	Append(ctx context.Context, entry *music.Transaction) error
	// Since returns entries with Time >= since, oldest first.
	Since(ctx context.Context, since string) ([]music.Transaction, error)
	// MostRecent returns the latest entry time, ok is false on an empty log.
	MostRecent(ctx context.Context) (string, bool, error)
}

// Tx exposes the record stores and log through one unit of work.
type Tx interface {
	Records(kind music.Kind) RecordStore
	Log() TransactionLog
}

// Backend is a storage engine. Calls made through the embedded Tx run
// outside any transaction; Atomic runs fn in a single transaction that
// commits only if fn returns nil.
type Backend interface {
	Tx
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
