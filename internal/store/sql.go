package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mymusic/internal/music"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQL Backend shared by the PostgreSQL and SQLite dialects.
type Store struct {
	db      *sql.DB
	dialect Dialect
	stamps  *Stamper
	newID   func() string
}

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator sets the generator for transaction row ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New wraps an open database handle speaking the given dialect.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		stamps:  NewStamper(nil),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records returns the record store for kind outside any transaction.
func (s *Store) Records(kind music.Kind) RecordStore {
	return newRecords(s.db, s.dialect, kind)
}

// Log returns the transaction log outside any transaction.
func (s *Store) Log() TransactionLog {
	return &transactionLog{q: s.db, d: s.dialect, stamps: s.stamps, newID: s.newID}
}

// Atomic runs fn inside one database transaction. Errors from fn are
// returned unchanged after the transaction is rolled back.
func (s *Store) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %w", ErrUnavailable, err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqlTx{tx: tx, s: s}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", unreachable(err))
	}
	tx = nil

	return nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", ErrUnavailable, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Resume raises the transaction clock floor to the newest stored entry so
// that a restarted process never issues an older timestamp.
func (s *Store) Resume(ctx context.Context) error {
	last, ok, err := s.Log().MostRecent(ctx)
	if err != nil {
		return err
	}
	if ok {
		s.stamps.Observe(last)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
	s  *Store
}

func (t *sqlTx) Records(kind music.Kind) RecordStore {
	return newRecords(t.tx, t.s.dialect, kind)
}

func (t *sqlTx) Log() TransactionLog {
	return &transactionLog{q: t.tx, d: t.s.dialect, stamps: t.s.stamps, newID: t.s.newID}
}
