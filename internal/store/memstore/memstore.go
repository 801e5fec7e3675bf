// Package memstore keeps library records and the transaction log in process
// memory. Transactions run against a private copy of the state that replaces
// the live state only on success.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mymusic/internal/music"
	"mymusic/internal/store"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = fmt.Errorf("memstore closed: %w", store.ErrUnavailable)

// Backend is an in-memory store.Backend.
type Backend struct {
	mu     sync.RWMutex
	state  *state
	stamps *store.Stamper
	closed bool
}

// New returns an empty backend; now may be nil to use the wall clock.
func New(now func() time.Time) *Backend {
	return &Backend{state: newState(), stamps: store.NewStamper(now)}
}

func (b *Backend) access(write bool, fn func(*state) error) error {
	if write {
		b.mu.Lock()
		defer b.mu.Unlock()
	} else {
		b.mu.RLock()
		defer b.mu.RUnlock()
	}
	if b.closed {
		return ErrClosed
	}
	return fn(b.state)
}

// Records returns the record store for kind outside any transaction.
func (b *Backend) Records(kind music.Kind) store.RecordStore {
	return &records{kind: kind, access: b.access}
}

// Log returns the transaction log outside any transaction.
func (b *Backend) Log() store.TransactionLog {
	return &transactionLog{stamps: b.stamps, access: b.access}
}

// Atomic runs fn against a copy of the state and publishes it if fn succeeds.
// Writers are serialised.
func (b *Backend) Atomic(_ context.Context, fn func(tx store.Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	staged := b.state.clone()
	tx := &txView{state: staged, stamps: b.stamps}
	if err := fn(tx); err != nil {
		return err
	}
	b.state = staged
	return nil
}

// Ping reports ErrClosed after Close.
func (b *Backend) Ping(context.Context) error {
	return b.access(false, func(*state) error { return nil })
}

// Close discards all data.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.state = newState()
	return nil
}

type txView struct {
	state  *state
	stamps *store.Stamper
}

func (t *txView) access(_ bool, fn func(*state) error) error {
	return fn(t.state)
}

func (t *txView) Records(kind music.Kind) store.RecordStore {
	return &records{kind: kind, access: t.access}
}

func (t *txView) Log() store.TransactionLog {
	return &transactionLog{stamps: t.stamps, access: t.access}
}

type table struct {
	rows  map[string]store.Row
	order []string
}

type state struct {
	tables map[music.Kind]*table
	log    []music.Transaction
}

func newState() *state {
	s := &state{tables: make(map[music.Kind]*table, len(music.Kinds))}
	for _, kind := range music.Kinds {
		s.tables[kind] = &table{rows: make(map[string]store.Row)}
	}
	return s
}

func (s *state) clone() *state {
	out := &state{
		tables: make(map[music.Kind]*table, len(s.tables)),
		log:    make([]music.Transaction, len(s.log)),
	}
	copy(out.log, s.log)
	for kind, t := range s.tables {
		ct := &table{
			rows:  make(map[string]store.Row, len(t.rows)),
			order: make([]string, len(t.order)),
		}
		copy(ct.order, t.order)
		for id, row := range t.rows {
			ct.rows[id] = row
		}
		out.tables[kind] = ct
	}
	return out
}

func cloneRow(row store.Row) store.Row {
	out := row
	if row.Owner != nil {
		owner := *row.Owner
		out.Owner = &owner
	}
	if row.Payload != nil {
		out.Payload = append([]byte(nil), row.Payload...)
	}
	return out
}

type records struct {
	kind   music.Kind
	access func(write bool, fn func(*state) error) error
}

func (r *records) Get(_ context.Context, id string) (*store.Row, error) {
	var out *store.Row
	err := r.access(false, func(s *state) error {
		if row, ok := s.tables[r.kind].rows[id]; ok {
			cloned := cloneRow(row)
			out = &cloned
		}
		return nil
	})
	return out, err
}

func (r *records) Exists(_ context.Context, id string) (bool, error) {
	var ok bool
	err := r.access(false, func(s *state) error {
		_, ok = s.tables[r.kind].rows[id]
		return nil
	})
	return ok, err
}

func (r *records) List(_ context.Context, opts store.ListOptions) ([]store.Row, error) {
	var out []store.Row
	err := r.access(false, func(s *state) error {
		t := s.tables[r.kind]
		skipped := 0
		for _, id := range t.order {
			if opts.Limit > 0 && len(out) >= opts.Limit {
				break
			}
			row := t.rows[id]
			if r.kind == music.KindPlaylist && opts.Visible != nil && !visible(row, opts.Visible) {
				continue
			}
			if skipped < opts.Offset {
				skipped++
				continue
			}
			out = append(out, cloneRow(row))
		}
		return nil
	})
	return out, err
}

func visible(row store.Row, v *store.Viewer) bool {
	if row.Shared {
		return true
	}
	return v.User != nil && row.Owner != nil && *v.User == *row.Owner
}

func (r *records) Count(context.Context) int {
	count := -1
	_ = r.access(false, func(s *state) error {
		count = len(s.tables[r.kind].rows)
		return nil
	})
	return count
}

func (r *records) Insert(_ context.Context, row store.Row) error {
	return r.access(true, func(s *state) error {
		t := s.tables[r.kind]
		if _, ok := t.rows[row.ID]; ok {
			return store.ErrConflict
		}
		t.rows[row.ID] = cloneRow(row)
		t.order = append(t.order, row.ID)
		return nil
	})
}

func (r *records) Replace(_ context.Context, row store.Row) error {
	return r.access(true, func(s *state) error {
		t := s.tables[r.kind]
		if _, ok := t.rows[row.ID]; !ok {
			return store.ErrNotFound
		}
		t.rows[row.ID] = cloneRow(row)
		return nil
	})
}

func (r *records) Delete(_ context.Context, id string) (bool, error) {
	var removed bool
	err := r.access(true, func(s *state) error {
		t := s.tables[r.kind]
		if _, ok := t.rows[id]; !ok {
			return nil
		}
		delete(t.rows, id)
		for i, existing := range t.order {
			if existing == id {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
		removed = true
		return nil
	})
	return removed, err
}

type transactionLog struct {
	stamps *store.Stamper
	access func(write bool, fn func(*state) error) error
}

func (l *transactionLog) Append(_ context.Context, entry *music.Transaction) error {
	return l.access(true, func(s *state) error {
		entry.Time = l.stamps.Next()
		s.log = append(s.log, *entry)
		return nil
	})
}

func (l *transactionLog) Since(_ context.Context, since string) ([]music.Transaction, error) {
	var out []music.Transaction
	err := l.access(false, func(s *state) error {
		for _, entry := range s.log {
			if entry.Time >= since {
				out = append(out, entry)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, err
}

func (l *transactionLog) MostRecent(context.Context) (string, bool, error) {
	var (
		last string
		ok   bool
	)
	err := l.access(false, func(s *state) error {
		if n := len(s.log); n > 0 {
			last, ok = s.log[n-1].Time, true
		}
		return nil
	})
	return last, ok, err
}
