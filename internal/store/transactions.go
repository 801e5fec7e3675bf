package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mymusic/internal/music"
)

type transactionLog struct {
	q      querier
	d      Dialect
	stamps *Stamper
	newID  func() string
}

func (l *transactionLog) Append(ctx context.Context, entry *music.Transaction) error {
	entry.Time = l.stamps.Next()

	if _, err := l.q.ExecContext(ctx, l.d.rebind(`
		INSERT INTO transactions (id, time, method, entity, entity_id, title)
		VALUES (?, ?, ?, ?, ?, ?)
	`), l.newID(), entry.Time, string(entry.Method), string(entry.Entity), entry.EntityID, entry.Title); err != nil {
		return fmt.Errorf("insert transaction: %w", unreachable(err))
	}
	return nil
}

func (l *transactionLog) Since(ctx context.Context, since string) ([]music.Transaction, error) {
	rows, err := l.q.QueryContext(ctx, l.d.rebind(`
		SELECT time, method, entity, entity_id, title
		FROM transactions
		WHERE time >= ?
		ORDER BY time ASC, seq ASC
	`), since)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", unreachable(err))
	}
	defer rows.Close()

	var entries []music.Transaction
	for rows.Next() {
		var (
			entry          music.Transaction
			method, entity string
		)
		if err := rows.Scan(&entry.Time, &method, &entity, &entry.EntityID, &entry.Title); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", unreachable(err))
		}
		entry.Method = music.Method(method)
		entry.Entity = music.Kind(entity)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", unreachable(err))
	}
	return entries, nil
}

func (l *transactionLog) MostRecent(ctx context.Context) (string, bool, error) {
	var ts string
	err := l.q.QueryRowContext(ctx, `
		SELECT time
		FROM transactions
		ORDER BY time DESC, seq DESC
		LIMIT 1
	`).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select last transaction: %w", unreachable(err))
	}
	return ts, true, nil
}
