package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mymusic/internal/music"
)

type records struct {
	q     querier
	d     Dialect
	table string
	owned bool
}

func newRecords(q querier, d Dialect, kind music.Kind) *records {
	return &records{q: q, d: d, table: kind.Table(), owned: kind == music.KindPlaylist}
}

func (r *records) columns() string {
	if r.owned {
		return "id, owner, shared, payload"
	}
	return "id, payload"
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *records) scan(row scanner) (Row, error) {
	var out Row
	if !r.owned {
		err := row.Scan(&out.ID, &out.Payload)
		return out, err
	}
	var owner sql.NullString
	if err := row.Scan(&out.ID, &owner, &out.Shared, &out.Payload); err != nil {
		return out, err
	}
	if owner.Valid {
		out.Owner = &owner.String
	}
	return out, nil
}

func (r *records) Get(ctx context.Context, id string) (*Row, error) {
	query := r.d.rebind(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = ?
	`, r.columns(), r.table))

	row, err := r.scan(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select %s: %w", r.table, unreachable(err))
	}
	return &row, nil
}

func (r *records) Exists(ctx context.Context, id string) (bool, error) {
	query := r.d.rebind(fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, r.table))

	var one int
	if err := r.q.QueryRowContext(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup %s: %w", r.table, unreachable(err))
	}
	return true, nil
}

func (r *records) List(ctx context.Context, opts ListOptions) ([]Row, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s`, r.columns(), r.table)

	var args []any
	if r.owned && opts.Visible != nil {
		query += `
		WHERE owner = ? OR shared = TRUE`
		var user any
		if opts.Visible.User != nil {
			user = *opts.Visible.User
		}
		args = append(args, user)
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	query += `
		ORDER BY seq ASC
		LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, offset)

	rows, err := r.q.QueryContext(ctx, r.d.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", r.table, unreachable(err))
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, unreachable(err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.table, unreachable(err))
	}
	return out, nil
}

func (r *records) Count(ctx context.Context) int {
	var count int
	if err := r.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)).Scan(&count); err != nil {
		return -1
	}
	return count
}

func (r *records) Insert(ctx context.Context, row Row) error {
	var (
		query string
		args  []any
	)
	if r.owned {
		query = fmt.Sprintf(`
		INSERT INTO %s (id, owner, shared, payload)
		VALUES (?, ?, ?, ?)
	`, r.table)
		args = []any{row.ID, nullable(row.Owner), row.Shared, row.Payload}
	} else {
		query = fmt.Sprintf(`
		INSERT INTO %s (id, payload)
		VALUES (?, ?)
	`, r.table)
		args = []any{row.ID, row.Payload}
	}

	if _, err := r.q.ExecContext(ctx, r.d.rebind(query), args...); err != nil {
		if r.d.isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert %s: %w", r.table, unreachable(err))
	}
	return nil
}

func (r *records) Replace(ctx context.Context, row Row) error {
	var (
		query string
		args  []any
	)
	if r.owned {
		query = fmt.Sprintf(`
		UPDATE %s
		SET owner = ?, shared = ?, payload = ?
		WHERE id = ?
	`, r.table)
		args = []any{nullable(row.Owner), row.Shared, row.Payload, row.ID}
	} else {
		query = fmt.Sprintf(`
		UPDATE %s
		SET payload = ?
		WHERE id = ?
	`, r.table)
		args = []any{row.Payload, row.ID}
	}

	res, err := r.q.ExecContext(ctx, r.d.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table, unreachable(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", unreachable(err))
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *records) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.d.rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)), id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", r.table, unreachable(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", unreachable(err))
	}
	return affected > 0, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
