package store

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	name            string
	numbered        bool
	uniqueViolation func(error) bool
}

var (
	// Postgres speaks to PostgreSQL through pgx or lib/pq.
	Postgres = Dialect{name: "postgres", numbered: true, uniqueViolation: pgUniqueViolation}
	// SQLite speaks to SQLite through mattn/go-sqlite3.
	SQLite = Dialect{name: "sqlite3", uniqueViolation: sqliteUniqueViolation}
)

// Name returns the database/sql driver name for the dialect.
func (d Dialect) Name() string { return d.name }

// rebind rewrites ? placeholders into the dialect's native form.
func (d Dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) isUniqueViolation(err error) bool {
	if err == nil || d.uniqueViolation == nil {
		return false
	}
	return d.uniqueViolation(err)
}

func pgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
