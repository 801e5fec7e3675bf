//go:build !cgo

package store

import (
	"context"
	"errors"
)

// OpenSQLite is unavailable without cgo.
func OpenSQLite(context.Context, string, ...Option) (*Store, error) {
	return nil, errors.New("SQLite backend is not available in non-CGO builds; use the postgres or memory backend or rebuild with CGO_ENABLED=1")
}

func sqliteUniqueViolation(error) bool { return false }
