//go:build cgo

package store

import _ "github.com/golang-migrate/migrate/v4/database/sqlite3"
