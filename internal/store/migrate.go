package store

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Direction selects which way Migrate moves the schema.
type Direction int

const (
	Up Direction = iota
	Down
)

// Migrate applies the embedded schema for the dialect. target is the
// PostgreSQL URL or the SQLite file path.
func Migrate(d Dialect, target string, dir Direction) error {
	src, err := iofs.New(migrations, "migrations/"+d.migrationsDir())
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, d.migrationURL(target))
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %d", dir)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (d Dialect) migrationsDir() string {
	if d.numbered {
		return "postgres"
	}
	return "sqlite"
}

func (d Dialect) migrationURL(target string) string {
	if d.numbered {
		return target
	}
	if strings.HasPrefix(target, "sqlite3://") {
		return target
	}
	return "sqlite3://" + target
}
