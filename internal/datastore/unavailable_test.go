package datastore

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mymusic/internal/store"
)

func TestDeadDatabaseIsServiceUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}
	mock.ExpectPing().WillReturnError(refused)
	mock.ExpectQuery(`SELECT id, payload`).WillReturnError(refused)

	ds := New(Options{
		Backend:  store.New(db, store.Postgres),
		Files:    afero.NewMemMapFs(),
		FileRoot: fileRoot,
		Logger:   zerolog.Nop(),
	})
	ctx := context.Background()

	err = ds.Ping(ctx)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.NotErrorIs(t, err, ErrInternal)

	_, err = ds.Albums().Get(ctx, "a1")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.NotErrorIs(t, err, ErrInternal)

	require.NoError(t, mock.ExpectationsWereMet())
}
