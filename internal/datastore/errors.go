package datastore

import (
	"errors"
	"fmt"

	"mymusic/internal/store"
	"mymusic/internal/vault"
)

// The error kinds returned by the Datastore. Callers match them with
// errors.Is; the underlying cause stays in the chain.
var (
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNoContent          = errors.New("no content")
	ErrBadRequest         = errors.New("bad request")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrInternal           = errors.New("internal error")
)

var kinds = []error{
	ErrConflict, ErrNotFound, ErrAlreadyExists, ErrNoContent,
	ErrBadRequest, ErrServiceUnavailable, ErrInternal,
}

// classify maps an error from the store or the vault onto the Datastore's
// error kinds. Errors that already carry a kind pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	var kind error
	switch {
	case errors.Is(err, store.ErrConflict):
		kind = ErrConflict
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, vault.ErrNoDirectory),
		errors.Is(err, vault.ErrFileNotFound):
		kind = ErrNotFound
	case errors.Is(err, vault.ErrFileExists):
		kind = ErrAlreadyExists
	case errors.Is(err, vault.ErrInvalidName),
		errors.Is(err, vault.ErrUntagged):
		kind = ErrBadRequest
	case errors.Is(err, store.ErrUnavailable):
		kind = ErrServiceUnavailable
	default:
		kind = ErrInternal
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
