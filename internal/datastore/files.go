package datastore

import (
	"context"

	"mymusic/internal/music"
	"mymusic/internal/vault"
)

// locator resolves a record's directory attribute for the vault.
type locator[T music.Entity] struct {
	c *Collection[T]
}

func (l locator[T]) Directory(ctx context.Context, id string) (string, bool, error) {
	if l.c.ds.backend == nil {
		return "", false, ErrServiceUnavailable
	}
	rec, err := l.c.Get(ctx, id)
	if err != nil || rec == nil {
		return "", false, err
	}
	dir, ok := directoryOf(*rec)
	return dir, ok, nil
}

// FilePath returns where filename lives for the record, without checking
// that it exists. ok is false when the record has no files directory.
func (c *Collection[T]) FilePath(ctx context.Context, id, filename string) (string, bool, error) {
	path, ok, err := c.vault.Path(ctx, id, filename)
	if err != nil {
		return "", false, classify("file path", err)
	}
	return path, ok, nil
}

// CreateFile stores a new file for the record. It fails with
// ErrAlreadyExists if the name is taken and ErrNotFound if the record has
// no files directory.
func (c *Collection[T]) CreateFile(ctx context.Context, id, filename string, data []byte) error {
	return classify("create file", c.vault.Create(ctx, id, filename, data))
}

// ReplaceFile overwrites an existing file. It fails with ErrNotFound if the
// file was never created.
func (c *Collection[T]) ReplaceFile(ctx context.Context, id, filename string, data []byte) error {
	return classify("replace file", c.vault.Replace(ctx, id, filename, data))
}

// DeleteFile removes a file, and its directory if nothing else is left.
func (c *Collection[T]) DeleteFile(ctx context.Context, id, filename string) error {
	return classify("delete file", c.vault.Delete(ctx, id, filename))
}

// ReadFile returns the content of a file; ok is false if it does not exist.
func (c *Collection[T]) ReadFile(ctx context.Context, id, filename string) ([]byte, bool, error) {
	data, ok, err := c.vault.Read(ctx, id, filename)
	if err != nil {
		return nil, false, classify("read file", err)
	}
	return data, ok, nil
}

// FileTags reads the audio metadata of a stored file.
func (c *Collection[T]) FileTags(ctx context.Context, id, filename string) (vault.Tags, error) {
	tags, err := c.vault.Tags(ctx, id, filename)
	if err != nil {
		return vault.Tags{}, classify("file tags", err)
	}
	return tags, nil
}
