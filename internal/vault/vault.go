// Package vault maps records to their directories under the file root and
// stores the named files inside them.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	ErrNoDirectory  = errors.New("record has no files directory")
	ErrFileExists   = errors.New("file already exists")
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidName  = errors.New("invalid file name")
)

// Locator reports the directory attribute stored on a record, relative to
// the file root. ok is false when the record is absent or has no directory.
type Locator interface {
	Directory(ctx context.Context, id string) (dir string, ok bool, err error)
}

// Root is the directory that holds every record's files.
type Root struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger
}

// NewRoot returns a Root rooted at dir on fsys.
func NewRoot(fsys afero.Fs, dir string, logger zerolog.Logger) *Root {
	return &Root{fs: fsys, dir: filepath.Clean(dir), logger: logger}
}

// Join places rel under the root. Parent references cannot climb out of
// the root, and a rel that names the root itself is rejected.
func (r *Root) Join(rel string) (string, bool) {
	cleaned := filepath.Clean(string(filepath.Separator) + strings.TrimSpace(rel))
	if cleaned == string(filepath.Separator) {
		return "", false
	}
	return filepath.Join(r.dir, cleaned), true
}

// Vault returns the file vault for the records behind loc.
func (r *Root) Vault(loc Locator) *Vault {
	return &Vault{root: r, loc: loc}
}

// Vault performs file operations inside the directories of one record kind.
type Vault struct {
	root *Root
	loc  Locator
}

// Resolve returns the absolute directory for id.
func (v *Vault) Resolve(ctx context.Context, id string) (string, bool, error) {
	rel, ok, err := v.loc.Directory(ctx, id)
	if err != nil || !ok {
		return "", false, err
	}
	dir, ok := v.root.Join(rel)
	return dir, ok, nil
}

// Path composes the location of filename inside id's directory without
// touching the filesystem.
func (v *Vault) Path(ctx context.Context, id, filename string) (string, bool, error) {
	if err := checkName(filename); err != nil {
		return "", false, err
	}
	dir, ok, err := v.Resolve(ctx, id)
	if err != nil || !ok {
		return "", false, err
	}
	return filepath.Join(dir, filename), true, nil
}

func (v *Vault) mustPath(ctx context.Context, id, filename string) (string, error) {
	path, ok, err := v.Path(ctx, id, filename)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoDirectory
	}
	return path, nil
}

// Create writes a new file, creating the directory when needed. It fails
// with ErrFileExists if the name is taken and leaves the existing file as is.
func (v *Vault) Create(ctx context.Context, id, filename string, data []byte) error {
	path, err := v.mustPath(ctx, id, filename)
	if err != nil {
		return err
	}
	if err := v.root.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := v.root.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrFileExists
		}
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = v.root.fs.Remove(path)
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = v.root.fs.Remove(path)
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// Replace overwrites an existing file. The new content is written beside it
// and renamed into place, so readers see either the old or the new bytes.
func (v *Vault) Replace(ctx context.Context, id, filename string, data []byte) error {
	path, err := v.mustPath(ctx, id, filename)
	if err != nil {
		return err
	}
	if err := v.requireFile(path); err != nil {
		return err
	}

	tmp, err := afero.TempFile(v.root.fs, filepath.Dir(path), "."+filename+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = v.root.fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = v.root.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := v.root.fs.Rename(tmpName, path); err != nil {
		_ = v.root.fs.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Read returns the file content; ok is false if the record has no
// directory or the file does not exist.
func (v *Vault) Read(ctx context.Context, id, filename string) ([]byte, bool, error) {
	path, ok, err := v.Path(ctx, id, filename)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := afero.ReadFile(v.root.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	return data, true, nil
}

// Delete removes a file. When it was the last entry of its directory the
// directory is removed as well; failing to do so is only logged.
func (v *Vault) Delete(ctx context.Context, id, filename string) error {
	path, err := v.mustPath(ctx, id, filename)
	if err != nil {
		return err
	}
	if err := v.requireFile(path); err != nil {
		return err
	}
	if err := v.root.fs.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrFileNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}

	dir := filepath.Dir(path)
	entries, err := afero.ReadDir(v.root.fs, dir)
	if err != nil {
		v.root.logger.Warn().Err(err).Str("dir", dir).Msg("list directory after file delete")
		return nil
	}
	if len(entries) == 0 {
		if err := v.root.fs.Remove(dir); err != nil {
			v.root.logger.Warn().Err(err).Str("dir", dir).Msg("remove empty directory")
		}
	}
	return nil
}

// RemoveAll deletes the directory tree rooted at the absolute path dir. A
// missing directory is not an error.
func (v *Vault) RemoveAll(dir string) error {
	if dir == "" || filepath.Clean(dir) == v.root.dir {
		return ErrNoDirectory
	}
	if err := v.root.fs.RemoveAll(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove directory: %w", err)
	}
	return nil
}

func (v *Vault) requireFile(path string) error {
	info, err := v.root.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return ErrFileNotFound
	}
	return nil
}

func checkName(filename string) error {
	switch {
	case filename == "", filename == ".", filename == "..":
		return ErrInvalidName
	case strings.ContainsAny(filename, `/\`):
		return ErrInvalidName
	}
	return nil
}
