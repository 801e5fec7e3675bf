package datastore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mymusic/internal/music"
)

func createAlbumWithDir(t *testing.T, ds *Datastore, id, dir string) {
	t.Helper()
	album := music.Album{ID: id, Title: "Album " + id, Directory: strPtr(dir)}
	_, err := ds.Albums().Create(context.Background(), &album)
	require.NoError(t, err)
}

func TestFilePath(t *testing.T) {
	ds, _ := newTestDatastore(t)
	ctx := context.Background()
	createAlbumWithDir(t, ds, "a1", "Artist/Album")

	path, ok, err := ds.Albums().FilePath(ctx, "a1", "01.mp3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(fileRoot, "Artist", "Album", "01.mp3"), path)

	_, ok, err = ds.Albums().FilePath(ctx, "missing", "01.mp3")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ds.Albums().FilePath(ctx, "a1", "../../etc/passwd")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestCreateFileTwice(t *testing.T) {
	ds, _ := newTestDatastore(t)
	ctx := context.Background()
	createAlbumWithDir(t, ds, "a1", "Artist/Album")

	require.NoError(t, ds.Albums().CreateFile(ctx, "a1", "cover.jpg", []byte("original")))
	err := ds.Albums().CreateFile(ctx, "a1", "cover.jpg", []byte("other"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	data, ok, err := ds.Albums().ReadFile(ctx, "a1", "cover.jpg")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(data))
}

func TestReplaceFile(t *testing.T) {
	ds, _ := newTestDatastore(t)
	ctx := context.Background()
	createAlbumWithDir(t, ds, "a1", "Artist/Album")

	err := ds.Albums().ReplaceFile(ctx, "a1", "01.mp3", []byte("new"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ds.Albums().CreateFile(ctx, "a1", "01.mp3", []byte("old")))
	require.NoError(t, ds.Albums().ReplaceFile(ctx, "a1", "01.mp3", []byte("new")))

	data, _, err := ds.Albums().ReadFile(ctx, "a1", "01.mp3")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestDeleteFileRemovesEmptyDirectory(t *testing.T) {
	ds, fsys := newTestDatastore(t)
	ctx := context.Background()
	createAlbumWithDir(t, ds, "a1", "Artist/Album")
	dir := filepath.Join(fileRoot, "Artist", "Album")

	require.NoError(t, ds.Albums().CreateFile(ctx, "a1", "01.mp3", []byte("1")))
	require.NoError(t, ds.Albums().CreateFile(ctx, "a1", "02.mp3", []byte("2")))

	require.NoError(t, ds.Albums().DeleteFile(ctx, "a1", "01.mp3"))
	exists, err := afero.DirExists(fsys, dir)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, ds.Albums().DeleteFile(ctx, "a1", "02.mp3"))
	exists, err = afero.DirExists(fsys, dir)
	require.NoError(t, err)
	assert.False(t, exists)

	err = ds.Albums().DeleteFile(ctx, "a1", "02.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileOpsWithoutDirectory(t *testing.T) {
	ds, _ := newTestDatastore(t)
	ctx := context.Background()

	_, err := ds.Singles().Create(ctx, &music.Single{ID: "s1", Title: "Loose"})
	require.NoError(t, err)
	_, err = ds.Playlists().Create(ctx, &music.Playlist{ID: "p1", Title: "Mix", Shared: true})
	require.NoError(t, err)

	err = ds.Singles().CreateFile(ctx, "s1", "track.mp3", []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
	err = ds.Playlists().CreateFile(ctx, "p1", "cover.jpg", []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
	err = ds.Albums().CreateFile(ctx, "missing", "cover.jpg", []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecordRemovesDirectory(t *testing.T) {
	ds, fsys := newTestDatastore(t)
	ctx := context.Background()
	createAlbumWithDir(t, ds, "a1", "Artist/Album")
	dir := filepath.Join(fileRoot, "Artist", "Album")

	require.NoError(t, ds.Albums().CreateFile(ctx, "a1", "01.mp3", []byte("1")))
	require.NoError(t, fsys.MkdirAll(filepath.Join(dir, "art"), 0o755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, "art", "front.jpg"), []byte("jpg"), 0o644))

	entry, err := ds.Albums().Delete(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, music.MethodDelete, entry.Method)
	assert.Equal(t, "Album a1", entry.Title)

	exists, err := afero.DirExists(fsys, dir)
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := ds.Albums().Get(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteRecordWithoutFiles(t *testing.T) {
	ds, _ := newTestDatastore(t)
	ctx := context.Background()

	createAlbumWithDir(t, ds, "a1", "Never/Uploaded")
	_, err := ds.Albums().Delete(ctx, "a1")
	require.NoError(t, err)

	_, err = ds.Singles().Create(ctx, &music.Single{ID: "s1", Title: "Loose"})
	require.NoError(t, err)
	_, err = ds.Singles().Delete(ctx, "s1")
	require.NoError(t, err)
}

func TestDeleteSingleRemovesDirectory(t *testing.T) {
	ds, fsys := newTestDatastore(t)
	ctx := context.Background()

	single := music.Single{ID: "s1", Title: "Solo", Directory: strPtr("Singles/Solo"), Filename: "solo.mp3"}
	_, err := ds.Singles().Create(ctx, &single)
	require.NoError(t, err)
	require.NoError(t, ds.Singles().CreateFile(ctx, "s1", "solo.mp3", []byte("audio")))

	_, err = ds.Singles().Delete(ctx, "s1")
	require.NoError(t, err)

	exists, err := afero.DirExists(fsys, filepath.Join(fileRoot, "Singles", "Solo"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileTagsUntagged(t *testing.T) {
	ds, _ := newTestDatastore(t)
	ctx := context.Background()
	createAlbumWithDir(t, ds, "a1", "Artist/Album")

	notes := make([]byte, 256)
	for i := range notes {
		notes[i] = 'x'
	}
	require.NoError(t, ds.Albums().CreateFile(ctx, "a1", "notes.txt", notes))

	_, err := ds.Albums().FileTags(ctx, "a1", "notes.txt")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = ds.Albums().FileTags(ctx, "a1", "absent.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}
