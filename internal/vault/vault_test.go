package vault

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dirs map[string]string

func (d dirs) Directory(_ context.Context, id string) (string, bool, error) {
	dir, ok := d[id]
	return dir, ok, nil
}

const root = "/srv/music"

func newVault(t *testing.T, locator Locator) (*Vault, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	return NewRoot(fsys, root, zerolog.Nop()).Vault(locator), fsys
}

func TestJoinStaysInsideRoot(t *testing.T) {
	r := NewRoot(afero.NewMemMapFs(), root, zerolog.Nop())

	tests := []struct {
		rel  string
		want string
		ok   bool
	}{
		{rel: "Artist/Album", want: "/srv/music/Artist/Album", ok: true},
		{rel: "../../etc", want: "/srv/music/etc", ok: true},
		{rel: "/abs/path", want: "/srv/music/abs/path", ok: true},
		{rel: "", ok: false},
		{rel: "..", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.rel, func(t *testing.T) {
			got, ok := r.Join(tc.rel)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, filepath.FromSlash(tc.want), got)
		})
	}
}

func TestPathWithoutDirectory(t *testing.T) {
	v, _ := newVault(t, dirs{"a1": "Artist/Album"})
	ctx := context.Background()

	path, ok, err := v.Path(ctx, "a1", "01.mp3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.FromSlash("/srv/music/Artist/Album/01.mp3"), path)

	_, ok, err = v.Path(ctx, "missing", "01.mp3")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = v.Path(ctx, "a1", "../escape.mp3")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateIsFirstWriteWins(t *testing.T) {
	v, fsys := newVault(t, dirs{"a1": "Artist/Album"})
	ctx := context.Background()

	require.NoError(t, v.Create(ctx, "a1", "cover.jpg", []byte("original")))
	err := v.Create(ctx, "a1", "cover.jpg", []byte("second"))
	assert.ErrorIs(t, err, ErrFileExists)

	data, err := afero.ReadFile(fsys, "/srv/music/Artist/Album/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestCreateWithoutDirectory(t *testing.T) {
	v, _ := newVault(t, dirs{})
	err := v.Create(context.Background(), "a1", "cover.jpg", []byte("x"))
	assert.ErrorIs(t, err, ErrNoDirectory)
}

func TestReplace(t *testing.T) {
	v, fsys := newVault(t, dirs{"s1": "Singles/One"})
	ctx := context.Background()

	err := v.Replace(ctx, "s1", "track.mp3", []byte("new"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	require.NoError(t, v.Create(ctx, "s1", "track.mp3", []byte("old")))
	require.NoError(t, v.Replace(ctx, "s1", "track.mp3", []byte("new")))

	data, ok, err := v.Read(ctx, "s1", "track.mp3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", string(data))

	entries, err := afero.ReadDir(fsys, "/srv/music/Singles/One")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not remain")
}

func TestReadMissing(t *testing.T) {
	v, _ := newVault(t, dirs{"a1": "Artist/Album"})
	data, ok, err := v.Read(context.Background(), "a1", "absent.mp3")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestDeleteCleansUpEmptyDirectory(t *testing.T) {
	v, fsys := newVault(t, dirs{"a1": "Artist/Album"})
	ctx := context.Background()
	dir := "/srv/music/Artist/Album"

	require.NoError(t, v.Create(ctx, "a1", "01.mp3", []byte("one")))
	require.NoError(t, v.Create(ctx, "a1", "02.mp3", []byte("two")))

	require.NoError(t, v.Delete(ctx, "a1", "01.mp3"))
	exists, err := afero.DirExists(fsys, dir)
	require.NoError(t, err)
	assert.True(t, exists, "directory with siblings must stay")

	require.NoError(t, v.Delete(ctx, "a1", "02.mp3"))
	exists, err = afero.DirExists(fsys, dir)
	require.NoError(t, err)
	assert.False(t, exists, "empty directory must be removed")

	err = v.Delete(ctx, "a1", "02.mp3")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestRemoveAll(t *testing.T) {
	v, fsys := newVault(t, dirs{"a1": "Artist/Album"})
	ctx := context.Background()
	require.NoError(t, v.Create(ctx, "a1", "01.mp3", []byte("one")))

	dir, ok, err := v.Resolve(ctx, "a1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, v.RemoveAll(dir))

	exists, _ := afero.DirExists(fsys, dir)
	assert.False(t, exists)
	assert.NoError(t, v.RemoveAll(dir), "missing directory is not an error")
	assert.ErrorIs(t, v.RemoveAll(root), ErrNoDirectory)
}

type failingLocator struct{}

func (failingLocator) Directory(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}

func TestLocatorErrorPropagates(t *testing.T) {
	v, _ := newVault(t, failingLocator{})
	err := v.Create(context.Background(), "a1", "x.mp3", nil)
	assert.EqualError(t, err, "backend down")
}

// id3v23 builds a minimal ID3v2.3 tag holding the given text frames.
func id3v23(frames map[string]string) []byte {
	var body []byte
	for _, name := range []string{"TIT2", "TPE1", "TALB"} {
		text, ok := frames[name]
		if !ok {
			continue
		}
		size := make([]byte, 4)
		binary.BigEndian.PutUint32(size, uint32(len(text)+1))
		body = append(body, name...)
		body = append(body, size...)
		body = append(body, 0, 0, 0)
		body = append(body, text...)
	}
	body = append(body, make([]byte, 32)...)

	n := len(body)
	header := []byte{'I', 'D', '3', 3, 0, 0,
		byte(n>>21) & 0x7f, byte(n>>14) & 0x7f, byte(n>>7) & 0x7f, byte(n) & 0x7f}
	return append(header, body...)
}

func TestTags(t *testing.T) {
	v, _ := newVault(t, dirs{"s1": "Singles/One"})
	ctx := context.Background()

	mp3 := id3v23(map[string]string{"TIT2": "Blue in Green", "TPE1": "Miles Davis", "TALB": "Kind of Blue"})
	require.NoError(t, v.Create(ctx, "s1", "track.mp3", mp3))

	tags, err := v.Tags(ctx, "s1", "track.mp3")
	require.NoError(t, err)
	assert.Equal(t, "Blue in Green", tags.Title)
	assert.Equal(t, "Miles Davis", tags.Artist)
	assert.Equal(t, "Kind of Blue", tags.Album)
	assert.Equal(t, "ID3v2.3", tags.Format)

	notes := bytes.Repeat([]byte("liner notes, not audio. "), 8)
	require.NoError(t, v.Create(ctx, "s1", "notes.txt", notes))
	_, err = v.Tags(ctx, "s1", "notes.txt")
	assert.ErrorIs(t, err, ErrUntagged)

	_, err = v.Tags(ctx, "s1", "absent.mp3")
	assert.ErrorIs(t, err, ErrFileNotFound)
}
