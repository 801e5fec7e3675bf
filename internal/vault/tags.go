package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dhowden/tag"
)

// ErrUntagged is returned when a file carries no readable audio metadata.
var ErrUntagged = errors.New("no audio tags")

// Tags is the audio metadata embedded in a stored file.
type Tags struct {
	Format     string `json:"format"`
	FileType   string `json:"fileType"`
	Title      string `json:"title,omitempty"`
	Album      string `json:"album,omitempty"`
	Artist     string `json:"artist,omitempty"`
	Composer   string `json:"composer,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Year       int    `json:"year,omitempty"`
	Track      int    `json:"track,omitempty"`
	TrackTotal int    `json:"trackTotal,omitempty"`
	Disc       int    `json:"disc,omitempty"`
	DiscTotal  int    `json:"discTotal,omitempty"`
}

// Tags reads the audio metadata of a stored file.
func (v *Vault) Tags(ctx context.Context, id, filename string) (Tags, error) {
	path, err := v.mustPath(ctx, id, filename)
	if err != nil {
		return Tags{}, err
	}
	f, err := v.root.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Tags{}, ErrFileNotFound
	}
	if err != nil {
		return Tags{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, fmt.Errorf("%w: %v", ErrUntagged, err)
	}

	t := Tags{
		Format:   string(m.Format()),
		FileType: string(m.FileType()),
		Title:    m.Title(),
		Album:    m.Album(),
		Artist:   m.Artist(),
		Composer: m.Composer(),
		Genre:    m.Genre(),
		Year:     m.Year(),
	}
	t.Track, t.TrackTotal = m.Track()
	t.Disc, t.DiscTotal = m.Disc()
	return t, nil
}
