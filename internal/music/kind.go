package music

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind names one of the resource kinds held by the library.
type Kind string

const (
	KindAlbum    Kind = "album"
	KindSingle   Kind = "single"
	KindPlaylist Kind = "playlist"
)

// Kinds lists every resource kind in a stable order.
var Kinds = []Kind{KindAlbum, KindSingle, KindPlaylist}

// ParseKind accepts singular or plural kind names, case-insensitively.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "s"))
	switch k {
	case KindAlbum, KindSingle, KindPlaylist:
		return k, nil
	}
	return "", fmt.Errorf("unknown kind %q", raw)
}

// Table returns the name of the table holding records of this kind.
func (k Kind) Table() string {
	return string(k) + "s"
}

// Entity is implemented by every record kind.
type Entity interface {
	RecordID() string
	RecordTitle() string
	Kind() Kind
}

// Keyed is implemented by pointers to entities whose identifier can be
// rewritten, so stores can canonicalise it.
type Keyed interface {
	SetRecordID(id string)
}

// Located is implemented by entities that may own a directory of files.
type Located interface {
	DirectoryPath() (string, bool)
}

// Owned is implemented by entities that carry an owner and a sharing flag.
type Owned interface {
	Owner() *string
	IsShared() bool
}

// NormalizeID returns the storage key for an identifier. UUIDs are
// canonicalised to their lowercase hyphenated form so that lookups are
// case-insensitive; any other non-empty string is used verbatim.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

func directory(dir *string) (string, bool) {
	if dir == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*dir)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
