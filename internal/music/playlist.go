package music

// PlaylistItem references an album or single by identifier.
type PlaylistItem struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Playlist is a user-curated, ordered list of albums and singles.
type Playlist struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	User   *string        `json:"user,omitempty"`
	Shared bool           `json:"shared"`
	Items  []PlaylistItem `json:"items,omitempty"`
}

func (p Playlist) RecordID() string    { return p.ID }
func (p Playlist) RecordTitle() string { return p.Title }
func (Playlist) Kind() Kind            { return KindPlaylist }

// SetRecordID replaces the identifier.
func (p *Playlist) SetRecordID(id string) { p.ID = id }

// Owner returns the owning user, or nil for an unowned playlist.
func (p Playlist) Owner() *string { return p.User }

// IsShared reports whether the playlist is visible to every user.
func (p Playlist) IsShared() bool { return p.Shared }
