package music

// Track is one audio file inside an album.
type Track struct {
	Title    string `json:"title"`
	Filename string `json:"filename,omitempty"`
	Disk     int    `json:"disk,omitempty"`
	Track    int    `json:"track,omitempty"`
	Duration string `json:"duration,omitempty"`
	Artist   string `json:"artist,omitempty"`
}

// Album models a release and the files that belong to it.
type Album struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle,omitempty"`
	Artist    string   `json:"artist,omitempty"`
	Genre     string   `json:"genre,omitempty"`
	Recorded  string   `json:"recorded,omitempty"`
	Released  string   `json:"released,omitempty"`
	Label     string   `json:"label,omitempty"`
	Directory *string  `json:"directory,omitempty"`
	Frontart  string   `json:"frontart,omitempty"`
	Backart   string   `json:"backart,omitempty"`
	Notes     []string `json:"notes,omitempty"`
	Contents  []Track  `json:"contents,omitempty"`
}

func (a Album) RecordID() string    { return a.ID }
func (a Album) RecordTitle() string { return a.Title }
func (Album) Kind() Kind            { return KindAlbum }

// SetRecordID replaces the identifier.
func (a *Album) SetRecordID(id string) { a.ID = id }

// DirectoryPath reports the album's files directory relative to the file root.
func (a Album) DirectoryPath() (string, bool) { return directory(a.Directory) }
