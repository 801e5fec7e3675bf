package music

// Single is a standalone track with its own audio file.
type Single struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Artist    string  `json:"artist,omitempty"`
	Composer  string  `json:"composer,omitempty"`
	Genre     string  `json:"genre,omitempty"`
	Recorded  string  `json:"recorded,omitempty"`
	Released  string  `json:"released,omitempty"`
	Duration  string  `json:"duration,omitempty"`
	Directory *string `json:"directory,omitempty"`
	Filename  string  `json:"filename,omitempty"`
}

func (s Single) RecordID() string    { return s.ID }
func (s Single) RecordTitle() string { return s.Title }
func (Single) Kind() Kind            { return KindSingle }

// SetRecordID replaces the identifier.
func (s *Single) SetRecordID(id string) { s.ID = id }

// DirectoryPath reports the single's files directory relative to the file root.
func (s Single) DirectoryPath() (string, bool) { return directory(s.Directory) }
