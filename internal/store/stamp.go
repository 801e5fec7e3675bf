package store

import (
	"sync"
	"time"

	"mymusic/internal/music"
)

// Stamper issues transaction times. Times never decrease, even when the
// wall clock steps backwards.
type Stamper struct {
	mu   sync.Mutex
	now  func() time.Time
	last string
}

// NewStamper returns a Stamper reading now; nil selects time.Now.
func NewStamper(now func() time.Time) *Stamper {
	if now == nil {
		now = time.Now
	}
	return &Stamper{now: now}
}

// Next returns the next timestamp in music.TimeLayout.
func (s *Stamper) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC().Format(music.TimeLayout)
	if ts < s.last {
		ts = s.last
	}
	s.last = ts
	return ts
}

// Observe raises the floor to ts, used to resume after a restart.
func (s *Stamper) Observe(ts string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ts > s.last {
		s.last = ts
	}
}
