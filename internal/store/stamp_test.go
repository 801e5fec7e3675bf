package store

import (
	"testing"
	"time"
)

func TestStamperNeverDecreases(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 3, 1, 12, 0, 0, 500000000, time.UTC),
		time.Date(2024, 3, 1, 11, 59, 59, 0, time.UTC),
		time.Date(2024, 3, 1, 12, 0, 1, 0, time.FixedZone("CET", 3600)),
	}
	i := 0
	s := NewStamper(func() time.Time {
		t := times[i]
		i++
		return t
	})

	first := s.Next()
	second := s.Next()
	third := s.Next()

	if first != "2024-03-01T12:00:00.500000Z" {
		t.Fatalf("unexpected first stamp %q", first)
	}
	if second != first {
		t.Fatalf("expected backwards clock to be clamped, got %q", second)
	}
	if third != "2024-03-01T12:00:00.500000Z" {
		t.Fatalf("expected zone-normalised time to clamp to %q, got %q", first, third)
	}
}
