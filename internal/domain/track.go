package domain

import "strings"

// Track names the activity a time was recorded for.
type Track string

const (
	TrackSprint         Track = "SPRINT"
	TrackMiddleDistance Track = "MIDDLE_DISTANCE"
	TrackLongDistance   Track = "LONG_DISTANCE"
	TrackHurdles        Track = "HURDLES"
	TrackRelay          Track = "RELAY"
)

var knownTracks = []Track{
	TrackSprint,
	TrackMiddleDistance,
	TrackLongDistance,
	TrackHurdles,
	TrackRelay,
}

// Tracks returns every known track in display order.
func Tracks() []Track {
	out := make([]Track, len(knownTracks))
	copy(out, knownTracks)
	return out
}

// Valid reports whether t is a known track.
func (t Track) Valid() bool {
	for _, known := range knownTracks {
		if t == known {
			return true
		}
	}
	return false
}

func (t Track) String() string { return string(t) }

// ParseTrack resolves a track name case-insensitively.
func ParseTrack(s string) (Track, bool) {
	t := Track(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}
