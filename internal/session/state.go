// Package session owns the interactive download session: its mutable
// settings, the pure functions that mutate them, and the command loop.
package session

import (
	"errors"
	"strconv"
	"strings"
)

// Mode selects what gets downloaded and where it lands.
type Mode int

const (
	ModeAudio Mode = iota
	ModeVideo
)

func (m Mode) String() string {
	if m == ModeAudio {
		return "audio"
	}
	return "video"
}

// Toggle returns the other mode. Applying it twice restores the original.
func (m Mode) Toggle() Mode {
	if m == ModeAudio {
		return ModeVideo
	}
	return ModeAudio
}

// AllowedQualities is the fixed set of selectable resolution caps,
// highest first.
var AllowedQualities = []int{1080, 720, 480, 360}

// ErrInvalidChoice reports malformed or out-of-range settings input. It is
// always recovered locally; the previous setting stays in place.
var ErrInvalidChoice = errors.New("invalid choice")

// ValidateQuality parses user input against the allowed quality set. A
// trailing "p" is tolerated ("720p"). Empty, non-numeric, and out-of-set
// input all come back as ErrInvalidChoice.
func ValidateQuality(candidate string) (int, error) {
	candidate = strings.TrimSpace(strings.ToLower(candidate))
	candidate = strings.TrimSuffix(candidate, "p")
	if candidate == "" {
		return 0, ErrInvalidChoice
	}
	value, err := strconv.Atoi(candidate)
	if err != nil {
		return 0, ErrInvalidChoice
	}
	for _, quality := range AllowedQualities {
		if value == quality {
			return value, nil
		}
	}
	return 0, ErrInvalidChoice
}

// ParsePlaylistLimit parses a playlist item limit: a positive integer, or
// "all" meaning no limit (zero).
func ParsePlaylistLimit(candidate string) (int, error) {
	candidate = strings.TrimSpace(strings.ToLower(candidate))
	if candidate == "all" {
		return 0, nil
	}
	value, err := strconv.Atoi(candidate)
	if err != nil || value <= 0 {
		return 0, ErrInvalidChoice
	}
	return value, nil
}

// State is the session's mutable settings aggregate. The controller owns
// the only instance for the life of the process.
type State struct {
	Mode          Mode
	Quality       int
	PlaylistLimit int // 0 = download all entries
}

func NewState() State {
	return State{
		Mode:          ModeAudio,
		Quality:       1080,
		PlaylistLimit: 10,
	}
}
