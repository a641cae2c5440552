package deck

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTrack        = errors.New("track has no frames")
	ErrChannelMismatch   = errors.New("left and right channels differ in length")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// Track is decoded audio ready for playback. A Track is never modified after
// it has been handed to a Deck.
type Track struct {
	Left       []float32
	Right      []float32
	SampleRate int
	Channels   int     // channel count of the source
	Duration   float64 // seconds
}

// NewTrack builds a Track from planar samples in [-1, 1]. A nil right
// channel means a mono source; left is then used for both sides.
func NewTrack(left, right []float32, sampleRate, channels int) (*Track, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if len(left) == 0 {
		return nil, ErrEmptyTrack
	}
	if right == nil {
		right = left
	}
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrChannelMismatch, len(left), len(right))
	}
	return &Track{
		Left:       left,
		Right:      right,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   float64(len(left)) / float64(sampleRate),
	}, nil
}

// Frames returns the number of sample frames.
func (t *Track) Frames() int { return len(t.Left) }
