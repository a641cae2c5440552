package deckmix

import (
	"github.com/cbegin/deckmix-go/internal/deck"
	"github.com/cbegin/deckmix-go/internal/mixer"
	"github.com/cbegin/deckmix-go/internal/wav"
)

// Track is decoded, immutable audio ready to be loaded onto a deck.
type Track = deck.Track

// ErrEmptyTrack is returned when loading a track with no frames.
var ErrEmptyTrack = deck.ErrEmptyTrack

// NewTrack builds a Track from planar samples. A nil right channel means mono.
func NewTrack(left, right []float32, sampleRate, channels int) (*Track, error) {
	return deck.NewTrack(left, right, sampleRate, channels)
}

// CrossfadeCurve selects the crossfader law.
type CrossfadeCurve = mixer.CrossfadeCurve

const (
	CrossfadeLinear     = mixer.CurveLinear
	CrossfadeEqualPower = mixer.CurveEqualPower
)

// EndOfTrack decides what a deck does when it runs off the end of its track.
type EndOfTrack = deck.EndPolicy

const (
	EndLoop = deck.EndLoop
	EndStop = deck.EndStop
)

// Decoder turns a file path into a Track.
type Decoder func(path string) (*Track, error)

type Option func(*mixerConfig)

type mixerConfig struct {
	blockSize  int
	backend    string
	curve      CrossfadeCurve
	endOfTrack EndOfTrack
	testTone   bool
	limiter    bool
	sampleTap  func([]float32)
	decoder    Decoder
}

func defaultMixerConfig() mixerConfig {
	return mixerConfig{
		blockSize: 512,
		backend:   "ebiten",
		decoder:   wav.DecodeFile,
	}
}

// WithBlockSize sets the period, in frames, the engine is sized for.
func WithBlockSize(frames int) Option {
	return func(cfg *mixerConfig) {
		if frames > 0 {
			cfg.blockSize = frames
		}
	}
}

// WithBackend picks the output driver: "ebiten", "oto" or "null".
func WithBackend(name string) Option {
	return func(cfg *mixerConfig) {
		cfg.backend = name
	}
}

func WithCrossfadeCurve(c CrossfadeCurve) Option {
	return func(cfg *mixerConfig) {
		cfg.curve = c
	}
}

func WithEndOfTrack(p EndOfTrack) Option {
	return func(cfg *mixerConfig) {
		cfg.endOfTrack = p
	}
}

// WithTestTone makes a deck that is playing with nothing loaded emit a
// quiet 440 Hz sine.
func WithTestTone(enabled bool) Option {
	return func(cfg *mixerConfig) {
		cfg.testTone = enabled
	}
}

// WithMasterLimiter adds a limiter after the master volume.
func WithMasterLimiter(enabled bool) Option {
	return func(cfg *mixerConfig) {
		cfg.limiter = enabled
	}
}

// WithSampleTap installs a callback invoked with each generated stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) Option {
	return func(cfg *mixerConfig) {
		cfg.sampleTap = tap
	}
}

// WithDecoder replaces the WAV decoder used by SetDeckFile.
func WithDecoder(d Decoder) Option {
	return func(cfg *mixerConfig) {
		if d != nil {
			cfg.decoder = d
		}
	}
}
