package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownBackend is returned by Open for an unrecognized driver name.
var ErrUnknownBackend = errors.New("unknown audio backend")

// Backend names accepted by Open.
const (
	BackendEbiten = "ebiten"
	BackendOto    = "oto"
	BackendNull   = "null"
)

// Backend is a running output driver.
type Backend interface {
	Play()
	Pause()
	// Stop halts playback, waits for the in-flight period and releases the
	// device. A stopped backend cannot be restarted.
	Stop() error
}

// Open starts no playback; it only builds the named driver around source.
func Open(name string, sampleRate, blockSize int, source SampleSource) (Backend, error) {
	switch strings.ToLower(name) {
	case "", BackendEbiten:
		p, err := NewPlayer(sampleRate, blockSize, source)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendOto:
		p, err := NewOtoPlayer(sampleRate, blockSize, source)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendNull:
		return NewNullPlayer(sampleRate, blockSize, source), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// blockDuration is the wall time one period of frames covers.
func blockDuration(sampleRate, frames int) time.Duration {
	if sampleRate <= 0 || frames <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
