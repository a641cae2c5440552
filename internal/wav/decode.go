// Package wav turns PCM WAV files into deck tracks.
package wav

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cbegin/deckmix-go/internal/deck"
)

const (
	formatPCM   = 1
	formatFloat = 3
)

// Supported reports whether path has a WAV extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return true
	}
	return false
}

// DecodeFile opens and decodes the WAV file at path.
func DecodeFile(path string) (*deck.Track, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"function":    "DecodeFile",
		"path":        path,
		"sample_rate": t.SampleRate,
		"channels":    t.Channels,
		"frames":      t.Frames(),
		"duration":    t.Duration,
	}).Debug("Decoded WAV file")
	return t, nil
}

// Decode reads a whole WAV stream. Integer PCM of 8, 16, 24 or 32 bits and
// 32-bit IEEE float are accepted, mono or stereo. Samples are scaled into
// [-1, 1]; 8-bit data is unsigned. A data chunk shorter than its header
// declares is rejected as ErrNotWAV.
func Decode(rs io.ReadSeeker) (*deck.Track, error) {
	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}

	channels := int(dec.NumChans)
	bits := int(dec.BitDepth)
	format := int(dec.WavAudioFormat)
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}
	convert, err := converter(format, bits)
	if err != nil {
		return nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		if dec.PCMSize == 0 {
			return nil, ErrEmptyData
		}
		return nil, fmt.Errorf("read PCM data: %w", err)
	}
	if want := int(dec.PCMSize) / (bits / 8); len(buf.Data) < want {
		return nil, fmt.Errorf("%w: data chunk declares %d samples, file holds %d",
			ErrNotWAV, want, len(buf.Data))
	}
	frames := len(buf.Data) / channels
	if frames == 0 {
		return nil, ErrEmptyData
	}

	left, right := deinterleave(buf, channels, frames, convert)
	return deck.NewTrack(left, right, int(dec.SampleRate), channels)
}

func converter(format, bits int) (func(int) float32, error) {
	switch {
	case format == formatFloat && bits == 32:
		return func(v int) float32 {
			return math.Float32frombits(uint32(int32(v)))
		}, nil
	case format != formatPCM:
		return nil, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedFormat, format)
	}
	switch bits {
	case 8:
		return func(v int) float32 { return float32(v-128) / 128 }, nil
	case 16, 24, 32:
		scale := float32(math.Ldexp(1, bits-1))
		return func(v int) float32 { return float32(v) / scale }, nil
	}
	return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedFormat, bits)
}

func deinterleave(buf *goaudio.IntBuffer, channels, frames int, convert func(int) float32) (left, right []float32) {
	left = make([]float32, frames)
	if channels == 1 {
		for i := range left {
			left[i] = convert(buf.Data[i])
		}
		return left, nil
	}
	right = make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = convert(buf.Data[2*i])
		right[i] = convert(buf.Data[2*i+1])
	}
	return left, right
}
