// Package deck implements one playback unit: a loaded track, its play
// position and its own effects chain.
//
// A Deck is shared by two sides. Control code calls Load, Unload, Seek and
// the getters from any goroutine. The mixer calls Render from the audio
// goroutine only. The two sides meet through atomics: the track is
// published by pointer swap, so Render never waits for a decoder.
package deck

import (
	"math"
	"sync/atomic"

	"github.com/cbegin/deckmix-go/internal/control"
	"github.com/cbegin/deckmix-go/internal/effects"
	"github.com/cbegin/deckmix-go/internal/lfo"
)

// EndPolicy decides what happens when playback reaches the end of a track.
type EndPolicy int

const (
	// EndLoop rewinds to the start and keeps playing.
	EndLoop EndPolicy = iota
	// EndStop rewinds to the start and clears the playing flag.
	EndStop
)

const (
	testToneHz        = 440
	testToneAmplitude = 0.1
	noSeek            = -1
)

type Options struct {
	EndPolicy EndPolicy
	// TestTone plays a quiet sine while the deck is playing with no track.
	TestTone bool
}

type Deck struct {
	number     int
	sampleRate int
	opts       Options
	state      *control.DeckState

	track    atomic.Pointer[Track]
	loaded   atomic.Bool
	position atomic.Int64
	seek     atomic.Int64

	// owned by the render goroutine
	fx           *effects.Processor
	tone         lfo.LFO
	current      *Track
	applied      control.DeckSnapshot
	appliedValid bool
}

// New creates deck number (1-based) rendering at sampleRate. state is the
// deck's slice of the control plane; the stop policy clears its playing flag.
func New(number, sampleRate int, state *control.DeckState, opts Options) *Deck {
	d := &Deck{
		number:     number,
		sampleRate: sampleRate,
		opts:       opts,
		state:      state,
		fx:         effects.NewProcessor(sampleRate),
	}
	d.seek.Store(noSeek)
	d.tone.Set(testToneAmplitude, testToneHz)
	return d
}

func (d *Deck) Number() int { return d.number }

// Load publishes t as the deck's track and rewinds to the start. t must be
// fully built; it is never written again.
func (d *Deck) Load(t *Track) {
	d.loaded.Store(false)
	d.seek.Store(noSeek)
	d.position.Store(0)
	d.track.Store(t)
	d.loaded.Store(true)
}

// Unload ejects the current track.
func (d *Deck) Unload() {
	d.loaded.Store(false)
	d.seek.Store(noSeek)
	d.track.Store(nil)
	d.position.Store(0)
}

func (d *Deck) Loaded() bool { return d.loaded.Load() }

// Track returns the loaded track or nil.
func (d *Deck) Track() *Track {
	if !d.loaded.Load() {
		return nil
	}
	return d.track.Load()
}

// Duration returns the loaded track's length in seconds, or 0.
func (d *Deck) Duration() float64 {
	if t := d.Track(); t != nil {
		return t.Duration
	}
	return 0
}

// Position returns the play position in frames.
func (d *Deck) Position() int64 { return d.position.Load() }

// Progress returns the play position as a fraction of the track in [0, 1].
// A seek that has not been rendered yet is reported as already applied.
func (d *Deck) Progress() float64 {
	t := d.Track()
	if t == nil {
		return 0
	}
	pos := d.position.Load()
	if s := d.seek.Load(); s != noSeek {
		pos = s
	}
	p := float64(pos) / float64(t.Frames())
	if p > 1 {
		p = 1
	}
	return p
}

// Seek requests a jump to fraction (0..1) of the loaded track. The jump
// happens at the start of the next rendered period. Returns false when no
// track is loaded or fraction is NaN.
func (d *Deck) Seek(fraction float64) bool {
	t := d.Track()
	if t == nil || math.IsNaN(fraction) {
		return false
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	d.seek.Store(int64(fraction * float64(t.Frames())))
	return true
}

// Render writes one period of this deck's processed output into dst as
// interleaved stereo, overwriting its contents. It reports whether the deck
// produced signal. Render must only be called from the mixer goroutine; it
// does not allocate or block.
func (d *Deck) Render(s *control.DeckSnapshot, dst []float32) bool {
	for i := range dst {
		dst[i] = 0
	}
	d.apply(s)

	t := d.Track()
	if t != d.current {
		d.current = t
		if t != nil {
			d.position.Store(0)
		}
	}
	if seek := d.seek.Swap(noSeek); seek != noSeek && t != nil {
		if n := int64(t.Frames()); seek > n {
			seek = n
		}
		d.position.Store(seek)
	}

	if !s.Playing {
		return false
	}
	frames := len(dst) / 2
	if t == nil {
		if !d.opts.TestTone {
			return false
		}
		sr := float64(d.sampleRate)
		for i := 0; i < frames; i++ {
			v := float32(d.tone.Sample(sr)) * s.Volume
			dst[2*i] = v
			dst[2*i+1] = v
		}
		return true
	}

	pos := int(d.position.Load())
	n := t.Frames()
	for i := 0; i < frames; i++ {
		idx := pos + i
		if idx >= n {
			break
		}
		dst[2*i], dst[2*i+1] = d.fx.Process(t.Left[idx], t.Right[idx])
	}
	pos += frames
	if pos >= n {
		pos = 0
		if d.opts.EndPolicy == EndStop && d.state != nil {
			d.state.Playing.Store(false)
		}
	}
	d.position.Store(int64(pos))
	return true
}

// Reset clears the deck's effect state. It must not race with Render.
func (d *Deck) Reset() {
	d.fx.Reset()
	d.tone.Reset()
}

// apply pushes changed parameters into the effects chain. Coefficients are
// only recomputed for values that moved.
func (d *Deck) apply(s *control.DeckSnapshot) {
	fx := d.fx
	prev := &d.applied
	fresh := !d.appliedValid

	fx.SetVolume(s.Volume)
	fx.SetPitch(s.Pitch)
	for b := range s.EQ {
		if fresh || s.EQ[b] != prev.EQ[b] {
			fx.SetEQ(effects.Band(b), s.EQ[b])
		}
	}
	for k := range s.Effects {
		fx.SetEffect(effects.Kind(k), s.Effects[k])
	}
	if fresh || s.FilterCutoff != prev.FilterCutoff {
		fx.Filter().SetCutoff(float64(s.FilterCutoff))
	}
	if fresh || s.FilterResonance != prev.FilterResonance {
		fx.Filter().SetResonance(float64(s.FilterResonance))
	}
	if fresh || s.FlangerRate != prev.FlangerRate {
		fx.Flanger().SetRateRadians(float64(s.FlangerRate))
	}
	if fresh || s.FlangerDepth != prev.FlangerDepth {
		fx.Flanger().SetDepth(float64(s.FlangerDepth))
	}
	d.applied = *s
	d.appliedValid = true
}
