// Package mixer renders the two decks into one stereo master stream.
package mixer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cbegin/deckmix-go/internal/control"
	"github.com/cbegin/deckmix-go/internal/deck"
	"github.com/cbegin/deckmix-go/internal/effects"
)

// ParseEndOfTrack accepts "loop" and "stop".
func ParseEndOfTrack(s string) (deck.EndPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loop":
		return deck.EndLoop, nil
	case "stop":
		return deck.EndStop, nil
	}
	return deck.EndLoop, fmt.Errorf("unknown end-of-track policy %q", s)
}

type Config struct {
	SampleRate int
	// BlockSize is the expected period in frames. Scratch space is sized
	// for it up front.
	BlockSize int
	Curve     CrossfadeCurve
	EndPolicy deck.EndPolicy
	TestTone  bool
	// Limiter puts a brickwall limiter on the master bus.
	Limiter bool
	// Tap, when set, sees every finished period. It runs on the audio
	// goroutine and must not block or keep dst.
	Tap func(dst []float32)
}

// Engine is the audio-side half of the mixer. Process is its only entry
// point from the audio goroutine; everything else is for setup and for the
// control side.
type Engine struct {
	cfg     Config
	state   *control.State
	decks   [control.NumDecks]*deck.Deck
	master  *effects.Chain
	running atomic.Bool

	snap    control.Snapshot
	scratch [control.NumDecks][]float32
}

func New(state *control.State, cfg Config) *Engine {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = 512
	}
	e := &Engine{cfg: cfg, state: state, master: effects.NewChain()}
	for i := range e.decks {
		e.decks[i] = deck.New(i+1, cfg.SampleRate, &state.Decks[i], deck.Options{
			EndPolicy: cfg.EndPolicy,
			TestTone:  cfg.TestTone,
		})
		e.scratch[i] = make([]float32, cfg.BlockSize*2)
	}
	if cfg.Limiter {
		e.master.Add(effects.NewLimiter(cfg.SampleRate))
	}
	return e
}

// Deck returns deck n (1-based) or nil.
func (e *Engine) Deck(n int) *deck.Deck {
	i, ok := control.DeckIndex(n)
	if !ok {
		return nil
	}
	return e.decks[i]
}

func (e *Engine) State() *control.State { return e.state }
func (e *Engine) Config() Config        { return e.cfg }

func (e *Engine) SetRunning(on bool) { e.running.Store(on) }
func (e *Engine) Running() bool      { return e.running.Load() }

// Process renders one period of interleaved stereo into dst, or silence
// while the engine is not running. It is wait-free apart from growing
// scratch space the first time a driver asks for a larger block than
// configured.
func (e *Engine) Process(dst []float32) {
	if !e.running.Load() {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	e.Render(dst)
}

// Render is Process without the running check, for offline rendering. The
// caller must ensure only one goroutine renders at a time.
func (e *Engine) Render(dst []float32) {
	for i := range dst {
		dst[i] = 0
	}
	n := len(dst) &^ 1

	e.state.Snapshot(&e.snap)
	ga, gb := e.cfg.Curve.Gains(e.snap.Crossfader)
	gains := [control.NumDecks]float32{ga, gb}

	for i, d := range e.decks {
		if cap(e.scratch[i]) < n {
			e.scratch[i] = make([]float32, n)
		}
		buf := e.scratch[i][:n]
		if !d.Render(&e.snap.Decks[i], buf) {
			continue
		}
		g := gains[i]
		for j, v := range buf {
			dst[j] += v * g
		}
	}

	mv := e.snap.MasterVolume
	for j := 0; j < n; j++ {
		dst[j] *= mv
	}
	if e.master.Len() > 0 {
		for j := 0; j < n; j += 2 {
			dst[j], dst[j+1] = e.master.Process(dst[j], dst[j+1])
		}
	}
	if e.cfg.Tap != nil {
		e.cfg.Tap(dst)
	}
}

// Reset clears every delay line and filter history in the engine. Only call
// it while the engine is not running.
func (e *Engine) Reset() {
	for _, d := range e.decks {
		d.Reset()
	}
	e.master.Reset()
}
