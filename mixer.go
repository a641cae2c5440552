// Package deckmix is a two-deck DJ mixing engine. A Mixer owns two decks,
// each with its own EQ and insert effects, a crossfader and a master
// section. Control methods may be called from any goroutine while audio is
// running; they never block the audio thread.
package deckmix

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cbegin/deckmix-go/internal/audio"
	"github.com/cbegin/deckmix-go/internal/control"
	"github.com/cbegin/deckmix-go/internal/effects"
	"github.com/cbegin/deckmix-go/internal/mixer"
	"github.com/cbegin/deckmix-go/internal/wav"
)

const NumDecks = control.NumDecks

var (
	ErrInvalidDeck = errors.New("deck must be 1 or 2")
	ErrNotRunning  = errors.New("mixer is not running")
	// ErrRunning is returned by Render while an output driver owns the engine.
	ErrRunning = errors.New("mixer is running")

	// Load errors from the built-in WAV decoder.
	ErrUnsupportedFormat = wav.ErrUnsupportedFormat
	ErrNotWAV            = wav.ErrNotWAV
	ErrEmptyData         = wav.ErrEmptyData
)

type Mixer struct {
	mu         sync.Mutex // guards backend; never taken by audio
	sampleRate int
	cfg        mixerConfig
	state      *control.State
	engine     *mixer.Engine
	backend    audio.Backend
}

func NewMixer(sampleRate int, opts ...Option) (*Mixer, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultMixerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	state := control.NewState()
	engine := mixer.New(state, mixer.Config{
		SampleRate: sampleRate,
		BlockSize:  cfg.blockSize,
		Curve:      cfg.curve,
		EndPolicy:  cfg.endOfTrack,
		TestTone:   cfg.testTone,
		Limiter:    cfg.limiter,
		Tap:        cfg.sampleTap,
	})
	return &Mixer{
		sampleRate: sampleRate,
		cfg:        cfg,
		state:      state,
		engine:     engine,
	}, nil
}

func (m *Mixer) SampleRate() int { return m.sampleRate }
func (m *Mixer) BlockSize() int  { return m.cfg.blockSize }

// Start opens the configured output driver and begins playback. Calling
// Start on a running mixer does nothing.
func (m *Mixer) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backend != nil {
		return nil
	}
	b, err := audio.Open(m.cfg.backend, m.sampleRate, m.cfg.blockSize, m.engine)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
			"backend":  m.cfg.backend,
			"error":    err.Error(),
		}).Error("Failed to open audio backend")
		return fmt.Errorf("open %s backend: %w", m.cfg.backend, err)
	}
	m.engine.SetRunning(true)
	b.Play()
	m.backend = b
	logrus.WithFields(logrus.Fields{
		"function":    "Start",
		"backend":     m.cfg.backend,
		"sample_rate": m.sampleRate,
		"block_size":  m.cfg.blockSize,
	}).Info("Mixer started")
	return nil
}

// Stop silences the engine, waits for the period in flight and closes the
// output driver.
func (m *Mixer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backend == nil {
		return ErrNotRunning
	}
	m.engine.SetRunning(false)
	err := m.backend.Stop()
	m.backend = nil
	logrus.WithFields(logrus.Fields{
		"function": "Stop",
	}).Info("Mixer stopped")
	return err
}

func (m *Mixer) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend != nil
}

// Render produces one period of interleaved stereo into dst without an
// output driver. It returns ErrRunning while Start is in effect.
func (m *Mixer) Render(dst []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backend != nil {
		return ErrRunning
	}
	m.engine.Render(dst)
	return nil
}

func (m *Mixer) deckState(function string, deck int) *control.DeckState {
	s := m.state.Deck(deck)
	if s == nil {
		logrus.WithFields(logrus.Fields{
			"function": function,
			"deck":     deck,
		}).Warn("Ignoring invalid deck")
	}
	return s
}

// validValue reports whether v may be stored as a control value. NaN is
// rejected with a warning.
func validValue(function string, v float64) bool {
	if math.IsNaN(v) {
		logrus.WithFields(logrus.Fields{
			"function": function,
		}).Warn("Ignoring NaN value")
		return false
	}
	return true
}

func (m *Mixer) SetDeckPlaying(deck int, playing bool) {
	if s := m.deckState("SetDeckPlaying", deck); s != nil {
		s.Playing.Store(playing)
	}
}

// SetDeckVolume sets a deck's gain. Negative values clamp to 0.
func (m *Mixer) SetDeckVolume(deck int, volume float32) {
	if !validValue("SetDeckVolume", float64(volume)) {
		return
	}
	if s := m.deckState("SetDeckVolume", deck); s != nil {
		s.Volume.Store(max(volume, 0))
	}
}

// SetDeckPitch records the pitch control. Playback speed is not affected.
func (m *Mixer) SetDeckPitch(deck int, pitch float32) {
	if !validValue("SetDeckPitch", float64(pitch)) {
		return
	}
	if s := m.deckState("SetDeckPitch", deck); s != nil {
		s.Pitch.Store(pitch)
	}
}

// SetDeckPosition seeks to fraction (0..1) of the loaded track.
func (m *Mixer) SetDeckPosition(deck int, fraction float64) {
	if !validValue("SetDeckPosition", fraction) {
		return
	}
	if m.deckState("SetDeckPosition", deck) == nil {
		return
	}
	if !m.engine.Deck(deck).Seek(fraction) {
		logrus.WithFields(logrus.Fields{
			"function": "SetDeckPosition",
			"deck":     deck,
		}).Debug("Seek ignored, no track loaded")
	}
}

// SetDeckFile decodes path and loads it onto deck. On failure the deck keeps
// whatever it was playing.
func (m *Mixer) SetDeckFile(deck int, path string) error {
	if m.deckState("SetDeckFile", deck) == nil {
		return ErrInvalidDeck
	}
	t, err := m.cfg.decoder(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SetDeckFile",
			"deck":     deck,
			"path":     path,
			"error":    err.Error(),
		}).Error("Failed to load track")
		return err
	}
	if err := m.LoadDeck(deck, t); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"function": "SetDeckFile",
		"deck":     deck,
		"path":     path,
		"duration": t.Duration,
	}).Info("Track loaded")
	return nil
}

// LoadDeck publishes an already decoded track. t must not be modified
// afterwards.
func (m *Mixer) LoadDeck(deck int, t *Track) error {
	if m.deckState("LoadDeck", deck) == nil {
		return ErrInvalidDeck
	}
	if t == nil || t.Frames() == 0 {
		return ErrEmptyTrack
	}
	if t.SampleRate != m.sampleRate {
		logrus.WithFields(logrus.Fields{
			"function":   "LoadDeck",
			"deck":       deck,
			"track_rate": t.SampleRate,
			"mixer_rate": m.sampleRate,
		}).Warn("Track sample rate differs from output, playback speed will be off")
	}
	m.engine.Deck(deck).Load(t)
	return nil
}

// UnloadDeck ejects the deck's track.
func (m *Mixer) UnloadDeck(deck int) {
	if m.deckState("UnloadDeck", deck) == nil {
		return
	}
	m.engine.Deck(deck).Unload()
}

// SetEffect toggles an insert: 0=flanger, 1=filter, 2=echo, 3=reverb.
func (m *Mixer) SetEffect(deck, effect int, enabled bool) {
	s := m.deckState("SetEffect", deck)
	if s == nil {
		return
	}
	k, ok := effects.ParseKind(effect)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "SetEffect",
			"deck":     deck,
			"effect":   effect,
		}).Warn("Ignoring invalid effect")
		return
	}
	s.Effects[k].Store(enabled)
}

// SetEQ sets a band (0=low, 1=mid, 2=high) to value in [-1, 1], where ±1 is
// ±12 dB.
func (m *Mixer) SetEQ(deck, band int, value float32) {
	if !validValue("SetEQ", float64(value)) {
		return
	}
	s := m.deckState("SetEQ", deck)
	if s == nil {
		return
	}
	b, ok := effects.ParseBand(band)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "SetEQ",
			"deck":     deck,
			"band":     band,
		}).Warn("Ignoring invalid EQ band")
		return
	}
	s.EQ[b].Store(min(max(value, -1), 1))
}

func (m *Mixer) SetFilterCutoff(deck int, hz float32) {
	if !validValue("SetFilterCutoff", float64(hz)) {
		return
	}
	if s := m.deckState("SetFilterCutoff", deck); s != nil {
		s.FilterCutoff.Store(hz)
	}
}

func (m *Mixer) SetFilterResonance(deck int, q float32) {
	if !validValue("SetFilterResonance", float64(q)) {
		return
	}
	if s := m.deckState("SetFilterResonance", deck); s != nil {
		s.FilterResonance.Store(q)
	}
}

// SetFlangerRate sets the flanger sweep rate in Hz. Negative values clamp
// to 0.
func (m *Mixer) SetFlangerRate(deck int, hz float32) {
	if !validValue("SetFlangerRate", float64(hz)) {
		return
	}
	if s := m.deckState("SetFlangerRate", deck); s != nil {
		rad := 2 * math.Pi * float64(max(hz, 0)) / float64(m.sampleRate)
		s.FlangerRate.Store(float32(rad))
	}
}

// SetFlangerDepth sets the flanger sweep depth in milliseconds. The swept
// tap never leaves the 10 ms line, so large depths flatten at the ends.
func (m *Mixer) SetFlangerDepth(deck int, ms float32) {
	if !validValue("SetFlangerDepth", float64(ms)) {
		return
	}
	if s := m.deckState("SetFlangerDepth", deck); s != nil {
		s.FlangerDepth.Store(max(ms, 0) / 1000)
	}
}

// FlangerRate returns the deck's flanger sweep rate in Hz.
func (m *Mixer) FlangerRate(deck int) float32 {
	s := m.state.Deck(deck)
	if s == nil {
		return 0
	}
	return float32(float64(s.FlangerRate.Load()) * float64(m.sampleRate) / (2 * math.Pi))
}

// FlangerDepth returns the deck's flanger sweep depth in milliseconds.
func (m *Mixer) FlangerDepth(deck int) float32 {
	s := m.state.Deck(deck)
	if s == nil {
		return 0
	}
	return s.FlangerDepth.Load() * 1000
}

// SetCrossfader sets the crossfader in [0, 1], 0 being all deck 1.
func (m *Mixer) SetCrossfader(value float32) {
	if !validValue("SetCrossfader", float64(value)) {
		return
	}
	m.state.Crossfader.Store(min(max(value, 0), 1))
}

// SetMasterVolume sets the master gain. Negative values clamp to 0.
func (m *Mixer) SetMasterVolume(volume float32) {
	if !validValue("SetMasterVolume", float64(volume)) {
		return
	}
	m.state.MasterVolume.Store(max(volume, 0))
}

// SetHeadphoneVolume records the cue level. There is no cue bus yet, so it
// does not reach any output.
func (m *Mixer) SetHeadphoneVolume(volume float32) {
	if !validValue("SetHeadphoneVolume", float64(volume)) {
		return
	}
	m.state.HeadphoneVolume.Store(max(volume, 0))
}

// DeckPosition returns the play position as a fraction of the track, 0 when
// nothing is loaded or deck is invalid.
func (m *Mixer) DeckPosition(deck int) float64 {
	if m.deckState("DeckPosition", deck) == nil {
		return 0
	}
	return m.engine.Deck(deck).Progress()
}

func (m *Mixer) DeckLoaded(deck int) bool {
	if _, ok := control.DeckIndex(deck); !ok {
		return false
	}
	return m.engine.Deck(deck).Loaded()
}

// DeckDuration returns the loaded track's length in seconds.
func (m *Mixer) DeckDuration(deck int) float64 {
	if _, ok := control.DeckIndex(deck); !ok {
		return 0
	}
	return m.engine.Deck(deck).Duration()
}

func (m *Mixer) DeckPlaying(deck int) bool {
	s := m.state.Deck(deck)
	return s != nil && s.Playing.Load()
}

func (m *Mixer) DeckVolume(deck int) float32 {
	if s := m.state.Deck(deck); s != nil {
		return s.Volume.Load()
	}
	return 0
}

func (m *Mixer) Crossfader() float32      { return m.state.Crossfader.Load() }
func (m *Mixer) MasterVolume() float32    { return m.state.MasterVolume.Load() }
func (m *Mixer) HeadphoneVolume() float32 { return m.state.HeadphoneVolume.Load() }
