// Package control holds the parameters a control surface may change while
// audio is running. Every field is its own atomic. Readers get per-field
// consistency only: a render period can see a new volume together with an
// old playing flag. That staleness lasts at most one block and is accepted
// so the render path never takes a lock.
package control

import "sync/atomic"

const (
	// NumDecks is the number of decks addressed as 1..NumDecks.
	NumDecks = 2
	// NumBands and NumEffects mirror the effects package ids.
	NumBands   = 3
	NumEffects = 4
)

// Defaults applied by NewState.
const (
	DefaultDeckVolume      = 0.8
	DefaultCrossfader      = 0.5
	DefaultMasterVolume    = 0.8
	DefaultHeadphoneVolume = 0.8
	DefaultFilterCutoff    = 1000
	DefaultFilterResonance = 0.707
	// DefaultFlangerRate is the sweep advance in radians per sample.
	DefaultFlangerRate = 0.1
	// DefaultFlangerDepth is the sweep depth in seconds.
	DefaultFlangerDepth = 0.002
)

// DeckState is the per-deck slice of the control plane.
type DeckState struct {
	Playing         atomic.Bool
	Volume          Float32
	Pitch           Float32
	EQ              [NumBands]Float32
	Effects         [NumEffects]atomic.Bool
	FilterCutoff    Float32
	FilterResonance Float32
	FlangerRate     Float32 // radians per sample
	FlangerDepth    Float32 // seconds
}

// State is the whole control plane.
type State struct {
	Decks           [NumDecks]DeckState
	Crossfader      Float32
	MasterVolume    Float32
	HeadphoneVolume Float32
}

func NewState() *State {
	s := &State{}
	for i := range s.Decks {
		d := &s.Decks[i]
		d.Volume.Store(DefaultDeckVolume)
		d.FilterCutoff.Store(DefaultFilterCutoff)
		d.FilterResonance.Store(DefaultFilterResonance)
		d.FlangerRate.Store(DefaultFlangerRate)
		d.FlangerDepth.Store(DefaultFlangerDepth)
	}
	s.Crossfader.Store(DefaultCrossfader)
	s.MasterVolume.Store(DefaultMasterVolume)
	s.HeadphoneVolume.Store(DefaultHeadphoneVolume)
	return s
}

// DeckIndex converts a 1-based deck number into an array index.
func DeckIndex(deck int) (int, bool) {
	if deck < 1 || deck > NumDecks {
		return 0, false
	}
	return deck - 1, true
}

// Deck returns the state for a 1-based deck number, or nil.
func (s *State) Deck(deck int) *DeckState {
	i, ok := DeckIndex(deck)
	if !ok {
		return nil
	}
	return &s.Decks[i]
}

// DeckSnapshot is a plain copy of one DeckState.
type DeckSnapshot struct {
	Playing         bool
	Volume          float32
	Pitch           float32
	EQ              [NumBands]float32
	Effects         [NumEffects]bool
	FilterCutoff    float32
	FilterResonance float32
	FlangerRate     float32
	FlangerDepth    float32
}

// Snapshot is the read-only view the renderer works from for one period.
type Snapshot struct {
	Decks           [NumDecks]DeckSnapshot
	Crossfader      float32
	MasterVolume    float32
	HeadphoneVolume float32
}

// Snapshot copies every field into dst, one atomic load at a time. It does
// not allocate.
func (s *State) Snapshot(dst *Snapshot) {
	for i := range s.Decks {
		src := &s.Decks[i]
		d := &dst.Decks[i]
		d.Playing = src.Playing.Load()
		d.Volume = src.Volume.Load()
		d.Pitch = src.Pitch.Load()
		for b := range src.EQ {
			d.EQ[b] = src.EQ[b].Load()
		}
		for e := range src.Effects {
			d.Effects[e] = src.Effects[e].Load()
		}
		d.FilterCutoff = src.FilterCutoff.Load()
		d.FilterResonance = src.FilterResonance.Load()
		d.FlangerRate = src.FlangerRate.Load()
		d.FlangerDepth = src.FlangerDepth.Load()
	}
	dst.Crossfader = s.Crossfader.Load()
	dst.MasterVolume = s.MasterVolume.Load()
	dst.HeadphoneVolume = s.HeadphoneVolume.Load()
}
