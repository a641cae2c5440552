package effects

import "fmt"

// Band selects one of the three deck EQ bands: 0=low, 1=mid, 2=high.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh

	numBands
)

// ParseBand maps a numeric band id to a Band.
func ParseBand(id int) (Band, bool) {
	if id < 0 || id >= int(numBands) {
		return 0, false
	}
	return Band(id), true
}

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	}
	return fmt.Sprintf("Band(%d)", int(b))
}

const (
	eqLowFreq  = 320.0
	eqMidFreq  = 1000.0
	eqHighFreq = 3200.0
	eqQ        = 0.707
	// EQRangeDB is the boost/cut at a band value of ±1.
	EQRangeDB = 12.0
)

// EQ3Band is a DJ-style three band EQ: low shelf, mid peak, high shelf.
// Band values are nominally in [-1, 1] and map linearly to ±12 dB.
type EQ3Band struct {
	sampleRate float64
	values     [numBands]float32
	l, r       [numBands]Biquad
}

// NewEQ3Band creates a flat EQ.
func NewEQ3Band(sampleRate int) *EQ3Band {
	eq := &EQ3Band{sampleRate: float64(sampleRate)}
	for b := BandLow; b < numBands; b++ {
		eq.configure(b)
	}
	return eq
}

// SetBand changes one band's value. Filter history is kept.
func (eq *EQ3Band) SetBand(b Band, value float32) bool {
	if b < 0 || b >= numBands {
		return false
	}
	eq.values[b] = value
	eq.configure(b)
	return true
}

// Band returns a band's current value.
func (eq *EQ3Band) Band(b Band) float32 {
	if b < 0 || b >= numBands {
		return 0
	}
	return eq.values[b]
}

func (eq *EQ3Band) configure(b Band) {
	gain := float64(eq.values[b]) * EQRangeDB
	switch b {
	case BandLow:
		eq.l[b].SetLowShelf(eqLowFreq, eqQ, gain, eq.sampleRate)
		eq.r[b].SetLowShelf(eqLowFreq, eqQ, gain, eq.sampleRate)
	case BandMid:
		eq.l[b].SetPeaking(eqMidFreq, eqQ, gain, eq.sampleRate)
		eq.r[b].SetPeaking(eqMidFreq, eqQ, gain, eq.sampleRate)
	case BandHigh:
		eq.l[b].SetHighShelf(eqHighFreq, eqQ, gain, eq.sampleRate)
		eq.r[b].SetHighShelf(eqHighFreq, eqQ, gain, eq.sampleRate)
	}
}

func (eq *EQ3Band) Process(l, r float32) (float32, float32) {
	for b := range eq.l {
		l = eq.l[b].Process(l)
		r = eq.r[b].Process(r)
	}
	return l, r
}

func (eq *EQ3Band) Reset() {
	for b := range eq.l {
		eq.l[b].Reset()
		eq.r[b].Reset()
	}
}
