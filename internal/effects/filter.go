package effects

import "math"

const (
	defaultFilterCutoff    = 1000.0
	defaultFilterResonance = 0.707

	minFilterCutoff    = 20.0
	minFilterResonance = 0.1
	maxFilterResonance = 20.0
)

// Filter is the resonant lowpass insert. It owns its own biquads and shares
// nothing with the EQ.
type Filter struct {
	sampleRate float64
	cutoff     float64
	resonance  float64
	l, r       Biquad
}

func NewFilter(sampleRate int) *Filter {
	f := &Filter{
		sampleRate: float64(sampleRate),
		cutoff:     defaultFilterCutoff,
		resonance:  defaultFilterResonance,
	}
	f.configure()
	return f
}

// SetCutoff moves the corner frequency. Values are kept inside
// [20 Hz, 0.45·sampleRate] so the biquad stays stable. NaN is ignored.
func (f *Filter) SetCutoff(hz float64) {
	if math.IsNaN(hz) {
		return
	}
	maxCutoff := f.sampleRate * 0.45
	if hz < minFilterCutoff {
		hz = minFilterCutoff
	}
	if hz > maxCutoff {
		hz = maxCutoff
	}
	f.cutoff = hz
	f.configure()
}

// SetResonance sets the filter Q, clamped to [0.1, 20]. NaN is ignored.
func (f *Filter) SetResonance(q float64) {
	if math.IsNaN(q) {
		return
	}
	if q < minFilterResonance {
		q = minFilterResonance
	}
	if q > maxFilterResonance {
		q = maxFilterResonance
	}
	f.resonance = q
	f.configure()
}

func (f *Filter) Cutoff() float64    { return f.cutoff }
func (f *Filter) Resonance() float64 { return f.resonance }

func (f *Filter) configure() {
	f.l.SetLowpass(f.cutoff, f.resonance, f.sampleRate)
	f.r.SetLowpass(f.cutoff, f.resonance, f.sampleRate)
}

func (f *Filter) Process(l, r float32) (float32, float32) {
	return f.l.Process(l), f.r.Process(r)
}

func (f *Filter) Reset() {
	f.l.Reset()
	f.r.Reset()
}
