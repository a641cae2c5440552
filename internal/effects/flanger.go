package effects

import "github.com/cbegin/deckmix-go/internal/lfo"

const (
	flangerMaxSeconds   = 0.010
	flangerBaseSeconds  = 0.003
	flangerDepthSeconds = 0.002
	flangerRadPerSample = 0.1
	flangerMix          = 0.5
)

// Flanger mixes the input with a copy delayed by a few milliseconds, the
// delay swept by a sine LFO. Only the dry input is fed into the lines, so
// there is no feedback path.
type Flanger struct {
	sampleRate float64
	base       float64 // seconds
	mod        lfo.LFO
	lineL      *DelayLine
	lineR      *DelayLine
}

// NewFlanger creates a flanger with a 3 ms base delay swept by ±2 ms at
// 0.1 rad/sample.
func NewFlanger(sampleRate int) *Flanger {
	sr := float64(sampleRate)
	f := &Flanger{
		sampleRate: sr,
		base:       flangerBaseSeconds,
		lineL:      NewDelayLineSeconds(flangerMaxSeconds, sampleRate),
		lineR:      NewDelayLineSeconds(flangerMaxSeconds, sampleRate),
	}
	f.mod.Set(flangerDepthSeconds, lfo.RateForRadians(flangerRadPerSample, sr))
	return f
}

// SetRate sets the sweep rate in Hz.
func (f *Flanger) SetRate(hz float64) {
	f.mod.SetRate(hz)
}

// SetRateRadians sets the sweep rate as a phase advance per sample.
func (f *Flanger) SetRateRadians(rad float64) {
	f.SetRate(lfo.RateForRadians(rad, f.sampleRate))
}

// SetDepth sets the sweep depth in seconds. The resulting tap is always
// clamped to the line, so large depths flatten at the ends.
func (f *Flanger) SetDepth(seconds float64) {
	f.mod.SetDepth(seconds)
}

func (f *Flanger) Rate() float64  { return f.mod.RateHz() }
func (f *Flanger) Depth() float64 { return f.mod.Depth() }

func (f *Flanger) Process(l, r float32) (float32, float32) {
	delay := int((f.base + f.mod.Sample(f.sampleRate)) * f.sampleRate)
	tap := f.lineL.ClampTap(delay)
	dl := f.lineL.Read(tap)
	dr := f.lineR.Read(tap)
	f.lineL.Write(l)
	f.lineR.Write(r)
	return l + dl*flangerMix, r + dr*flangerMix
}

func (f *Flanger) Reset() {
	f.lineL.Reset()
	f.lineR.Reset()
	f.mod.Reset()
}
