package effects

import "math"

// Compressor is a stereo-linked feed-forward compressor. With a high ratio
// and fast attack it works as the master bus limiter.
type Compressor struct {
	thresholdDB float64
	ratio       float64
	attack      float32 // envelope coefficients
	release     float32
	makeup      float32
	env         float32
}

// NewCompressor creates a compressor.
// thresholdDB: level where gain reduction starts (e.g. -20)
// ratio: compression ratio (e.g. 4 for 4:1)
// attackMs, releaseMs: envelope times
// makeupDB: gain applied after reduction
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float64) *Compressor {
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		thresholdDB: thresholdDB,
		ratio:       ratio,
		attack:      envCoeff(attackMs, sampleRate),
		release:     envCoeff(releaseMs, sampleRate),
		makeup:      float32(dbToLinear(makeupDB)),
	}
}

// NewLimiter returns the master limiter preset: -1 dBFS ceiling, 20:1,
// 1 ms attack, 50 ms release.
func NewLimiter(sampleRate int) *Compressor {
	return NewCompressor(sampleRate, -1, 20, 1, 50, 0)
}

func envCoeff(ms float64, sampleRate int) float32 {
	if ms <= 0 {
		return 1
	}
	return float32(1 - math.Exp(-1/(ms*float64(sampleRate)/1000)))
}

func dbToLinear(db float64) float64 { return math.Pow(10, db/20) }

func (c *Compressor) Process(l, r float32) (float32, float32) {
	peak := l
	if peak < 0 {
		peak = -peak
	}
	if ar := float32(math.Abs(float64(r))); ar > peak {
		peak = ar
	}
	coeff := c.release
	if peak > c.env {
		coeff = c.attack
	}
	c.env += coeff * (peak - c.env)
	g := c.gain() * c.makeup
	return l * g, r * g
}

func (c *Compressor) gain() float32 {
	if c.env <= 0 {
		return 1
	}
	levelDB := 20 * math.Log10(float64(c.env))
	over := levelDB - c.thresholdDB
	if over <= 0 {
		return 1
	}
	reduction := over - over/c.ratio
	return float32(dbToLinear(-reduction))
}

func (c *Compressor) Reset() {
	c.env = 0
}
