package effects

import "math"

// Biquad is a second-order IIR filter in direct form I. Coefficients are
// normalized so that a0 == 1. Reconfiguring keeps the x/y history so a
// parameter sweep does not click.
//
// q and sampleRate must be positive. Nothing checks them; a bad value
// yields an unstable or NaN filter.
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32
	x1, x2     float32
	y1, y2     float32
}

// NewBiquad returns a pass-through filter.
func NewBiquad() *Biquad {
	return &Biquad{b0: 1}
}

func (b *Biquad) SetLowpass(cutoff, q, sampleRate float64) {
	w := 2 * math.Pi * cutoff / sampleRate
	cosw, sinw := math.Cos(w), math.Sin(w)
	alpha := sinw / (2 * q)
	b.set(
		(1-cosw)/2, 1-cosw, (1-cosw)/2,
		1+alpha, -2*cosw, 1-alpha,
	)
}

func (b *Biquad) SetHighpass(cutoff, q, sampleRate float64) {
	w := 2 * math.Pi * cutoff / sampleRate
	cosw, sinw := math.Cos(w), math.Sin(w)
	alpha := sinw / (2 * q)
	b.set(
		(1+cosw)/2, -(1 + cosw), (1+cosw)/2,
		1+alpha, -2*cosw, 1-alpha,
	)
}

// SetPeaking configures a bell around freq. gainDB of 0 is flat.
func (b *Biquad) SetPeaking(freq, q, gainDB, sampleRate float64) {
	w := 2 * math.Pi * freq / sampleRate
	cosw, sinw := math.Cos(w), math.Sin(w)
	alpha := sinw / (2 * q)
	a := math.Pow(10, gainDB/40)
	b.set(
		1+alpha*a, -2*cosw, 1-alpha*a,
		1+alpha/a, -2*cosw, 1-alpha/a,
	)
}

func (b *Biquad) SetLowShelf(freq, q, gainDB, sampleRate float64) {
	w := 2 * math.Pi * freq / sampleRate
	cosw, sinw := math.Cos(w), math.Sin(w)
	a := math.Pow(10, gainDB/40)
	beta := math.Sqrt(a) / q
	b.set(
		a*((a+1)-(a-1)*cosw+beta*sinw),
		2*a*((a-1)-(a+1)*cosw),
		a*((a+1)-(a-1)*cosw-beta*sinw),
		(a+1)+(a-1)*cosw+beta*sinw,
		-2*((a-1)+(a+1)*cosw),
		(a+1)+(a-1)*cosw-beta*sinw,
	)
}

func (b *Biquad) SetHighShelf(freq, q, gainDB, sampleRate float64) {
	w := 2 * math.Pi * freq / sampleRate
	cosw, sinw := math.Cos(w), math.Sin(w)
	a := math.Pow(10, gainDB/40)
	beta := math.Sqrt(a) / q
	b.set(
		a*((a+1)+(a-1)*cosw+beta*sinw),
		-2*a*((a-1)+(a+1)*cosw),
		a*((a+1)+(a-1)*cosw-beta*sinw),
		(a+1)-(a-1)*cosw+beta*sinw,
		2*((a-1)-(a+1)*cosw),
		(a+1)-(a-1)*cosw-beta*sinw,
	)
}

func (b *Biquad) set(b0, b1, b2, a0, a1, a2 float64) {
	b.b0 = float32(b0 / a0)
	b.b1 = float32(b1 / a0)
	b.b2 = float32(b2 / a0)
	b.a1 = float32(a1 / a0)
	b.a2 = float32(a2 / a0)
}

// Process filters one sample. Calls must be made in sample order.
func (b *Biquad) Process(x float32) float32 {
	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2 = b.x1
	b.x1 = x
	b.y2 = b.y1
	b.y1 = y
	return y
}

// Reset clears the filter history. Coefficients are kept.
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}
