// Package lfo provides sine oscillators that advance one sample at a time.
// Every owner keeps its own instance, so two decks never share a phase.
package lfo

import "math"

// LFO is a sine oscillator with amplitude depth and frequency rateHz. The
// zero value is silent.
type LFO struct {
	depth  float64
	rateHz float64
	phase  float64 // cycles, [0, 1)
}

// Set configures amplitude and frequency. Negative values are treated as 0
// and NaN leaves the current value in place.
func (l *LFO) Set(depth, rateHz float64) {
	l.SetDepth(depth)
	l.SetRate(rateHz)
}

func (l *LFO) SetDepth(depth float64) {
	if !math.IsNaN(depth) {
		l.depth = math.Max(depth, 0)
	}
}

func (l *LFO) SetRate(hz float64) {
	if !math.IsNaN(hz) {
		l.rateHz = math.Max(hz, 0)
	}
}

// Sample returns depth·sin(2π·phase) and then advances the phase. The first
// call after Reset returns 0.
func (l *LFO) Sample(sampleRate float64) float64 {
	if !l.Active() || sampleRate <= 0 {
		return 0
	}
	v := l.depth * math.Sin(2*math.Pi*l.phase)
	l.phase += l.rateHz / sampleRate
	if l.phase >= 1 {
		l.phase -= math.Floor(l.phase)
	}
	return v
}

// Active reports whether Sample can return anything but 0.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

func (l *LFO) RateHz() float64 { return l.rateHz }
func (l *LFO) Depth() float64  { return l.depth }
func (l *LFO) Phase() float64  { return l.phase }

// Reset rewinds to phase 0. Depth and rate are kept.
func (l *LFO) Reset() {
	l.phase = 0
}

// RateForRadians converts a phase advance in radians per sample into Hz.
func RateForRadians(radPerSample, sampleRate float64) float64 {
	return radPerSample * sampleRate / (2 * math.Pi)
}
