package mixer

import (
	"fmt"
	"math"
	"strings"
)

// CrossfadeCurve is the law mapping the crossfader position to deck gains.
type CrossfadeCurve int

const (
	// CurveLinear keeps both decks at full gain in the middle and fades each
	// one out linearly over its far half.
	CurveLinear CrossfadeCurve = iota
	// CurveEqualPower keeps the summed power constant across the travel.
	CurveEqualPower
)

func (c CrossfadeCurve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveEqualPower:
		return "equal-power"
	}
	return fmt.Sprintf("CrossfadeCurve(%d)", int(c))
}

// ParseCrossfadeCurve accepts "linear" and "equal-power" (also "equal_power").
func ParseCrossfadeCurve(s string) (CrossfadeCurve, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return CurveLinear, nil
	case "equal-power", "equal_power", "equalpower":
		return CurveEqualPower, nil
	}
	return CurveLinear, fmt.Errorf("unknown crossfade curve %q", s)
}

// Gains returns the deck 1 and deck 2 gains for crossfader position x.
// 0 is all deck 1, 1 is all deck 2; x is clamped to that range.
func (c CrossfadeCurve) Gains(x float32) (a, b float32) {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	if c == CurveEqualPower {
		theta := float64(x) * math.Pi / 2
		return float32(math.Cos(theta)), float32(math.Sin(theta))
	}
	a = 2 * (1 - x)
	if a > 1 {
		a = 1
	}
	b = 2 * x
	if b > 1 {
		b = 1
	}
	return a, b
}
