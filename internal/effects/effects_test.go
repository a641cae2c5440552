package effects

import (
	"math"
	"testing"
)

func impulseResponse(e Effector, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		in := float32(0)
		if i == 0 {
			in = 1
		}
		out[i], _ = e.Process(in, in)
	}
	return out
}

func TestFlangerStaticDelay(t *testing.T) {
	f := NewFlanger(testRate)
	f.SetDepth(0)
	tap := int(f.base * f.sampleRate)
	out := impulseResponse(f, tap+5)
	if out[0] != 1 {
		t.Errorf("dry impulse = %f, want 1", out[0])
	}
	if math.Abs(float64(out[tap])-flangerMix) > 1e-6 {
		t.Errorf("delayed copy at %d = %f, want %f", tap, out[tap], flangerMix)
	}
	for i := 1; i < len(out); i++ {
		if i != tap && out[i] != 0 {
			t.Errorf("unexpected output %f at %d", out[i], i)
		}
	}
}

func TestFlangerRateRadians(t *testing.T) {
	f := NewFlanger(testRate)
	want := flangerRadPerSample * testRate / (2 * math.Pi)
	if math.Abs(f.Rate()-want) > 1e-9 {
		t.Fatalf("default rate = %v Hz, want %v", f.Rate(), want)
	}
	f.SetRateRadians(2 * flangerRadPerSample)
	if math.Abs(f.Rate()-2*want) > 1e-9 {
		t.Errorf("rate = %v Hz, want %v", f.Rate(), 2*want)
	}
	f.SetRate(-1)
	if f.Rate() != 0 {
		t.Errorf("negative rate = %v, want 0", f.Rate())
	}
}

func TestFlangerSweepStaysInLine(t *testing.T) {
	f := NewFlanger(testRate)
	f.SetDepth(0.5) // far beyond the line, taps must clamp
	f.SetRate(3)
	for i := 0; i < testRate; i++ {
		l, r := f.Process(0.5, -0.5)
		if math.Abs(float64(l)) > 0.75+1e-6 || math.Abs(float64(r)) > 0.75+1e-6 {
			t.Fatalf("sample %d out of range: %f %f", i, l, r)
		}
	}
	if f.Rate() != 3 || f.Depth() != 0.5 {
		t.Errorf("rate/depth = %v/%v", f.Rate(), f.Depth())
	}
}

func TestEchoFeedbackRepeats(t *testing.T) {
	e := NewEcho(testRate)
	tap := int(echoTapSeconds * testRate)
	out := impulseResponse(e, 2*tap+1)
	if math.Abs(float64(out[tap])-echoMix) > 1e-6 {
		t.Errorf("first repeat = %f, want %f", out[tap], echoMix)
	}
	want := echoMix * echoFeedback
	if math.Abs(float64(out[2*tap])-want) > 1e-6 {
		t.Errorf("second repeat = %f, want %f", out[2*tap], want)
	}
}

func TestReverbEarlyReflections(t *testing.T) {
	r := NewReverb(testRate)
	first := int(reverbTapSeconds[0] * testRate)
	out := impulseResponse(r, first+1)
	want := float32(reverbTapWeight * reverbMix)
	if math.Abs(float64(out[first]-want)) > 1e-6 {
		t.Errorf("first reflection = %f, want %f", out[first], want)
	}
	var tail float32
	r2 := NewReverb(testRate)
	for i, v := range impulseResponse(r2, testRate) {
		if i > first && v > tail {
			tail = v
		}
		if math.IsNaN(float64(v)) || v > 2 {
			t.Fatalf("reverb diverged at %d: %f", i, v)
		}
	}
	if tail <= 0 {
		t.Error("expected a reverb tail")
	}
}

func TestFilterAttenuatesHighFrequencies(t *testing.T) {
	f := NewFilter(testRate)
	f.SetCutoff(500)
	var peak float64
	for i := 0; i < testRate/4; i++ {
		x := float32(math.Sin(2 * math.Pi * 8000 * float64(i) / testRate))
		l, _ := f.Process(x, x)
		if i > 1000 && math.Abs(float64(l)) > peak {
			peak = math.Abs(float64(l))
		}
	}
	if peak > 0.05 {
		t.Errorf("8 kHz through 500 Hz lowpass peaked at %f", peak)
	}
}

func TestFilterClampsParameters(t *testing.T) {
	f := NewFilter(testRate)
	f.SetCutoff(1)
	f.SetResonance(0)
	if f.Cutoff() != minFilterCutoff || f.Resonance() != minFilterResonance {
		t.Errorf("low clamp: cutoff=%v q=%v", f.Cutoff(), f.Resonance())
	}
	f.SetCutoff(1e6)
	f.SetResonance(1e3)
	if math.Abs(f.Cutoff()-testRate*0.45) > 1e-6 || f.Resonance() != maxFilterResonance {
		t.Errorf("high clamp: cutoff=%v q=%v", f.Cutoff(), f.Resonance())
	}
}

func TestFilterIgnoresNaN(t *testing.T) {
	f := NewFilter(testRate)
	f.SetCutoff(2000)
	f.SetResonance(2)
	f.SetCutoff(math.NaN())
	f.SetResonance(math.NaN())
	if f.Cutoff() != 2000 || f.Resonance() != 2 {
		t.Fatalf("NaN changed parameters: cutoff=%v q=%v", f.Cutoff(), f.Resonance())
	}
	for i := 0; i < 64; i++ {
		l, r := f.Process(0.5, 0.5)
		if math.IsNaN(float64(l)) || math.IsNaN(float64(r)) {
			t.Fatalf("NaN output at sample %d", i)
		}
	}
}

func TestChainAppliesEffectsInOrder(t *testing.T) {
	c := NewChain(NewFilter(testRate))
	c.Add(NewEcho(testRate))
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
	l, r := c.Process(0.5, 0.5)
	if l == 0 || r == 0 {
		t.Error("chain should produce output")
	}
	c.Reset()
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewLimiter(testRate)
	var out float32
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(1.0, 1.0)
	}
	if out >= 1.0 || out < 0.8 {
		t.Errorf("limiter output %f, want just under the ceiling", out)
	}
}

func TestCompressorPassesQuiet(t *testing.T) {
	c := NewLimiter(testRate)
	for i := 0; i < 1000; i++ {
		l, r := c.Process(0.2, -0.2)
		if l != 0.2 || r != -0.2 {
			t.Fatalf("quiet signal changed at %d: %f %f", i, l, r)
		}
	}
}

func TestParseKindAndBand(t *testing.T) {
	for id, want := range []Kind{KindFlanger, KindFilter, KindEcho, KindReverb} {
		got, ok := ParseKind(id)
		if !ok || got != want {
			t.Errorf("ParseKind(%d) = %v,%v", id, got, ok)
		}
	}
	if _, ok := ParseKind(4); ok {
		t.Error("ParseKind(4) should fail")
	}
	if _, ok := ParseBand(3); ok {
		t.Error("ParseBand(3) should fail")
	}
	if KindReverb.String() != "reverb" || BandMid.String() != "mid" {
		t.Error("unexpected names")
	}
}
