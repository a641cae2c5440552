package mixer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/deckmix-go/internal/control"
	"github.com/cbegin/deckmix-go/internal/deck"
)

const testRate = 44100

func sineTrack(t *testing.T, frames int, hz float64) *deck.Track {
	t.Helper()
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := range left {
		v := float32(0.5 * math.Sin(2*math.Pi*hz*float64(i)/testRate))
		left[i] = v
		right[i] = v * 0.5
	}
	tr, err := deck.NewTrack(left, right, testRate, 2)
	require.NoError(t, err)
	return tr
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.SampleRate == 0 {
		cfg.SampleRate = testRate
	}
	e := New(control.NewState(), cfg)
	e.SetRunning(true)
	return e
}

func TestStoppedEngineIsSilent(t *testing.T) {
	e := New(control.NewState(), Config{SampleRate: testRate, TestTone: true})
	e.State().Decks[0].Playing.Store(true)

	dst := []float32{1, 2, 3, 4}
	e.Process(dst)
	assert.Equal(t, []float32{0, 0, 0, 0}, dst)
}

func TestDeckOnePassthrough(t *testing.T) {
	for _, curve := range []CrossfadeCurve{CurveLinear, CurveEqualPower} {
		t.Run(curve.String(), func(t *testing.T) {
			e := newTestEngine(t, Config{BlockSize: 256, Curve: curve})
			tr := sineTrack(t, 1024, 440)
			e.Deck(1).Load(tr)

			s := e.State()
			s.Decks[0].Playing.Store(true)
			s.Decks[0].Volume.Store(1)
			s.Decks[1].Playing.Store(false)
			s.Crossfader.Store(0)
			s.MasterVolume.Store(1)

			dst := make([]float32, 2*256)
			for block := 0; block < 4; block++ {
				e.Process(dst)
				for i := 0; i < 256; i++ {
					idx := block*256 + i
					require.Equal(t, tr.Left[idx], dst[2*i], "frame %d", idx)
					require.Equal(t, tr.Right[idx], dst[2*i+1], "frame %d", idx)
				}
			}
		})
	}
}

func TestCrossfaderSelectsDeck(t *testing.T) {
	e := newTestEngine(t, Config{})
	e.Deck(1).Load(sineTrack(t, 512, 440))
	e.Deck(2).Load(sineTrack(t, 512, 440))
	s := e.State()
	s.Decks[0].Playing.Store(true)
	s.Decks[1].Playing.Store(true)
	s.Decks[0].Volume.Store(1)
	s.Decks[1].Volume.Store(1)
	s.MasterVolume.Store(1)

	s.Crossfader.Store(1)
	dst := make([]float32, 2*128)
	e.Process(dst)
	two := append([]float32(nil), dst...)

	e2 := newTestEngine(t, Config{})
	e2.Deck(2).Load(sineTrack(t, 512, 440))
	e2.State().Decks[1].Playing.Store(true)
	e2.State().Decks[1].Volume.Store(1)
	e2.State().MasterVolume.Store(1)
	e2.State().Crossfader.Store(1)
	alone := make([]float32, 2*128)
	e2.Process(alone)

	assert.Equal(t, alone, two)
}

func TestCrossfadeLawsAreMonotonic(t *testing.T) {
	for _, curve := range []CrossfadeCurve{CurveLinear, CurveEqualPower} {
		prevA, prevB := curve.Gains(0)
		assert.InDelta(t, 1, prevA, 1e-6, curve.String())
		assert.InDelta(t, 0, prevB, 1e-6, curve.String())
		for i := 1; i <= 100; i++ {
			a, b := curve.Gains(float32(i) / 100)
			assert.LessOrEqual(t, a, prevA, "%s at %d", curve, i)
			assert.GreaterOrEqual(t, b, prevB, "%s at %d", curve, i)
			prevA, prevB = a, b
		}
		assert.InDelta(t, 0, prevA, 1e-6, curve.String())
		assert.InDelta(t, 1, prevB, 1e-6, curve.String())
	}
}

func TestLinearCurveMidpoint(t *testing.T) {
	a, b := CurveLinear.Gains(0.5)
	assert.Equal(t, float32(1), a)
	assert.Equal(t, float32(1), b)

	a, b = CurveEqualPower.Gains(0.5)
	assert.InDelta(t, 1, a*a+b*b, 1e-6)

	a, b = CurveLinear.Gains(-3)
	assert.Equal(t, float32(1), a)
	assert.Equal(t, float32(0), b)
}

func TestMasterVolumeScales(t *testing.T) {
	e := newTestEngine(t, Config{})
	tr := sineTrack(t, 256, 1000)
	e.Deck(1).Load(tr)
	s := e.State()
	s.Decks[0].Playing.Store(true)
	s.Decks[0].Volume.Store(1)
	s.Crossfader.Store(0)
	s.MasterVolume.Store(0.25)

	dst := make([]float32, 2*64)
	e.Process(dst)
	for i := 0; i < 64; i++ {
		assert.InDelta(t, tr.Left[i]*0.25, dst[2*i], 1e-7)
	}
}

func TestLimiterBoundsLoudMix(t *testing.T) {
	e := newTestEngine(t, Config{Limiter: true})
	left := make([]float32, testRate/10)
	for i := range left {
		left[i] = 1
	}
	for n := 1; n <= 2; n++ {
		tr, err := deck.NewTrack(left, nil, testRate, 1)
		require.NoError(t, err)
		e.Deck(n).Load(tr)
		e.State().Decks[n-1].Playing.Store(true)
		e.State().Decks[n-1].Volume.Store(1)
	}
	e.State().MasterVolume.Store(1)

	dst := make([]float32, 2*1024)
	for i := 0; i < 4; i++ {
		e.Process(dst)
	}
	for _, v := range dst {
		assert.Less(t, v, float32(1.2))
	}
}

func TestSampleTapSeesEveryPeriod(t *testing.T) {
	var periods, frames int
	e := newTestEngine(t, Config{Tap: func(dst []float32) {
		periods++
		frames += len(dst) / 2
	}})
	dst := make([]float32, 2*100)
	e.Process(dst)
	e.Process(dst)
	assert.Equal(t, 2, periods)
	assert.Equal(t, 200, frames)
}

func TestLargerBlockGrowsScratch(t *testing.T) {
	e := newTestEngine(t, Config{BlockSize: 16})
	tr := sineTrack(t, 4096, 220)
	e.Deck(1).Load(tr)
	s := e.State()
	s.Decks[0].Playing.Store(true)
	s.Decks[0].Volume.Store(1)
	s.Crossfader.Store(0)
	s.MasterVolume.Store(1)

	dst := make([]float32, 2*1000)
	e.Process(dst)
	assert.Equal(t, tr.Left[999], dst[2*999])
	assert.EqualValues(t, 1000, e.Deck(1).Position())
}

func TestStopPolicyThroughEngine(t *testing.T) {
	e := newTestEngine(t, Config{EndPolicy: deck.EndStop})
	e.Deck(1).Load(sineTrack(t, 100, 440))
	e.State().Decks[0].Playing.Store(true)

	e.Process(make([]float32, 2*128))
	assert.False(t, e.State().Decks[0].Playing.Load())
	assert.Zero(t, e.Deck(1).Position())
}

func TestParsers(t *testing.T) {
	c, err := ParseCrossfadeCurve("Equal-Power")
	require.NoError(t, err)
	assert.Equal(t, CurveEqualPower, c)
	_, err = ParseCrossfadeCurve("log")
	assert.Error(t, err)

	p, err := ParseEndOfTrack("stop")
	require.NoError(t, err)
	assert.Equal(t, deck.EndStop, p)
	p, err = ParseEndOfTrack("")
	require.NoError(t, err)
	assert.Equal(t, deck.EndLoop, p)
	_, err = ParseEndOfTrack("pingpong")
	assert.Error(t, err)

	assert.Nil(t, New(control.NewState(), Config{SampleRate: testRate}).Deck(3))
}

func TestRenderIgnoresRunningFlag(t *testing.T) {
	e := New(control.NewState(), Config{SampleRate: testRate})
	tr := sineTrack(t, 64, 1000)
	e.Deck(1).Load(tr)
	s := e.State()
	s.Decks[0].Playing.Store(true)
	s.Decks[0].Volume.Store(1)
	s.Crossfader.Store(0)
	s.MasterVolume.Store(1)

	dst := make([]float32, 2*8)
	e.Render(dst)
	assert.Equal(t, tr.Left[3], dst[6])
	assert.False(t, e.Running())
}
