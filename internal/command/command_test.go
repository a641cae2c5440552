package command

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	deck int
	id   int
	f    float64
	b    bool
	s    string
}

type fakeSurface struct {
	calls   []call
	loadErr error
}

func (f *fakeSurface) add(c call) { f.calls = append(f.calls, c) }

func (f *fakeSurface) SetDeckPlaying(d int, p bool)     { f.add(call{name: "playing", deck: d, b: p}) }
func (f *fakeSurface) SetDeckVolume(d int, v float32)   { f.add(call{name: "volume", deck: d, f: float64(v)}) }
func (f *fakeSurface) SetDeckPitch(d int, v float32)    { f.add(call{name: "pitch", deck: d, f: float64(v)}) }
func (f *fakeSurface) SetDeckPosition(d int, v float64) { f.add(call{name: "seek", deck: d, f: v}) }
func (f *fakeSurface) SetDeckFile(d int, p string) error {
	f.add(call{name: "load", deck: d, s: p})
	return f.loadErr
}
func (f *fakeSurface) SetEffect(d, e int, on bool)         { f.add(call{name: "effect", deck: d, id: e, b: on}) }
func (f *fakeSurface) SetEQ(d, b int, v float32)           { f.add(call{name: "eq", deck: d, id: b, f: float64(v)}) }
func (f *fakeSurface) SetFilterCutoff(d int, v float32)    { f.add(call{name: "cutoff", deck: d, f: float64(v)}) }
func (f *fakeSurface) SetFilterResonance(d int, v float32) { f.add(call{name: "resonance", deck: d, f: float64(v)}) }
func (f *fakeSurface) SetFlangerRate(d int, v float32)     { f.add(call{name: "flanger-rate", deck: d, f: float64(v)}) }
func (f *fakeSurface) SetFlangerDepth(d int, v float32)    { f.add(call{name: "flanger-depth", deck: d, f: float64(v)}) }
func (f *fakeSurface) SetCrossfader(v float32)             { f.add(call{name: "crossfader", f: float64(v)}) }
func (f *fakeSurface) SetMasterVolume(v float32)           { f.add(call{name: "master", f: float64(v)}) }
func (f *fakeSurface) SetHeadphoneVolume(v float32)        { f.add(call{name: "headphone", f: float64(v)}) }
func (f *fakeSurface) DeckPosition(d int) float64          { return 0.25 }
func (f *fakeSurface) DeckLoaded(d int) bool               { return d == 1 }
func (f *fakeSurface) DeckDuration(d int) float64          { return 12 }

func TestExecDispatch(t *testing.T) {
	tests := []struct {
		line string
		want call
	}{
		{"play 1", call{name: "playing", deck: 1, b: true}},
		{"play 2 off", call{name: "playing", deck: 2, b: false}},
		{"stop 1", call{name: "playing", deck: 1, b: false}},
		{"volume 2 0.5", call{name: "volume", deck: 2, f: 0.5}},
		{"pitch 1 -0.25", call{name: "pitch", deck: 1, f: -0.25}},
		{"seek 1 0.75", call{name: "seek", deck: 1, f: 0.75}},
		{"effect 2 echo on", call{name: "effect", deck: 2, id: 2, b: true}},
		{"effect 1 0 false", call{name: "effect", deck: 1, id: 0, b: false}},
		{"EQ 1 high -1", call{name: "eq", deck: 1, id: 2, f: -1}},
		{"cutoff 1 2000", call{name: "cutoff", deck: 1, f: 2000}},
		{"resonance 2 4", call{name: "resonance", deck: 2, f: 4}},
		{"flanger-rate 1 0.5", call{name: "flanger-rate", deck: 1, f: 0.5}},
		{"flanger-depth 2 3", call{name: "flanger-depth", deck: 2, f: 3}},
		{"crossfader 0.25", call{name: "crossfader", f: 0.25}},
		{"master 1", call{name: "master", f: 1}},
		{"headphone 0.5", call{name: "headphone", f: 0.5}},
		{"load 1 /tmp/my song.wav", call{name: "load", deck: 1, s: "/tmp/my song.wav"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := &fakeSurface{}
			require.NoError(t, Exec(s, tt.line, &bytes.Buffer{}))
			require.Len(t, s.calls, 1)
			assert.Equal(t, tt.want, s.calls[0])
		})
	}
}

func TestExecDeckRangeIsLeftToSurface(t *testing.T) {
	s := &fakeSurface{}
	require.NoError(t, Exec(s, "volume 7 0.5", &bytes.Buffer{}))
	assert.Equal(t, 7, s.calls[0].deck)
}

func TestExecErrors(t *testing.T) {
	s := &fakeSurface{}
	assert.ErrorIs(t, Exec(s, "scratch 1", &bytes.Buffer{}), ErrUnknownCommand)
	assert.ErrorIs(t, Exec(s, "volume 1", &bytes.Buffer{}), ErrUsage)
	assert.ErrorIs(t, Exec(s, "load 1", &bytes.Buffer{}), ErrUsage)
	assert.ErrorIs(t, Exec(s, "quit", &bytes.Buffer{}), ErrQuit)
	assert.Error(t, Exec(s, "volume one 0.5", &bytes.Buffer{}))
	assert.Error(t, Exec(s, "effect 1 phaser on", &bytes.Buffer{}))
	assert.Error(t, Exec(s, "play 1 maybe", &bytes.Buffer{}))
	assert.Empty(t, s.calls)

	assert.NoError(t, Exec(s, "", &bytes.Buffer{}))
	assert.NoError(t, Exec(s, "  # comment", &bytes.Buffer{}))
}

func TestExecLoadFailure(t *testing.T) {
	s := &fakeSurface{loadErr: errors.New("boom")}
	var out bytes.Buffer
	assert.EqualError(t, Exec(s, "load 2 x.mp3", &out), "boom")
	assert.Empty(t, out.String())
}

func TestStatusAndHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Exec(&fakeSurface{}, "status", &out))
	assert.Equal(t, "deck 1: 0.250 of 12.00s\ndeck 2: empty\n", out.String())

	out.Reset()
	require.NoError(t, Exec(&fakeSurface{}, "help", &out))
	assert.Contains(t, out.String(), "crossfader <0..1>")
}

func TestRunStopsAtQuit(t *testing.T) {
	s := &fakeSurface{}
	in := strings.NewReader("play 1\nbogus\nquit\nplay 2\n")
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), s, in, &out))
	require.Len(t, s.calls, 1)
	assert.Contains(t, out.String(), "error: unknown command: bogus")
}

func TestRunStopsAtEOF(t *testing.T) {
	s := &fakeSurface{}
	require.NoError(t, Run(context.Background(), s, strings.NewReader("master 0.5\n"), &bytes.Buffer{}))
	assert.Len(t, s.calls, 1)
}

type blockingReader struct{ done chan struct{} }

func (r blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, errors.New("closed")
}

func TestRunHonoursContext(t *testing.T) {
	r := blockingReader{done: make(chan struct{})}
	defer close(r.done)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := Run(ctx, &fakeSurface{}, r, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
