package effects

const (
	reverbMaxSeconds = 1.0
	reverbTapWeight  = 0.33
	reverbFeedback   = 0.2
	reverbMix        = 0.3
)

var reverbTapSeconds = [3]float64{0.05, 0.10, 0.15}

// Reverb sums three early-reflection taps off one feedback line per channel.
type Reverb struct {
	taps  [3]int
	lineL *DelayLine
	lineR *DelayLine
}

func NewReverb(sampleRate int) *Reverb {
	r := &Reverb{
		lineL: NewDelayLineSeconds(reverbMaxSeconds, sampleRate),
		lineR: NewDelayLineSeconds(reverbMaxSeconds, sampleRate),
	}
	for i, sec := range reverbTapSeconds {
		r.taps[i] = r.lineL.ClampTap(int(sec * float64(sampleRate)))
	}
	return r
}

func (r *Reverb) Process(l, r2 float32) (float32, float32) {
	reflL := r.reflection(r.lineL)
	reflR := r.reflection(r.lineR)
	r.lineL.Write(l + reflL*reverbFeedback)
	r.lineR.Write(r2 + reflR*reverbFeedback)
	return l + reflL*reverbMix, r2 + reflR*reverbMix
}

func (r *Reverb) reflection(line *DelayLine) float32 {
	var sum float32
	for _, t := range r.taps {
		sum += line.Read(t)
	}
	return sum * reverbTapWeight
}

func (r *Reverb) Reset() {
	r.lineL.Reset()
	r.lineR.Reset()
}
