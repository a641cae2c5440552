package effects

const (
	echoMaxSeconds = 2.0
	echoTapSeconds = 0.3
	echoFeedback   = 0.3
	echoMix        = 0.4
)

// Echo is a single 300 ms tap with feedback.
type Echo struct {
	tap   int
	lineL *DelayLine
	lineR *DelayLine
}

func NewEcho(sampleRate int) *Echo {
	e := &Echo{
		lineL: NewDelayLineSeconds(echoMaxSeconds, sampleRate),
		lineR: NewDelayLineSeconds(echoMaxSeconds, sampleRate),
	}
	e.tap = e.lineL.ClampTap(int(echoTapSeconds * float64(sampleRate)))
	return e
}

func (e *Echo) Process(l, r float32) (float32, float32) {
	dl := e.lineL.Read(e.tap)
	dr := e.lineR.Read(e.tap)
	e.lineL.Write(l + dl*echoFeedback)
	e.lineR.Write(r + dr*echoFeedback)
	return l + dl*echoMix, r + dr*echoMix
}

func (e *Echo) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
}
