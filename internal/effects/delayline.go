package effects

// DelayLine is a fixed-capacity circular buffer with a single write cursor.
// Read(d) returns the sample written d writes ago.
type DelayLine struct {
	buf []float32
	pos int
}

// NewDelayLine allocates a line holding capacity samples (at least 1).
func NewDelayLine(capacity int) *DelayLine {
	if capacity < 1 {
		capacity = 1
	}
	return &DelayLine{buf: make([]float32, capacity)}
}

// NewDelayLineSeconds sizes a line for maxSeconds of audio at sampleRate.
func NewDelayLineSeconds(maxSeconds float64, sampleRate int) *DelayLine {
	return NewDelayLine(int(maxSeconds * float64(sampleRate)))
}

func (d *DelayLine) Capacity() int { return len(d.buf) }

func (d *DelayLine) Write(x float32) {
	d.buf[d.pos] = x
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
}

// Read taps the line delay samples behind the write cursor, so Read(1) is
// the most recent write. delay is clamped to [0, Capacity()-1]; Read(0)
// returns the slot the next Write will overwrite, which for a full line is
// the sample written Capacity() writes ago.
func (d *DelayLine) Read(delay int) float32 {
	n := len(d.buf)
	if delay < 0 {
		delay = 0
	} else if delay > n-1 {
		delay = n - 1
	}
	return d.buf[(d.pos-delay+n)%n]
}

// ClampTap bounds a tap for effects that need at least one sample of delay.
func (d *DelayLine) ClampTap(delay int) int {
	if delay > len(d.buf)-1 {
		delay = len(d.buf) - 1
	}
	if delay < 1 {
		delay = 1
	}
	return delay
}

func (d *DelayLine) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.pos = 0
}
