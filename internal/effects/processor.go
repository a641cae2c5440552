package effects

// Processor is a deck's effects chain: EQ, then the enabled inserts in
// Kinds order, then volume. It is single-threaded; only the goroutine that
// renders the deck may call its methods.
//
// Toggling an insert never clears its delay lines, so re-enabling an echo
// replays whatever was buffered when it was switched off.
type Processor struct {
	sampleRate int
	volume     float32
	pitch      float32
	eq         *EQ3Band
	flanger    *Flanger
	filter     *Filter
	inserts    [numKinds]Effector
	enabled    [numKinds]bool
}

// NewProcessor returns a processor with a flat EQ, all inserts off and unity
// volume. It is usable immediately.
func NewProcessor(sampleRate int) *Processor {
	p := &Processor{
		sampleRate: sampleRate,
		volume:     1,
		eq:         NewEQ3Band(sampleRate),
		flanger:    NewFlanger(sampleRate),
		filter:     NewFilter(sampleRate),
	}
	p.inserts[KindFlanger] = p.flanger
	p.inserts[KindFilter] = p.filter
	p.inserts[KindEcho] = NewEcho(sampleRate)
	p.inserts[KindReverb] = NewReverb(sampleRate)
	return p
}

func (p *Processor) SetVolume(v float32) { p.volume = v }
func (p *Processor) Volume() float32     { return p.volume }

// SetPitch stores the pitch value. It is not applied to the signal.
func (p *Processor) SetPitch(v float32) { p.pitch = v }
func (p *Processor) Pitch() float32     { return p.pitch }

// SetEQ sets a band value in [-1, 1] (±12 dB). Returns false for an unknown band.
func (p *Processor) SetEQ(b Band, value float32) bool {
	return p.eq.SetBand(b, value)
}

func (p *Processor) EQ(b Band) float32 { return p.eq.Band(b) }

// SetEffect enables or disables an insert. Returns false for an unknown kind.
func (p *Processor) SetEffect(k Kind, enabled bool) bool {
	if k < 0 || k >= numKinds {
		return false
	}
	p.enabled[k] = enabled
	return true
}

func (p *Processor) Enabled(k Kind) bool {
	if k < 0 || k >= numKinds {
		return false
	}
	return p.enabled[k]
}

// Flanger exposes the flanger insert for rate/depth changes.
func (p *Processor) Flanger() *Flanger { return p.flanger }

// Filter exposes the filter insert for cutoff/resonance changes.
func (p *Processor) Filter() *Filter { return p.filter }

func (p *Processor) Process(l, r float32) (float32, float32) {
	l, r = p.eq.Process(l, r)
	for k, fx := range p.inserts {
		if p.enabled[k] {
			l, r = fx.Process(l, r)
		}
	}
	return l * p.volume, r * p.volume
}

// Reset clears all filter history and delay lines. Parameters are kept.
func (p *Processor) Reset() {
	p.eq.Reset()
	for _, fx := range p.inserts {
		fx.Reset()
	}
}
