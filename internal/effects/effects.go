package effects

import "fmt"

// Effector processes stereo audio in-place.
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Kind identifies a deck insert effect. The numeric values are part of the
// control interface: 0=flanger, 1=filter, 2=echo, 3=reverb.
type Kind int

const (
	KindFlanger Kind = iota
	KindFilter
	KindEcho
	KindReverb

	numKinds
)

// Kinds lists every insert effect in processing order.
var Kinds = [numKinds]Kind{KindFlanger, KindFilter, KindEcho, KindReverb}

// ParseKind maps a numeric effect id to a Kind.
func ParseKind(id int) (Kind, bool) {
	if id < 0 || id >= int(numKinds) {
		return 0, false
	}
	return Kind(id), true
}

func (k Kind) String() string {
	switch k {
	case KindFlanger:
		return "flanger"
	case KindFilter:
		return "filter"
	case KindEcho:
		return "echo"
	case KindReverb:
		return "reverb"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

// Len reports how many effects are in the chain.
func (c *Chain) Len() int { return len(c.effects) }
