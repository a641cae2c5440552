package control

import (
	"math"
	"sync/atomic"
)

// Float32 is a float32 that can be loaded and stored atomically. The value
// is kept as its IEEE bit pattern.
type Float32 struct {
	bits atomic.Uint32
}

func (f *Float32) Load() float32   { return math.Float32frombits(f.bits.Load()) }
func (f *Float32) Store(v float32) { f.bits.Store(math.Float32bits(v)) }
