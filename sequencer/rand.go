package sequencer

import (
	"math/rand"
	"time"
)

// Rand is the random source threaded through lanes and resolvers.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source. Seed 0 seeds from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
