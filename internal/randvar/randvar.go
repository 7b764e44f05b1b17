// Package randvar provides the uniform randomness abstraction and the
// Normal/Poisson variate samplers used by the Monte Carlo engine.
//
// Production code draws from independently seeded sources (one per worker);
// tests inject fixed seeds to make simulation output reproducible.
package randvar

import (
	"math/rand"
	"time"
)

// Rand is the uniform source consumed by Sampler. *rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a pseudo-random number in [0,1).
	Float64() float64
}

// NewSource returns a time-seeded uniform source. Each call produces an
// independent stream; output is intentionally non-deterministic.
func NewSource() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededSource returns a deterministic uniform source for reproducible
// runs. The same seed always yields the same draw sequence.
func NewSeededSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
