package randvar

import "math"

// Sampler draws Normal- and Poisson-distributed variates from a uniform
// source. Not safe for concurrent use; create one Sampler per goroutine.
type Sampler struct {
	rng Rand
}

// NewSampler creates a Sampler over the given uniform source.
func NewSampler(rng Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Uniform returns a raw uniform draw in [0,1), for win/loss coin flips.
func (s *Sampler) Uniform() float64 {
	return s.rng.Float64()
}

// Normal returns a sample from N(mean, stdDev^2) via the Box-Muller
// transform. The first uniform draw is clamped away from zero because
// log(0) is undefined.
func (s *Sampler) Normal(mean, stdDev float64) float64 {
	u1 := s.rng.Float64()
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	u2 := s.rng.Float64()

	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stdDev
}

// Poisson returns a sample from Poisson(lambda) using Knuth's algorithm:
// multiply uniform draws into an accumulator until it falls below
// exp(-lambda). Run time grows linearly with lambda and precision degrades
// past lambda of roughly 30; acceptable for trades-per-day rates.
// Non-positive lambda returns 0.
func (s *Sampler) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}

	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for p > l {
		k++
		p *= s.rng.Float64()
	}
	return k - 1
}
