package reroll

import "fmt"

// Sampler draws one buff from a candidate set proportionally to weight.
type Sampler struct {
	RNG RandomSource
}

// NewSampler creates a sampler; nil rng falls back to DefaultRNG.
func NewSampler(rng RandomSource) *Sampler {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Sampler{RNG: rng}
}

// Choose walks candidates in order with a single draw r in [0, total) and
// returns the first candidate whose cumulative weight is strictly greater than r.
func (s *Sampler) Choose(candidates []Buff) (Buff, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: choose from empty candidate set", ErrInvariantViolation)
	}
	var total float64
	for _, b := range candidates {
		total += b.Weight()
	}
	r := s.RNG.Range(0, total)

	var accum float64
	for _, b := range candidates {
		accum += b.Weight()
		if r < accum {
			return b, nil
		}
	}
	// only reachable through float rounding at the top of the range
	return candidates[len(candidates)-1], nil
}

// without returns candidates minus b, preserving order.
func without(candidates []Buff, b Buff) []Buff {
	out := candidates[:0]
	for _, c := range candidates {
		if c != b {
			out = append(out, c)
		}
	}
	return out
}
