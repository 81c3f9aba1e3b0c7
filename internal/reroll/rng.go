package reroll

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstract
type RandomSource interface {
	Range(lo, hi float64) float64 // uniform in [lo, hi)
}

// crypto random : default generation method
type cryptoRNG struct{}

func (cryptoRNG) Range(lo, hi float64) float64 {
	return scale(cryptoFloat64(), lo, hi)
}

// cryptoFloat64 reads 53 random bits => [0, 1)
func cryptoFloat64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (e.g. Monte Carlo)
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Range(lo, hi float64) float64 { return scale(s.r.Float64(), lo, hi) }

// scriptedRNG replays fixed fractions of the requested range, cycling when exhausted.
type scriptedRNG struct {
	fractions []float64
	next      int
}

// NewScriptedRNG returns a source whose n-th draw is lo + fractions[n]*(hi-lo).
// Fractions should lie in [0, 1). With no fractions every draw returns lo.
func NewScriptedRNG(fractions ...float64) RandomSource {
	return &scriptedRNG{fractions: append([]float64(nil), fractions...)}
}

func (s *scriptedRNG) Range(lo, hi float64) float64 {
	if len(s.fractions) == 0 {
		return lo
	}
	f := s.fractions[s.next%len(s.fractions)]
	s.next++
	return scale(f, lo, hi)
}

func scale(f, lo, hi float64) float64 {
	return lo + f*(hi-lo)
}
