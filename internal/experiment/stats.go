package experiment

import (
	"math"
	"sort"
)

// Collector is the statistics sink a run records into.
type Collector interface {
	Record(v float64)
	Count() int
	Mean() float64
	StdDev() float64
}

// Stats summarizes simulation results.
type Stats struct {
	Count  int
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Histogram counts samples by integer value (all recorded metrics are whole numbers).
	Histogram map[int]int `json:"-"`
}

// Share returns the fraction of samples equal to v.
func (s Stats) Share(v int) float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Histogram[v]) / float64(s.Count)
}

// Samples is a Collector that keeps every value.
type Samples struct {
	xs []float64
}

// NewSamples preallocates room for n values.
func NewSamples(n int) *Samples {
	if n < 0 {
		n = 0
	}
	return &Samples{xs: make([]float64, 0, n)}
}

func (s *Samples) Record(v float64) { s.xs = append(s.xs, v) }

func (s *Samples) Count() int { return len(s.xs) }

func (s *Samples) Mean() float64 {
	if len(s.xs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.xs {
		sum += v
	}
	return sum / float64(len(s.xs))
}

// StdDev is the population standard deviation.
func (s *Samples) StdDev() float64 {
	return math.Sqrt(s.variance(s.Mean()))
}

func (s *Samples) variance(mean float64) float64 {
	n := len(s.xs)
	if n == 0 {
		return 0
	}
	var acc float64
	for _, v := range s.xs {
		d := v - mean
		acc += d * d
	}
	return acc / float64(n)
}

// Values returns the recorded values in order.
func (s *Samples) Values() []float64 { return s.xs }

// Stats computes mean/variance/percentiles/histogram.
func (s *Samples) Stats() Stats {
	n := len(s.xs)
	if n == 0 {
		return Stats{}
	}
	mean := s.Mean()
	variance := s.variance(mean)

	cp := append([]float64(nil), s.xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	hist := make(map[int]int)
	for _, v := range s.xs {
		hist[int(math.Round(v))]++
	}

	return Stats{
		Count:     n,
		Mean:      mean,
		Var:       variance,
		StdDev:    math.Sqrt(variance),
		P50:       percentile(0.50),
		P90:       percentile(0.90),
		P99:       percentile(0.99),
		Histogram: hist,
	}
}
