// Package sampling manufactures illustrative salary spreads from a single
// reported range. The samples are not measured data and must only feed
// histogram-style displays.
package sampling

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"itoffers/services/dashboard/internal/models"
)

const DefaultSampleSize = 1000

// Generator is the randomness behind Synthesize. A nil source draws from the
// process-wide generator, which is unseeded.
type Generator struct {
	src rand.Source
}

// NewGenerator returns a deterministic generator for seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// NewUnseeded returns a generator backed by the global source.
func NewUnseeded() *Generator {
	return &Generator{}
}

// Spread returns the standard deviation used for a range:
// max(mean*0.1, (max-min)/2) / 3.
func Spread(min, max float64) float64 {
	mean := (max + min) / 2
	return math.Max(mean*0.1, (max-min)/2) / 3
}

// Synthesize draws n normally distributed samples centred on the range
// midpoint, each rounded half to even. It returns nil when a bound is missing.
// A zero-width range at 0 yields n zeros.
func Synthesize(r models.SalaryRange, n int, gen *Generator) []float64 {
	if !r.Complete() || n <= 0 {
		return nil
	}
	if gen == nil {
		gen = NewUnseeded()
	}

	dist := distuv.Normal{
		Mu:    (*r.Max + *r.Min) / 2,
		Sigma: Spread(*r.Min, *r.Max),
		Src:   gen.src,
	}

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.RoundToEven(dist.Rand())
	}
	return samples
}
