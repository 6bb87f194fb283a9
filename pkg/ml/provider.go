package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/citescope/citescope/pkg/platform"
)

// Example is one labeled training row. Features follow the platform's
// vector order.
type Example struct {
	Features []float64 `json:"features"`
	Target   float64   `json:"target"`
}

// TrainingDataProvider supplies the base training set for a platform.
type TrainingDataProvider interface {
	Samples(ctx context.Context, p platform.Platform, names []string) ([]Example, error)
}

// SyntheticProvider generates labeled examples from each platform's formula
// plus Gaussian noise. Output is fully determined by Seed.
type SyntheticProvider struct {
	Seed  int64
	Size  int
	Noise float64 // standard deviation of the target noise
}

// DefaultSyntheticProvider returns the provider used when nothing else is
// configured.
func DefaultSyntheticProvider() SyntheticProvider {
	return SyntheticProvider{Seed: 42, Size: 1000, Noise: 5}
}

// Samples draws Size examples. Each platform uses its own stream so adding
// a platform never changes another platform's data.
func (s SyntheticProvider) Samples(ctx context.Context, p platform.Platform, names []string) ([]Example, error) {
	f, err := FormulaFor(p)
	if err != nil {
		return nil, err
	}
	terms := make([]Term, len(names))
	for i, n := range names {
		t, ok := f.Term(n)
		if !ok {
			return nil, fmt.Errorf("%s: no synthetic distribution for feature %s", p, n)
		}
		terms[i] = t
	}

	rng := rand.New(rand.NewSource(s.Seed + int64(p.Ordinal())))
	out := make([]Example, 0, s.Size)
	values := make(map[string]float64, len(names))

	for i := 0; i < s.Size; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x := make([]float64, len(terms))
		for j, t := range terms {
			v := t.Min + rng.Float64()*(t.Max-t.Min)
			if !t.Continuous {
				v = math.Round(v)
			}
			x[j] = v
			values[t.Feature] = v
		}
		y := f.Eval(values) + rng.NormFloat64()*s.Noise
		out = append(out, Example{Features: x, Target: math.Max(0, math.Min(100, y))})
	}
	return out, nil
}
