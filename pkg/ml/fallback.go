package ml

import (
	"math"

	"github.com/citescope/citescope/pkg/features"
)

// HeuristicFallback scores with the platform formula directly. It needs no
// training and produces the same 0-100 range as a trained model.
type HeuristicFallback struct{}

// Score evaluates the vector's platform formula.
func (HeuristicFallback) Score(v features.Vector) (float64, error) {
	f, err := FormulaFor(v.Platform)
	if err != nil {
		return 0, err
	}
	y := f.Eval(v.Map())
	return math.Round(math.Max(0, math.Min(100, y))*10) / 10, nil
}
