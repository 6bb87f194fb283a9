package ml

import (
	"errors"
	"fmt"
	"math"
)

// Scaler standardizes features to zero mean and unit variance.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column mean and standard deviation. Constant
// columns get a standard deviation of 1.
func FitScaler(X [][]float64) Scaler {
	if len(X) == 0 {
		return Scaler{}
	}
	d := len(X[0])
	s := Scaler{Mean: make([]float64, d), Std: make([]float64, d)}
	n := float64(len(X))

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			diff := v - s.Mean[j]
			s.Std[j] += diff * diff
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] < 1e-12 {
			s.Std[j] = 1
		}
	}
	return s
}

// Transform standardizes one row.
func (s Scaler) Transform(x []float64) []float64 {
	z := make([]float64, len(x))
	for j, v := range x {
		z[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return z
}

// Regressor is a linear model over standardized features.
type Regressor struct {
	Weights   []float64
	Intercept float64
}

// Predict returns the raw (unclamped) prediction for standardized z.
func (r Regressor) Predict(z []float64) float64 {
	y := r.Intercept
	for j, w := range r.Weights {
		y += w * z[j]
	}
	return y
}

// Importance returns each feature's share of the absolute standardized
// weights, in percent.
func (r Regressor) Importance(names []string) map[string]float64 {
	out := make(map[string]float64, len(names))
	var total float64
	for _, w := range r.Weights {
		total += math.Abs(w)
	}
	for j, n := range names {
		if total == 0 || j >= len(r.Weights) {
			out[n] = 0
			continue
		}
		out[n] = math.Round(math.Abs(r.Weights[j])/total*1000) / 10
	}
	return out
}

// Backend fits a model. A nil Backend means no statistical backend is
// available.
type Backend interface {
	Fit(X [][]float64, y []float64) (Regressor, Scaler, error)
}

// RidgeBackend fits L2-regularized least squares in closed form.
type RidgeBackend struct {
	L2 float64
}

var errSingular = errors.New("normal equations are not positive definite")

// Fit standardizes X, centers y and solves (ZᵀZ + λI)w = Zᵀy.
func (b RidgeBackend) Fit(X [][]float64, y []float64) (Regressor, Scaler, error) {
	if len(X) < 2 || len(X) != len(y) {
		return Regressor{}, Scaler{}, fmt.Errorf("%w: need at least 2 rows with matching targets, got %d/%d",
			ErrInsufficientTrainingData, len(X), len(y))
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return Regressor{}, Scaler{}, fmt.Errorf("row %d has %d features, want %d", i, len(row), d)
		}
	}

	scaler := FitScaler(X)
	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(len(y))

	A := make([][]float64, d)
	for i := range A {
		A[i] = make([]float64, d)
		A[i][i] = b.L2
	}
	rhs := make([]float64, d)

	for i, row := range X {
		z := scaler.Transform(row)
		yc := y[i] - yMean
		for j := 0; j < d; j++ {
			rhs[j] += z[j] * yc
			for k := 0; k <= j; k++ {
				A[j][k] += z[j] * z[k]
			}
		}
	}
	for j := 0; j < d; j++ {
		for k := 0; k < j; k++ {
			A[k][j] = A[j][k]
		}
	}

	w, err := choleskySolve(A, rhs)
	if err != nil {
		return Regressor{}, Scaler{}, fmt.Errorf("ridge fit: %w", err)
	}
	return Regressor{Weights: w, Intercept: yMean}, scaler, nil
}

// choleskySolve solves A x = b for symmetric positive-definite A.
func choleskySolve(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}
			if i == j {
				if sum <= 0 {
					return nil, errSingular
				}
				L[i][j] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// Forward substitution: L v = b
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= L[i][k] * v[k]
		}
		v[i] = sum / L[i][i]
	}

	// Back substitution: Lᵀ x = v
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := v[i]
		for k := i + 1; k < n; k++ {
			sum -= L[k][i] * x[k]
		}
		x[i] = sum / L[i][i]
	}
	return x, nil
}
