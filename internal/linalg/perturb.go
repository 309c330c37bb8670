package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Perturb resamples every element of m in place. Each element is first clamped
// into [lower, upper], then replaced by a Gaussian draw centred on the clamped
// value. A draw that leaves the interval is reflected back across the bound it
// crossed.
func Perturb(m *mat.Dense, lower, upper, stdDev float64, g Gaussian) error {
	if err := checkPerturb(lower, upper, stdDev); err != nil {
		return err
	}
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for j := 0; j < c; j++ {
			row[j] = perturbOne(row[j], lower, upper, stdDev, g)
		}
	}
	return nil
}

// PerturbVec is Perturb for a vector.
func PerturbVec(v []float64, lower, upper, stdDev float64, g Gaussian) error {
	if err := checkPerturb(lower, upper, stdDev); err != nil {
		return err
	}
	for i := range v {
		v[i] = perturbOne(v[i], lower, upper, stdDev, g)
	}
	return nil
}

func checkPerturb(lower, upper, stdDev float64) error {
	if !(stdDev > 0) || math.IsInf(stdDev, 1) {
		return fmt.Errorf("%w: standard deviation %v must be positive and finite", ErrInvalidArgument, stdDev)
	}
	if !(lower < upper) {
		return fmt.Errorf("%w: lower limit %v must be below upper limit %v", ErrInvalidArgument, lower, upper)
	}
	return nil
}

func perturbOne(x, lower, upper, stdDev float64, g Gaussian) float64 {
	switch {
	case x < lower:
		x = lower
	case x > upper:
		x = upper
	}
	return reflect(g.Gaussian(x, stdDev), lower, upper)
}

// reflect folds x into [lower, upper]. A single reflection is enough unless the
// draw overshoots by more than the interval width.
func reflect(x, lower, upper float64) float64 {
	for x < lower || x > upper {
		if x < lower {
			x = 2*lower - x
		} else {
			x = 2*upper - x
		}
	}
	return x
}
