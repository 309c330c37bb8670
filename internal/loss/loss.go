// Package loss provides the squared-error objective and the R² statistic
// used to decide when batch training has converged.
package loss

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
)

// SquaredError is the quadratic error Σ(expected-actual)².
type SquaredError struct{}

// OutputGradient returns dE/dactual = -2(expected-actual).
// The caller applies the output layer's Jacobian.
func (SquaredError) OutputGradient(expected, actual []float64) ([]float64, error) {
	diff, err := linalg.SubVec(expected, actual)
	if err != nil {
		return nil, fmt.Errorf("output gradient: %w", err)
	}
	return linalg.ScaleVec(-2, diff), nil
}

// Residuals returns the squared residual of every output dimension.
func (SquaredError) Residuals(expected, actual []float64) ([]float64, error) {
	if len(expected) != len(actual) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", linalg.ErrDimensionMismatch, len(expected), len(actual))
	}
	out := make([]float64, len(expected))
	for i := range expected {
		d := expected[i] - actual[i]
		out[i] = d * d
	}
	return out, nil
}

// TotalSumOfSquares returns, per output dimension, the sum of squared
// deviations of the expected values from their mean. Every row of expected
// must have width values.
func TotalSumOfSquares(expected [][]float64, width int) ([]float64, error) {
	if len(expected) == 0 {
		return nil, fmt.Errorf("%w: no expected outputs", linalg.ErrInvalidArgument)
	}
	for i, row := range expected {
		if len(row) != width {
			return nil, fmt.Errorf("%w: expected output %d has %d values, network produces %d", linalg.ErrDimensionMismatch, i, len(row), width)
		}
	}

	column := make([]float64, len(expected))
	tss := make([]float64, width)
	for j := 0; j < width; j++ {
		for i, row := range expected {
			column[i] = row[j]
		}
		mean := stat.Mean(column, nil)
		for _, v := range column {
			tss[j] += (mean - v) * (mean - v)
		}
	}
	return tss, nil
}

// RSquared returns 1 - rss/tss per output dimension.
func RSquared(rss, tss []float64) ([]float64, error) {
	if len(rss) != len(tss) {
		return nil, fmt.Errorf("%w: %d residual sums for %d total sums", linalg.ErrDimensionMismatch, len(rss), len(tss))
	}
	r2 := make([]float64, len(rss))
	for i := range rss {
		r2[i] = 1 - rss[i]/tss[i]
	}
	return r2, nil
}

// AllAtLeast reports whether every value is at least threshold. NaN never is.
func AllAtLeast(values []float64, threshold float64) bool {
	for _, v := range values {
		if !(v >= threshold) {
			return false
		}
	}
	return true
}
