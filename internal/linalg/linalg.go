// Package linalg provides the matrix and vector operations used by the network.
//
// Every function returns newly allocated storage and never aliases its inputs.
// The only in-place operations are Perturb and PerturbVec.
package linalg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidArgument is returned for out-of-range scalar arguments and
	// malformed shapes.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Gaussian draws normally distributed values.
type Gaussian interface {
	Gaussian(mean, stdDev float64) float64
}

func sameShape(a, b mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return fmt.Errorf("%w: %dx%d and %dx%d", ErrDimensionMismatch, ar, ac, br, bc)
	}
	return nil
}

// Add returns a + b.
func Add(a, b mat.Matrix) (*mat.Dense, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Add(a, b)
	return &out, nil
}

// Subtract returns a - b.
func Subtract(a, b mat.Matrix) (*mat.Dense, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Sub(a, b)
	return &out, nil
}

// Multiply returns the matrix product a·b. The column count of a must equal
// the row count of b.
func Multiply(a, b mat.Matrix) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		return nil, fmt.Errorf("%w: cannot multiply %dx%d by %dx%d", ErrDimensionMismatch, ar, ac, br, bc)
	}
	var out mat.Dense
	out.Mul(a, b)
	return &out, nil
}

// Scale returns s·a.
func Scale(s float64, a mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Scale(s, a)
	return &out
}

// Transpose returns a copy of aᵀ.
func Transpose(a mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(a.T())
}

// AddVec returns a + b element-wise.
func AddVec(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: vector lengths %d and %d", ErrDimensionMismatch, len(a), len(b))
	}
	return floats.AddTo(make([]float64, len(a)), a, b), nil
}

// SubVec returns a - b element-wise.
func SubVec(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: vector lengths %d and %d", ErrDimensionMismatch, len(a), len(b))
	}
	return floats.SubTo(make([]float64, len(a)), a, b), nil
}

// ScaleVec returns s·v.
func ScaleVec(s float64, v []float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), s, v)
}

// RowMatrix returns v as a 1×n matrix. v must not be empty.
func RowMatrix(v []float64) *mat.Dense {
	return mat.NewDense(1, len(v), Copy(v))
}

// ColumnMatrix returns v as an n×1 matrix. v must not be empty.
func ColumnMatrix(v []float64) *mat.Dense {
	return mat.NewDense(len(v), 1, Copy(v))
}

// Vector flattens a matrix holding a single row or a single column.
func Vector(m mat.Matrix) ([]float64, error) {
	r, c := m.Dims()
	switch {
	case c == 1:
		return mat.Col(nil, 0, m), nil
	case r == 1:
		return mat.Row(nil, 0, m), nil
	}
	return nil, fmt.Errorf("%w: %dx%d is neither a row nor a column", ErrDimensionMismatch, r, c)
}

// Outer returns the outer product u·vᵀ as a len(u)×len(v) matrix.
func Outer(u, v []float64) *mat.Dense {
	var out mat.Dense
	out.Outer(1, mat.NewVecDense(len(u), Copy(u)), mat.NewVecDense(len(v), Copy(v)))
	return &out
}

// Copy returns a copy of v. A nil slice stays nil.
func Copy(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
