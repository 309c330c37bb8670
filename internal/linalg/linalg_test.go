// Package linalg provides unit tests for matrix and vector operations.
package linalg

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	matA = mat.NewDense(3, 3, []float64{
		5, 6, 1,
		5, 7, 8,
		9, 1, 3,
	})
	matB = mat.NewDense(3, 3, []float64{
		5, 6, 2,
		8, 9, 1,
		3, 5, 6,
	})
)

// TestAdd tests matrix addition.
func TestAdd(t *testing.T) {
	got, err := Add(matA, matB)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	want := mat.NewDense(3, 3, []float64{
		10, 12, 3,
		13, 16, 9,
		12, 6, 9,
	})
	if !mat.Equal(got, want) {
		t.Errorf("Add = %v, want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

// TestSubtract tests matrix subtraction.
func TestSubtract(t *testing.T) {
	got, err := Subtract(matA, matB)
	if err != nil {
		t.Fatalf("Subtract returned error: %v", err)
	}
	want := mat.NewDense(3, 3, []float64{
		0, 0, -1,
		-3, -2, 7,
		6, -4, -3,
	})
	if !mat.Equal(got, want) {
		t.Errorf("Subtract = %v, want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

// TestMultiply tests square and rectangular products.
func TestMultiply(t *testing.T) {
	tests := []struct {
		name string
		b    *mat.Dense
		want *mat.Dense
	}{
		{
			name: "3x3 by 3x3",
			b:    matB,
			want: mat.NewDense(3, 3, []float64{
				76, 89, 22,
				105, 133, 65,
				62, 78, 37,
			}),
		},
		{
			name: "3x3 by 3x2",
			b: mat.NewDense(3, 2, []float64{
				5, 6,
				8, 9,
				3, 5,
			}),
			want: mat.NewDense(3, 2, []float64{
				76, 89,
				105, 133,
				62, 78,
			}),
		},
	}

	for _, tt := range tests {
		got, err := Multiply(matA, tt.b)
		if err != nil {
			t.Fatalf("%s: Multiply returned error: %v", tt.name, err)
		}
		if !mat.Equal(got, tt.want) {
			t.Errorf("%s: Multiply = %v, want %v", tt.name, mat.Formatted(got), mat.Formatted(tt.want))
		}
	}
}

// TestDimensionMismatch tests that shape errors are reported, not panicked.
func TestDimensionMismatch(t *testing.T) {
	rect := mat.NewDense(2, 3, nil)

	if _, err := Add(matA, rect); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := Subtract(rect, matA); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Subtract error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := Multiply(matA, rect); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Multiply error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := AddVec([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("AddVec error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := SubVec([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("SubVec error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := Vector(rect); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Vector error = %v, want ErrDimensionMismatch", err)
	}
}

// TestAlgebraicLaws tests associativity, transpose of a product and the additive identity.
func TestAlgebraicLaws(t *testing.T) {
	c := mat.NewDense(3, 2, []float64{
		1, -2,
		0.5, 4,
		-3, 2,
	})

	// (AB)C = A(BC)
	ab, _ := Multiply(matA, matB)
	left, _ := Multiply(ab, c)
	bc, _ := Multiply(matB, c)
	right, _ := Multiply(matA, bc)
	if !mat.EqualApprox(left, right, 1e-9) {
		t.Errorf("(AB)C = %v, A(BC) = %v", mat.Formatted(left), mat.Formatted(right))
	}

	// (A+B)+C' = A+(B+C') with a square C'
	sq := Transpose(mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}))
	apb, _ := Add(matA, matB)
	l2, _ := Add(apb, sq)
	bpc, _ := Add(matB, sq)
	r2, _ := Add(matA, bpc)
	if !mat.Equal(l2, r2) {
		t.Errorf("(A+B)+C = %v, A+(B+C) = %v", mat.Formatted(l2), mat.Formatted(r2))
	}

	// (AB)ᵀ = BᵀAᵀ
	abT := Transpose(ab)
	btat, _ := Multiply(Transpose(matB), Transpose(matA))
	if !mat.Equal(abT, btat) {
		t.Errorf("(AB)ᵀ = %v, BᵀAᵀ = %v", mat.Formatted(abT), mat.Formatted(btat))
	}

	// A + 0 = A
	zero := mat.NewDense(3, 3, nil)
	sum, _ := Add(matA, zero)
	if !mat.Equal(sum, matA) {
		t.Errorf("A+0 = %v, want %v", mat.Formatted(sum), mat.Formatted(matA))
	}
}

// TestNoAliasing tests that results never share storage with inputs.
func TestNoAliasing(t *testing.T) {
	a := mat.DenseCopyOf(matA)
	scaled := Scale(2, a)
	tr := Transpose(a)
	a.Set(0, 0, 100)

	if scaled.At(0, 0) != 10 {
		t.Errorf("Scale result changed with input: got %v, want 10", scaled.At(0, 0))
	}
	if tr.At(0, 0) != 5 {
		t.Errorf("Transpose result changed with input: got %v, want 5", tr.At(0, 0))
	}

	v := []float64{1, 2, 3}
	row := RowMatrix(v)
	col := ColumnMatrix(v)
	v[0] = 42
	if row.At(0, 0) != 1 || col.At(0, 0) != 1 {
		t.Errorf("row/column views alias the source vector")
	}
}

// TestVectorViews tests conversions between vectors and row/column matrices.
func TestVectorViews(t *testing.T) {
	v := []float64{1, 2, 3}

	row := RowMatrix(v)
	if r, c := row.Dims(); r != 1 || c != 3 {
		t.Errorf("RowMatrix dims = %dx%d, want 1x3", r, c)
	}
	col := ColumnMatrix(v)
	if r, c := col.Dims(); r != 3 || c != 1 {
		t.Errorf("ColumnMatrix dims = %dx%d, want 3x1", r, c)
	}

	for _, m := range []*mat.Dense{row, col} {
		got, err := Vector(m)
		if err != nil {
			t.Fatalf("Vector returned error: %v", err)
		}
		if !floats.Equal(got, v) {
			t.Errorf("Vector = %v, want %v", got, v)
		}
	}
}

// TestVectorOps tests element-wise vector arithmetic.
func TestVectorOps(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{0.5, -1, 4}

	sum, _ := AddVec(a, b)
	if want := []float64{1.5, 1, 7}; !floats.Equal(sum, want) {
		t.Errorf("AddVec = %v, want %v", sum, want)
	}
	diff, _ := SubVec(a, b)
	if want := []float64{0.5, 3, -1}; !floats.Equal(diff, want) {
		t.Errorf("SubVec = %v, want %v", diff, want)
	}
	if got, want := ScaleVec(-2, a), []float64{-2, -4, -6}; !floats.Equal(got, want) {
		t.Errorf("ScaleVec = %v, want %v", got, want)
	}
}

// TestOuter tests the outer product against an explicit column·row product.
func TestOuter(t *testing.T) {
	u := []float64{1, -2}
	v := []float64{3, 0.5, 4}

	want, err := Multiply(ColumnMatrix(u), RowMatrix(v))
	if err != nil {
		t.Fatalf("Multiply returned error: %v", err)
	}
	if got := Outer(u, v); !mat.Equal(got, want) {
		t.Errorf("Outer = %v, want %v", mat.Formatted(got), mat.Formatted(want))
	}
}
