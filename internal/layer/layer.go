// Package layer provides the dense layer used by the feed-forward network.
package layer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
)

// InitStdDev is the standard deviation of freshly initialised weights and biases.
const InitStdDev = 0.1

// Cache is the per-layer data a forward pass keeps for gradient computation.
// It belongs to a single training step and is never persisted.
type Cache struct {
	// Input is a copy of the vector fed into the layer.
	Input []float64
	// Jacobian holds the transfer derivative at each pre-activation value.
	// Transfers act element-wise, so it is diagonal.
	Jacobian *mat.DiagDense
}

// Dense is a fully connected layer: a weight matrix, an optional bias vector
// and a transfer function applied element-wise.
//
// Weights are stored as an outputs×inputs matrix. A nil bias slice means the
// layer has no bias. Dense owns its storage; nothing it returns aliases it.
type Dense struct {
	weights  *mat.Dense
	biases   []float64
	transfer activations.Transfer
}

// NewDense creates a layer with weights and biases drawn from a zero-mean
// Gaussian with standard deviation InitStdDev.
func NewDense(in, out int, hasBias bool, tf activations.Transfer, g linalg.Gaussian) (*Dense, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("%w: layer size %d->%d", linalg.ErrInvalidArgument, in, out)
	}
	if !tf.Valid() {
		return nil, fmt.Errorf("%w: %v", linalg.ErrInvalidArgument, tf)
	}

	weights := make([]float64, out*in)
	for i := range weights {
		weights[i] = g.Gaussian(0, InitStdDev)
	}

	var biases []float64
	if hasBias {
		biases = make([]float64, out)
		for i := range biases {
			biases[i] = g.Gaussian(0, InitStdDev)
		}
	}

	return &Dense{
		weights:  mat.NewDense(out, in, weights),
		biases:   biases,
		transfer: tf,
	}, nil
}

// NewDenseFrom creates a layer from explicit values. weights[i][j] connects
// input j to output i. biases may be nil; otherwise it needs one entry per row.
func NewDenseFrom(weights [][]float64, biases []float64, tf activations.Transfer) (*Dense, error) {
	if len(weights) == 0 || len(weights[0]) == 0 {
		return nil, fmt.Errorf("%w: empty weight matrix", linalg.ErrInvalidArgument)
	}
	if !tf.Valid() {
		return nil, fmt.Errorf("%w: %v", linalg.ErrInvalidArgument, tf)
	}

	rows, cols := len(weights), len(weights[0])
	data := make([]float64, 0, rows*cols)
	for i, row := range weights {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: weight row %d has %d columns, want %d", linalg.ErrInvalidArgument, i, len(row), cols)
		}
		data = append(data, row...)
	}
	if biases != nil && len(biases) != rows {
		return nil, fmt.Errorf("%w: %d biases for %d outputs", linalg.ErrInvalidArgument, len(biases), rows)
	}

	return &Dense{
		weights:  mat.NewDense(rows, cols, data),
		biases:   linalg.Copy(biases),
		transfer: tf,
	}, nil
}

// NewDenseFromMatrix creates a layer from a weight matrix, copying it.
func NewDenseFromMatrix(weights mat.Matrix, biases []float64, tf activations.Transfer) (*Dense, error) {
	rows, _ := weights.Dims()
	if !tf.Valid() {
		return nil, fmt.Errorf("%w: %v", linalg.ErrInvalidArgument, tf)
	}
	if biases != nil && len(biases) != rows {
		return nil, fmt.Errorf("%w: %d biases for %d outputs", linalg.ErrInvalidArgument, len(biases), rows)
	}
	return &Dense{
		weights:  mat.DenseCopyOf(weights),
		biases:   linalg.Copy(biases),
		transfer: tf,
	}, nil
}

// Clone returns a deep copy sharing no storage with d.
func (d *Dense) Clone() *Dense {
	return &Dense{
		weights:  mat.DenseCopyOf(d.weights),
		biases:   linalg.Copy(d.biases),
		transfer: d.transfer,
	}
}

// Calculate runs the layer on input. It returns the activated output and the
// cache needed to compute this layer's gradients.
func (d *Dense) Calculate(input []float64) ([]float64, Cache, error) {
	if len(input) != d.InSize() {
		return nil, Cache{}, fmt.Errorf("%w: input length %d, layer expects %d", linalg.ErrDimensionMismatch, len(input), d.InSize())
	}

	product, err := linalg.Multiply(d.weights, linalg.ColumnMatrix(input))
	if err != nil {
		return nil, Cache{}, err
	}
	preAct, err := linalg.Vector(product)
	if err != nil {
		return nil, Cache{}, err
	}
	if d.biases != nil {
		if preAct, err = linalg.AddVec(preAct, d.biases); err != nil {
			return nil, Cache{}, err
		}
	}

	deriv := make([]float64, len(preAct))
	for i, n := range preAct {
		deriv[i] = d.transfer.Derivative(n)
		preAct[i] = d.transfer.Activate(n)
	}

	return preAct, Cache{
		Input:    linalg.Copy(input),
		Jacobian: mat.NewDiagDense(len(deriv), deriv),
	}, nil
}

// Update moves the parameters against the given gradients:
// weights -= rate*gradW and, when the layer has a bias, biases -= rate*gradB.
func (d *Dense) Update(gradW mat.Matrix, gradB []float64, rate float64) error {
	weights, err := linalg.Subtract(d.weights, linalg.Scale(rate, gradW))
	if err != nil {
		return fmt.Errorf("weight update: %w", err)
	}

	var biases []float64
	if d.biases != nil {
		if biases, err = linalg.SubVec(d.biases, linalg.ScaleVec(rate, gradB)); err != nil {
			return fmt.Errorf("bias update: %w", err)
		}
	}

	d.weights = weights
	d.biases = biases
	return nil
}

// Mutate perturbs biases then weights in place with linalg.Perturb.
func (d *Dense) Mutate(lower, upper, stdDev float64, g linalg.Gaussian) error {
	if d.biases != nil {
		if err := linalg.PerturbVec(d.biases, lower, upper, stdDev, g); err != nil {
			return err
		}
	}
	return linalg.Perturb(d.weights, lower, upper, stdDev, g)
}

// Weights returns a copy of the weight matrix.
func (d *Dense) Weights() *mat.Dense {
	return mat.DenseCopyOf(d.weights)
}

// Biases returns a copy of the biases, or nil for a layer without bias.
func (d *Dense) Biases() []float64 {
	return linalg.Copy(d.biases)
}

// HasBias reports whether the layer carries a bias vector.
func (d *Dense) HasBias() bool {
	return d.biases != nil
}

// Transfer returns the layer's transfer function.
func (d *Dense) Transfer() activations.Transfer {
	return d.transfer
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	_, c := d.weights.Dims()
	return c
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	r, _ := d.weights.Dims()
	return r
}

// Equal reports whether two layers hold identical values.
func (d *Dense) Equal(o *Dense) bool {
	if d.transfer != o.transfer || d.HasBias() != o.HasBias() || len(d.biases) != len(o.biases) {
		return false
	}
	for i := range d.biases {
		if d.biases[i] != o.biases[i] {
			return false
		}
	}
	return mat.Equal(d.weights, o.weights)
}
