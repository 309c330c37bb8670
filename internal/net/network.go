// Package net provides the feed-forward network: inference, gradient and
// mutation training, and persistence.
package net

import (
	"fmt"
	"io"

	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/layer"
	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
	"github.com/FlavioCFOliveira/ffnet/internal/loss"
	"github.com/FlavioCFOliveira/ffnet/internal/stats"
)

// Defaults mirrored by the *Default convenience methods.
const (
	DefaultLearningRate   = 0.1
	DefaultMinRSquared    = 0.9
	DefaultLowerLimit     = -1.0
	DefaultUpperLimit     = 1.0
	DefaultMutationStdDev = 0.1
)

// Network is an ordered chain of dense layers. The output width of layer i
// equals the input width of layer i+1, and the layer count never changes.
//
// Calculate may be called concurrently on a network nobody is training or
// mutating. Training and mutation must not overlap with any other call.
type Network struct {
	layers  []*layer.Dense
	sampler linalg.Gaussian
	loss    loss.SquaredError
}

// Option configures a Network.
type Option func(*Network)

// WithSampler sets the Gaussian source used for initialisation and mutation.
func WithSampler(g linalg.Gaussian) Option {
	return func(n *Network) {
		n.sampler = g
	}
}

func newNetwork(opts []Option) *Network {
	n := &Network{sampler: stats.DefaultSampler()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// New creates a randomly initialised network. The first layer maps inputs to
// outputs; each further layer maps outputs to outputs. nodesPerLayer must be
// positive but does not shape the layers.
func New(inputs, outputs, hiddenLayers, nodesPerLayer int, hasBias bool, tf activations.Transfer, opts ...Option) (*Network, error) {
	if hiddenLayers < 1 {
		return nil, fmt.Errorf("%w: %d hidden layers", linalg.ErrInvalidArgument, hiddenLayers)
	}
	if nodesPerLayer < 1 {
		return nil, fmt.Errorf("%w: %d nodes per layer", linalg.ErrInvalidArgument, nodesPerLayer)
	}

	n := newNetwork(opts)
	n.layers = make([]*layer.Dense, hiddenLayers)
	in := inputs
	for i := range n.layers {
		l, err := layer.NewDense(in, outputs, hasBias, tf, n.sampler)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		n.layers[i] = l
		in = outputs
	}
	return n, nil
}

// FromLayers builds a network from copies of the given layers.
func FromLayers(layers []*layer.Dense, opts ...Option) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", linalg.ErrInvalidArgument)
	}
	for i := 1; i < len(layers); i++ {
		if layers[i-1].OutSize() != layers[i].InSize() {
			return nil, fmt.Errorf("%w: layer %d outputs %d values, layer %d expects %d",
				linalg.ErrDimensionMismatch, i-1, layers[i-1].OutSize(), i, layers[i].InSize())
		}
	}

	n := newNetwork(opts)
	n.layers = make([]*layer.Dense, len(layers))
	for i, l := range layers {
		n.layers[i] = l.Clone()
	}
	return n, nil
}

// Clone returns an independent deep copy. Mutating or training the clone never
// affects n. The clone shares n's sampler, which is safe for concurrent use.
func (n *Network) Clone() *Network {
	c := &Network{
		layers:  make([]*layer.Dense, len(n.layers)),
		sampler: n.sampler,
	}
	for i, l := range n.layers {
		c.layers[i] = l.Clone()
	}
	return c
}

// Calculate runs input through every layer and returns the final output.
// The input length must equal InSize.
func (n *Network) Calculate(input []float64) ([]float64, error) {
	out, _, err := n.forward(input)
	return out, err
}

// forward runs the layers in order and keeps each layer's cache.
func (n *Network) forward(input []float64) ([]float64, []layer.Cache, error) {
	caches := make([]layer.Cache, len(n.layers))
	out := input
	for i, l := range n.layers {
		var err error
		out, caches[i], err = l.Calculate(out)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return out, caches, nil
}

// Mutate perturbs every layer's parameters for evolutionary search. Values
// are clamped into [lower, upper], resampled around themselves with stdDev and
// reflected back inside the limits.
func (n *Network) Mutate(lower, upper, stdDev float64) error {
	for i, l := range n.layers {
		if err := l.Mutate(lower, upper, stdDev, n.sampler); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// MutateDefault is Mutate(-1, 1, 0.1).
func (n *Network) MutateDefault() error {
	return n.Mutate(DefaultLowerLimit, DefaultUpperLimit, DefaultMutationStdDev)
}

// Layers returns deep copies of the network's layers.
func (n *Network) Layers() []*layer.Dense {
	out := make([]*layer.Dense, len(n.layers))
	for i, l := range n.layers {
		out[i] = l.Clone()
	}
	return out
}

// NumLayers returns the number of layers.
func (n *Network) NumLayers() int {
	return len(n.layers)
}

// InSize returns the input width of the first layer.
func (n *Network) InSize() int {
	return n.layers[0].InSize()
}

// OutSize returns the output width of the last layer.
func (n *Network) OutSize() int {
	return n.layers[len(n.layers)-1].OutSize()
}

// Equal reports whether two networks hold identical layers.
func (n *Network) Equal(o *Network) bool {
	if len(n.layers) != len(o.layers) {
		return false
	}
	for i := range n.layers {
		if !n.layers[i].Equal(o.layers[i]) {
			return false
		}
	}
	return true
}

// Summary writes a table of the network architecture to w.
func (n *Network) Summary(w io.Writer) {
	fmt.Fprintln(w, "Model: FeedForward")
	fmt.Fprintln(w, "_________________________________________________________________")
	fmt.Fprintf(w, "%-20s %-12s %-12s %-10s\n", "Layer", "Shape", "Transfer", "Param #")
	fmt.Fprintln(w, "=================================================================")

	totalParams := 0
	for i, l := range n.layers {
		params := l.InSize() * l.OutSize()
		if l.HasBias() {
			params += l.OutSize()
		}
		totalParams += params

		shape := fmt.Sprintf("(%d->%d)", l.InSize(), l.OutSize())
		fmt.Fprintf(w, "%-20s %-12s %-12s %-10d\n", fmt.Sprintf("Dense_%d", i), shape, l.Transfer(), params)
	}
	fmt.Fprintln(w, "=================================================================")
	fmt.Fprintf(w, "Total params: %d\n", totalParams)
	fmt.Fprintln(w, "_________________________________________________________________")
}
