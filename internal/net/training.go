package net

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/ffnet/internal/layer"
	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
	"github.com/FlavioCFOliveira/ffnet/internal/loss"
	"github.com/FlavioCFOliveira/ffnet/internal/opt"
)

// MaxPasses is the default pass budget of BatchTrain.
const MaxPasses = 1_000_000

// ErrConvergence is returned when BatchTrain exhausts its pass budget before
// every output dimension reaches the requested R².
var ErrConvergence = errors.New("training did not converge")

// Gradients holds per-layer derivatives of the squared error.
// Biases[i] is nil when layer i has no bias.
type Gradients struct {
	Weights []*mat.Dense
	Biases  [][]float64
}

// Report summarises a BatchTrain run.
type Report struct {
	// Passes is the number of sweeps over the training set that were evaluated.
	Passes int
	// RSquared is the per-dimension R² of the last evaluated pass.
	RSquared []float64
}

type trainConfig struct {
	maxPasses int
	callbacks []Callback
}

// TrainOption configures BatchTrain.
type TrainOption func(*trainConfig)

// WithMaxPasses bounds the number of passes. Values below one are ignored.
func WithMaxPasses(passes int) TrainOption {
	return func(c *trainConfig) {
		if passes > 0 {
			c.maxPasses = passes
		}
	}
}

// WithCallbacks registers callbacks observing the run.
func WithCallbacks(cbs ...Callback) TrainOption {
	return func(c *trainConfig) {
		c.callbacks = append(c.callbacks, cbs...)
	}
}

// gradients back-propagates the output error through the cached forward pass.
//
// The output sensitivity is -2·J_L·(expected-actual). Earlier sensitivities
// are s_i = J_i·W_{i+1}ᵀ·s_{i+1}. Weight gradients are outer(s_i, input_i) and
// bias gradients are s_i.
func (n *Network) gradients(caches []layer.Cache, expected, actual []float64) (Gradients, error) {
	last := len(n.layers) - 1
	sensitivities := make([][]float64, len(n.layers))

	outGrad, err := n.loss.OutputGradient(expected, actual)
	if err != nil {
		return Gradients{}, err
	}
	product, err := linalg.Multiply(caches[last].Jacobian, linalg.ColumnMatrix(outGrad))
	if err != nil {
		return Gradients{}, err
	}
	if sensitivities[last], err = linalg.Vector(product); err != nil {
		return Gradients{}, err
	}

	for i := last - 1; i >= 0; i-- {
		jw, err := linalg.Multiply(caches[i].Jacobian, linalg.Transpose(n.layers[i+1].Weights()))
		if err != nil {
			return Gradients{}, fmt.Errorf("layer %d: %w", i, err)
		}
		product, err := linalg.Multiply(jw, linalg.ColumnMatrix(sensitivities[i+1]))
		if err != nil {
			return Gradients{}, fmt.Errorf("layer %d: %w", i, err)
		}
		if sensitivities[i], err = linalg.Vector(product); err != nil {
			return Gradients{}, err
		}
	}

	g := Gradients{
		Weights: make([]*mat.Dense, len(n.layers)),
		Biases:  make([][]float64, len(n.layers)),
	}
	for i, l := range n.layers {
		g.Weights[i] = linalg.Outer(sensitivities[i], caches[i].Input)
		if l.HasBias() {
			g.Biases[i] = sensitivities[i]
		}
	}
	return g, nil
}

// ComputeGradients runs p through the network and returns the gradients of
// the squared error without changing any parameter.
func (n *Network) ComputeGradients(p TrainingPoint) (Gradients, error) {
	actual, caches, err := n.forward(p.input)
	if err != nil {
		return Gradients{}, err
	}
	return n.gradients(caches, p.expected, actual)
}

// apply moves every layer against g using the optimizer.
func (n *Network) apply(sgd opt.SGD, g Gradients) error {
	for i, l := range n.layers {
		if err := sgd.Step(l, g.Weights[i], g.Biases[i]); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// IncrementalTrain performs one gradient step on a single point:
// weights -= rate·gradient, and likewise for biases. rate must lie in [-1, 1].
func (n *Network) IncrementalTrain(p TrainingPoint, rate float64) error {
	sgd := opt.SGD{LearningRate: rate}
	if err := sgd.Validate(); err != nil {
		return err
	}

	g, err := n.ComputeGradients(p)
	if err != nil {
		return err
	}
	return n.apply(sgd, g)
}

// IncrementalTrainDefault is IncrementalTrain with DefaultLearningRate.
func (n *Network) IncrementalTrainDefault(p TrainingPoint) error {
	return n.IncrementalTrain(p, DefaultLearningRate)
}

// BatchTrain trains on the whole set until every output dimension reaches
// minRSquared, or fails with ErrConvergence once the pass budget is spent.
//
// Each pass evaluates every point, adds its gradients to running sums and its
// squared residuals to the pass's residual sum of squares. If the R² of every
// dimension is at least minRSquared the run stops; otherwise the running sums,
// scaled by rate/len(points), are applied. The sums carry over from pass to
// pass, so earlier gradients keep contributing to later updates.
//
// minRSquared must lie in (0, 1] and rate in [-1, 1].
func (n *Network) BatchTrain(points []TrainingPoint, minRSquared, rate float64, opts ...TrainOption) (Report, error) {
	if !(minRSquared > 0 && minRSquared <= 1) {
		return Report{}, fmt.Errorf("%w: minimum R² %v outside (0, 1]", linalg.ErrInvalidArgument, minRSquared)
	}
	sgd := opt.SGD{LearningRate: rate}
	if err := sgd.Validate(); err != nil {
		return Report{}, err
	}
	if len(points) == 0 {
		return Report{}, fmt.Errorf("%w: empty training set", linalg.ErrInvalidArgument)
	}

	cfg := trainConfig{maxPasses: MaxPasses}
	for _, o := range opts {
		o(&cfg)
	}

	expected := make([][]float64, len(points))
	for i, p := range points {
		expected[i] = p.expected
	}
	tss, err := loss.TotalSumOfSquares(expected, n.OutSize())
	if err != nil {
		return Report{}, err
	}

	sums := Gradients{
		Weights: make([]*mat.Dense, len(n.layers)),
		Biases:  make([][]float64, len(n.layers)),
	}
	for i, l := range n.layers {
		sums.Weights[i] = mat.NewDense(l.OutSize(), l.InSize(), nil)
		if l.HasBias() {
			sums.Biases[i] = make([]float64, l.OutSize())
		}
	}
	step := sgd.Scaled(1 / float64(len(points)))

	for _, cb := range cfg.callbacks {
		cb.OnTrainBegin(n)
	}

	report := Report{}
	for pass := 0; pass < cfg.maxPasses; pass++ {
		rss := make([]float64, len(tss))
		for _, p := range points {
			actual, caches, err := n.forward(p.input)
			if err != nil {
				return report, n.endTraining(cfg, err)
			}
			g, err := n.gradients(caches, p.expected, actual)
			if err != nil {
				return report, n.endTraining(cfg, err)
			}
			residuals, err := n.loss.Residuals(p.expected, actual)
			if err != nil {
				return report, n.endTraining(cfg, err)
			}
			floats.Add(rss, residuals)

			for i := range n.layers {
				sums.Weights[i].Add(sums.Weights[i], g.Weights[i])
				if sums.Biases[i] != nil {
					floats.Add(sums.Biases[i], g.Biases[i])
				}
			}
		}

		r2, err := loss.RSquared(rss, tss)
		if err != nil {
			return report, n.endTraining(cfg, err)
		}
		report.Passes = pass + 1
		report.RSquared = r2
		for _, cb := range cfg.callbacks {
			cb.OnPassEnd(pass, r2, n)
		}

		if loss.AllAtLeast(r2, minRSquared) {
			return report, n.endTraining(cfg, nil)
		}

		if err := n.apply(step, sums); err != nil {
			return report, n.endTraining(cfg, err)
		}
	}

	err = fmt.Errorf("%w: R² %v below %v after %d passes", ErrConvergence, report.RSquared, minRSquared, report.Passes)
	return report, n.endTraining(cfg, err)
}

// BatchTrainDefault is BatchTrain with DefaultMinRSquared and DefaultLearningRate.
func (n *Network) BatchTrainDefault(points []TrainingPoint, opts ...TrainOption) (Report, error) {
	return n.BatchTrain(points, DefaultMinRSquared, DefaultLearningRate, opts...)
}

func (n *Network) endTraining(cfg trainConfig, err error) error {
	for _, cb := range cfg.callbacks {
		cb.OnTrainEnd(n, err)
	}
	return err
}

// RSquared returns the coefficient of determination of every output dimension
// over points, without training.
func (n *Network) RSquared(points []TrainingPoint) ([]float64, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: empty point set", linalg.ErrInvalidArgument)
	}
	expected := make([][]float64, len(points))
	for i, p := range points {
		expected[i] = p.expected
	}
	tss, err := loss.TotalSumOfSquares(expected, n.OutSize())
	if err != nil {
		return nil, err
	}

	rss := make([]float64, len(tss))
	for _, p := range points {
		actual, err := n.Calculate(p.input)
		if err != nil {
			return nil, err
		}
		residuals, err := n.loss.Residuals(p.expected, actual)
		if err != nil {
			return nil, err
		}
		floats.Add(rss, residuals)
	}
	return loss.RSquared(rss, tss)
}
