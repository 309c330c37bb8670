// Package opt provides the gradient-descent update rule and learning rate
// schedules.
package opt

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
)

// Updatable is a layer whose parameters can be moved against a gradient.
type Updatable interface {
	Update(gradW mat.Matrix, gradB []float64, rate float64) error
}

// SGD (Stochastic Gradient Descent) optimizer.
//
// Rates must lie in [-1, 1]. A negative rate moves the parameters away from
// the target, which is occasionally wanted to push a network off a solution.
type SGD struct {
	LearningRate float64
}

// Validate checks the learning rate range.
func (s SGD) Validate() error {
	if !(s.LearningRate >= -1 && s.LearningRate <= 1) {
		return fmt.Errorf("%w: learning rate %v outside [-1, 1]", linalg.ErrInvalidArgument, s.LearningRate)
	}
	return nil
}

// Step applies params -= lr * gradients to one layer.
func (s SGD) Step(l Updatable, gradW mat.Matrix, gradB []float64) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return l.Update(gradW, gradB, s.LearningRate)
}

// Scaled returns an optimizer whose rate is multiplied by f. The result is not
// range checked; batch training uses it to average summed gradients.
func (s SGD) Scaled(f float64) SGD {
	return SGD{LearningRate: s.LearningRate * f}
}
