// Package opt provides unit tests for the update rule and schedules.
package opt

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
)

// recorder captures the rate it was updated with.
type recorder struct {
	rate  float64
	calls int
}

func (r *recorder) Update(gradW mat.Matrix, gradB []float64, rate float64) error {
	r.rate = rate
	r.calls++
	return nil
}

// TestSGDValidate tests the [-1, 1] learning rate range.
func TestSGDValidate(t *testing.T) {
	tests := []struct {
		lr    float64
		valid bool
	}{
		{0.1, true},
		{1, true},
		{-1, true},
		{-0.5, true},
		{0, true},
		{1.01, false},
		{-2, false},
		{math.NaN(), false},
	}

	for _, tt := range tests {
		err := SGD{LearningRate: tt.lr}.Validate()
		if tt.valid && err != nil {
			t.Errorf("Validate(%v) = %v, want nil", tt.lr, err)
		}
		if !tt.valid && !errors.Is(err, linalg.ErrInvalidArgument) {
			t.Errorf("Validate(%v) = %v, want ErrInvalidArgument", tt.lr, err)
		}
	}
}

// TestSGDStep tests that Step forwards the rate and refuses invalid ones.
func TestSGDStep(t *testing.T) {
	r := &recorder{}
	if err := (SGD{LearningRate: 0.3}).Step(r, nil, nil); err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	if r.rate != 0.3 {
		t.Errorf("Step rate = %v, want 0.3", r.rate)
	}

	if err := (SGD{LearningRate: 3}).Step(r, nil, nil); !errors.Is(err, linalg.ErrInvalidArgument) {
		t.Errorf("Step(3) error = %v, want ErrInvalidArgument", err)
	}
	if r.calls != 1 {
		t.Errorf("layer updated %d times, want 1", r.calls)
	}
}

// TestSGDScaled tests rate scaling for averaged batch updates.
func TestSGDScaled(t *testing.T) {
	if got := (SGD{LearningRate: 0.1}).Scaled(0.25).LearningRate; math.Abs(got-0.025) > 1e-15 {
		t.Errorf("Scaled rate = %v, want 0.025", got)
	}
}

// TestSchedulers tests the learning rate schedules.
func TestSchedulers(t *testing.T) {
	tests := []struct {
		name  string
		s     Scheduler
		epoch int
		want  float64
	}{
		{"constant", Constant(0.1), 50, 0.1},
		{"step before decay", NewStepLR(0.1, 10, 0.5), 9, 0.1},
		{"step after one decay", NewStepLR(0.1, 10, 0.5), 10, 0.05},
		{"step after two decays", NewStepLR(0.1, 10, 0.5), 25, 0.025},
		{"step disabled", NewStepLR(0.1, 0, 0.5), 25, 0.1},
		{"exponential", ExponentialLR{InitialLR: 1, Gamma: 0.5}, 3, 0.125},
	}

	for _, tt := range tests {
		if got := tt.s.Rate(tt.epoch); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: Rate(%d) = %v, want %v", tt.name, tt.epoch, got, tt.want)
		}
	}
}
