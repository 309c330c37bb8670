package net

import "github.com/FlavioCFOliveira/ffnet/internal/linalg"

// TrainingPoint pairs an input with its expected output. It holds its own
// copies of both vectors and never changes after construction.
//
// The expected length is only checked against a network when training.
type TrainingPoint struct {
	input    []float64
	expected []float64
}

// NewTrainingPoint copies input and expected into a new point.
func NewTrainingPoint(input, expected []float64) TrainingPoint {
	return TrainingPoint{
		input:    linalg.Copy(input),
		expected: linalg.Copy(expected),
	}
}

// Input returns a copy of the input vector.
func (p TrainingPoint) Input() []float64 {
	return linalg.Copy(p.input)
}

// Expected returns a copy of the expected output vector.
func (p TrainingPoint) Expected() []float64 {
	return linalg.Copy(p.expected)
}
