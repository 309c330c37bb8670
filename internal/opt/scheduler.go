package opt

import "math"

// Scheduler yields the learning rate for a given epoch.
type Scheduler interface {
	Rate(epoch int) float64
}

// Constant keeps the learning rate fixed.
type Constant float64

// Rate returns the constant rate.
func (c Constant) Rate(int) float64 {
	return float64(c)
}

// StepLR decays the learning rate by gamma every StepSize epochs.
type StepLR struct {
	InitialLR float64
	StepSize  int
	Gamma     float64
}

// NewStepLR returns a step decay schedule.
func NewStepLR(initialLR float64, stepSize int, gamma float64) StepLR {
	return StepLR{InitialLR: initialLR, StepSize: stepSize, Gamma: gamma}
}

// Rate returns InitialLR * Gamma^(epoch/StepSize).
func (s StepLR) Rate(epoch int) float64 {
	if s.StepSize <= 0 {
		return s.InitialLR
	}
	return s.InitialLR * math.Pow(s.Gamma, float64(epoch/s.StepSize))
}

// ExponentialLR decays the learning rate by gamma every epoch.
type ExponentialLR struct {
	InitialLR float64
	Gamma     float64
}

// Rate returns InitialLR * Gamma^epoch.
func (s ExponentialLR) Rate(epoch int) float64 {
	return s.InitialLR * math.Pow(s.Gamma, float64(epoch))
}
