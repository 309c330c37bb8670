// Package config loads the JSON training configuration used by cmd/ffnet.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
	"github.com/FlavioCFOliveira/ffnet/internal/net"
	"github.com/FlavioCFOliveira/ffnet/internal/opt"
)

// Training modes.
const (
	ModeBatch       = "batch"
	ModeIncremental = "incremental"
)

// Learning rate schedules for incremental mode.
const (
	ScheduleConstant    = "constant"
	ScheduleStep        = "step"
	ScheduleExponential = "exponential"
)

// TrainConfig describes a network and how to train it.
type TrainConfig struct {
	Inputs        int                  `json:"inputs"`
	Outputs       int                  `json:"outputs"`
	HiddenLayers  int                  `json:"hidden_layers"`
	NodesPerLayer int                  `json:"nodes_per_layer"`
	Bias          bool                 `json:"bias"`
	Transfer      activations.Transfer `json:"transfer"`

	Mode         string  `json:"mode"`
	LearningRate float64 `json:"learning_rate"`
	// MinRSquared is the batch convergence threshold.
	MinRSquared float64 `json:"min_r_squared"`
	// MaxPasses bounds batch training; zero means net.MaxPasses.
	MaxPasses int `json:"max_passes,omitempty"`
	// Epochs is the number of sweeps in incremental mode.
	Epochs int `json:"epochs"`
	// LRSchedule picks the incremental learning rate schedule; empty means
	// ScheduleStep.
	LRSchedule string `json:"lr_schedule,omitempty"`
	// LRStepSize and LRGamma shape the schedule. The step schedule decays by
	// LRGamma every LRStepSize epochs, and a zero step size keeps it
	// constant. The exponential schedule decays by LRGamma every epoch.
	LRStepSize int     `json:"lr_step_size,omitempty"`
	LRGamma    float64 `json:"lr_gamma,omitempty"`
	// Seed seeds the sampler; zero seeds it from the clock.
	Seed int64 `json:"seed,omitempty"`

	LabelColumns []int `json:"label_columns"`
	HasHeader    bool  `json:"has_header"`
	Normalize    bool  `json:"normalize,omitempty"`
}

// Default returns the configuration of a 2-input, 1-output logistic network
// trained in batch mode.
func Default() TrainConfig {
	return TrainConfig{
		Inputs:        2,
		Outputs:       1,
		HiddenLayers:  1,
		NodesPerLayer: 1,
		Bias:          true,
		Transfer:      activations.Logistic,
		Mode:          ModeBatch,
		LearningRate:  net.DefaultLearningRate,
		MinRSquared:   net.DefaultMinRSquared,
		Epochs:        100,
		LRSchedule:    ScheduleStep,
		LRGamma:       1,
		LabelColumns:  []int{2},
	}
}

// Load reads a configuration file. Fields missing from the file keep their
// Default values.
func Load(path string) (TrainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TrainConfig{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON configuration.
func Parse(data []byte) (TrainConfig, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return TrainConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return TrainConfig{}, err
	}
	return cfg, nil
}

// Validate checks ranges and consistency.
func (c TrainConfig) Validate() error {
	switch {
	case c.Inputs < 1 || c.Outputs < 1:
		return fmt.Errorf("%w: network size %d->%d", linalg.ErrInvalidArgument, c.Inputs, c.Outputs)
	case c.HiddenLayers < 1:
		return fmt.Errorf("%w: %d hidden layers", linalg.ErrInvalidArgument, c.HiddenLayers)
	case c.NodesPerLayer < 1:
		return fmt.Errorf("%w: %d nodes per layer", linalg.ErrInvalidArgument, c.NodesPerLayer)
	case !c.Transfer.Valid():
		return fmt.Errorf("%w: transfer %v", linalg.ErrInvalidArgument, c.Transfer)
	case c.Mode != ModeBatch && c.Mode != ModeIncremental:
		return fmt.Errorf("%w: mode %q", linalg.ErrInvalidArgument, c.Mode)
	case !(c.LearningRate >= -1 && c.LearningRate <= 1):
		return fmt.Errorf("%w: learning rate %v outside [-1, 1]", linalg.ErrInvalidArgument, c.LearningRate)
	case c.Mode == ModeBatch && !(c.MinRSquared > 0 && c.MinRSquared <= 1):
		return fmt.Errorf("%w: minimum R² %v outside (0, 1]", linalg.ErrInvalidArgument, c.MinRSquared)
	case c.MaxPasses < 0:
		return fmt.Errorf("%w: %d max passes", linalg.ErrInvalidArgument, c.MaxPasses)
	case c.Mode == ModeIncremental && c.Epochs < 1:
		return fmt.Errorf("%w: %d epochs", linalg.ErrInvalidArgument, c.Epochs)
	case c.LRSchedule != "" && c.LRSchedule != ScheduleConstant && c.LRSchedule != ScheduleStep && c.LRSchedule != ScheduleExponential:
		return fmt.Errorf("%w: learning rate schedule %q", linalg.ErrInvalidArgument, c.LRSchedule)
	case c.LRStepSize < 0:
		return fmt.Errorf("%w: learning rate step size %d", linalg.ErrInvalidArgument, c.LRStepSize)
	case c.decays() && (!(c.LRGamma > 0) || math.IsInf(c.LRGamma, 1)):
		return fmt.Errorf("%w: learning rate gamma %v", linalg.ErrInvalidArgument, c.LRGamma)
	case len(c.LabelColumns) != c.Outputs:
		return fmt.Errorf("%w: %d label columns for %d outputs", linalg.ErrInvalidArgument, len(c.LabelColumns), c.Outputs)
	}

	seen := make(map[int]bool, len(c.LabelColumns))
	for _, col := range c.LabelColumns {
		if col < 0 || seen[col] {
			return fmt.Errorf("%w: label column %d", linalg.ErrInvalidArgument, col)
		}
		seen[col] = true
	}
	return nil
}

func (c TrainConfig) decays() bool {
	switch c.LRSchedule {
	case ScheduleExponential:
		return true
	case ScheduleConstant:
		return false
	}
	return c.LRStepSize > 0
}

// Scheduler returns the incremental learning rate schedule, starting from
// LearningRate.
func (c TrainConfig) Scheduler() opt.Scheduler {
	switch c.LRSchedule {
	case ScheduleConstant:
		return opt.Constant(c.LearningRate)
	case ScheduleExponential:
		return opt.ExponentialLR{InitialLR: c.LearningRate, Gamma: c.LRGamma}
	}
	return opt.NewStepLR(c.LearningRate, c.LRStepSize, c.LRGamma)
}

// NewNetwork builds the randomly initialised network the configuration describes.
func (c TrainConfig) NewNetwork(opts ...net.Option) (*net.Network, error) {
	return net.New(c.Inputs, c.Outputs, c.HiddenLayers, c.NodesPerLayer, c.Bias, c.Transfer, opts...)
}

// TrainOptions returns the BatchTrain options implied by the configuration.
func (c TrainConfig) TrainOptions() []net.TrainOption {
	var opts []net.TrainOption
	if c.MaxPasses > 0 {
		opts = append(opts, net.WithMaxPasses(c.MaxPasses))
	}
	return opts
}
