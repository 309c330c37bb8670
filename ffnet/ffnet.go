// Package ffnet is the public entry point to the feed-forward network library.
package ffnet

import (
	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/evolve"
	"github.com/FlavioCFOliveira/ffnet/internal/layer"
	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
	"github.com/FlavioCFOliveira/ffnet/internal/net"
	"github.com/FlavioCFOliveira/ffnet/internal/stats"
)

// Re-export common types and functions for easier access
type (
	Network       = net.Network
	Layer         = layer.Dense
	TrainingPoint = net.TrainingPoint
	Transfer      = activations.Transfer
	Report        = net.Report
	Gradients     = net.Gradients
	Option        = net.Option
	TrainOption   = net.TrainOption
	Sampler       = stats.Sampler
	Dataset       = net.Dataset
)

// Errors
var (
	ErrDimensionMismatch = linalg.ErrDimensionMismatch
	ErrInvalidArgument   = linalg.ErrInvalidArgument
	ErrConvergence       = net.ErrConvergence
)

// Transfer functions
const (
	Logistic = activations.Logistic
	Identity = activations.Identity
	Tanh     = activations.Tanh
	ReLU     = activations.ReLU
)

// Defaults
const (
	DefaultLearningRate   = net.DefaultLearningRate
	DefaultMinRSquared    = net.DefaultMinRSquared
	DefaultLowerLimit     = net.DefaultLowerLimit
	DefaultUpperLimit     = net.DefaultUpperLimit
	DefaultMutationStdDev = net.DefaultMutationStdDev
	MaxPasses             = net.MaxPasses
)

// Network creation
func New(inputs, outputs, hiddenLayers, nodesPerLayer int, hasBias bool, tf Transfer, opts ...Option) (*Network, error) {
	return net.New(inputs, outputs, hiddenLayers, nodesPerLayer, hasBias, tf, opts...)
}

func FromLayers(layers []*Layer, opts ...Option) (*Network, error) {
	return net.FromLayers(layers, opts...)
}

// Layers
func Dense(weights [][]float64, biases []float64, tf Transfer) (*Layer, error) {
	return layer.NewDenseFrom(weights, biases, tf)
}

func NewTrainingPoint(input, expected []float64) TrainingPoint {
	return net.NewTrainingPoint(input, expected)
}

// Options
func WithSampler(s *Sampler) Option {
	return net.WithSampler(s)
}

func WithMaxPasses(passes int) TrainOption {
	return net.WithMaxPasses(passes)
}

func WithCallbacks(cbs ...Callback) TrainOption {
	return net.WithCallbacks(cbs...)
}

// Sampling
func NewSampler(seed int64) *Sampler {
	return stats.NewSeededSampler(seed)
}

// Callbacks
type Callback = net.Callback

func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func ModelCheckpoint(dir, name string) *net.ModelCheckpoint {
	return net.NewModelCheckpoint(dir, name)
}

func CSVLogger(filename string) *net.CSVLogger {
	return net.NewCSVLogger(filename, false)
}

// Evolution
type (
	EvolveConfig = evolve.Config
	EvolveResult = evolve.Result
	Fitness      = evolve.Fitness
)

func Evolve(ancestor *Network, fitness Fitness, cfg EvolveConfig) (EvolveResult, error) {
	return evolve.Search(ancestor, fitness, cfg)
}

// Data
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	return net.LoadCSV(filename, labelCols, hasHeader)
}

// Model Persistence
func Load(dir, name string, opts ...Option) (*Network, error) {
	return net.Load(dir, name, opts...)
}
