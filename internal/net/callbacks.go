package net

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Callback observes a BatchTrain run. Callbacks cannot stop training.
type Callback interface {
	OnTrainBegin(n *Network)
	OnPassEnd(pass int, rSquared []float64, n *Network)
	OnTrainEnd(n *Network, err error)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                            {}
func (c BaseCallback) OnPassEnd(pass int, rSquared []float64, n *Network) {}
func (c BaseCallback) OnTrainEnd(n *Network, err error)                   {}

// minimum returns the smallest value, or NaN if any value is NaN.
func minimum(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v < m {
			m = v
		}
	}
	return m
}

// Logger logs training progress.
type Logger struct {
	BaseCallback
	Interval int
	// Out defaults to os.Stdout.
	Out io.Writer
}

func (c Logger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c Logger) OnPassEnd(pass int, rSquared []float64, n *Network) {
	if c.Interval > 0 && pass%c.Interval == 0 {
		fmt.Fprintf(c.out(), "Pass %d: min R² = %.6f\n", pass, minimum(rSquared))
	}
}

func (c Logger) OnTrainEnd(n *Network, err error) {
	if err != nil {
		fmt.Fprintf(c.out(), "Training stopped: %v\n", err)
		return
	}
	fmt.Fprintln(c.out(), "Training converged")
}

// ModelCheckpoint saves the network whenever the smallest per-dimension R²
// improves on the best seen so far.
type ModelCheckpoint struct {
	BaseCallback
	Dir  string
	Name string
	// Interval limits checks to every Interval passes; zero checks every pass.
	Interval int

	best float64
	// Err holds the last save failure, if any.
	Err error
}

// NewModelCheckpoint creates a checkpoint writing <dir>/<name>.bin.
func NewModelCheckpoint(dir, name string) *ModelCheckpoint {
	return &ModelCheckpoint{
		Dir:  dir,
		Name: name,
		best: math.Inf(-1),
	}
}

func (c *ModelCheckpoint) OnPassEnd(pass int, rSquared []float64, n *Network) {
	if c.Interval > 0 && pass%c.Interval != 0 {
		return
	}
	r2 := minimum(rSquared)
	if !(r2 > c.best) {
		return
	}
	c.best = r2
	if err := n.Save(c.Dir, c.Name); err != nil {
		c.Err = err
		fmt.Printf("Error saving checkpoint: %v\n", err)
	}
}

// Best returns the best minimum R² seen so far.
func (c *ModelCheckpoint) Best() float64 {
	return c.best
}
