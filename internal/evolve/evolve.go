// Package evolve trains networks by mutation and selection instead of
// gradients.
package evolve

import (
	"fmt"
	"math"
	"sort"

	"github.com/FlavioCFOliveira/ffnet/internal/linalg"
	"github.com/FlavioCFOliveira/ffnet/internal/net"
)

// Fitness scores a network. Higher is better; NaN ranks last.
type Fitness func(n *net.Network) float64

// Config controls a search.
type Config struct {
	// Population is the number of networks alive in each generation.
	Population int
	// Survivors is the number of best networks carried, unchanged, into the
	// next generation. The rest of the population is refilled with mutated
	// clones of the survivors.
	Survivors   int
	Generations int

	// Mutation parameters passed to net.Network.Mutate.
	Lower, Upper, StdDev float64

	// OnGeneration, if set, is called after each generation is ranked.
	OnGeneration func(generation int, best float64)
}

// DefaultConfig returns a small search using the default mutation limits.
func DefaultConfig() Config {
	return Config{
		Population:  20,
		Survivors:   5,
		Generations: 50,
		Lower:       net.DefaultLowerLimit,
		Upper:       net.DefaultUpperLimit,
		StdDev:      net.DefaultMutationStdDev,
	}
}

// Validate checks the population sizes and mutation parameters.
func (c Config) Validate() error {
	switch {
	case c.Population < 1:
		return fmt.Errorf("%w: population %d", linalg.ErrInvalidArgument, c.Population)
	case c.Survivors < 1 || c.Survivors > c.Population:
		return fmt.Errorf("%w: %d survivors of %d", linalg.ErrInvalidArgument, c.Survivors, c.Population)
	case c.Generations < 1:
		return fmt.Errorf("%w: %d generations", linalg.ErrInvalidArgument, c.Generations)
	case !(c.Lower < c.Upper):
		return fmt.Errorf("%w: limits [%v, %v]", linalg.ErrInvalidArgument, c.Lower, c.Upper)
	case !(c.StdDev > 0) || math.IsInf(c.StdDev, 1):
		return fmt.Errorf("%w: standard deviation %v", linalg.ErrInvalidArgument, c.StdDev)
	}
	return nil
}

// Result is the outcome of a search.
type Result struct {
	Best    *net.Network
	Fitness float64
	// History holds the best fitness of every generation.
	History []float64
}

type individual struct {
	n       *net.Network
	fitness float64
}

// Search evolves mutated clones of ancestor for cfg.Generations generations
// and returns the fittest network found. The ancestor is never modified.
func Search(ancestor *net.Network, fitness Fitness, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if ancestor == nil || fitness == nil {
		return Result{}, fmt.Errorf("%w: nil ancestor or fitness", linalg.ErrInvalidArgument)
	}

	population := make([]individual, 0, cfg.Population)
	for len(population) < cfg.Population {
		child, err := offspring(ancestor, fitness, cfg)
		if err != nil {
			return Result{}, err
		}
		population = append(population, child)
	}

	history := make([]float64, 0, cfg.Generations)
	for gen := 0; gen < cfg.Generations; gen++ {
		rank(population)
		best := population[0].fitness
		history = append(history, best)
		if cfg.OnGeneration != nil {
			cfg.OnGeneration(gen, best)
		}
		if gen == cfg.Generations-1 {
			break
		}

		population = population[:cfg.Survivors]
		for i := 0; len(population) < cfg.Population; i++ {
			child, err := offspring(population[i%cfg.Survivors].n, fitness, cfg)
			if err != nil {
				return Result{}, err
			}
			population = append(population, child)
		}
	}

	return Result{
		Best:    population[0].n,
		Fitness: population[0].fitness,
		History: history,
	}, nil
}

// offspring returns a scored, mutated clone of parent.
func offspring(parent *net.Network, fitness Fitness, cfg Config) (individual, error) {
	child := parent.Clone()
	if err := child.Mutate(cfg.Lower, cfg.Upper, cfg.StdDev); err != nil {
		return individual{}, err
	}
	return individual{n: child, fitness: score(fitness, child)}, nil
}

func score(fitness Fitness, n *net.Network) float64 {
	f := fitness(n)
	if math.IsNaN(f) {
		return math.Inf(-1)
	}
	return f
}

// rank sorts by descending fitness, keeping earlier individuals first on ties.
func rank(population []individual) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// NegatedSquaredError returns a fitness that is minus the squared error of the
// network over points. Points the network cannot evaluate score -Inf.
func NegatedSquaredError(points []net.TrainingPoint) Fitness {
	return func(n *net.Network) float64 {
		var sum float64
		for _, p := range points {
			out, err := n.Calculate(p.Input())
			expected := p.Expected()
			if err != nil || len(out) != len(expected) {
				return math.Inf(-1)
			}
			for i, e := range expected {
				d := e - out[i]
				sum += d * d
			}
		}
		return -sum
	}
}
