package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/evolve"
	"github.com/FlavioCFOliveira/ffnet/internal/net"
	"github.com/FlavioCFOliveira/ffnet/internal/stats"
)

func main() {
	population := flag.Int("population", 40, "networks per generation")
	survivors := flag.Int("survivors", 8, "networks kept each generation")
	generations := flag.Int("generations", 200, "number of generations")
	stdDev := flag.Float64("stddev", net.DefaultMutationStdDev, "mutation standard deviation")
	seed := flag.Int64("seed", 1, "sampler seed")
	flag.Parse()

	fmt.Println("=== Evolving a sine approximation ===")

	// sin(x) for x in [-π, π], rescaled into the logistic range.
	var points []net.TrainingPoint
	for i := 0; i <= 20; i++ {
		x := -math.Pi + 2*math.Pi*float64(i)/20
		points = append(points, net.NewTrainingPoint([]float64{x / math.Pi}, []float64{0.5 + 0.4*math.Sin(x)}))
	}

	ancestor, err := net.New(1, 1, 2, 1, true, activations.Logistic, net.WithSampler(stats.NewSeededSampler(*seed)))
	if err != nil {
		log.Fatalf("failed to create network: %v", err)
	}

	cfg := evolve.DefaultConfig()
	cfg.Population = *population
	cfg.Survivors = *survivors
	cfg.Generations = *generations
	cfg.StdDev = *stdDev
	cfg.OnGeneration = func(gen int, best float64) {
		if gen%20 == 0 {
			fmt.Printf("Generation %d, squared error: %.6f\n", gen, -best)
		}
	}

	res, err := evolve.Search(ancestor, evolve.NegatedSquaredError(points), cfg)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	fmt.Printf("\nBest squared error after %d generations: %.6f\n", len(res.History), -res.Fitness)

	fmt.Println("\nSamples:")
	for i := 0; i < len(points); i += 5 {
		pred, _ := res.Best.Calculate(points[i].Input())
		fmt.Printf("x = %+.3f, predicted %.4f, target %.4f\n", points[i].Input()[0], pred[0], points[i].Expected()[0])
	}
}
