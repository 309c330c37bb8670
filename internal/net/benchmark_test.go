// Package net provides benchmarks for neural network training.
package net

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/stats"
)

// fillRandom fills a slice with random values.
func fillRandom(slice []float64) {
	for i := range slice {
		slice[i] = rand.Float64()
	}
}

func benchNetwork(b *testing.B) *Network {
	b.Helper()
	n, err := New(64, 16, 3, 1, true, activations.Logistic, WithSampler(stats.NewSeededSampler(1)))
	if err != nil {
		b.Fatalf("New returned error: %v", err)
	}
	return n
}

// BenchmarkNetworkCalculate benchmarks a forward pass.
func BenchmarkNetworkCalculate(b *testing.B) {
	network := benchNetwork(b)
	input := make([]float64, 64)
	fillRandom(input)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.Calculate(input)
	}
}

// BenchmarkNetworkIncrementalTrain benchmarks training on a single sample.
func BenchmarkNetworkIncrementalTrain(b *testing.B) {
	network := benchNetwork(b)
	input := make([]float64, 64)
	target := make([]float64, 16)
	fillRandom(input)
	fillRandom(target)
	p := NewTrainingPoint(input, target)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.IncrementalTrain(p, 0.1)
	}
}

// BenchmarkNetworkBatchPass benchmarks one batch pass over 32 samples.
func BenchmarkNetworkBatchPass(b *testing.B) {
	network := benchNetwork(b)
	points := make([]TrainingPoint, 32)
	for i := range points {
		input := make([]float64, 64)
		target := make([]float64, 16)
		fillRandom(input)
		fillRandom(target)
		points[i] = NewTrainingPoint(input, target)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.BatchTrain(points, 1, 0.1, WithMaxPasses(1))
	}
}

// BenchmarkNetworkMutate benchmarks mutating a clone.
func BenchmarkNetworkMutate(b *testing.B) {
	network := benchNetwork(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.Clone().MutateDefault()
	}
}

// BenchmarkNetworkEncode benchmarks gob encoding.
func BenchmarkNetworkEncode(b *testing.B) {
	network := benchNetwork(b)
	var buf bytes.Buffer

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		network.Encode(&buf)
	}
}
