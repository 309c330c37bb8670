package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/layer"
	"github.com/FlavioCFOliveira/ffnet/internal/net"
)

func main() {
	fmt.Println("=== AND Gate Training Example ===")

	// A single logistic neuron separates AND linearly.
	l1, err := layer.NewDenseFrom([][]float64{{-0.27, 0.05}}, []float64{-0.48}, activations.Logistic)
	if err != nil {
		log.Fatalf("failed to create layer: %v", err)
	}
	network, err := net.FromLayers([]*layer.Dense{l1})
	if err != nil {
		log.Fatalf("failed to create network: %v", err)
	}
	network.Summary(os.Stdout)

	trainX := [][]float64{
		{1, 1},
		{0, 0},
		{1, 0},
		{0, 1},
	}
	trainY := [][]float64{
		{1},
		{0},
		{0},
		{0},
	}
	points := make([]net.TrainingPoint, len(trainX))
	for i := range trainX {
		points[i] = net.NewTrainingPoint(trainX[i], trainY[i])
	}

	fmt.Println("\nBatch training to R² >= 0.9999 with learning rate 0.1")
	report, err := network.BatchTrain(points, 0.9999, 0.1, net.WithCallbacks(net.Logger{Interval: 20}))
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	fmt.Printf("Converged after %d passes, R² = %.6f\n", report.Passes, report.RSquared[0])

	fmt.Println("\nTesting trained network:")
	for i := range trainX {
		pred, err := network.Calculate(trainX[i])
		if err != nil {
			log.Fatalf("calculate failed: %v", err)
		}
		fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n", trainX[i], pred[0], trainY[i][0])
	}

	dir, err := os.MkdirTemp("", "ffnet-and")
	if err != nil {
		log.Fatalf("failed to create directory: %v", err)
	}
	defer os.RemoveAll(dir)

	fmt.Println("\nSaving network to disk...")
	if err := network.Save(dir, "and_network"); err != nil {
		log.Fatalf("Error saving network: %v", err)
	}
	fmt.Printf("Network saved to %s\n", net.Path(dir, "and_network"))

	fmt.Println("Loading network from disk...")
	loadedNetwork, err := net.Load(dir, "and_network")
	if err != nil {
		log.Fatalf("Error loading network: %v", err)
	}

	fmt.Println("\nVerifying loaded network:")
	allMatch := true
	for i := range trainX {
		originalPred, _ := network.Calculate(trainX[i])
		loadedPred, _ := loadedNetwork.Calculate(trainX[i])
		match := "OK"
		if math.Abs(originalPred[0]-loadedPred[0]) > 1e-12 {
			match = "MISMATCH"
			allMatch = false
		}
		fmt.Printf("Input: %v, Original: %.4f, Loaded: %.4f [%s]\n",
			trainX[i], originalPred[0], loadedPred[0], match)
	}

	if allMatch {
		fmt.Println("\nSUCCESS: All predictions match between original and loaded network!")
	} else {
		fmt.Println("\nFAILURE: Predictions differ between original and loaded network!")
		os.Exit(1)
	}
}
