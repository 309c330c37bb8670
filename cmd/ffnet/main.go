package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/FlavioCFOliveira/ffnet/internal/config"
	"github.com/FlavioCFOliveira/ffnet/internal/net"
	"github.com/FlavioCFOliveira/ffnet/internal/stats"
)

func main() {
	configPath := flag.String("config", "", "JSON training configuration (defaults apply when empty)")
	dataPath := flag.String("data", "", "CSV dataset")
	outDir := flag.String("out", ".", "directory the model is written to")
	name := flag.String("name", "model", "model file name, without extension")
	logPath := flag.String("log", "", "optional CSV training log")
	checkpoint := flag.Bool("checkpoint", false, "save the best batch pass as <name>_best")
	split := flag.Float64("split", 1, "fraction of rows used for training; the rest is held out")
	flag.Parse()

	if *dataPath == "" {
		log.Fatalf("missing -data")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	dataset, err := net.LoadCSV(*dataPath, cfg.LabelColumns, cfg.HasHeader)
	if err != nil {
		log.Fatalf("failed to load data: %v", err)
	}
	if cfg.Normalize {
		dataset.Normalize()
	}
	trainSet, testSet := dataset.Split(*split)
	trainPoints := trainSet.Points()
	fmt.Printf("Loaded %d rows (%d train, %d held out)\n", len(dataset.Inputs), len(trainSet.Inputs), len(testSet.Inputs))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	network, err := cfg.NewNetwork(net.WithSampler(stats.NewSeededSampler(seed)))
	if err != nil {
		log.Fatalf("failed to create network: %v", err)
	}
	network.Summary(os.Stdout)

	switch cfg.Mode {
	case config.ModeBatch:
		opts := append(cfg.TrainOptions(), net.WithCallbacks(net.Logger{Interval: 100}))
		var csvLog *net.CSVLogger
		if *logPath != "" {
			csvLog = net.NewCSVLogger(*logPath, false)
			opts = append(opts, net.WithCallbacks(csvLog))
		}
		var ckpt *net.ModelCheckpoint
		if *checkpoint {
			ckpt = net.NewModelCheckpoint(*outDir, *name+"_best")
			opts = append(opts, net.WithCallbacks(ckpt))
		}

		report, err := network.BatchTrain(trainPoints, cfg.MinRSquared, cfg.LearningRate, opts...)
		if err != nil {
			log.Fatalf("training failed after %d passes: %v", report.Passes, err)
		}
		if ckpt != nil && ckpt.Err != nil {
			log.Printf("checkpoint failed: %v", ckpt.Err)
		}
		if csvLog != nil && csvLog.Err != nil {
			log.Printf("training log failed: %v", csvLog.Err)
		}
		fmt.Printf("Converged after %d passes, R² = %v\n", report.Passes, report.RSquared)

	case config.ModeIncremental:
		schedule := cfg.Scheduler()
		for epoch := 0; epoch < cfg.Epochs; epoch++ {
			rate := schedule.Rate(epoch)
			for _, p := range trainPoints {
				if err := network.IncrementalTrain(p, rate); err != nil {
					log.Fatalf("training failed at epoch %d: %v", epoch, err)
				}
			}
			if epoch%10 == 0 || epoch == cfg.Epochs-1 {
				r2, err := network.RSquared(trainPoints)
				if err != nil {
					log.Fatalf("evaluation failed: %v", err)
				}
				fmt.Printf("Epoch %d, rate %.4f, R² = %v\n", epoch, rate, r2)
			}
		}
	}

	if testPoints := testSet.Points(); len(testPoints) > 0 {
		r2, err := network.RSquared(testPoints)
		if err != nil {
			log.Fatalf("evaluation failed: %v", err)
		}
		fmt.Printf("Held-out R² = %v\n", r2)
	}

	if err := network.Save(*outDir, *name); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}
	fmt.Printf("Model saved to %s\n", net.Path(*outDir, *name))
}
