// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package main is the Bloomwatch command-line entry point.
//
// Bloomwatch estimates eutrophication risk for ponds and lakes from a
// surface photograph plus four environmental measurements, producing a
// risk level, mitigation recommendations, and a trend over past scans.
//
// Subcommands:
//
//	scan    Run one photo + measurements through the pipeline, print JSON
//	train   Train a risk model artifact from a labeled sample file
//	daemon  Watch a spool directory and process incoming scans
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): BLOOMWATCH_* environment variables, an optional YAML
// config file (bloomwatch.yaml or BLOOMWATCH_CONFIG), built-in defaults.
//
// Example one-shot scan:
//
//	bloomwatch scan -image pond.jpg -water pond-a \
//	    -rainfall 120 -temperature 28 -fertilizer high -stagnant
//
// The daemon handles SIGINT and SIGTERM gracefully: the supervision tree
// drains its services before exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bloomwatch/internal/classifier"
	"github.com/tomtom215/bloomwatch/internal/config"
	"github.com/tomtom215/bloomwatch/internal/history"
	"github.com/tomtom215/bloomwatch/internal/imaging"
	"github.com/tomtom215/bloomwatch/internal/logging"
	"github.com/tomtom215/bloomwatch/internal/metrics"
	"github.com/tomtom215/bloomwatch/internal/models"
	"github.com/tomtom215/bloomwatch/internal/pipeline"
	"github.com/tomtom215/bloomwatch/internal/recommend"
	"github.com/tomtom215/bloomwatch/internal/runner"
	"github.com/tomtom215/bloomwatch/internal/supervisor"
	"github.com/tomtom215/bloomwatch/internal/trend"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = runScan(os.Args[2:])
	case "train":
		err = runTrain(os.Args[2:])
	case "daemon":
		err = runDaemon(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bloomwatch %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: bloomwatch <command> [flags]

Commands:
  scan    Assess one photo + measurements, print the outcome as JSON
  train   Train a risk model artifact from a labeled sample file
  daemon  Watch a spool directory and process incoming scans

Run "bloomwatch <command> -h" for command flags.
`)
}

// loadConfig loads layered configuration, honoring an explicit -config path.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// buildEngine assembles the recommendation engine from config, wiring the
// OpenAI generator only when the generative path is enabled.
func buildEngine(cfg *config.Config) (*recommend.Engine, error) {
	var generator recommend.Generator
	if cfg.Recommend.Generative {
		g, err := recommend.NewOpenAIGenerator(cfg.Recommend.OpenAIAPIKey, cfg.Recommend.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("generative recommendations: %w", err)
		}
		generator = g
	}
	return recommend.NewEngine(generator, cfg.Recommend.Engine), nil
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	imagePath := fs.String("image", "", "pond photograph (JPEG or PNG)")
	waterID := fs.String("water", "default", "water body identifier")
	rainfall := fs.Float64("rainfall", 0, "recent rainfall in mm (0-500)")
	temperature := fs.Float64("temperature", 20, "water temperature in C (15-45)")
	fertilizer := fs.String("fertilizer", "low", "fertilizer use: low, medium, high")
	stagnant := fs.Bool("stagnant", false, "water is stagnant")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *imagePath == "" {
		return fmt.Errorf("-image is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)

	store, err := classifier.NewStore(cfg.Classifier.ArtifactDir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	pipe := pipeline.New(
		cfg.Pipeline,
		imaging.NewExtractor(cfg.Imaging),
		classifier.New(store),
		engine,
		trend.NewAnalyzer(cfg.Trend),
		nil, // one-shot scans carry no history
		nil,
	)

	f, err := os.Open(*imagePath) // #nosec G304 -- operator-supplied path
	if err != nil {
		return err
	}
	defer f.Close()

	outcome, err := pipe.Run(context.Background(), pipeline.Request{
		WaterID: *waterID,
		Image:   f,
		Environmental: models.EnvironmentalInput{
			RainfallMm:      *rainfall,
			TemperatureC:    *temperature,
			FertilizerLevel: models.FertilizerLevel(*fertilizer),
			WaterStagnation: *stagnant,
		},
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	dataPath := fs.String("data", "", "labeled samples JSON file")
	seed := fs.Int64("seed", 1, "training RNG seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("-data is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)

	raw, err := os.ReadFile(*dataPath) // #nosec G304 -- operator-supplied path
	if err != nil {
		return err
	}
	var samples []classifier.Sample
	if err := json.Unmarshal(raw, &samples); err != nil {
		return fmt.Errorf("parse samples: %w", err)
	}

	store, err := classifier.NewStore(cfg.Classifier.ArtifactDir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	version, err := store.NextVersion()
	if err != nil {
		return err
	}

	trainCfg := classifier.DefaultTrainingConfig()
	trainCfg.Seed = *seed

	artifact, report, err := classifier.Train(samples, trainCfg, version)
	if err != nil {
		return err
	}
	if err := store.Save(artifact); err != nil {
		return err
	}

	logging.Info().
		Int("version", artifact.Version).
		Int("samples", report.TrainCount+report.TestCount).
		Float64("test_accuracy", report.TestAccuracy).
		Str("file", artifact.Filename()).
		Msg("Model trained and saved")
	return nil
}

func runDaemon(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)

	store, err := classifier.NewStore(cfg.Classifier.ArtifactDir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	hist := history.NewMemoryStore()
	pipe := pipeline.New(
		cfg.Pipeline,
		imaging.NewExtractor(cfg.Imaging),
		classifier.New(store),
		engine,
		trend.NewAnalyzer(cfg.Trend),
		hist,
		hist,
	)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	if cfg.Classifier.WatchArtifacts {
		tree.AddModelService(supervisor.ServiceFunc(store.RunWithContext))
	}
	tree.AddIntakeService(runner.New(runner.Config{
		SpoolDir:    cfg.Runner.SpoolDir,
		DoneDir:     cfg.Runner.DoneDir,
		SettleDelay: cfg.Runner.SettleDelay,
	}, pipe))
	if cfg.Metrics.Enabled {
		tree.AddIntakeService(metrics.NewServer(cfg.Metrics.ListenAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Bloomwatch daemon starting")
	if err := tree.Serve(ctx); err != nil && err != context.Canceled {
		return err
	}
	logging.Info().Msg("Bloomwatch daemon stopped")
	return nil
}
