// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package config loads and validates the application configuration with
// layered precedence: environment variables over an optional YAML file over
// built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/bloomwatch/internal/imaging"
	"github.com/tomtom215/bloomwatch/internal/logging"
	"github.com/tomtom215/bloomwatch/internal/pipeline"
	"github.com/tomtom215/bloomwatch/internal/recommend"
	"github.com/tomtom215/bloomwatch/internal/trend"
)

// Config is the full application configuration.
type Config struct {
	Imaging    imaging.Config   `koanf:"imaging"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Trend      trend.Config     `koanf:"trend"`
	Pipeline   pipeline.Config  `koanf:"pipeline"`
	Runner     RunnerConfig     `koanf:"runner"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Logging    logging.Config   `koanf:"logging"`
}

// ClassifierConfig locates and bounds the risk model.
type ClassifierConfig struct {
	// ArtifactDir is where versioned model artifacts live.
	ArtifactDir string `koanf:"artifact_dir"`

	// WatchArtifacts enables hot-reload of new artifact versions.
	WatchArtifacts bool `koanf:"watch_artifacts"`
}

// RecommendConfig configures the recommendation engine and its optional
// generative backend.
type RecommendConfig struct {
	// Generative enables the OpenAI-backed generator. When false the
	// engine serves the static fallback table only.
	Generative bool `koanf:"generative"`

	// OpenAIAPIKey authenticates generative calls. Required when
	// Generative is true.
	OpenAIAPIKey string `koanf:"openai_api_key"`

	// OpenAIModel selects the chat model; empty means the default.
	OpenAIModel string `koanf:"openai_model"`

	// Engine holds the resiliency settings for the generative path.
	Engine recommend.Config `koanf:"engine"`
}

// RunnerConfig configures the spool-directory scan runner.
type RunnerConfig struct {
	// SpoolDir is watched for incoming image + sidecar pairs.
	SpoolDir string `koanf:"spool_dir"`

	// DoneDir receives processed inputs; empty means delete after
	// processing.
	DoneDir string `koanf:"done_dir"`

	// SettleDelay is how long a new file must sit unchanged before it is
	// picked up, so half-written uploads are not read.
	SettleDelay time.Duration `koanf:"settle_delay"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	// Enabled turns the /metrics listener on.
	Enabled bool `koanf:"enabled"`

	// ListenAddr is the metrics listen address.
	ListenAddr string `koanf:"listen_addr"`
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Imaging: imaging.DefaultConfig(),
		Classifier: ClassifierConfig{
			ArtifactDir:    "/data/models",
			WatchArtifacts: true,
		},
		Recommend: RecommendConfig{
			Generative:   false, // opt-in: requires an API key
			OpenAIAPIKey: "",
			OpenAIModel:  "",
			Engine:       recommend.DefaultConfig(),
		},
		Trend:    trend.DefaultConfig(),
		Pipeline: pipeline.Config{MaxConcurrentExtractions: 0}, // 0 = NumCPU
		Runner: RunnerConfig{
			SpoolDir:    "/data/spool",
			DoneDir:     "/data/processed",
			SettleDelay: 2 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1:9465",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks cross-field consistency the struct tags cannot express.
func (c *Config) Validate() error {
	if c.Classifier.ArtifactDir == "" {
		return fmt.Errorf("classifier.artifact_dir must not be empty")
	}
	if c.Recommend.Generative && c.Recommend.OpenAIAPIKey == "" {
		return fmt.Errorf("recommend.generative requires recommend.openai_api_key")
	}
	if c.Runner.SpoolDir == "" {
		return fmt.Errorf("runner.spool_dir must not be empty")
	}
	if c.Runner.SettleDelay < 0 {
		return fmt.Errorf("runner.settle_delay must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.enabled requires metrics.listen_addr")
	}
	return nil
}
