// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Imaging.WorkingWidth != 640 || cfg.Imaging.WorkingHeight != 480 {
		t.Errorf("working resolution = %dx%d, want 640x480", cfg.Imaging.WorkingWidth, cfg.Imaging.WorkingHeight)
	}
	if cfg.Classifier.ArtifactDir != "/data/models" {
		t.Errorf("ArtifactDir = %q", cfg.Classifier.ArtifactDir)
	}
	if cfg.Recommend.Generative {
		t.Error("generative path must be opt-in")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloomwatch.yaml")
	content := `
imaging:
  min_cluster_area: 9
classifier:
  artifact_dir: /tmp/models
trend:
  delta: 0.2
runner:
  settle_delay: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Imaging.MinClusterArea != 9 {
		t.Errorf("MinClusterArea = %d, want 9", cfg.Imaging.MinClusterArea)
	}
	if cfg.Classifier.ArtifactDir != "/tmp/models" {
		t.Errorf("ArtifactDir = %q, want /tmp/models", cfg.Classifier.ArtifactDir)
	}
	if cfg.Trend.Delta != 0.2 {
		t.Errorf("Trend.Delta = %v, want 0.2", cfg.Trend.Delta)
	}
	if cfg.Runner.SettleDelay != 5*time.Second {
		t.Errorf("SettleDelay = %v, want 5s", cfg.Runner.SettleDelay)
	}
	// Untouched sections keep their defaults.
	if cfg.Imaging.WorkingWidth != 640 {
		t.Errorf("WorkingWidth = %d, want default 640", cfg.Imaging.WorkingWidth)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloomwatch.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("BLOOMWATCH_LOGGING_LEVEL", "debug")
	t.Setenv("BLOOMWATCH_CLASSIFIER_ARTIFACT_DIR", "/env/models")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, env must beat file", cfg.Logging.Level)
	}
	if cfg.Classifier.ArtifactDir != "/env/models" {
		t.Errorf("ArtifactDir = %q, want /env/models", cfg.Classifier.ArtifactDir)
	}
}

func TestLoad_UnknownEnvVarsIgnored(t *testing.T) {
	t.Setenv("BLOOMWATCH_BOGUS_SETTING", "x")

	if _, err := LoadFile(""); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"BLOOMWATCH_IMAGING_MIN_CLUSTER_AREA", "imaging.min_cluster_area"},
		{"BLOOMWATCH_RECOMMEND_OPENAI_API_KEY", "recommend.openai_api_key"},
		{"BLOOMWATCH_RECOMMEND_ENGINE_TIMEOUT", "recommend.engine.timeout"},
		{"BLOOMWATCH_LOGGING_LEVEL", "logging.level"},
		{"BLOOMWATCH_PIPELINE_MAX_CONCURRENT_EXTRACTIONS", "pipeline.max_concurrent_extractions"},
		{"BLOOMWATCH_UNRELATED_THING", ""},
		{"BLOOMWATCH_IMAGING", ""},
	}

	for _, tc := range cases {
		if got := envTransformFunc(tc.in); got != tc.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"empty artifact dir", func(c *Config) { c.Classifier.ArtifactDir = "" }, true},
		{"generative without key", func(c *Config) { c.Recommend.Generative = true }, true},
		{"generative with key", func(c *Config) {
			c.Recommend.Generative = true
			c.Recommend.OpenAIAPIKey = "sk-test"
		}, false},
		{"empty spool dir", func(c *Config) { c.Runner.SpoolDir = "" }, true},
		{"negative settle delay", func(c *Config) { c.Runner.SettleDelay = -time.Second }, true},
		{"metrics without addr", func(c *Config) { c.Metrics.ListenAddr = "" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
