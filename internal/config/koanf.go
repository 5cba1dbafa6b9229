// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"bloomwatch.yaml",
	"bloomwatch.yml",
	"/etc/bloomwatch/config.yaml",
	"/etc/bloomwatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "BLOOMWATCH_CONFIG"

// envPrefix namespaces the override environment variables.
const envPrefix = "BLOOMWATCH_"

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. BLOOMWATCH_* environment variables (highest priority)
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path; empty skips the file
// layer. Used by tests and the --config flag.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// BLOOMWATCH_RECOMMEND_OPENAI_API_KEY -> recommend.openai_api_key
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or empty.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps BLOOMWATCH_* variable names to koanf paths. Only
// the first segment becomes a section; the rest keeps its underscores, so
// BLOOMWATCH_IMAGING_MIN_CLUSTER_AREA maps to imaging.min_cluster_area.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	section, rest, found := strings.Cut(key, "_")
	if !found || rest == "" {
		return ""
	}

	switch section {
	case "imaging", "classifier", "trend", "pipeline", "runner", "metrics", "logging":
		return section + "." + rest
	case "recommend":
		// Engine tunables nest one level deeper.
		if engineKey, ok := strings.CutPrefix(rest, "engine_"); ok {
			return "recommend.engine." + engineKey
		}
		return "recommend." + rest
	default:
		// Unknown sections are skipped so unrelated variables cannot
		// pollute the configuration.
		return ""
	}
}

// WatchConfigFile invokes callback whenever the config file changes. The
// caller re-runs Load and swaps its configuration under its own lock.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
