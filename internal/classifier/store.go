// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"

	"github.com/tomtom215/bloomwatch/internal/logging"
	"github.com/tomtom215/bloomwatch/internal/metrics"
)

// Store manages versioned risk-model artifacts in a directory and serves
// the highest loaded version to the classifier through an atomically
// swappable pointer. New artifact files dropped into the directory are
// picked up without restart via fsnotify.
type Store struct {
	dir     string
	current atomic.Pointer[Model]
}

// NewStore creates a store over the given directory and loads the highest
// artifact version found there. A directory with no artifacts is not an
// error; the classifier reports ErrModelUnavailable until one appears.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current implements ModelProvider.
func (s *Store) Current() (*Model, bool) {
	model := s.current.Load()
	return model, model != nil
}

// Reload scans the directory and swaps in the highest artifact version.
// Corrupt candidate files are logged and skipped so that a bad export
// never takes down serving; the previously loaded model stays active.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("scan artifact directory: %w", err)
	}

	best := -1
	bestName := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if v := parseArtifactFilename(entry.Name()); v > best {
			best = v
			bestName = entry.Name()
		}
	}

	if best < 0 {
		return nil
	}
	if cur := s.current.Load(); cur != nil && cur.Version() >= best {
		return nil
	}

	model, err := s.loadFile(filepath.Join(s.dir, bestName))
	if err != nil {
		logging.Err(err).Str("artifact", bestName).Msg("skipping unloadable artifact")
		return nil
	}

	s.current.Store(model)
	metrics.ModelVersion.Set(float64(model.Version()))
	logging.Info().Int("version", model.Version()).Msg("risk model loaded")
	return nil
}

// loadFile reads, decodes, and validates one artifact file.
func (s *Store) loadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is within the configured artifact dir
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	return NewModel(&artifact)
}

// Save writes an artifact to the store's directory under its versioned
// filename, using a temp-file rename so watchers never observe a partial
// write, and swaps it in if it is the newest version.
func (s *Store) Save(artifact *Artifact) error {
	if err := artifact.Seal(); err != nil {
		return err
	}
	if err := artifact.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	final := filepath.Join(s.dir, artifact.Filename())
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil { //nolint:gosec // artifact is not a secret
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}

	return s.Reload()
}

// NextVersion returns the version number the next exported artifact
// should carry.
func (s *Store) NextVersion() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("scan artifact directory: %w", err)
	}
	best := 0
	for _, entry := range entries {
		if v := parseArtifactFilename(entry.Name()); v > best {
			best = v
		}
	}
	return best + 1, nil
}

// RunWithContext watches the artifact directory and hot-swaps newer
// versions until the context is canceled. Designed to run under suture
// supervision; returns ctx.Err() on normal shutdown.
func (s *Store) RunWithContext(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create artifact watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch artifact directory: %w", err)
	}

	logging.Info().Str("dir", s.dir).Msg("artifact watcher started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("artifact watcher stopped")
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Renames land here too: exports publish via rename.
			if event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			if parseArtifactFilename(filepath.Base(event.Name)) < 0 {
				continue
			}
			if err := s.Reload(); err != nil {
				logging.Err(err).Msg("artifact reload failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Err(err).Msg("artifact watcher error")
		}
	}
}
