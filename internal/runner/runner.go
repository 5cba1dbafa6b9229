// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package runner feeds the scan pipeline from a spool directory. Each scan
// arrives as an image file (JPEG or PNG) plus a JSON sidecar with the same
// base name carrying the water body ID and environmental measurements:
//
//	pond-a-20260825.jpg
//	pond-a-20260825.json
//
// Processed pairs move to a done directory (or are deleted) and the scan
// outcome is written alongside them as <base>.outcome.json.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"

	"github.com/tomtom215/bloomwatch/internal/logging"
	"github.com/tomtom215/bloomwatch/internal/models"
	"github.com/tomtom215/bloomwatch/internal/pipeline"
)

// sidecarExt and outcomeExt define the spool file naming contract.
const (
	sidecarExt = ".json"
	outcomeExt = ".outcome.json"
)

// imageExts lists the accepted image extensions, lowercase.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Sidecar is the JSON document accompanying each spooled image.
type Sidecar struct {
	// WaterID identifies the water body the photo belongs to.
	WaterID string `json:"water_id"`

	// Environmental holds the measurements taken with the photo.
	Environmental models.EnvironmentalInput `json:"environmental"`
}

// Config mirrors config.RunnerConfig without importing it, keeping this
// package free of the config dependency cycle.
type Config struct {
	// SpoolDir is watched for incoming image + sidecar pairs.
	SpoolDir string

	// DoneDir receives processed inputs; empty means delete them.
	DoneDir string

	// SettleDelay is how long a file must sit unchanged before pickup.
	SettleDelay time.Duration
}

// Runner watches the spool directory and runs each complete pair through
// the pipeline. Implements suture.Service.
type Runner struct {
	cfg  Config
	pipe *pipeline.Pipeline
}

// New creates a spool runner.
func New(cfg Config, pipe *pipeline.Pipeline) *Runner {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	return &Runner{cfg: cfg, pipe: pipe}
}

// Serve watches the spool directory until the context is canceled. Pairs
// already present at startup are processed first.
func (r *Runner) Serve(ctx context.Context) error {
	if err := os.MkdirAll(r.cfg.SpoolDir, 0o750); err != nil {
		return fmt.Errorf("create spool dir: %w", err)
	}
	if r.cfg.DoneDir != "" {
		if err := os.MkdirAll(r.cfg.DoneDir, 0o750); err != nil {
			return fmt.Errorf("create done dir: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.cfg.SpoolDir); err != nil {
		return fmt.Errorf("watch %s: %w", r.cfg.SpoolDir, err)
	}

	logging.Info().Str("dir", r.cfg.SpoolDir).Msg("Spool runner watching for scans")
	r.scanOnce(ctx)

	// Events only schedule a rescan; the settle delay is enforced per file
	// inside scanOnce, so half-written uploads are never read.
	ticker := time.NewTicker(r.cfg.SettleDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				ticker.Reset(r.cfg.SettleDelay)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().Err(werr).Msg("Spool watcher error")
		case <-ticker.C:
			r.scanOnce(ctx)
		}
	}
}

// scanOnce processes every settled image + sidecar pair in the spool.
func (r *Runner) scanOnce(ctx context.Context) {
	entries, err := os.ReadDir(r.cfg.SpoolDir)
	if err != nil {
		logging.Warn().Err(err).Msg("Spool dir read failed")
		return
	}

	cutoff := time.Now().Add(-r.cfg.SettleDelay)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() || !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		imagePath := filepath.Join(r.cfg.SpoolDir, entry.Name())
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		sidecarPath := filepath.Join(r.cfg.SpoolDir, base+sidecarExt)

		if !settled(imagePath, cutoff) || !settled(sidecarPath, cutoff) {
			continue
		}

		r.process(ctx, base, imagePath, sidecarPath)
	}
}

// settled reports whether the file exists and was last modified before the
// cutoff.
func settled(path string, cutoff time.Time) bool {
	info, err := os.Stat(path)
	return err == nil && info.ModTime().Before(cutoff)
}

// process runs one pair through the pipeline and retires the inputs.
func (r *Runner) process(ctx context.Context, base, imagePath, sidecarPath string) {
	log := logging.With().Str("image", imagePath).Logger()

	sidecar, err := readSidecar(sidecarPath)
	if err != nil {
		log.Warn().Err(err).Msg("Sidecar unreadable, retiring pair")
		r.retire(imagePath, sidecarPath)
		return
	}

	f, err := os.Open(imagePath) // #nosec G304 -- path comes from the watched spool dir
	if err != nil {
		log.Warn().Err(err).Msg("Image unreadable, retiring pair")
		r.retire(imagePath, sidecarPath)
		return
	}

	outcome, err := r.pipe.Run(ctx, pipeline.Request{
		WaterID:       sidecar.WaterID,
		Image:         f,
		Environmental: sidecar.Environmental,
	})
	_ = f.Close()
	if err != nil {
		log.Warn().Err(err).Msg("Spooled scan failed, retiring pair")
		r.retire(imagePath, sidecarPath)
		return
	}

	if err := r.writeOutcome(base, outcome); err != nil {
		log.Warn().Err(err).Msg("Outcome write failed")
	}
	r.retire(imagePath, sidecarPath)
}

// readSidecar parses and returns the sidecar document.
func readSidecar(path string) (*Sidecar, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the watched spool dir
	if err != nil {
		return nil, err
	}
	var s Sidecar
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", path, err)
	}
	if s.WaterID == "" {
		return nil, fmt.Errorf("sidecar %s: water_id missing", path)
	}
	return &s, nil
}

// writeOutcome persists the scan outcome next to the retired inputs, or in
// the spool dir when no done dir is configured.
func (r *Runner) writeOutcome(base string, outcome *models.ScanOutcome) error {
	dir := r.cfg.DoneDir
	if dir == "" {
		dir = r.cfg.SpoolDir
	}

	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, base+outcomeExt), data, 0o640)
}

// retire moves the input pair to the done dir, or deletes it when none is
// configured.
func (r *Runner) retire(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if r.cfg.DoneDir == "" {
			if err := os.Remove(path); err != nil {
				logging.Warn().Err(err).Str("path", path).Msg("Spool cleanup failed")
			}
			continue
		}
		dest := filepath.Join(r.cfg.DoneDir, filepath.Base(path))
		if err := os.Rename(path, dest); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Spool retire failed")
		}
	}
}
