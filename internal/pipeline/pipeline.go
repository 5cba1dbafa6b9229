// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/bloomwatch/internal/classifier"
	"github.com/tomtom215/bloomwatch/internal/envdata"
	"github.com/tomtom215/bloomwatch/internal/history"
	"github.com/tomtom215/bloomwatch/internal/imaging"
	"github.com/tomtom215/bloomwatch/internal/logging"
	"github.com/tomtom215/bloomwatch/internal/metrics"
	"github.com/tomtom215/bloomwatch/internal/models"
	"github.com/tomtom215/bloomwatch/internal/recommend"
	"github.com/tomtom215/bloomwatch/internal/trend"
)

// historyWindow is how many prior assessments are fetched for trend
// analysis. Larger than the trend window so sensitivity changes need no
// pipeline change.
const historyWindow = 10

// Config tunes pipeline concurrency.
type Config struct {
	// MaxConcurrentExtractions bounds simultaneous image extractions.
	// Zero means one slot per CPU.
	MaxConcurrentExtractions int64 `koanf:"max_concurrent_extractions" validate:"omitempty,min=1"`
}

// Request is one scan submission.
type Request struct {
	// WaterID identifies the water body; it keys the scan history.
	WaterID string

	// Image is the photograph to analyze, JPEG or PNG.
	Image io.Reader

	// Environmental holds the accompanying measurements.
	Environmental models.EnvironmentalInput
}

// Pipeline runs scans end to end. Safe for concurrent use.
type Pipeline struct {
	extractor *imaging.Extractor
	class     *classifier.Classifier
	engine    *recommend.Engine
	analyzer  *trend.Analyzer
	provider  history.Provider
	recorder  history.Recorder

	sem *semaphore.Weighted
	now func() time.Time
}

// New assembles a pipeline from its stages. provider and recorder may be
// nil; without a provider every scan reports insufficient trend data, and
// without a recorder completed scans are not retained.
func New(cfg Config, extractor *imaging.Extractor, class *classifier.Classifier, engine *recommend.Engine, analyzer *trend.Analyzer, provider history.Provider, recorder history.Recorder) *Pipeline {
	slots := cfg.MaxConcurrentExtractions
	if slots <= 0 {
		slots = int64(runtime.NumCPU())
	}

	return &Pipeline{
		extractor: extractor,
		class:     class,
		engine:    engine,
		analyzer:  analyzer,
		provider:  provider,
		recorder:  recorder,
		sem:       semaphore.NewWeighted(slots),
		now:       time.Now,
	}
}

// Run executes one scan. On any validation, extraction, or classification
// failure it returns a nil outcome and the error; it never returns a
// partially filled outcome.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.ScanOutcome, error) {
	scanID := uuid.NewString()
	scanTime := p.now()

	log := logging.With().
		Str("scan_id", scanID).
		Str("water_id", req.WaterID).
		Logger()

	envVec, err := envdata.Encode(req.Environmental)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("invalid_input").Inc()
		log.Warn().Err(err).Msg("Scan rejected: invalid environmental input")
		return nil, fmt.Errorf("environmental input: %w", err)
	}

	img, err := p.extract(ctx, req.Image)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("invalid_image").Inc()
		log.Warn().Err(err).Msg("Scan rejected: image extraction failed")
		return nil, fmt.Errorf("image extraction: %w", err)
	}

	vec := models.Fuse(img, envVec)

	start := p.now()
	assessment, err := p.class.Classify(vec)
	metrics.ScanStageDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	if err != nil {
		result := "error"
		if errors.Is(err, classifier.ErrModelUnavailable) {
			result = "model_unavailable"
		}
		metrics.ScansTotal.WithLabelValues(result).Inc()
		log.Error().Err(err).Msg("Scan failed: classification error")
		return nil, fmt.Errorf("classification: %w", err)
	}
	metrics.RiskLevelsTotal.WithLabelValues(string(assessment.Level)).Inc()

	start = p.now()
	recs := p.engine.Recommend(ctx, assessment, req.Environmental, img, scanTime)
	metrics.ScanStageDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds())

	start = p.now()
	label := p.trend(ctx, req.WaterID, assessment.Probability, &log)
	metrics.ScanStageDuration.WithLabelValues("trend").Observe(time.Since(start).Seconds())

	p.record(ctx, models.ScanRecord{
		ScanID:        scanID,
		WaterID:       req.WaterID,
		Timestamp:     scanTime,
		Image:         img,
		Environmental: req.Environmental,
		Assessment:    assessment,
	}, &log)

	metrics.ScansTotal.WithLabelValues("ok").Inc()
	log.Info().
		Str("level", string(assessment.Level)).
		Float64("probability", assessment.Probability).
		Str("trend", string(label)).
		Str("recommendation_source", string(recs.Source)).
		Int("model_version", p.class.ModelVersion()).
		Msg("Scan completed")

	return &models.ScanOutcome{
		ScanID:          scanID,
		Timestamp:       scanTime,
		Image:           img,
		Assessment:      assessment,
		Recommendations: recs,
		Trend:           label,
	}, nil
}

// extract runs image feature extraction under the concurrency semaphore.
func (p *Pipeline) extract(ctx context.Context, r io.Reader) (models.ImageFeatures, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return models.ImageFeatures{}, fmt.Errorf("acquire extraction slot: %w", err)
	}
	defer p.sem.Release(1)

	start := p.now()
	img, err := p.extractor.Extract(r)
	metrics.ScanStageDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	return img, err
}

// trend fetches history and labels the probability movement. History read
// failures degrade to insufficient data; the assessment itself is sound.
func (p *Pipeline) trend(ctx context.Context, waterID string, probability float64, log *zerolog.Logger) models.TrendLabel {
	var points []models.AssessmentPoint
	if p.provider != nil {
		var err error
		points, err = p.provider.Recent(ctx, waterID, historyWindow)
		if err != nil {
			log.Warn().Err(err).Msg("History read failed, trend degraded")
			points = nil
		}
	}

	// No provider and read failure both land here with empty history, so
	// every scan counts exactly once in the trend metric.
	return p.analyzer.Analyze(probability, points)
}

// record appends the completed scan to history. Failures are logged, not
// surfaced: the scan already succeeded from the caller's perspective.
func (p *Pipeline) record(ctx context.Context, rec models.ScanRecord, log *zerolog.Logger) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("History record failed")
	}
}
