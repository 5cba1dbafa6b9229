// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package recommend

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bloomwatch/internal/logging"
	"github.com/tomtom215/bloomwatch/internal/metrics"
	"github.com/tomtom215/bloomwatch/internal/models"
)

// Check-in intervals per risk level, counted in days from the scan date.
const (
	highCheckDays   = 3
	mediumCheckDays = 7
	lowCheckDays    = 14
)

// errMalformedOutput marks generator output outside the 3-5 action bound.
var errMalformedOutput = errors.New("generative output outside 3-5 action bound")

// Config holds the resiliency settings for the generative path.
type Config struct {
	// Timeout bounds a single generative call.
	Timeout time.Duration `koanf:"timeout"`

	// BreakerFailureRate opens the circuit at this failure ratio (0-1).
	BreakerFailureRate float64 `koanf:"breaker_failure_rate"`

	// BreakerMinRequests is the minimum request count before the failure
	// rate is considered statistically meaningful.
	BreakerMinRequests uint32 `koanf:"breaker_min_requests"`

	// BreakerCooldown is how long the circuit stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`

	// RatePerMinute caps generative calls per minute. Zero disables rate
	// limiting.
	RatePerMinute int `koanf:"rate_per_minute"`

	// RateBurst is the rate limiter burst size.
	RateBurst int `koanf:"rate_burst"`
}

// DefaultConfig returns production defaults for the generative path.
func DefaultConfig() Config {
	return Config{
		Timeout:            2500 * time.Millisecond,
		BreakerFailureRate: 0.6,
		BreakerMinRequests: 5,
		BreakerCooldown:    time.Minute,
		RatePerMinute:      30,
		RateBurst:          5,
	}
}

// Engine produces recommendation sets. A nil Generator is valid and means
// every request resolves through the fallback table.
type Engine struct {
	generator Generator
	cfg       Config
	breaker   *gobreaker.CircuitBreaker[[]string]
	limiter   *rate.Limiter
}

// NewEngine creates a recommendation engine. Pass a nil generator to run
// fallback-only, e.g. when no generative service is configured.
func NewEngine(generator Generator, cfg Config) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.BreakerFailureRate <= 0 || cfg.BreakerFailureRate > 1 {
		cfg.BreakerFailureRate = DefaultConfig().BreakerFailureRate
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = DefaultConfig().BreakerMinRequests
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = DefaultConfig().BreakerCooldown
	}

	e := &Engine{generator: generator, cfg: cfg}

	e.breaker = gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:    "recommendation-generator",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Recommendation generator circuit state change")
		},
	})

	if cfg.RatePerMinute > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), burst)
	}

	return e
}

// Recommend builds the recommendation set for one assessment. It never
// returns an error: any generative failure resolves to the fallback table.
// The scan time anchors the next check-in date.
func (e *Engine) Recommend(ctx context.Context, assessment models.RiskAssessment, env models.EnvironmentalInput, img models.ImageFeatures, scanTime time.Time) models.RecommendationSet {
	actions, source := e.actions(ctx, assessment, env, img)

	metrics.RecommendationsTotal.WithLabelValues(string(source)).Inc()

	return models.RecommendationSet{
		Actions:       actions,
		NextCheckDate: NextCheckDate(scanTime, assessment.Level),
		Source:        source,
	}
}

// actions runs the generative path and degrades to the fallback table on
// any failure.
func (e *Engine) actions(ctx context.Context, assessment models.RiskAssessment, env models.EnvironmentalInput, img models.ImageFeatures) ([]string, models.RecommendationSource) {
	if e.generator == nil {
		return FallbackActions(assessment.Level), models.SourceFallback
	}

	if e.limiter != nil && !e.limiter.Allow() {
		metrics.GenerativeFailuresTotal.WithLabelValues("rate_limited").Inc()
		logging.Debug().Msg("Generative recommendation rate limited, using fallback")
		return FallbackActions(assessment.Level), models.SourceFallback
	}

	rc := Context{
		RiskLevel:       assessment.Level,
		Probability:     assessment.Probability,
		GreenRatio:      img.GreenRatio,
		RainfallMm:      env.RainfallMm,
		TemperatureC:    env.TemperatureC,
		FertilizerLevel: env.FertilizerLevel,
		WaterStagnation: env.WaterStagnation,
	}

	actions, err := e.breaker.Execute(func() ([]string, error) {
		callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()

		generated, genErr := e.generator.Generate(callCtx, rc)
		if genErr != nil {
			return nil, genErr
		}
		if len(generated) < 3 || len(generated) > 5 {
			return nil, errMalformedOutput
		}
		return generated, nil
	})
	if err != nil {
		metrics.GenerativeFailuresTotal.WithLabelValues(failureCause(err)).Inc()
		logging.Warn().Err(err).
			Str("level", string(assessment.Level)).
			Msg("Generative recommendation failed, using fallback")
		return FallbackActions(assessment.Level), models.SourceFallback
	}

	return actions, models.SourceGenerated
}

// failureCause maps a generative-path error to a metrics cause label.
func failureCause(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errMalformedOutput):
		return "malformed"
	default:
		return "error"
	}
}

// NextCheckDate returns the recommended follow-up date for a scan at the
// given time: 3 days out for high risk, 7 for medium, 14 for low.
func NextCheckDate(scanTime time.Time, level models.RiskLevel) time.Time {
	switch level {
	case models.RiskHigh:
		return scanTime.AddDate(0, 0, highCheckDays)
	case models.RiskMedium:
		return scanTime.AddDate(0, 0, mediumCheckDays)
	default:
		return scanTime.AddDate(0, 0, lowCheckDays)
	}
}
