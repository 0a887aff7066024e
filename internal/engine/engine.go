// Package engine scores text for confidence expressed without supporting
// evidence. It is pure CPU-bound computation: no I/O, no retries, no shared
// mutable state. An Engine may be used from any number of goroutines after
// construction.
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/patterns"
)

// Engine analyzes text against the built-in pattern library using one
// immutable configuration.
type Engine struct {
	cfg    Config
	lib    *patterns.Library
	logger *zap.Logger
}

// New creates an analysis engine. The configuration is validated here;
// analysis calls never re-validate it.
func New(cfg Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := &Engine{
		cfg:    cfg,
		lib:    patterns.Default(),
		logger: logger,
	}

	logger.Info("Analysis engine initialized",
		zap.Float64("certainty_weight", cfg.CertaintyWeight),
		zap.Float64("evidence_weight", cfg.EvidenceWeight),
		zap.Float64("claim_weight", cfg.ClaimWeight),
		zap.Int("high_threshold", cfg.HighThreshold),
		zap.Int("medium_threshold", cfg.MediumThreshold),
	)

	return engine, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Analyze scores the text and returns the full result. Validation errors
// (*EmptyInputError, *InputTooLargeError) are the only failure modes; every
// other input, including one with zero qualifying sentences, degrades to a
// zero-score LOW result. Marker lists are always present (empty when a
// category matched nothing); detailed additionally fills in the component
// scores and the narrative.
func (e *Engine) Analyze(text string, detailed bool) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyInputError{}
	}
	if len(text) > e.cfg.MaxTextLength {
		return nil, &InputTooLargeError{Length: len(text), Limit: e.cfg.MaxTextLength}
	}

	certaintyMarkers := extractMarkers(text, e.lib.ForCategory(patterns.CategoryCertainty))
	evidenceMarkers := extractMarkers(text, e.lib.ForCategory(patterns.CategoryEvidence))
	claimMarkers := extractMarkers(text, e.lib.ForCategory(patterns.CategoryClaim))

	stats := computeStatistics(text, e.cfg.MinSentenceLength)

	scores := computeScores(len(certaintyMarkers), len(evidenceMarkers), len(claimMarkers), stats.Sentences)
	score := confidenceScore(scores, stats.Sentences, e.cfg)
	risk := classifyRisk(score, e.cfg)

	result := &Result{
		Version:          Version,
		Score:            score,
		Risk:             risk,
		Ratio:            fmt.Sprintf("%d:%d", len(certaintyMarkers), len(evidenceMarkers)),
		Statistics:       stats,
		CertaintyMarkers: certaintyMarkers,
		EvidenceMarkers:  evidenceMarkers,
		Claims:           claimMarkers,
		Timestamp:        time.Now().UTC(),
	}

	if detailed {
		result.Scores = &ComponentScores{
			Certainty: round2(scores.Certainty),
			Evidence:  round2(scores.Evidence),
			Claim:     round2(scores.Claim),
		}
		result.Interpretation = interpretation(risk, score,
			len(certaintyMarkers), len(evidenceMarkers), len(claimMarkers))
		result.Recommendations = recommendations(risk)
	}

	e.logger.Debug("Text analyzed",
		zap.Int("score", score),
		zap.String("risk", string(risk)),
		zap.Int("certainty_markers", len(certaintyMarkers)),
		zap.Int("evidence_markers", len(evidenceMarkers)),
		zap.Int("claims", len(claimMarkers)),
		zap.Int("sentences", stats.Sentences),
	)

	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
