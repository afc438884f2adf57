// Package scorecard orchestrates one entity's pipeline: extraction,
// ratio derivation, scoring and grading.
package scorecard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/services/estimate"
	"github.com/kv-tools/value-atlas/pkg/services/extract"
	"github.com/kv-tools/value-atlas/pkg/services/ratio"
	"github.com/kv-tools/value-atlas/pkg/services/scoring"
)

// ErrInsufficientData marks an entity with no parseable financial rows.
// Callers persist the status instead of a fabricated score.
var ErrInsufficientData = errors.New("insufficient financial data")

// MissingDataPolicy decides what happens when an entity has no usable
// financial statements at all.
type MissingDataPolicy string

const (
	// PolicyPartial scores whatever ratios exist; an entity with nothing
	// at all becomes ErrInsufficientData.
	PolicyPartial MissingDataPolicy = "partial"
	// PolicySkip turns an empty extraction into ErrInsufficientData and
	// entities with partial data are skipped too unless all core
	// statement metrics resolved.
	PolicySkip MissingDataPolicy = "skip"
	// PolicyEstimate falls back to the deterministic estimator; the
	// resulting scorecard is tagged Estimated.
	PolicyEstimate MissingDataPolicy = "estimate"
)

// ParsePolicy validates a policy string from configuration.
func ParsePolicy(s string) (MissingDataPolicy, error) {
	switch MissingDataPolicy(s) {
	case "", PolicyPartial:
		return PolicyPartial, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyEstimate:
		return PolicyEstimate, nil
	default:
		return "", fmt.Errorf("unknown on_missing_data policy %q", s)
	}
}

// Input is everything the pipeline needs for one entity.
type Input struct {
	StockCode   string
	CompanyName string
	MarketCap   float64
	// Rows holds the latest filing's line items; growth ratios read the
	// prior-period amount columns of the same rows.
	Rows     []domain.StatementRow
	Snapshot *domain.MarketSnapshot
}

// Service wires the extractor, calculator, scorer and estimator together.
// All dependencies are injected; nothing reads ambient globals.
type Service struct {
	extractor  *extract.Extractor
	calculator *ratio.Calculator
	scorer     *scoring.Scorer
	estimator  *estimate.Estimator
	policy     MissingDataPolicy
}

func NewService(scorer *scoring.Scorer, policy MissingDataPolicy) *Service {
	return &Service{
		extractor:  extract.NewExtractor(nil, extract.FirstMatch),
		calculator: ratio.NewCalculator(),
		scorer:     scorer,
		estimator:  estimate.NewEstimator(),
		policy:     policy,
	}
}

// Score runs the pipeline for one entity. The returned scorecard is
// immutable; rerunning with identical input yields an identical result.
func (s *Service) Score(ctx context.Context, in Input) (*domain.Scorecard, error) {
	logger := zerolog.Ctx(ctx).With().Str("stock_code", in.StockCode).Logger()
	asOf := dateOnly(time.Now().UTC())

	current := s.extractor.Extract(ctx, in.Rows, extract.CurrentPeriod)
	prior := s.extractor.Extract(ctx, in.Rows, extract.PriorPeriod)

	if len(current) == 0 {
		switch s.policy {
		case PolicyEstimate:
			logger.Warn().Msg("no parseable financials, falling back to estimator")
			return s.scoreEstimated(in, asOf), nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrInsufficientData, in.StockCode)
		}
	}

	if s.policy == PolicySkip && len(current) < coreMetricCount {
		return nil, fmt.Errorf("%w: %s has %d of %d core metrics",
			ErrInsufficientData, in.StockCode, len(current), coreMetricCount)
	}

	ratios := s.calculator.Compute(domain.PeriodMetrics{Current: current, Prior: prior}, in.Snapshot)
	card := s.scorer.Score(in.StockCode, in.CompanyName, ratios, asOf)

	logger.Info().
		Float64("total", card.TotalScore).
		Str("grade", card.Grade).
		Int("metrics", len(current)).
		Msg("scorecard computed")
	return card, nil
}

func (s *Service) scoreEstimated(in Input, asOf time.Time) *domain.Scorecard {
	est := s.estimator.Estimate(in.StockCode, in.CompanyName, in.MarketCap)
	card := s.scorer.Score(in.StockCode, in.CompanyName, est.Ratios, asOf)
	card.Estimated = true
	return card
}

// coreMetricCount is how many canonical metrics a complete statement
// extraction yields.
const coreMetricCount = 8

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
