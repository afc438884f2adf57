// Package screening runs the three-stage quality-stock filter over a
// scored universe: mandatory criteria, bonus criteria, then valuation.
package screening

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/services/scoring"
)

// MandatoryCriteria are stage-one requirements; failing any one rejects
// the candidate outright.
type MandatoryCriteria struct {
	MinROE                 float64
	MaxDebtRatio           float64
	MinCurrentRatio        float64
	MinConsecutiveProfitYr int
}

// BonusCriteria earn stage-two points; candidates are ranked by them and
// the bottom slice is cut.
type BonusCriteria struct {
	MinRevenueGrowth   float64
	MinDividendYield   float64
	MinOperatingMargin float64
}

// ValuationCriteria gate stage three; at least two of the three must hold.
type ValuationCriteria struct {
	MaxPER           float64
	MaxPBR           float64
	MinDividendYield float64
}

// Criteria bundles all three stages.
type Criteria struct {
	Mandatory MandatoryCriteria
	Bonus     BonusCriteria
	Valuation ValuationCriteria
	// KeepRatio is the fraction of stage-two survivors carried forward,
	// floored at KeepMin candidates.
	KeepRatio float64
	KeepMin   int
}

// DefaultCriteria returns the screening thresholds the toolkit ships with.
func DefaultCriteria() Criteria {
	return Criteria{
		Mandatory: MandatoryCriteria{
			MinROE:                 15,
			MaxDebtRatio:           50,
			MinCurrentRatio:        150,
			MinConsecutiveProfitYr: 3,
		},
		Bonus: BonusCriteria{
			MinRevenueGrowth:   5,
			MinDividendYield:   1,
			MinOperatingMargin: 10,
		},
		Valuation: ValuationCriteria{
			MaxPER:           20,
			MaxPBR:           2.0,
			MinDividendYield: 2,
		},
		KeepRatio: 0.7,
		KeepMin:   5,
	}
}

// Candidate is one entity entering the screen.
type Candidate struct {
	StockCode              string
	CompanyName            string
	MarketCap              float64
	Ratios                 domain.RatioSet
	ConsecutiveProfitYears int
}

// Result is a shortlisted entity with its stage scores and final ranking.
type Result struct {
	Candidate
	MandatoryScore int
	BonusScore     int
	ValuationScore int
	BuffettScore   float64
	FinalRanking   float64
}

// Screener applies Criteria to a candidate universe. The shortlist ranking
// reuses the coarse 100-point table.
type Screener struct {
	criteria Criteria
	scorer   *scoring.Scorer
}

func NewScreener(criteria Criteria) (*Screener, error) {
	scorer, err := scoring.NewScorer(scoring.TableV100())
	if err != nil {
		return nil, err
	}
	return &Screener{criteria: criteria, scorer: scorer}, nil
}

// Screen runs all three stages and returns the shortlist ordered by final
// ranking, best first.
func (s *Screener) Screen(ctx context.Context, universe []Candidate) []Result {
	logger := zerolog.Ctx(ctx)

	first := s.applyMandatory(universe)
	logger.Info().
		Int("universe", len(universe)).
		Int("passed", len(first)).
		Msg("stage 1: mandatory criteria")
	if len(first) == 0 {
		return nil
	}

	second := s.applyBonus(first)
	logger.Info().
		Int("candidates", len(first)).
		Int("passed", len(second)).
		Msg("stage 2: bonus criteria")
	if len(second) == 0 {
		return nil
	}

	final := s.applyValuation(second)
	logger.Info().
		Int("candidates", len(second)).
		Int("passed", len(final)).
		Msg("stage 3: valuation criteria")
	return final
}

func (s *Screener) applyMandatory(universe []Candidate) []Result {
	c := s.criteria.Mandatory
	var passed []Result
	for _, cand := range universe {
		conditions := []bool{
			ratioAtLeast(cand.Ratios, domain.RatioROE, c.MinROE),
			ratioAtMost(cand.Ratios, domain.RatioDebtRatio, c.MaxDebtRatio),
			ratioAtLeast(cand.Ratios, domain.RatioCurrentRatio, c.MinCurrentRatio),
			cand.ConsecutiveProfitYears >= c.MinConsecutiveProfitYr,
		}
		ok := true
		score := 0
		for _, cond := range conditions {
			if cond {
				score++
			} else {
				ok = false
			}
		}
		if ok {
			passed = append(passed, Result{Candidate: cand, MandatoryScore: score})
		}
	}
	return passed
}

func (s *Screener) applyBonus(candidates []Result) []Result {
	c := s.criteria.Bonus
	for i := range candidates {
		bonus := 0
		if ratioAtLeast(candidates[i].Ratios, domain.RatioRevenueGrowth, c.MinRevenueGrowth) {
			bonus++
		}
		if ratioAtLeast(candidates[i].Ratios, domain.RatioDividendYield, c.MinDividendYield) {
			bonus++
		}
		if ratioAtLeast(candidates[i].Ratios, domain.RatioOperatingMargin, c.MinOperatingMargin) {
			bonus++
		}
		candidates[i].BonusScore = bonus
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si := candidates[i].MandatoryScore + candidates[i].BonusScore
		sj := candidates[j].MandatoryScore + candidates[j].BonusScore
		return si > sj
	})

	keep := int(float64(len(candidates)) * s.criteria.KeepRatio)
	if keep < s.criteria.KeepMin {
		keep = s.criteria.KeepMin
	}
	if keep > len(candidates) {
		keep = len(candidates)
	}
	return candidates[:keep]
}

func (s *Screener) applyValuation(candidates []Result) []Result {
	c := s.criteria.Valuation
	var final []Result
	for _, cand := range candidates {
		score := 0
		if ratioAtMost(cand.Ratios, domain.RatioPER, c.MaxPER) {
			score++
		}
		if ratioAtMost(cand.Ratios, domain.RatioPBR, c.MaxPBR) {
			score++
		}
		if ratioAtLeast(cand.Ratios, domain.RatioDividendYield, c.MinDividendYield) {
			score++
		}
		if score < 2 {
			continue
		}

		cand.ValuationScore = score
		cand.BuffettScore = s.shortlistScore(cand.Ratios)
		cand.FinalRanking = float64(cand.MandatoryScore+cand.BonusScore)*0.4 +
			float64(cand.ValuationScore)*0.3 +
			cand.BuffettScore*0.3
		final = append(final, cand)
	}

	sort.SliceStable(final, func(i, j int) bool {
		return final[i].FinalRanking > final[j].FinalRanking
	})
	return final
}

func (s *Screener) shortlistScore(rs domain.RatioSet) float64 {
	var total float64
	for _, cat := range s.scorer.ScoreCategories(rs) {
		total += cat.Points
	}
	return total
}

// Absent ratios fail every criterion; they are never treated as zero.
func ratioAtLeast(rs domain.RatioSet, name domain.RatioName, min float64) bool {
	v, ok := rs.Get(name)
	return ok && v >= min
}

func ratioAtMost(rs domain.RatioSet, name domain.RatioName, max float64) bool {
	v, ok := rs.Get(name)
	return ok && v <= max
}
