package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

func newV110Scorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(TableV110())
	require.NoError(t, err)
	return s
}

func categoryByName(t *testing.T, cats []domain.CategoryScore, name domain.Category) domain.CategoryScore {
	t.Helper()
	for _, c := range cats {
		if c.Category == name {
			return c
		}
	}
	t.Fatalf("category %s not found", name)
	return domain.CategoryScore{}
}

func TestScoreCategories_Profitability(t *testing.T) {
	// ROE 20% -> 10, operating margin 20% -> 10, net margin 10% -> 8.
	rs := domain.RatioSet{
		domain.RatioROE:             20,
		domain.RatioOperatingMargin: 20,
		domain.RatioNetMargin:       10,
	}

	cats := newV110Scorer(t).ScoreCategories(rs)
	prof := categoryByName(t, cats, domain.CategoryProfitability)

	assert.Equal(t, 28.0, prof.Points)
	assert.Equal(t, 30.0, prof.Cap)
	assert.Len(t, prof.Details, 3)
}

func TestScoreCategories_MissingRatioContributesZero(t *testing.T) {
	// Revenue missing upstream: margins absent, only ROE scores.
	rs := domain.RatioSet{domain.RatioROE: 20}

	cats := newV110Scorer(t).ScoreCategories(rs)
	prof := categoryByName(t, cats, domain.CategoryProfitability)

	assert.Equal(t, 10.0, prof.Points)
	assert.Len(t, prof.Details, 1)
}

func TestScoreCategories_Stability(t *testing.T) {
	rs := domain.RatioSet{
		domain.RatioDebtRatio:    45,  // <=50 band -> 12
		domain.RatioCurrentRatio: 180, // >=150 band -> 8
	}

	cats := newV110Scorer(t).ScoreCategories(rs)
	stab := categoryByName(t, cats, domain.CategoryStability)

	assert.Equal(t, 20.0, stab.Points)
}

func TestScoreCategories_ClampedToCap(t *testing.T) {
	// Max out every valuation ladder: 8 + 8 + 4 = 20, exactly the cap.
	// Then verify a hand-built over-cap table still clamps.
	over := WeightTable{
		Version:  "test",
		MaxScore: 10,
		Categories: []CategorySpec{{
			Category: domain.CategoryEfficiency,
			Cap:      10,
			Ladders: []Ladder{
				{Ratio: domain.RatioAssetTurnover, Direction: HigherIsBetter, Bands: []Band{{1, 8}}},
				{Ratio: domain.RatioROE, Direction: HigherIsBetter, Bands: []Band{{1, 8}}},
			},
		}},
	}
	s, err := NewScorer(over)
	require.NoError(t, err)

	cats := s.ScoreCategories(domain.RatioSet{
		domain.RatioAssetTurnover: 2,
		domain.RatioROE:           50,
	})
	assert.Equal(t, 10.0, cats[0].Points)
}

func TestScore_TotalPercentageGrade(t *testing.T) {
	s := newV110Scorer(t)

	// Build a ratio set scoring 78 points total:
	// profitability 28 (10+10+8), growth 16 (10+6), stability 20 (12+8),
	// efficiency 4, valuation 10 (3+6+1).
	rs := domain.RatioSet{
		domain.RatioROE:             20,
		domain.RatioOperatingMargin: 20,
		domain.RatioNetMargin:       10,
		domain.RatioRevenueGrowth:   10,
		domain.RatioNetIncomeGrowth: 10,
		domain.RatioDebtRatio:       45,
		domain.RatioCurrentRatio:    180,
		domain.RatioAssetTurnover:   0.5,
		domain.RatioPER:             18,
		domain.RatioPBR:             1.2,
		domain.RatioDividendYield:   1.5,
	}

	card := s.Score("005930", "삼성전자", rs, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))

	var sum float64
	for _, c := range card.Categories {
		sum += c.Points
	}
	assert.Equal(t, card.TotalScore, sum)
	assert.Equal(t, 78.0, card.TotalScore)
	assert.InDelta(t, 70.9, card.Percentage, 0.05)
	assert.Equal(t, "A", card.Grade)
	assert.Equal(t, "Buy", card.Recommendation)
	assert.GreaterOrEqual(t, card.Percentage, 0.0)
	assert.LessOrEqual(t, card.Percentage, 100.0)
}

func TestScore_Deterministic(t *testing.T) {
	s := newV110Scorer(t)
	rs := domain.RatioSet{domain.RatioROE: 17.3, domain.RatioDebtRatio: 61.2}
	asOf := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	a := s.Score("000660", "SK하이닉스", rs, asOf)
	b := s.Score("000660", "SK하이닉스", rs, asOf)
	assert.Equal(t, a, b)
}

func TestGradeFor_Boundaries(t *testing.T) {
	cases := []struct {
		pct   float64
		grade string
		rec   string
	}{
		{95, "S", "Strong Buy"},
		{80, "S", "Strong Buy"}, // exact boundary maps up
		{79.99, "A", "Buy"},
		{70, "A", "Buy"},
		{60, "B", "Hold"},
		{59.9, "C", "Sell"},
		{40, "C", "Sell"},
		{39.9, "D", "Strong Sell"},
		{0, "D", "Strong Sell"},
	}
	for _, tc := range cases {
		g, r := GradeFor(tc.pct)
		assert.Equal(t, tc.grade, g, "pct %v", tc.pct)
		assert.Equal(t, tc.rec, r, "pct %v", tc.pct)
	}
}
