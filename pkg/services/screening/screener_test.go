package screening

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

func goodCandidate(code string) Candidate {
	return Candidate{
		StockCode:   code,
		CompanyName: "종목" + code,
		Ratios: domain.RatioSet{
			domain.RatioROE:             18,
			domain.RatioDebtRatio:       40,
			domain.RatioCurrentRatio:    200,
			domain.RatioRevenueGrowth:   8,
			domain.RatioOperatingMargin: 12,
			domain.RatioPER:             12,
			domain.RatioPBR:             1.1,
			domain.RatioDividendYield:   2.5,
		},
		ConsecutiveProfitYears: 4,
	}
}

func TestScreen_PassesQualityCandidate(t *testing.T) {
	s, err := NewScreener(DefaultCriteria())
	require.NoError(t, err)

	results := s.Screen(context.Background(), []Candidate{goodCandidate("005930")})

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 4, r.MandatoryScore)
	assert.Equal(t, 3, r.ValuationScore)
	assert.Greater(t, r.BuffettScore, 0.0)
	assert.Greater(t, r.FinalRanking, 0.0)
}

func TestScreen_MandatoryFailureRejects(t *testing.T) {
	s, err := NewScreener(DefaultCriteria())
	require.NoError(t, err)

	c := goodCandidate("000001")
	c.Ratios[domain.RatioDebtRatio] = 120 // above the mandatory ceiling

	results := s.Screen(context.Background(), []Candidate{c})
	assert.Empty(t, results)
}

func TestScreen_AbsentRatioFailsCriterion(t *testing.T) {
	s, err := NewScreener(DefaultCriteria())
	require.NoError(t, err)

	c := goodCandidate("000002")
	delete(c.Ratios, domain.RatioROE)

	results := s.Screen(context.Background(), []Candidate{c})
	assert.Empty(t, results)
}

func TestScreen_ValuationNeedsTwoOfThree(t *testing.T) {
	s, err := NewScreener(DefaultCriteria())
	require.NoError(t, err)

	// PER too high and no dividend: only PBR passes, 1 of 3.
	c := goodCandidate("000003")
	c.Ratios[domain.RatioPER] = 35
	delete(c.Ratios, domain.RatioDividendYield)

	results := s.Screen(context.Background(), []Candidate{c})
	assert.Empty(t, results)

	// PER and PBR pass without dividend: 2 of 3 is enough.
	c2 := goodCandidate("000004")
	delete(c2.Ratios, domain.RatioDividendYield)

	results = s.Screen(context.Background(), []Candidate{c2})
	assert.Len(t, results, 1)
}

func TestScreen_RankedBestFirst(t *testing.T) {
	s, err := NewScreener(DefaultCriteria())
	require.NoError(t, err)

	strong := goodCandidate("100001")
	strong.Ratios[domain.RatioROE] = 25
	strong.Ratios[domain.RatioDebtRatio] = 20
	strong.Ratios[domain.RatioRevenueGrowth] = 20
	strong.Ratios[domain.RatioPER] = 8

	weak := goodCandidate("100002")
	weak.Ratios[domain.RatioROE] = 15
	weak.Ratios[domain.RatioRevenueGrowth] = 2

	results := s.Screen(context.Background(), []Candidate{weak, strong})

	require.Len(t, results, 2)
	assert.Equal(t, "100001", results[0].StockCode)
	assert.Greater(t, results[0].FinalRanking, results[1].FinalRanking)
}
