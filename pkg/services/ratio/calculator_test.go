package ratio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

func TestCompute_CoreRatios(t *testing.T) {
	pm := domain.PeriodMetrics{
		Current: domain.Metrics{
			domain.MetricNetIncome:          1000,
			domain.MetricEquity:             5000,
			domain.MetricRevenue:            10000,
			domain.MetricOperatingIncome:    2000,
			domain.MetricLiabilities:        2250,
			domain.MetricCurrentAssets:      1800,
			domain.MetricCurrentLiabilities: 1000,
			domain.MetricTotalAssets:        12500,
		},
	}

	rs := NewCalculator().Compute(pm, nil)

	roe, ok := rs.Get(domain.RatioROE)
	require.True(t, ok)
	assert.InDelta(t, 20.0, roe, 1e-9)

	om, _ := rs.Get(domain.RatioOperatingMargin)
	assert.InDelta(t, 20.0, om, 1e-9)

	nm, _ := rs.Get(domain.RatioNetMargin)
	assert.InDelta(t, 10.0, nm, 1e-9)

	dr, _ := rs.Get(domain.RatioDebtRatio)
	assert.InDelta(t, 45.0, dr, 1e-9)

	cr, _ := rs.Get(domain.RatioCurrentRatio)
	assert.InDelta(t, 180.0, cr, 1e-9)

	at, _ := rs.Get(domain.RatioAssetTurnover)
	assert.InDelta(t, 0.8, at, 1e-9)
}

func TestCompute_AbsentWhenDenominatorNotPositive(t *testing.T) {
	pm := domain.PeriodMetrics{
		Current: domain.Metrics{
			domain.MetricNetIncome: 1000,
			domain.MetricEquity:    0,
		},
	}

	rs := NewCalculator().Compute(pm, nil)

	_, ok := rs.Get(domain.RatioROE)
	assert.False(t, ok)
}

func TestCompute_AbsentWhenNumeratorMissing(t *testing.T) {
	pm := domain.PeriodMetrics{
		Current: domain.Metrics{
			domain.MetricNetIncome: 1000,
			domain.MetricEquity:    5000,
			// revenue missing entirely
		},
	}

	rs := NewCalculator().Compute(pm, nil)

	_, ok := rs.Get(domain.RatioOperatingMargin)
	assert.False(t, ok)
	_, ok = rs.Get(domain.RatioNetMargin)
	assert.False(t, ok)
	_, ok = rs.Get(domain.RatioROE)
	assert.True(t, ok)
}

func TestCompute_GrowthNeedsPriorPeriod(t *testing.T) {
	cur := domain.Metrics{domain.MetricRevenue: 1100, domain.MetricNetIncome: 120}

	rs := NewCalculator().Compute(domain.PeriodMetrics{Current: cur}, nil)
	_, ok := rs.Get(domain.RatioRevenueGrowth)
	assert.False(t, ok)

	rs = NewCalculator().Compute(domain.PeriodMetrics{
		Current: cur,
		Prior:   domain.Metrics{domain.MetricRevenue: 1000, domain.MetricNetIncome: 100},
	}, nil)

	rg, ok := rs.Get(domain.RatioRevenueGrowth)
	require.True(t, ok)
	assert.InDelta(t, 10.0, rg, 1e-9)

	ng, ok := rs.Get(domain.RatioNetIncomeGrowth)
	require.True(t, ok)
	assert.InDelta(t, 20.0, ng, 1e-9)
}

func TestCompute_Valuation(t *testing.T) {
	pm := domain.PeriodMetrics{
		Current: domain.Metrics{
			domain.MetricNetIncome: 10000,
			domain.MetricEquity:    50000,
		},
	}
	snap := &domain.MarketSnapshot{
		Price:             70000,
		SharesOutstanding: 10,
		DividendPerShare:  1400,
	}

	rs := NewCalculator().Compute(pm, snap)

	per, ok := rs.Get(domain.RatioPER)
	require.True(t, ok)
	assert.InDelta(t, 70.0, per, 1e-9) // EPS = 1000

	pbr, ok := rs.Get(domain.RatioPBR)
	require.True(t, ok)
	assert.InDelta(t, 14.0, pbr, 1e-9) // BPS = 5000

	dy, ok := rs.Get(domain.RatioDividendYield)
	require.True(t, ok)
	assert.InDelta(t, 2.0, dy, 1e-9)
}

func TestCompute_ValuationGuards(t *testing.T) {
	pm := domain.PeriodMetrics{
		Current: domain.Metrics{
			domain.MetricNetIncome: -10000, // loss-making: no PER
			domain.MetricEquity:    50000,
		},
	}
	snap := &domain.MarketSnapshot{Price: 70000, SharesOutstanding: 10}

	rs := NewCalculator().Compute(pm, snap)

	_, ok := rs.Get(domain.RatioPER)
	assert.False(t, ok)
	_, ok = rs.Get(domain.RatioPBR)
	assert.True(t, ok)
	_, ok = rs.Get(domain.RatioDividendYield)
	assert.False(t, ok)

	// No shares outstanding: no per-share ratios at all.
	rs = NewCalculator().Compute(pm, &domain.MarketSnapshot{Price: 70000})
	_, ok = rs.Get(domain.RatioPBR)
	assert.False(t, ok)
}
