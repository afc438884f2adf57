package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

func TestEstimate_Deterministic(t *testing.T) {
	e := NewEstimator()

	a := e.Estimate("005930", "삼성전자", 400_000_000_000_000)
	b := e.Estimate("005930", "삼성전자", 400_000_000_000_000)

	assert.Equal(t, a, b)
}

func TestEstimate_DiffersByStockCode(t *testing.T) {
	e := NewEstimator()

	a := e.Estimate("005930", "테스트", 2_000_000_000_000)
	b := e.Estimate("000660", "테스트", 2_000_000_000_000)

	assert.NotEqual(t, a.Ratios, b.Ratios)
}

func TestEstimate_SizeBuckets(t *testing.T) {
	e := NewEstimator()

	assert.Equal(t, SizeLarge, e.Estimate("1", "x", 20_000_000_000_000).Size)
	assert.Equal(t, SizeMedium, e.Estimate("1", "x", 2_000_000_000_000).Size)
	assert.Equal(t, SizeSmall, e.Estimate("1", "x", 500_000_000_000).Size)
}

func TestEstimate_IndustryFactor(t *testing.T) {
	e := NewEstimator()

	assert.Equal(t, 1.2, e.Estimate("1", "카카오게임즈 게임", 0).IndustryFactor)
	assert.Equal(t, 1.1, e.Estimate("1", "셀트리온 바이오", 0).IndustryFactor)
	assert.Equal(t, 0.8, e.Estimate("1", "신한은행", 0).IndustryFactor)
	assert.Equal(t, 1.0, e.Estimate("1", "포스코", 0).IndustryFactor)
}

func TestEstimate_RatiosWithinWindows(t *testing.T) {
	e := NewEstimator()

	codes := []string{"005930", "000660", "035420", "068270", "105560"}
	for _, code := range codes {
		est := e.Estimate(code, "종목"+code, 900_000_000_000)

		per, ok := est.Ratios.Get(domain.RatioPER)
		require.True(t, ok)
		assert.GreaterOrEqual(t, per, 1.0)
		assert.LessOrEqual(t, per, 50.0)

		pbr, ok := est.Ratios.Get(domain.RatioPBR)
		require.True(t, ok)
		assert.GreaterOrEqual(t, pbr, 0.01)
		assert.LessOrEqual(t, pbr, 50.0)

		dy, ok := est.Ratios.Get(domain.RatioDividendYield)
		require.True(t, ok)
		assert.GreaterOrEqual(t, dy, 0.0)
	}
}
