// Package estimate synthesizes plausible ratios for entities that have no
// usable filings. Estimated output is tagged as such end to end and never
// shares a code path with real-data scoring.
package estimate

import (
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

// Market-cap buckets in KRW.
const (
	largeCapFloor = 10_000_000_000_000 // 10조
	midCapFloor   = 1_000_000_000_000  // 1조
)

// SizeCategory labels the market-cap bucket an estimate was based on.
type SizeCategory string

const (
	SizeLarge  SizeCategory = "large"
	SizeMedium SizeCategory = "medium"
	SizeSmall  SizeCategory = "small"
)

// Estimate is a synthesized ratio set plus the assumptions behind it.
type Estimate struct {
	Ratios domain.RatioSet
	Size   SizeCategory
	// IndustryFactor is the sector multiplier inferred from the name.
	IndustryFactor float64
}

// Estimator produces deterministic estimates: the same stock code always
// yields the same numbers, so repeated runs are reproducible.
type Estimator struct{}

func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate synthesizes ratios for one entity from its market cap bucket and
// a name-keyword industry adjustment.
func (e *Estimator) Estimate(stockCode, companyName string, marketCap float64) Estimate {
	rng := rand.New(rand.NewSource(seedFor(stockCode)))

	var (
		size       SizeCategory
		baseROE    float64
		baseDebt   float64
		baseGrowth float64
	)
	switch {
	case marketCap >= largeCapFloor:
		size = SizeLarge
		baseROE = 15 + uniform(rng, -3, 5)
		baseDebt = 35 + uniform(rng, -10, 15)
		baseGrowth = 8 + uniform(rng, -3, 7)
	case marketCap >= midCapFloor:
		size = SizeMedium
		baseROE = 12 + uniform(rng, -4, 8)
		baseDebt = 45 + uniform(rng, -15, 20)
		baseGrowth = 12 + uniform(rng, -5, 10)
	default:
		size = SizeSmall
		baseROE = 10 + uniform(rng, -5, 15)
		baseDebt = 55 + uniform(rng, -20, 25)
		baseGrowth = 15 + uniform(rng, -8, 20)
	}

	factor := industryFactor(companyName)

	ratios := domain.RatioSet{
		domain.RatioROE:             baseROE * factor,
		domain.RatioDebtRatio:       baseDebt / factor,
		domain.RatioCurrentRatio:    150 + uniform(rng, -30, 50),
		domain.RatioRevenueGrowth:   baseGrowth * factor,
		domain.RatioOperatingMargin: 15 + uniform(rng, -5, 10),
		domain.RatioPER:             clamp(15+uniform(rng, -5, 10), 1, 50),
		domain.RatioPBR:             clamp(1.5+uniform(rng, -0.5, 1.0), 0.01, 50),
		domain.RatioDividendYield:   clamp(2.5+uniform(rng, -1, 2), 0, 15),
	}

	return Estimate{Ratios: ratios, Size: size, IndustryFactor: factor}
}

func industryFactor(companyName string) float64 {
	switch {
	case containsAny(companyName, "전자", "IT", "소프트웨어", "인터넷", "게임"):
		return 1.2
	case containsAny(companyName, "바이오", "제약", "의료"):
		return 1.1
	case containsAny(companyName, "은행", "보험", "증권"):
		return 0.8
	default:
		return 1.0
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func seedFor(stockCode string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(stockCode))
	return int64(h.Sum64())
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
