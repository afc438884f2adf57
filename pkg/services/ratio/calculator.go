// Package ratio derives standard financial ratios from normalized metrics.
package ratio

import (
	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

// Calculator computes a RatioSet from period metrics and an optional market
// snapshot. Every formula is guarded: a ratio is emitted only when its
// numerator is present and its denominator strictly positive; otherwise it
// is absent, never zero.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute derives all ratios available from the inputs. snapshot may be nil,
// which disables PER, PBR and dividend yield.
func (c *Calculator) Compute(pm domain.PeriodMetrics, snapshot *domain.MarketSnapshot) domain.RatioSet {
	rs := make(domain.RatioSet)
	cur := pm.Current

	putPct(rs, domain.RatioROE, cur, domain.MetricNetIncome, domain.MetricEquity)
	putPct(rs, domain.RatioOperatingMargin, cur, domain.MetricOperatingIncome, domain.MetricRevenue)
	putPct(rs, domain.RatioNetMargin, cur, domain.MetricNetIncome, domain.MetricRevenue)
	putPct(rs, domain.RatioDebtRatio, cur, domain.MetricLiabilities, domain.MetricEquity)
	putPct(rs, domain.RatioCurrentRatio, cur, domain.MetricCurrentAssets, domain.MetricCurrentLiabilities)

	// Asset turnover is a plain multiple, not a percentage.
	if num, denom, ok := operands(cur, domain.MetricRevenue, domain.MetricTotalAssets); ok {
		rs[domain.RatioAssetTurnover] = num / denom
	}

	c.growth(rs, pm)
	if snapshot != nil {
		c.valuation(rs, cur, *snapshot)
	}
	return rs
}

func (c *Calculator) growth(rs domain.RatioSet, pm domain.PeriodMetrics) {
	if pm.Prior == nil {
		return
	}
	putGrowth(rs, domain.RatioRevenueGrowth, pm, domain.MetricRevenue)
	putGrowth(rs, domain.RatioNetIncomeGrowth, pm, domain.MetricNetIncome)
}

func (c *Calculator) valuation(rs domain.RatioSet, cur domain.Metrics, snap domain.MarketSnapshot) {
	if snap.Price <= 0 {
		return
	}

	if snap.SharesOutstanding > 0 {
		if netIncome, ok := cur.Get(domain.MetricNetIncome); ok {
			eps := netIncome / snap.SharesOutstanding
			if eps > 0 {
				rs[domain.RatioPER] = snap.Price / eps
			}
		}
		if equity, ok := cur.Get(domain.MetricEquity); ok {
			bps := equity / snap.SharesOutstanding
			if bps > 0 {
				rs[domain.RatioPBR] = snap.Price / bps
			}
		}
	}

	if snap.DividendPerShare > 0 {
		rs[domain.RatioDividendYield] = snap.DividendPerShare / snap.Price * 100
	}
}

func operands(m domain.Metrics, numName, denomName domain.Metric) (num, denom float64, ok bool) {
	num, ok = m.Get(numName)
	if !ok {
		return 0, 0, false
	}
	denom, ok = m.Get(denomName)
	if !ok || denom <= 0 {
		return 0, 0, false
	}
	return num, denom, true
}

func putPct(rs domain.RatioSet, name domain.RatioName, m domain.Metrics, numName, denomName domain.Metric) {
	if num, denom, ok := operands(m, numName, denomName); ok {
		rs[name] = num / denom * 100
	}
}

func putGrowth(rs domain.RatioSet, name domain.RatioName, pm domain.PeriodMetrics, metric domain.Metric) {
	cur, ok := pm.Current.Get(metric)
	if !ok {
		return
	}
	prior, ok := pm.Prior.Get(metric)
	if !ok || prior <= 0 {
		return
	}
	rs[name] = (cur - prior) / prior * 100
}
