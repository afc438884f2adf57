package domain

// StatementRow is a single line item as reported in a financial statement
// filing. Account names are free text and amounts are locale-formatted
// strings; nothing is parsed at this level.
type StatementRow struct {
	AccountName      string
	Year             int
	ReportCode       string
	Amount           string
	PriorAmount      string
	PriorPriorAmount string
}

// Metric is a canonical metric name resolved from statement account names.
type Metric string

const (
	MetricRevenue            Metric = "revenue"
	MetricOperatingIncome    Metric = "operating_income"
	MetricNetIncome          Metric = "net_income"
	MetricTotalAssets        Metric = "total_assets"
	MetricEquity             Metric = "equity"
	MetricLiabilities        Metric = "liabilities"
	MetricCurrentAssets      Metric = "current_assets"
	MetricCurrentLiabilities Metric = "current_liabilities"
)

// Metrics maps canonical names to parsed amounts. A metric that could not
// be resolved is absent from the map; callers must treat absence as
// "data unavailable" and never substitute zero.
type Metrics map[Metric]float64

// Get reports the value and whether it is present.
func (m Metrics) Get(name Metric) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// PeriodMetrics couples the latest reporting period with the one before
// it, which growth ratios need.
type PeriodMetrics struct {
	Current Metrics
	Prior   Metrics
}

// MarketSnapshot carries the market-side inputs for valuation ratios.
// Owned by the caller; zero SharesOutstanding disables per-share math.
type MarketSnapshot struct {
	Price             float64
	SharesOutstanding float64
	MarketCap         float64
	DividendPerShare  float64
}
