package domain

import "time"

// RatioName identifies a computed financial ratio.
type RatioName string

const (
	RatioROE             RatioName = "roe"
	RatioOperatingMargin RatioName = "operating_margin"
	RatioNetMargin       RatioName = "net_margin"
	RatioDebtRatio       RatioName = "debt_ratio"
	RatioCurrentRatio    RatioName = "current_ratio"
	RatioRevenueGrowth   RatioName = "revenue_growth"
	RatioNetIncomeGrowth RatioName = "net_income_growth"
	RatioAssetTurnover   RatioName = "asset_turnover"
	RatioPER             RatioName = "per"
	RatioPBR             RatioName = "pbr"
	RatioDividendYield   RatioName = "dividend_yield"
)

// RatioSet maps ratio names to computed values. A ratio is present only if
// its numerator was available and its denominator strictly positive.
type RatioSet map[RatioName]float64

// Get reports the ratio value and whether it is present.
func (r RatioSet) Get(name RatioName) (float64, bool) {
	v, ok := r[name]
	return v, ok
}

// Category names a scoring category. Report ordering follows the order the
// weight table declares them in.
type Category string

const (
	CategoryProfitability Category = "profitability"
	CategoryGrowth        Category = "growth"
	CategoryStability     Category = "stability"
	CategoryEfficiency    Category = "efficiency"
	CategoryValuation     Category = "valuation"
)

// ScoreDetail records one sub-criterion's contribution for reporting.
type ScoreDetail struct {
	Ratio  RatioName
	Value  float64
	Points float64
	Text   string
}

// CategoryScore is the accumulated, cap-clamped score of one category.
// Points always stays within [0, Cap].
type CategoryScore struct {
	Category Category
	Points   float64
	Cap      float64
	Details  []ScoreDetail
}

// Scorecard is the final rating for one entity at one calculation date.
// It is immutable after construction.
type Scorecard struct {
	StockCode      string
	CompanyName    string
	TableVersion   string
	TotalScore     float64
	MaxScore       float64
	Percentage     float64
	Grade          string
	Recommendation string
	Categories     []CategoryScore
	Ratios         RatioSet
	Estimated      bool
	CalculatedAt   time.Time
}
