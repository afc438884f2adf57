package store

import "time"

// ScorecardRecord mirrors one row of the buffett_scorecard table.
// Upserted on (stock_code, calculation_date); same-day reruns overwrite.
type ScorecardRecord struct {
	StockCode       string
	CompanyName     string
	TableVersion    string
	CalculationDate string // yyyy-mm-dd

	TotalScore     float64
	MaxScore       float64
	Percentage     float64
	Grade          string
	Recommendation string
	Estimated      bool
	Status         string // "scored" or "insufficient_data"

	ProfitabilityScore float64
	GrowthScore        float64
	StabilityScore     float64
	EfficiencyScore    float64
	ValuationScore     float64

	ROE             *float64
	OperatingMargin *float64
	NetMargin       *float64
	DebtRatio       *float64
	CurrentRatio    *float64
	RevenueGrowth   *float64
	NetIncomeGrowth *float64
	AssetTurnover   *float64
	PER             *float64
	PBR             *float64
	DividendYield   *float64

	Details     string // human-readable sub-score lines
	LastUpdated time.Time
}

// Record statuses.
const (
	StatusScored           = "scored"
	StatusInsufficientData = "insufficient_data"
)
