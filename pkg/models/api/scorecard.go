package api

import "time"

// Scorecard is the JSON shape served for one entity's rating.
type Scorecard struct {
	StockCode       string    `json:"stock_code"`
	CompanyName     string    `json:"company_name"`
	TableVersion    string    `json:"table_version"`
	CalculationDate string    `json:"calculation_date"`
	TotalScore      float64   `json:"total_score"`
	MaxScore        float64   `json:"max_score"`
	Percentage      float64   `json:"percentage"`
	Grade           string    `json:"grade"`
	Recommendation  string    `json:"recommendation"`
	Estimated       bool      `json:"estimated"`
	Status          string    `json:"status"`
	Categories      Breakdown `json:"categories"`
	Ratios          Ratios    `json:"ratios"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Breakdown lists the per-category points.
type Breakdown struct {
	Profitability float64 `json:"profitability"`
	Growth        float64 `json:"growth"`
	Stability     float64 `json:"stability"`
	Efficiency    float64 `json:"efficiency"`
	Valuation     float64 `json:"valuation"`
}

// Ratios carries the computed ratios; null means unavailable.
type Ratios struct {
	ROE             *float64 `json:"roe"`
	OperatingMargin *float64 `json:"operating_margin"`
	NetMargin       *float64 `json:"net_margin"`
	DebtRatio       *float64 `json:"debt_ratio"`
	CurrentRatio    *float64 `json:"current_ratio"`
	RevenueGrowth   *float64 `json:"revenue_growth"`
	NetIncomeGrowth *float64 `json:"net_income_growth"`
	AssetTurnover   *float64 `json:"asset_turnover"`
	PER             *float64 `json:"per"`
	PBR             *float64 `json:"pbr"`
	DividendYield   *float64 `json:"dividend_yield"`
}

// Ranking is one row of the top-scored listing.
type Ranking struct {
	Rank        int     `json:"rank"`
	StockCode   string  `json:"stock_code"`
	CompanyName string  `json:"company_name"`
	TotalScore  float64 `json:"total_score"`
	Grade       string  `json:"grade"`
	Estimated   bool    `json:"estimated"`
}
