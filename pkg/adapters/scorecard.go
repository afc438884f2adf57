package adapters

import (
	"fmt"
	"strings"

	"github.com/kv-tools/value-atlas/pkg/models/api"
	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/models/store"
)

// MapDomainScorecardToStoreRecord flattens a computed scorecard into its
// table row. Absent ratios become NULL columns, never zero.
func MapDomainScorecardToStoreRecord(card *domain.Scorecard) *store.ScorecardRecord {
	r := &store.ScorecardRecord{
		StockCode:       card.StockCode,
		CompanyName:     card.CompanyName,
		TableVersion:    card.TableVersion,
		CalculationDate: card.CalculatedAt.Format("2006-01-02"),
		TotalScore:      card.TotalScore,
		MaxScore:        card.MaxScore,
		Percentage:      card.Percentage,
		Grade:           card.Grade,
		Recommendation:  card.Recommendation,
		Estimated:       card.Estimated,
		Status:          store.StatusScored,
		Details:         formatDetails(card),
		LastUpdated:     card.CalculatedAt,
	}

	for _, cat := range card.Categories {
		switch cat.Category {
		case domain.CategoryProfitability:
			r.ProfitabilityScore = cat.Points
		case domain.CategoryGrowth:
			r.GrowthScore = cat.Points
		case domain.CategoryStability:
			r.StabilityScore = cat.Points
		case domain.CategoryEfficiency:
			r.EfficiencyScore = cat.Points
		case domain.CategoryValuation:
			r.ValuationScore = cat.Points
		}
	}

	r.ROE = ratioPtr(card.Ratios, domain.RatioROE)
	r.OperatingMargin = ratioPtr(card.Ratios, domain.RatioOperatingMargin)
	r.NetMargin = ratioPtr(card.Ratios, domain.RatioNetMargin)
	r.DebtRatio = ratioPtr(card.Ratios, domain.RatioDebtRatio)
	r.CurrentRatio = ratioPtr(card.Ratios, domain.RatioCurrentRatio)
	r.RevenueGrowth = ratioPtr(card.Ratios, domain.RatioRevenueGrowth)
	r.NetIncomeGrowth = ratioPtr(card.Ratios, domain.RatioNetIncomeGrowth)
	r.AssetTurnover = ratioPtr(card.Ratios, domain.RatioAssetTurnover)
	r.PER = ratioPtr(card.Ratios, domain.RatioPER)
	r.PBR = ratioPtr(card.Ratios, domain.RatioPBR)
	r.DividendYield = ratioPtr(card.Ratios, domain.RatioDividendYield)

	return r
}

func MapStoreRecordToApiScorecard(r *store.ScorecardRecord) api.Scorecard {
	return api.Scorecard{
		StockCode:       r.StockCode,
		CompanyName:     r.CompanyName,
		TableVersion:    r.TableVersion,
		CalculationDate: r.CalculationDate,
		TotalScore:      r.TotalScore,
		MaxScore:        r.MaxScore,
		Percentage:      r.Percentage,
		Grade:           r.Grade,
		Recommendation:  r.Recommendation,
		Estimated:       r.Estimated,
		Status:          r.Status,
		Categories: api.Breakdown{
			Profitability: r.ProfitabilityScore,
			Growth:        r.GrowthScore,
			Stability:     r.StabilityScore,
			Efficiency:    r.EfficiencyScore,
			Valuation:     r.ValuationScore,
		},
		Ratios: api.Ratios{
			ROE:             r.ROE,
			OperatingMargin: r.OperatingMargin,
			NetMargin:       r.NetMargin,
			DebtRatio:       r.DebtRatio,
			CurrentRatio:    r.CurrentRatio,
			RevenueGrowth:   r.RevenueGrowth,
			NetIncomeGrowth: r.NetIncomeGrowth,
			AssetTurnover:   r.AssetTurnover,
			PER:             r.PER,
			PBR:             r.PBR,
			DividendYield:   r.DividendYield,
		},
		LastUpdated: r.LastUpdated,
	}
}

func MapStoreRecordsToApiRankings(records []*store.ScorecardRecord) []api.Ranking {
	rankings := make([]api.Ranking, 0, len(records))
	for i, r := range records {
		rankings = append(rankings, api.Ranking{
			Rank:        i + 1,
			StockCode:   r.StockCode,
			CompanyName: r.CompanyName,
			TotalScore:  r.TotalScore,
			Grade:       r.Grade,
			Estimated:   r.Estimated,
		})
	}
	return rankings
}

func ratioPtr(rs domain.RatioSet, name domain.RatioName) *float64 {
	if v, ok := rs.Get(name); ok {
		return &v
	}
	return nil
}

func formatDetails(card *domain.Scorecard) string {
	var b strings.Builder
	for _, cat := range card.Categories {
		fmt.Fprintf(&b, "[%s %.1f/%.0f]\n", cat.Category, cat.Points, cat.Cap)
		for _, d := range cat.Details {
			fmt.Fprintf(&b, "  %s\n", d.Text)
		}
	}
	return b.String()
}
