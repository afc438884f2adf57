package export

import (
	"fmt"
	"time"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/services/batch"
	"github.com/kv-tools/value-atlas/pkg/services/screening"
)

// BuildScorecardReport shapes one scorecard for console rendering.
func BuildScorecardReport(card *domain.Scorecard) *domain.Report {
	summary := map[string]interface{}{
		"Stock":          fmt.Sprintf("%s (%s)", card.CompanyName, card.StockCode),
		"Total Score":    fmt.Sprintf("%.1f / %.0f (%.1f%%)", card.TotalScore, card.MaxScore, card.Percentage),
		"Grade":          card.Grade,
		"Recommendation": card.Recommendation,
	}
	if card.Estimated {
		summary["Data"] = "estimated (no usable filings)"
	}

	sections := []domain.ReportSection{{
		Title:   "Overview",
		Summary: summary,
	}}

	for _, cat := range card.Categories {
		section := domain.ReportSection{
			Title: fmt.Sprintf("%s (%.1f / %.0f)", cat.Category, cat.Points, cat.Cap),
		}
		for _, d := range cat.Details {
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        string(d.Ratio),
				Value:       fmt.Sprintf("%.2f", d.Value),
				Description: d.Text,
			})
		}
		sections = append(sections, section)
	}

	return &domain.Report{
		Title:       "Buffett Scorecard",
		GeneratedAt: card.CalculatedAt,
		Sections:    sections,
	}
}

// BuildBatchReport shapes a finished batch run for console rendering.
func BuildBatchReport(summary batch.Summary) *domain.Report {
	return &domain.Report{
		Title:       "Batch Scoring Summary",
		GeneratedAt: time.Now(),
		Sections: []domain.ReportSection{{
			Title: "Run " + summary.BatchID,
			Summary: map[string]interface{}{
				"Total":        summary.Total,
				"Completed":    summary.Completed,
				"Failed":       summary.Failed,
				"Skipped":      summary.Skipped,
				"Success Rate": fmt.Sprintf("%.1f%%", summary.SuccessRate),
				"Elapsed":      summary.Elapsed.Round(time.Millisecond).String(),
			},
		}},
	}
}

// BuildScreeningReport shapes the shortlist for console rendering.
func BuildScreeningReport(results []screening.Result) *domain.Report {
	section := domain.ReportSection{
		Title: "Shortlist",
		Summary: map[string]interface{}{
			"Candidates": len(results),
		},
	}
	for i, r := range results {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  fmt.Sprintf("%d. %s", i+1, r.StockCode),
			Value: fmt.Sprintf("%.2f", r.FinalRanking),
			Description: fmt.Sprintf("%s  mandatory %d  bonus %d  valuation %d",
				r.CompanyName, r.MandatoryScore, r.BonusScore, r.ValuationScore),
		})
	}

	return &domain.Report{
		Title:       "Quality Stock Screening",
		GeneratedAt: time.Now(),
		Sections:    []domain.ReportSection{section},
	}
}

// BuildStatusReport shapes checkpoint counts and recent runs for console
// rendering.
func BuildStatusReport(counts map[string]int, logs []*store.BatchLog) *domain.Report {
	progress := domain.ReportSection{
		Title:   "Checkpoint",
		Summary: map[string]interface{}{},
	}
	for status, n := range counts {
		progress.Summary[status] = n
	}

	runs := domain.ReportSection{Title: "Recent Runs"}
	for _, l := range logs {
		runs.Details = append(runs.Details, domain.ReportDetail{
			Name:  l.BatchID,
			Value: fmt.Sprintf("%d/%d", l.Completed, l.TotalStocks),
			Description: fmt.Sprintf("%s, success %.1f%%",
				l.StartTime.Format("2006-01-02 15:04"), l.SuccessRate),
		})
	}

	return &domain.Report{
		Title:       "Batch Status",
		GeneratedAt: time.Now(),
		Sections:    []domain.ReportSection{progress, runs},
	}
}
