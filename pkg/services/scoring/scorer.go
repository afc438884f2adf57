package scoring

import (
	"fmt"
	"time"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

// gradeBand maps a percentage floor to a grade. Ordered highest first;
// first match wins, so a percentage exactly on a floor takes that grade.
type gradeBand struct {
	Floor          float64
	Grade          string
	Recommendation string
}

var gradeBands = []gradeBand{
	{80, "S", "Strong Buy"},
	{70, "A", "Buy"},
	{60, "B", "Hold"},
	{40, "C", "Sell"},
	{0, "D", "Strong Sell"},
}

// GradeFor resolves the letter grade and recommendation for a percentage.
func GradeFor(percentage float64) (grade, recommendation string) {
	for _, b := range gradeBands {
		if percentage >= b.Floor {
			return b.Grade, b.Recommendation
		}
	}
	last := gradeBands[len(gradeBands)-1]
	return last.Grade, last.Recommendation
}

// Scorer applies one weight table to ratio sets.
type Scorer struct {
	table WeightTable
}

func NewScorer(table WeightTable) (*Scorer, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{table: table}, nil
}

func (s *Scorer) Table() WeightTable {
	return s.table
}

// ScoreCategories runs every ladder against rs. Absent ratios award no
// points and appear in no detail line; a category with nothing to score
// still appears with zero points. Sums are clamped to the category cap.
func (s *Scorer) ScoreCategories(rs domain.RatioSet) []domain.CategoryScore {
	out := make([]domain.CategoryScore, 0, len(s.table.Categories))
	for _, spec := range s.table.Categories {
		cs := domain.CategoryScore{Category: spec.Category, Cap: spec.Cap}
		var sum float64
		for _, ladder := range spec.Ladders {
			value, ok := rs.Get(ladder.Ratio)
			if !ok {
				continue
			}
			points := ladder.Score(value)
			sum += points
			cs.Details = append(cs.Details, domain.ScoreDetail{
				Ratio:  ladder.Ratio,
				Value:  value,
				Points: points,
				Text:   detailText(ladder, value, points),
			})
		}
		cs.Points = clamp(sum, 0, spec.Cap)
		out = append(out, cs)
	}
	return out
}

// Score builds the full scorecard for one entity from its ratios.
func (s *Scorer) Score(stockCode, companyName string, rs domain.RatioSet, asOf time.Time) *domain.Scorecard {
	categories := s.ScoreCategories(rs)

	var total float64
	for _, c := range categories {
		total += c.Points
	}
	percentage := total / s.table.MaxScore * 100
	grade, recommendation := GradeFor(percentage)

	return &domain.Scorecard{
		StockCode:      stockCode,
		CompanyName:    companyName,
		TableVersion:   s.table.Version,
		TotalScore:     total,
		MaxScore:       s.table.MaxScore,
		Percentage:     percentage,
		Grade:          grade,
		Recommendation: recommendation,
		Categories:     categories,
		Ratios:         rs,
		CalculatedAt:   asOf,
	}
}

func detailText(l Ladder, value, points float64) string {
	switch l.Unit {
	case "x":
		return fmt.Sprintf("%s %.2fx (%.0fpt)", l.Ratio, value, points)
	default:
		return fmt.Sprintf("%s %.1f%% (%.0fpt)", l.Ratio, value, points)
	}
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
