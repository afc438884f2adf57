package scoring

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

// CategorySpec is one category of a weight table: its cap and the ladders
// whose sub-scores sum (then clamp) into it.
type CategorySpec struct {
	Category domain.Category
	Cap      float64
	Ladders  []Ladder
}

// WeightTable is a versioned scorecard configuration. The maximum score and
// every band live here and nowhere else, so two call sites can never
// disagree about the scale.
type WeightTable struct {
	Version    string
	MaxScore   float64
	Categories []CategorySpec
}

// Validate checks that category caps sum to the max score and that every
// ladder's bands are ordered for its direction.
func (t WeightTable) Validate() error {
	var sum float64
	for _, c := range t.Categories {
		if c.Cap <= 0 {
			return fmt.Errorf("table %s: category %s has non-positive cap", t.Version, c.Category)
		}
		sum += c.Cap
		for _, l := range c.Ladders {
			if err := l.validate(); err != nil {
				return fmt.Errorf("table %s: %w", t.Version, err)
			}
		}
	}
	if sum != t.MaxScore {
		return fmt.Errorf("table %s: caps sum to %v, max score is %v", t.Version, sum, t.MaxScore)
	}
	return nil
}

// TableV110 is the five-category 110-point table.
func TableV110() WeightTable {
	return WeightTable{
		Version:  "v110",
		MaxScore: 110,
		Categories: []CategorySpec{
			{
				Category: domain.CategoryProfitability,
				Cap:      30,
				Ladders: []Ladder{
					{Ratio: domain.RatioROE, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{20, 10}, {15, 8}, {10, 5}}, Fallback: 2},
					{Ratio: domain.RatioOperatingMargin, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{20, 10}, {15, 8}, {10, 5}}, Fallback: 2},
					{Ratio: domain.RatioNetMargin, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{15, 10}, {10, 8}, {5, 5}}, Fallback: 2},
				},
			},
			{
				Category: domain.CategoryGrowth,
				Cap:      25,
				Ladders: []Ladder{
					{Ratio: domain.RatioRevenueGrowth, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{20, 15}, {10, 10}, {5, 6}}, Fallback: 2},
					{Ratio: domain.RatioNetIncomeGrowth, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{20, 10}, {10, 6}, {5, 3}}, Fallback: 0},
				},
			},
			{
				Category: domain.CategoryStability,
				Cap:      25,
				Ladders: []Ladder{
					{Ratio: domain.RatioDebtRatio, Direction: LowerIsBetter, Unit: "%",
						Bands: []Band{{30, 15}, {50, 12}, {100, 8}}, Fallback: 3},
					{Ratio: domain.RatioCurrentRatio, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{200, 10}, {150, 8}, {100, 5}}, Fallback: 2},
				},
			},
			{
				Category: domain.CategoryEfficiency,
				Cap:      10,
				Ladders: []Ladder{
					{Ratio: domain.RatioAssetTurnover, Direction: HigherIsBetter, Unit: "x",
						Bands: []Band{{1.0, 10}, {0.7, 7}, {0.5, 4}, {0.3, 2}}, Fallback: 0},
				},
			},
			{
				Category: domain.CategoryValuation,
				Cap:      20,
				Ladders: []Ladder{
					{Ratio: domain.RatioPER, Direction: LowerIsBetter, Unit: "x",
						Bands: []Band{{10, 8}, {15, 6}, {20, 3}}, Fallback: 0},
					{Ratio: domain.RatioPBR, Direction: LowerIsBetter, Unit: "x",
						Bands: []Band{{1.0, 8}, {1.5, 6}, {2.0, 4}, {3.0, 1}}, Fallback: 0},
					{Ratio: domain.RatioDividendYield, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{4, 4}, {2, 3}, {1, 1}}, Fallback: 0},
				},
			},
		},
	}
}

// TableV100 is the coarser four-ratio 100-point table used by the
// screening shortlist ranking.
func TableV100() WeightTable {
	return WeightTable{
		Version:  "v100",
		MaxScore: 100,
		Categories: []CategorySpec{
			{
				Category: domain.CategoryProfitability,
				Cap:      30,
				Ladders: []Ladder{
					{Ratio: domain.RatioROE, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{20, 30}, {15, 25}, {10, 20}}, Fallback: 10},
				},
			},
			{
				Category: domain.CategoryStability,
				Cap:      25,
				Ladders: []Ladder{
					{Ratio: domain.RatioDebtRatio, Direction: LowerIsBetter, Unit: "%",
						Bands: []Band{{30, 25}, {50, 20}}, Fallback: 10},
				},
			},
			{
				Category: domain.CategoryGrowth,
				Cap:      25,
				Ladders: []Ladder{
					{Ratio: domain.RatioRevenueGrowth, Direction: HigherIsBetter, Unit: "%",
						Bands: []Band{{15, 25}, {10, 20}, {5, 15}}, Fallback: 10},
				},
			},
			{
				Category: domain.CategoryValuation,
				Cap:      20,
				Ladders: []Ladder{
					{Ratio: domain.RatioPER, Direction: LowerIsBetter, Unit: "x",
						Bands: []Band{{10, 20}, {15, 15}, {20, 10}}, Fallback: 5},
				},
			},
		},
	}
}

// TableByVersion resolves a shipped table by name.
func TableByVersion(version string) (WeightTable, error) {
	switch version {
	case "", "v110":
		return TableV110(), nil
	case "v100":
		return TableV100(), nil
	default:
		return WeightTable{}, fmt.Errorf("unknown weight table version %q", version)
	}
}

// LoadTable reads a weight table from a YAML file. Absent file paths fall
// back to the shipped version named by version.
func LoadTable(path, version string) (WeightTable, error) {
	if path == "" {
		return TableByVersion(version)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return WeightTable{}, fmt.Errorf("failed to read weight table file: %w", err)
	}

	var t WeightTable
	if err := v.Unmarshal(&t); err != nil {
		return WeightTable{}, fmt.Errorf("failed to parse weight table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return WeightTable{}, err
	}
	return t, nil
}
