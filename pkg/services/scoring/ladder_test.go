package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

func TestLadder_HigherIsBetter(t *testing.T) {
	l := Ladder{
		Ratio:     domain.RatioROE,
		Direction: HigherIsBetter,
		Bands:     []Band{{20, 10}, {15, 8}, {10, 5}},
		Fallback:  2,
	}

	cases := []struct {
		value float64
		want  float64
	}{
		{25, 10},
		{20, 10}, // exact bound takes the band
		{19.99, 8},
		{15, 8},
		{10, 5},
		{9.99, 2},
		{-5, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, l.Score(tc.value), "value %v", tc.value)
	}
}

func TestLadder_LowerIsBetter(t *testing.T) {
	l := Ladder{
		Ratio:     domain.RatioDebtRatio,
		Direction: LowerIsBetter,
		Bands:     []Band{{30, 15}, {50, 12}, {100, 8}},
		Fallback:  3,
	}

	cases := []struct {
		value float64
		want  float64
	}{
		{10, 15},
		{30, 15}, // exact bound takes the band
		{30.01, 12},
		{45, 12},
		{100, 8},
		{250, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, l.Score(tc.value), "value %v", tc.value)
	}
}

func TestLadder_Max(t *testing.T) {
	l := Ladder{Bands: []Band{{20, 10}, {15, 8}}, Fallback: 2}
	assert.Equal(t, 10.0, l.Max())
}

func TestLadder_ValidateOrdering(t *testing.T) {
	bad := Ladder{
		Ratio:     domain.RatioROE,
		Direction: HigherIsBetter,
		Bands:     []Band{{10, 5}, {20, 10}},
	}
	assert.Error(t, bad.validate())

	badAsc := Ladder{
		Ratio:     domain.RatioPER,
		Direction: LowerIsBetter,
		Bands:     []Band{{20, 3}, {10, 8}},
	}
	assert.Error(t, badAsc.validate())
}

func TestShippedTablesValidate(t *testing.T) {
	assert.NoError(t, TableV110().Validate())
	assert.NoError(t, TableV100().Validate())
}

func TestTableByVersion(t *testing.T) {
	tbl, err := TableByVersion("")
	assert.NoError(t, err)
	assert.Equal(t, "v110", tbl.Version)

	tbl, err = TableByVersion("v100")
	assert.NoError(t, err)
	assert.Equal(t, 100.0, tbl.MaxScore)

	_, err = TableByVersion("v999")
	assert.Error(t, err)
}
