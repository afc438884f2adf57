package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1,234,567", 1234567, false},
		{" 1 000 ", 1000, false},
		{"-2,500", -2500, false},
		{"(1,000)", -1000, false},
		{"-", 0, false},
		{"3.14", 3.14, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1,2,3원", 0, true},
		{"1.2.3", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestExtractor_FirstMatchWins(t *testing.T) {
	rows := []domain.StatementRow{
		{AccountName: "수익(매출액)", Amount: "200"},
		{AccountName: "매출액", Amount: "100"},
	}

	ex := NewExtractor(nil, FirstMatch)
	metrics := ex.Extract(context.Background(), rows, CurrentPeriod)

	// "매출액" is the highest-priority alias and also a substring of the
	// first row's account name, so input order decides.
	v, ok := metrics.Get(domain.MetricRevenue)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestExtractor_AliasPriorityBeforeRowOrder(t *testing.T) {
	table := AliasTable{
		{domain.MetricRevenue, []string{"영업수익", "매출"}},
	}
	rows := []domain.StatementRow{
		{AccountName: "매출", Amount: "1"},
		{AccountName: "영업수익", Amount: "2"},
	}

	ex := NewExtractor(table, FirstMatch)
	metrics := ex.Extract(context.Background(), rows, CurrentPeriod)

	v, ok := metrics.Get(domain.MetricRevenue)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestExtractor_LongestMatch(t *testing.T) {
	table := AliasTable{
		{domain.MetricEquity, []string{"자본총계", "자기자본총계"}},
	}
	rows := []domain.StatementRow{
		{AccountName: "자본총계", Amount: "10"},
		{AccountName: "자기자본총계", Amount: "20"},
	}

	ex := NewExtractor(table, LongestMatch)
	metrics := ex.Extract(context.Background(), rows, CurrentPeriod)

	v, ok := metrics.Get(domain.MetricEquity)
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
}

func TestExtractor_UnparseableRowSkipped(t *testing.T) {
	rows := []domain.StatementRow{
		{AccountName: "당기순이익", Amount: "n/a"},
		{AccountName: "당기순이익(손실)", Amount: "5,000"},
		{AccountName: "부채총계", Amount: "garbage"},
	}

	ex := NewExtractor(nil, FirstMatch)
	metrics := ex.Extract(context.Background(), rows, CurrentPeriod)

	v, ok := metrics.Get(domain.MetricNetIncome)
	require.True(t, ok)
	assert.Equal(t, 5000.0, v)

	// Failed parse must leave the metric absent, not zero.
	_, ok = metrics.Get(domain.MetricLiabilities)
	assert.False(t, ok)
}

func TestExtractor_MissingMetricAbsent(t *testing.T) {
	rows := []domain.StatementRow{
		{AccountName: "매출액", Amount: "100"},
	}

	ex := NewExtractor(nil, FirstMatch)
	metrics := ex.Extract(context.Background(), rows, CurrentPeriod)

	_, ok := metrics.Get(domain.MetricEquity)
	assert.False(t, ok)
	assert.Len(t, metrics, 1)
}

func TestExtractor_PriorPeriodColumn(t *testing.T) {
	rows := []domain.StatementRow{
		{AccountName: "매출액", Amount: "300", PriorAmount: "250", PriorPriorAmount: "200"},
	}

	ex := NewExtractor(nil, FirstMatch)

	cur := ex.Extract(context.Background(), rows, CurrentPeriod)
	prior := ex.Extract(context.Background(), rows, PriorPeriod)

	cv, _ := cur.Get(domain.MetricRevenue)
	pv, _ := prior.Get(domain.MetricRevenue)
	assert.Equal(t, 300.0, cv)
	assert.Equal(t, 250.0, pv)
}
