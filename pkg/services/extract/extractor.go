// Package extract resolves raw statement line items into canonical metrics.
package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

// MatchStrategy selects how account-name aliases are resolved against rows.
type MatchStrategy int

const (
	// FirstMatch takes the first row whose account name contains an alias,
	// walking aliases in table order and rows in input order.
	FirstMatch MatchStrategy = iota
	// LongestMatch prefers the alias with the longest text among all hits.
	LongestMatch
)

// AliasEntry binds a canonical metric to its accepted account-name aliases,
// in priority order.
type AliasEntry struct {
	Metric  domain.Metric
	Aliases []string
}

// AliasTable is an ordered alias lookup. Order matters: ties between rows
// are broken by alias priority, then input order.
type AliasTable []AliasEntry

// DefaultAliasTable covers the account names DART filings use for the
// metrics the scorecard needs, Korean labels included.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		{domain.MetricRevenue, []string{"매출액", "수익(매출액)", "영업수익", "총매출액", "매출"}},
		{domain.MetricOperatingIncome, []string{"영업이익", "영업손익"}},
		{domain.MetricNetIncome, []string{"당기순이익", "당기순손익", "순이익"}},
		{domain.MetricTotalAssets, []string{"자산총계", "총자산", "자산합계"}},
		{domain.MetricEquity, []string{"자본총계", "자기자본총계", "자본합계", "지배기업소유주지분", "주주지분"}},
		{domain.MetricLiabilities, []string{"부채총계", "총부채", "부채합계"}},
		{domain.MetricCurrentAssets, []string{"유동자산"}},
		{domain.MetricCurrentLiabilities, []string{"유동부채"}},
	}
}

// Period selects which amount column of a row to read.
type Period int

const (
	CurrentPeriod Period = iota
	PriorPeriod
	PriorPriorPeriod
)

// Extractor turns statement rows into a Metrics map. It is a pure function
// over its inputs; a bad row never aborts the rest of the extraction.
type Extractor struct {
	table    AliasTable
	strategy MatchStrategy
}

func NewExtractor(table AliasTable, strategy MatchStrategy) *Extractor {
	if table == nil {
		table = DefaultAliasTable()
	}
	return &Extractor{table: table, strategy: strategy}
}

// Extract resolves each canonical metric from rows, reading the amount
// column selected by period. Metrics with no resolvable row are absent
// from the result.
func (e *Extractor) Extract(ctx context.Context, rows []domain.StatementRow, period Period) domain.Metrics {
	logger := zerolog.Ctx(ctx)
	metrics := make(domain.Metrics, len(e.table))

	for _, entry := range e.table {
		if v, ok := e.resolve(logger, rows, entry, period); ok {
			metrics[entry.Metric] = v
		}
	}
	return metrics
}

func (e *Extractor) resolve(logger *zerolog.Logger, rows []domain.StatementRow, entry AliasEntry, period Period) (float64, bool) {
	switch e.strategy {
	case LongestMatch:
		return e.resolveLongest(logger, rows, entry, period)
	default:
		return e.resolveFirst(logger, rows, entry, period)
	}
}

func (e *Extractor) resolveFirst(logger *zerolog.Logger, rows []domain.StatementRow, entry AliasEntry, period Period) (float64, bool) {
	for _, alias := range entry.Aliases {
		for _, row := range rows {
			if !containsFold(row.AccountName, alias) {
				continue
			}
			v, err := ParseAmount(amountFor(row, period))
			if err != nil {
				logger.Debug().
					Str("metric", string(entry.Metric)).
					Str("account", row.AccountName).
					Err(err).
					Msg("skipping unparseable amount")
				continue
			}
			return v, true
		}
	}
	return 0, false
}

func (e *Extractor) resolveLongest(logger *zerolog.Logger, rows []domain.StatementRow, entry AliasEntry, period Period) (float64, bool) {
	bestLen := -1
	var bestVal float64
	for _, alias := range entry.Aliases {
		if len(alias) <= bestLen {
			continue
		}
		for _, row := range rows {
			if !containsFold(row.AccountName, alias) {
				continue
			}
			v, err := ParseAmount(amountFor(row, period))
			if err != nil {
				logger.Debug().
					Str("metric", string(entry.Metric)).
					Str("account", row.AccountName).
					Err(err).
					Msg("skipping unparseable amount")
				continue
			}
			bestLen = len(alias)
			bestVal = v
			break
		}
	}
	return bestVal, bestLen >= 0
}

func amountFor(row domain.StatementRow, period Period) string {
	switch period {
	case PriorPeriod:
		return row.PriorAmount
	case PriorPriorPeriod:
		return row.PriorPriorAmount
	default:
		return row.Amount
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ParseAmount converts a locale-formatted statement amount to a float.
// Thousands separators and whitespace are stripped, parentheses and a
// leading minus denote negatives, and a standalone "-" means zero (the
// filing convention for "no amount").
func ParseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", " ", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if cleaned == "-" {
		return 0, nil
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	if strings.HasPrefix(cleaned, "-") {
		negative = !negative
		cleaned = cleaned[1:]
	}

	if cleaned == "" || !isNumeric(cleaned) {
		return 0, fmt.Errorf("not a numeric amount: %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if negative {
		v = -v
	}
	return v, nil
}

func isNumeric(s string) bool {
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}
