// Package scorecard persists computed scorecards.
package scorecard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/store/sqlite"
)

// writeRetries bounds the busy-retry loop on writes.
const writeRetries = 3

type Store interface {
	Upsert(ctx context.Context, record *store.ScorecardRecord) error
	GetLatest(ctx context.Context, stockCode string) (*store.ScorecardRecord, error)
	TopN(ctx context.Context, n int) ([]*store.ScorecardRecord, error)
	ListByDate(ctx context.Context, date string) ([]*store.ScorecardRecord, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

const upsertQuery = `
	INSERT INTO buffett_scorecard (
		stock_code, company_name, table_version, calculation_date,
		total_score, max_score, percentage, grade, recommendation,
		estimated, status,
		profitability_score, growth_score, stability_score,
		efficiency_score, valuation_score,
		roe, operating_margin, net_margin, debt_ratio, current_ratio,
		revenue_growth, net_income_growth, asset_turnover,
		per, pbr, dividend_yield,
		details, last_updated
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (stock_code, calculation_date) DO UPDATE SET
		company_name = excluded.company_name,
		table_version = excluded.table_version,
		total_score = excluded.total_score,
		max_score = excluded.max_score,
		percentage = excluded.percentage,
		grade = excluded.grade,
		recommendation = excluded.recommendation,
		estimated = excluded.estimated,
		status = excluded.status,
		profitability_score = excluded.profitability_score,
		growth_score = excluded.growth_score,
		stability_score = excluded.stability_score,
		efficiency_score = excluded.efficiency_score,
		valuation_score = excluded.valuation_score,
		roe = excluded.roe,
		operating_margin = excluded.operating_margin,
		net_margin = excluded.net_margin,
		debt_ratio = excluded.debt_ratio,
		current_ratio = excluded.current_ratio,
		revenue_growth = excluded.revenue_growth,
		net_income_growth = excluded.net_income_growth,
		asset_turnover = excluded.asset_turnover,
		per = excluded.per,
		pbr = excluded.pbr,
		dividend_yield = excluded.dividend_yield,
		details = excluded.details,
		last_updated = excluded.last_updated
`

func (s *defaultStore) Upsert(ctx context.Context, r *store.ScorecardRecord) error {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	var err error
	for attempt := 0; attempt <= writeRetries; attempt++ {
		_, err = exec.ExecContext(ctx, upsertQuery,
			r.StockCode, r.CompanyName, r.TableVersion, r.CalculationDate,
			r.TotalScore, r.MaxScore, r.Percentage, r.Grade, r.Recommendation,
			r.Estimated, r.Status,
			r.ProfitabilityScore, r.GrowthScore, r.StabilityScore,
			r.EfficiencyScore, r.ValuationScore,
			r.ROE, r.OperatingMargin, r.NetMargin, r.DebtRatio, r.CurrentRatio,
			r.RevenueGrowth, r.NetIncomeGrowth, r.AssetTurnover,
			r.PER, r.PBR, r.DividendYield,
			r.Details, r.LastUpdated,
		)
		if err == nil || !isBusy(err) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	if err != nil {
		return fmt.Errorf("failed to upsert scorecard %s: %w", r.StockCode, err)
	}
	return nil
}

const selectColumns = `
	stock_code, company_name, table_version, calculation_date,
	total_score, max_score, percentage, grade, recommendation,
	estimated, status,
	profitability_score, growth_score, stability_score,
	efficiency_score, valuation_score,
	roe, operating_margin, net_margin, debt_ratio, current_ratio,
	revenue_growth, net_income_growth, asset_turnover,
	per, pbr, dividend_yield,
	details, last_updated
`

func (s *defaultStore) GetLatest(ctx context.Context, stockCode string) (*store.ScorecardRecord, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	row := exec.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM buffett_scorecard
		WHERE stock_code = ?
		ORDER BY calculation_date DESC
		LIMIT 1
	`, stockCode)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scorecard %s: %w", stockCode, err)
	}
	return record, nil
}

// TopN returns the best latest scorecards, scored entities only.
func (s *defaultStore) TopN(ctx context.Context, n int) ([]*store.ScorecardRecord, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM buffett_scorecard b
		WHERE status = ?
		  AND calculation_date = (
			SELECT MAX(calculation_date) FROM buffett_scorecard
			WHERE stock_code = b.stock_code
		  )
		ORDER BY total_score DESC
		LIMIT ?
	`, store.StatusScored, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *defaultStore) ListByDate(ctx context.Context, date string) ([]*store.ScorecardRecord, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM buffett_scorecard
		WHERE calculation_date = ?
		ORDER BY total_score DESC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorecards for %s: %w", date, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*store.ScorecardRecord, error) {
	var r store.ScorecardRecord
	err := row.Scan(
		&r.StockCode, &r.CompanyName, &r.TableVersion, &r.CalculationDate,
		&r.TotalScore, &r.MaxScore, &r.Percentage, &r.Grade, &r.Recommendation,
		&r.Estimated, &r.Status,
		&r.ProfitabilityScore, &r.GrowthScore, &r.StabilityScore,
		&r.EfficiencyScore, &r.ValuationScore,
		&r.ROE, &r.OperatingMargin, &r.NetMargin, &r.DebtRatio, &r.CurrentRatio,
		&r.RevenueGrowth, &r.NetIncomeGrowth, &r.AssetTurnover,
		&r.PER, &r.PBR, &r.DividendYield,
		&r.Details, &r.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]*store.ScorecardRecord, error) {
	var records []*store.ScorecardRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func isBusy(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
}
