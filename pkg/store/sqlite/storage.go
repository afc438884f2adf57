// Package sqlite owns the embedded database: connection setup, boot
// schema and transaction plumbing shared by the table stores.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const ScorecardSchema = `
	CREATE TABLE IF NOT EXISTS buffett_scorecard (
		stock_code TEXT NOT NULL,
		company_name TEXT NOT NULL DEFAULT '',
		table_version TEXT NOT NULL DEFAULT 'v110',
		calculation_date TEXT NOT NULL,
		total_score REAL NOT NULL DEFAULT 0,
		max_score REAL NOT NULL DEFAULT 0,
		percentage REAL NOT NULL DEFAULT 0,
		grade TEXT NOT NULL DEFAULT '',
		recommendation TEXT NOT NULL DEFAULT '',
		estimated INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'scored',
		profitability_score REAL NOT NULL DEFAULT 0,
		growth_score REAL NOT NULL DEFAULT 0,
		stability_score REAL NOT NULL DEFAULT 0,
		efficiency_score REAL NOT NULL DEFAULT 0,
		valuation_score REAL NOT NULL DEFAULT 0,
		roe REAL,
		operating_margin REAL,
		net_margin REAL,
		debt_ratio REAL,
		current_ratio REAL,
		revenue_growth REAL,
		net_income_growth REAL,
		asset_turnover REAL,
		per REAL,
		pbr REAL,
		dividend_yield REAL,
		details TEXT NOT NULL DEFAULT '',
		last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (stock_code, calculation_date)
	);
`

const BatchProgressSchema = `
	CREATE TABLE IF NOT EXISTS batch_progress (
		stock_code TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT NOT NULL DEFAULT '',
		processing_time REAL NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const BatchLogSchema = `
	CREATE TABLE IF NOT EXISTS batch_logs (
		batch_id TEXT PRIMARY KEY,
		total_stocks INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		success_rate REAL NOT NULL DEFAULT 0
	);
`

const NewsSchema = `
	CREATE TABLE IF NOT EXISTS stock_news (
		stock_code TEXT NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		publisher TEXT NOT NULL DEFAULT '',
		published_at TIMESTAMP,
		sentiment REAL NOT NULL DEFAULT 0,
		collected_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (stock_code, link)
	);
`

var bootQueries = []string{
	ScorecardSchema,
	BatchProgressSchema,
	BatchLogSchema,
	NewsSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens the database and applies the boot schema. The pool is held
// to a single connection; SQLite allows one writer and the busy timeout
// absorbs short contention instead of surfacing lock errors.
func NewDB(settings Settings) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", settings.DbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply boot schema: %w", err)
		}
	}
	return db, nil
}
