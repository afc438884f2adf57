// Package news persists collected headlines, deduplicated by link.
package news

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/store/sqlite"
)

type Store interface {
	SaveAll(ctx context.Context, records []store.NewsRecord) (int, error)
	ListByStock(ctx context.Context, stockCode string, limit int) ([]*store.NewsRecord, error)
	AverageSentiment(ctx context.Context, stockCode string) (float64, error)
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

// SaveAll inserts headlines in one transaction and reports how many were
// new. Re-collected links are ignored so repeated runs do not inflate
// sentiment.
func (s *defaultStore) SaveAll(ctx context.Context, records []store.NewsRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx := sqlite.GetTransaction(ctx)
	owned := tx == nil
	if owned {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()
		ctx = sqlite.WithTransaction(ctx, tx)
	}
	exec := sqlite.ExecutorFrom(ctx, s.db)

	inserted := 0
	for _, r := range records {
		res, err := exec.ExecContext(ctx, `
			INSERT INTO stock_news (stock_code, title, link, publisher, published_at, sentiment, collected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (stock_code, link) DO NOTHING
		`, r.StockCode, r.Title, r.Link, r.Publisher, r.PublishedAt, r.Sentiment, r.CollectedAt)
		if err != nil {
			return inserted, fmt.Errorf("failed to save headline for %s: %w", r.StockCode, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if owned {
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit headlines: %w", err)
		}
	}
	return inserted, nil
}

func (s *defaultStore) ListByStock(ctx context.Context, stockCode string, limit int) ([]*store.NewsRecord, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT stock_code, title, link, publisher, published_at, sentiment, collected_at
		FROM stock_news
		WHERE stock_code = ?
		ORDER BY published_at DESC
		LIMIT ?
	`, stockCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query news for %s: %w", stockCode, err)
	}
	defer rows.Close()

	var records []*store.NewsRecord
	for rows.Next() {
		var r store.NewsRecord
		if err := rows.Scan(&r.StockCode, &r.Title, &r.Link, &r.Publisher,
			&r.PublishedAt, &r.Sentiment, &r.CollectedAt); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func (s *defaultStore) AverageSentiment(ctx context.Context, stockCode string) (float64, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	var avg sql.NullFloat64
	err := exec.QueryRowContext(ctx,
		`SELECT AVG(sentiment) FROM stock_news WHERE stock_code = ?`, stockCode).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average sentiment for %s: %w", stockCode, err)
	}
	return avg.Float64, nil
}
