// Package progress persists batch checkpoints and run logs.
package progress

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/store/sqlite"
)

type Store interface {
	CompletedCodes(ctx context.Context) (map[string]bool, error)
	Update(ctx context.Context, progress store.BatchProgress) error
	Reset(ctx context.Context) error
	WriteLog(ctx context.Context, log store.BatchLog) error
	RecentLogs(ctx context.Context, limit int) ([]*store.BatchLog, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
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

func (s *defaultStore) CompletedCodes(ctx context.Context) (map[string]bool, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx,
		`SELECT stock_code FROM batch_progress WHERE status = ?`, store.ProgressCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed codes: %w", err)
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		completed[code] = true
	}
	return completed, rows.Err()
}

func (s *defaultStore) Update(ctx context.Context, p store.BatchProgress) error {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO batch_progress (stock_code, status, error_message, processing_time, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (stock_code) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			processing_time = excluded.processing_time,
			updated_at = excluded.updated_at
	`, p.StockCode, p.Status, p.ErrorMessage, p.ProcessingTime, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update progress for %s: %w", p.StockCode, err)
	}
	return nil
}

// Reset clears checkpoints so the next run starts from scratch.
func (s *defaultStore) Reset(ctx context.Context) error {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM batch_progress`); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

func (s *defaultStore) WriteLog(ctx context.Context, l store.BatchLog) error {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO batch_logs (batch_id, total_stocks, completed, failed, start_time, end_time, success_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.BatchID, l.TotalStocks, l.Completed, l.Failed, l.StartTime, l.EndTime, l.SuccessRate)
	if err != nil {
		return fmt.Errorf("failed to write batch log %s: %w", l.BatchID, err)
	}
	return nil
}

func (s *defaultStore) RecentLogs(ctx context.Context, limit int) ([]*store.BatchLog, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT batch_id, total_stocks, completed, failed, start_time, end_time, success_rate
		FROM batch_logs
		ORDER BY start_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch logs: %w", err)
	}
	defer rows.Close()

	var logs []*store.BatchLog
	for rows.Next() {
		var l store.BatchLog
		if err := rows.Scan(&l.BatchID, &l.TotalStocks, &l.Completed, &l.Failed,
			&l.StartTime, &l.EndTime, &l.SuccessRate); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// StatusCounts tallies checkpoints by status for the status command.
func (s *defaultStore) StatusCounts(ctx context.Context) (map[string]int, error) {
	exec := sqlite.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM batch_progress GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
