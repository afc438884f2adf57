// Package batch scores a whole universe of entities with a bounded worker
// pool. Runs are resumable: per-entity progress is checkpointed so an
// interrupted run picks up where it stopped.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/services/scorecard"
)

// ErrNoSuccesses means every entity in the run failed. The CLI maps this
// to a non-zero exit.
var ErrNoSuccesses = errors.New("batch finished with zero successes")

// Entity is one universe member to score.
type Entity struct {
	StockCode   string
	CompanyName string
	MarketCap   float64
}

// DataSource supplies the universe and each entity's raw inputs.
type DataSource interface {
	Entities(ctx context.Context) ([]Entity, error)
	Load(ctx context.Context, entity Entity) (scorecard.Input, error)
}

// ResultWriter persists per-entity outcomes.
type ResultWriter interface {
	WriteScorecard(ctx context.Context, card *domain.Scorecard) error
	MarkInsufficient(ctx context.Context, stockCode string) error
}

// ProgressStore checkpoints per-entity progress and records the run log.
type ProgressStore interface {
	CompletedCodes(ctx context.Context) (map[string]bool, error)
	Update(ctx context.Context, progress store.BatchProgress) error
	WriteLog(ctx context.Context, log store.BatchLog) error
}

// Progress is a point-in-time view of a running batch.
type Progress struct {
	StockCode string
	Processed int
	Total     int
	Failed    int
}

// Summary is the final tally of one run.
type Summary struct {
	BatchID     string
	Total       int
	Completed   int
	Failed      int
	Skipped     int
	Elapsed     time.Duration
	SuccessRate float64
}

// Config controls a run. Workers below one defaults to four.
type Config struct {
	Workers int
	Resume  bool
	DryRun  bool
}

// Runner executes a batch over a data source.
type Runner struct {
	service  *scorecard.Service
	source   DataSource
	writer   ResultWriter
	progress ProgressStore
	config   Config

	progressCh chan Progress
}

func NewRunner(service *scorecard.Service, source DataSource, writer ResultWriter, progress ProgressStore, config Config) *Runner {
	if config.Workers < 1 {
		config.Workers = 4
	}
	return &Runner{
		service:    service,
		source:     source,
		writer:     writer,
		progress:   progress,
		config:     config,
		progressCh: make(chan Progress, 100),
	}
}

// Progress exposes per-entity updates for live reporting. The channel
// closes when Run returns.
func (r *Runner) Progress() <-chan Progress {
	return r.progressCh
}

// Run scores every entity in the universe. Cancellation stops scheduling
// new work but already-completed results stay persisted. The error is
// ErrNoSuccesses when nothing scored, otherwise nil even with partial
// failures; the summary carries the counts either way.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	defer close(r.progressCh)

	batchID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("batch_id", batchID).Logger()
	ctx = logger.WithContext(ctx)
	start := time.Now()

	entities, err := r.source.Entities(ctx)
	if err != nil {
		return Summary{BatchID: batchID}, fmt.Errorf("failed to list entities: %w", err)
	}

	var skipped int
	if r.config.Resume {
		done, err := r.progress.CompletedCodes(ctx)
		if err != nil {
			return Summary{BatchID: batchID}, fmt.Errorf("failed to load checkpoint: %w", err)
		}
		var remaining []Entity
		for _, e := range entities {
			if done[e.StockCode] {
				skipped++
				continue
			}
			remaining = append(remaining, e)
		}
		entities = remaining
	}

	logger.Info().
		Int("entities", len(entities)).
		Int("skipped", skipped).
		Int("workers", r.config.Workers).
		Bool("dry_run", r.config.DryRun).
		Msg("batch started")

	var (
		mu        sync.Mutex
		completed int
		failed    int
		processed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for _, entity := range entities {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			ok := r.processOne(gctx, entity)

			mu.Lock()
			processed++
			if ok {
				completed++
			} else {
				failed++
			}
			update := Progress{
				StockCode: entity.StockCode,
				Processed: processed,
				Total:     len(entities),
				Failed:    failed,
			}
			mu.Unlock()

			select {
			case r.progressCh <- update:
			default:
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{
		BatchID:   batchID,
		Total:     len(entities) + skipped,
		Completed: completed,
		Failed:    failed,
		Skipped:   skipped,
		Elapsed:   time.Since(start),
	}
	if completed+failed > 0 {
		summary.SuccessRate = float64(completed) / float64(completed+failed) * 100
	}

	if !r.config.DryRun {
		logErr := r.progress.WriteLog(ctx, store.BatchLog{
			BatchID:     batchID,
			TotalStocks: summary.Total,
			Completed:   completed,
			Failed:      failed,
			StartTime:   start.UTC(),
			EndTime:     time.Now().UTC(),
			SuccessRate: summary.SuccessRate,
		})
		if logErr != nil {
			logger.Warn().Err(logErr).Msg("failed to write batch log")
		}
	}

	logger.Info().
		Int("completed", completed).
		Int("failed", failed).
		Dur("elapsed", summary.Elapsed).
		Msg("batch finished")

	if completed == 0 && len(entities) > 0 {
		return summary, ErrNoSuccesses
	}
	return summary, nil
}

func (r *Runner) processOne(ctx context.Context, entity Entity) bool {
	logger := zerolog.Ctx(ctx)
	started := time.Now()

	r.checkpoint(ctx, entity.StockCode, store.ProgressProcessing, "", started)

	in, err := r.source.Load(ctx, entity)
	if err != nil {
		logger.Warn().Err(err).Str("stock_code", entity.StockCode).Msg("failed to load entity data")
		r.checkpoint(ctx, entity.StockCode, store.ProgressFailed, err.Error(), started)
		return false
	}
	in.StockCode = entity.StockCode
	in.CompanyName = entity.CompanyName
	if in.MarketCap == 0 {
		in.MarketCap = entity.MarketCap
	}

	card, err := r.service.Score(ctx, in)
	switch {
	case errors.Is(err, scorecard.ErrInsufficientData):
		if !r.config.DryRun {
			if werr := r.writer.MarkInsufficient(ctx, entity.StockCode); werr != nil {
				logger.Warn().Err(werr).Str("stock_code", entity.StockCode).Msg("failed to record insufficient data")
			}
		}
		r.checkpoint(ctx, entity.StockCode, store.ProgressFailed, err.Error(), started)
		return false
	case err != nil:
		logger.Warn().Err(err).Str("stock_code", entity.StockCode).Msg("failed to score entity")
		r.checkpoint(ctx, entity.StockCode, store.ProgressFailed, err.Error(), started)
		return false
	}

	if !r.config.DryRun {
		if err := r.writer.WriteScorecard(ctx, card); err != nil {
			logger.Warn().Err(err).Str("stock_code", entity.StockCode).Msg("failed to persist scorecard")
			r.checkpoint(ctx, entity.StockCode, store.ProgressFailed, err.Error(), started)
			return false
		}
	}

	r.checkpoint(ctx, entity.StockCode, store.ProgressCompleted, "", started)
	return true
}

func (r *Runner) checkpoint(ctx context.Context, stockCode, status, errMsg string, started time.Time) {
	if r.config.DryRun {
		return
	}
	err := r.progress.Update(ctx, store.BatchProgress{
		StockCode:      stockCode,
		Status:         status,
		ErrorMessage:   errMsg,
		ProcessingTime: time.Since(started).Seconds(),
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("stock_code", stockCode).Msg("failed to checkpoint progress")
	}
}
