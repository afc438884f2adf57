package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kv-tools/value-atlas/pkg/adapters"
	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/runtime/terminal/export"
	"github.com/kv-tools/value-atlas/pkg/services/batch"
	"github.com/kv-tools/value-atlas/pkg/services/collect"
	progressstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/progress"
	scorecardstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/scorecard"
)

type BatchCmd struct {
	universePath string
	all          bool
	topN         int
	workers      int
	year         int
	resume       bool
	dryRun       bool
	deps         *Deps
}

func NewBatchCmd(deps *Deps) *cobra.Command {
	bc := &BatchCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score a universe of stocks",
		RunE:  bc.run,
	}

	cmd.Flags().StringVar(&bc.universePath, "universe", "", "CSV with stock_code,corp_code,company_name[,market_cap]")
	cmd.Flags().BoolVar(&bc.all, "all", false, "Score the full universe, ignoring any top-n limit")
	cmd.Flags().IntVar(&bc.topN, "top-n", 0, "Limit the run to the first N universe entries")
	cmd.Flags().IntVar(&bc.workers, "workers", 0, "Concurrent workers (defaults to the profile setting)")
	cmd.Flags().IntVar(&bc.year, "year", 0, "Business year of the filings (defaults to last year)")
	cmd.Flags().BoolVar(&bc.resume, "resume", false, "Skip entities completed by a previous run")
	cmd.Flags().BoolVar(&bc.dryRun, "dry-run", false, "Score without persisting results")

	_ = cmd.MarkFlagRequired("universe")

	return cmd
}

func (bc *BatchCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := bc.deps.Config

	if err := cfg.ValidateFilings(); err != nil {
		return err
	}

	entries, err := batch.LoadUniverseCSV(bc.universePath)
	if err != nil {
		return err
	}
	topN := bc.topN
	if topN == 0 {
		topN = cfg.Batch.TopN
	}
	if !bc.all && topN > 0 && topN < len(entries) {
		entries = entries[:topN]
	}

	year := bc.year
	if year == 0 {
		year = time.Now().Year() - 1
	}

	dart := collect.NewDARTClient(cfg.Credentials.DARTAPIKey)
	var quotes batch.QuotesAPI
	if cfg.ValidateQuotes() == nil {
		quotes = collect.NewKISClient(cfg.Credentials.KISAppKey, cfg.Credentials.KISAppSecret)
	}
	source := batch.NewProviderSource(entries, dart, quotes, year, collect.ReportAnnual)

	service, err := bc.deps.newScorecardService()
	if err != nil {
		return err
	}

	db, err := bc.deps.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	scorecards, err := scorecardstore.NewStore(db)
	if err != nil {
		return err
	}
	progress, err := progressstore.NewStore(db)
	if err != nil {
		return err
	}

	if !bc.resume && !bc.dryRun {
		if err := progress.Reset(ctx); err != nil {
			return err
		}
	}

	workers := bc.workers
	if workers == 0 {
		workers = cfg.Batch.Workers
	}

	runner := batch.NewRunner(service, source, &storeWriter{scorecards: scorecards}, progress, batch.Config{
		Workers: workers,
		Resume:  bc.resume,
		DryRun:  bc.dryRun,
	})

	go func() {
		logger := zerolog.Ctx(ctx)
		for p := range runner.Progress() {
			logger.Info().
				Str("stock_code", p.StockCode).
				Int("processed", p.Processed).
				Int("total", p.Total).
				Int("failed", p.Failed).
				Msg("progress")
		}
	}()

	summary, runErr := runner.Run(ctx)
	if err := bc.deps.Reporter.Handle(export.BuildBatchReport(summary)); err != nil {
		return err
	}
	return runErr
}

// storeWriter adapts the scorecard table store to the runner's writer.
type storeWriter struct {
	scorecards scorecardstore.Store
}

func (w *storeWriter) WriteScorecard(ctx context.Context, card *domain.Scorecard) error {
	return w.scorecards.Upsert(ctx, adapters.MapDomainScorecardToStoreRecord(card))
}

func (w *storeWriter) MarkInsufficient(ctx context.Context, stockCode string) error {
	now := time.Now().UTC()
	return w.scorecards.Upsert(ctx, &store.ScorecardRecord{
		StockCode:       stockCode,
		CalculationDate: now.Format("2006-01-02"),
		Status:          store.StatusInsufficientData,
		LastUpdated:     now,
	})
}
