package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kv-tools/value-atlas/pkg/adapters"
	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/runtime/terminal/export"
	"github.com/kv-tools/value-atlas/pkg/services/collect"
	"github.com/kv-tools/value-atlas/pkg/services/scorecard"
	scorecardstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/scorecard"
)

type ScoreCmd struct {
	stockCode   string
	corpCode    string
	companyName string
	year        int
	dryRun      bool
	deps        *Deps
}

func NewScoreCmd(deps *Deps) *cobra.Command {
	sc := &ScoreCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single stock",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.stockCode, "stock-code", "", "6-digit KRX stock code")
	cmd.Flags().StringVar(&sc.corpCode, "corp-code", "", "DART corp code (defaults to the stock code)")
	cmd.Flags().StringVar(&sc.companyName, "company-name", "", "Company name for reporting")
	cmd.Flags().IntVar(&sc.year, "year", 0, "Business year of the filing (defaults to last year)")
	cmd.Flags().BoolVar(&sc.dryRun, "dry-run", false, "Compute and print without persisting")

	_ = cmd.MarkFlagRequired("stock-code")

	return cmd
}

func (sc *ScoreCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := sc.deps.Config

	if err := cfg.ValidateFilings(); err != nil {
		return err
	}

	corpCode := sc.corpCode
	if corpCode == "" {
		corpCode = sc.stockCode
	}
	year := sc.year
	if year == 0 {
		year = time.Now().Year() - 1
	}

	dart := collect.NewDARTClient(cfg.Credentials.DARTAPIKey)
	rows, err := dart.FetchStatements(ctx, corpCode, year, collect.ReportAnnual)
	if err != nil && sc.deps.Config.OnMissingData != string(scorecard.PolicyEstimate) {
		return fmt.Errorf("failed to fetch filings for %s: %w", sc.stockCode, err)
	}

	var snapshot *domain.MarketSnapshot
	if cfg.ValidateQuotes() == nil {
		kis := collect.NewKISClient(cfg.Credentials.KISAppKey, cfg.Credentials.KISAppSecret)
		snapshot, err = kis.FetchQuote(ctx, sc.stockCode)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "quote unavailable, valuation ratios skipped: %v\n", err)
			snapshot = nil
		}
	}

	service, err := sc.deps.newScorecardService()
	if err != nil {
		return err
	}

	in := scorecard.Input{
		StockCode:   sc.stockCode,
		CompanyName: sc.companyName,
		Rows:        rows,
		Snapshot:    snapshot,
	}
	if snapshot != nil {
		in.MarketCap = snapshot.MarketCap
	}

	card, err := service.Score(ctx, in)
	if err != nil {
		return err
	}

	if !sc.dryRun {
		db, err := sc.deps.openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := scorecardstore.NewStore(db)
		if err != nil {
			return err
		}
		if err := store.Upsert(ctx, adapters.MapDomainScorecardToStoreRecord(card)); err != nil {
			return err
		}
	}

	return sc.deps.Reporter.Handle(export.BuildScorecardReport(card))
}
