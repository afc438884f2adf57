package commands

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kv-tools/value-atlas/pkg/services/batch"
	"github.com/kv-tools/value-atlas/pkg/services/collect"
	newsstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/news"
)

type CollectCmd struct {
	universePath string
	stockCode    string
	companyName  string
	limit        int
	schedule     string
	deps         *Deps
}

func NewCollectCmd(deps *Deps) *cobra.Command {
	cc := &CollectCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect news headlines with sentiment",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.universePath, "universe", "", "CSV with stock_code,corp_code,company_name[,market_cap]")
	cmd.Flags().StringVar(&cc.stockCode, "stock-code", "", "Collect for a single stock")
	cmd.Flags().StringVar(&cc.companyName, "company-name", "", "Company name used as the search query")
	cmd.Flags().IntVar(&cc.limit, "limit", 0, "Headlines per stock (defaults to the profile setting)")
	cmd.Flags().StringVar(&cc.schedule, "cron", "", "Cron expression for repeated collection (runs once when empty)")

	return cmd
}

func (cc *CollectCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := cc.deps.Config

	if err := cfg.ValidateNews(); err != nil {
		return err
	}

	targets, err := cc.targets()
	if err != nil {
		return err
	}

	db, err := cc.deps.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	headlines, err := newsstore.NewStore(db)
	if err != nil {
		return err
	}

	client := collect.NewNewsClient(cfg.Credentials.NaverClientID, cfg.Credentials.NaverClientSecret)
	limit := cc.limit
	if limit == 0 {
		limit = cfg.Collect.NewsLimit
	}

	schedule := cc.schedule
	if schedule == "" {
		schedule = cfg.Collect.Schedule
	}

	if schedule == "" {
		return cc.collectOnce(ctx, client, headlines, targets, limit)
	}

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		if err := cc.collectOnce(ctx, client, headlines, targets, limit); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("scheduled collection failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}

	zerolog.Ctx(ctx).Info().Str("schedule", schedule).Msg("collector scheduled")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (cc *CollectCmd) targets() ([]batch.UniverseEntry, error) {
	if cc.stockCode != "" {
		name := cc.companyName
		if name == "" {
			return nil, fmt.Errorf("--company-name is required with --stock-code")
		}
		return []batch.UniverseEntry{{StockCode: cc.stockCode, CompanyName: name}}, nil
	}
	if cc.universePath == "" {
		return nil, fmt.Errorf("either --universe or --stock-code is required")
	}
	return batch.LoadUniverseCSV(cc.universePath)
}

func (cc *CollectCmd) collectOnce(
	ctx context.Context,
	client *collect.NewsClient,
	headlines newsstore.Store,
	targets []batch.UniverseEntry,
	limit int,
) error {
	logger := zerolog.Ctx(ctx)

	var collected, failed int
	for _, target := range targets {
		records, err := client.FetchNews(ctx, target.StockCode, target.CompanyName, limit)
		if err != nil {
			logger.Warn().Err(err).Str("stock_code", target.StockCode).Msg("failed to collect news")
			failed++
			continue
		}
		inserted, err := headlines.SaveAll(ctx, records)
		if err != nil {
			logger.Warn().Err(err).Str("stock_code", target.StockCode).Msg("failed to save news")
			failed++
			continue
		}
		collected += inserted
	}

	logger.Info().
		Int("stocks", len(targets)).
		Int("new_headlines", collected).
		Int("failed", failed).
		Msg("collection finished")

	if failed == len(targets) && len(targets) > 0 {
		return fmt.Errorf("collection failed for all %d stocks", failed)
	}
	return nil
}
