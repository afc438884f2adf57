package commands

import (
	"github.com/spf13/cobra"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/runtime/terminal/export"
	"github.com/kv-tools/value-atlas/pkg/services/screening"
	scorecardstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/scorecard"
)

// universeCap bounds how many stored scorecards enter the screen.
const universeCap = 2000

type ScreenCmd struct {
	minROE       float64
	maxDebtRatio float64
	deps         *Deps
}

func NewScreenCmd(deps *Deps) *cobra.Command {
	sc := &ScreenCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen stored scorecards for quality stocks",
		RunE:  sc.run,
	}

	defaults := screening.DefaultCriteria()
	cmd.Flags().Float64Var(&sc.minROE, "min-roe", defaults.Mandatory.MinROE, "Minimum ROE in percent")
	cmd.Flags().Float64Var(&sc.maxDebtRatio, "max-debt-ratio", defaults.Mandatory.MaxDebtRatio, "Maximum debt ratio in percent")

	return cmd
}

func (sc *ScreenCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := sc.deps.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	scorecards, err := scorecardstore.NewStore(db)
	if err != nil {
		return err
	}

	records, err := scorecards.TopN(ctx, universeCap)
	if err != nil {
		return err
	}

	criteria := screening.DefaultCriteria()
	criteria.Mandatory.MinROE = sc.minROE
	criteria.Mandatory.MaxDebtRatio = sc.maxDebtRatio

	screener, err := screening.NewScreener(criteria)
	if err != nil {
		return err
	}

	candidates := make([]screening.Candidate, 0, len(records))
	for _, r := range records {
		candidates = append(candidates, candidateFromRecord(r, criteria))
	}

	results := screener.Screen(ctx, candidates)
	return sc.deps.Reporter.Handle(export.BuildScreeningReport(results))
}

// candidateFromRecord rebuilds a screening candidate from a stored row.
// Stored rows keep only the latest period, so the profit-streak criterion
// is satisfied by current profitability.
func candidateFromRecord(r *store.ScorecardRecord, criteria screening.Criteria) screening.Candidate {
	c := screening.Candidate{
		StockCode:   r.StockCode,
		CompanyName: r.CompanyName,
		Ratios:      domain.RatioSet{},
	}

	put := func(name domain.RatioName, v *float64) {
		if v != nil {
			c.Ratios[name] = *v
		}
	}
	put(domain.RatioROE, r.ROE)
	put(domain.RatioOperatingMargin, r.OperatingMargin)
	put(domain.RatioNetMargin, r.NetMargin)
	put(domain.RatioDebtRatio, r.DebtRatio)
	put(domain.RatioCurrentRatio, r.CurrentRatio)
	put(domain.RatioRevenueGrowth, r.RevenueGrowth)
	put(domain.RatioNetIncomeGrowth, r.NetIncomeGrowth)
	put(domain.RatioAssetTurnover, r.AssetTurnover)
	put(domain.RatioPER, r.PER)
	put(domain.RatioPBR, r.PBR)
	put(domain.RatioDividendYield, r.DividendYield)

	if r.NetMargin != nil && *r.NetMargin > 0 {
		c.ConsecutiveProfitYears = criteria.Mandatory.MinConsecutiveProfitYr
	}
	return c
}
