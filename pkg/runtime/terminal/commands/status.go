package commands

import (
	"github.com/spf13/cobra"

	"github.com/kv-tools/value-atlas/pkg/runtime/terminal/export"
	progressstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/progress"
)

type StatusCmd struct {
	runs int
	deps *Deps
}

func NewStatusCmd(deps *Deps) *cobra.Command {
	st := &StatusCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show batch checkpoint and recent runs",
		RunE:  st.run,
	}

	cmd.Flags().IntVar(&st.runs, "runs", 5, "Number of recent runs to show")

	return cmd
}

func (st *StatusCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := st.deps.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	progress, err := progressstore.NewStore(db)
	if err != nil {
		return err
	}

	counts, err := progress.StatusCounts(ctx)
	if err != nil {
		return err
	}
	logs, err := progress.RecentLogs(ctx, st.runs)
	if err != nil {
		return err
	}

	return st.deps.Reporter.Handle(export.BuildStatusReport(counts, logs))
}
