package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kv-tools/value-atlas/pkg/server"
	scorecardstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/scorecard"
)

type ServeCmd struct {
	addr string
	deps *Deps
}

func NewServeCmd(deps *Deps) *cobra.Command {
	sv := &ServeCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scorecards over HTTP",
		RunE:  sv.run,
	}

	cmd.Flags().StringVar(&sv.addr, "addr", "", "Listen address (defaults to the profile setting)")

	return cmd
}

func (sv *ServeCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := sv.deps.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	scorecards, err := scorecardstore.NewStore(db)
	if err != nil {
		return err
	}

	addr := sv.addr
	if addr == "" {
		addr = sv.deps.Config.Server.Addr
	}

	webAPI := server.NewWebAPI(*zerolog.Ctx(ctx), server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Scorecards: scorecards,
		},
	})
	return webAPI.Start(ctx)
}
