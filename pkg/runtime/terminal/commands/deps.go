// Package commands defines the toolkit's CLI surface.
package commands

import (
	"database/sql"
	"fmt"

	"github.com/kv-tools/value-atlas/pkg/runtime/terminal/export"
	"github.com/kv-tools/value-atlas/pkg/services/config"
	"github.com/kv-tools/value-atlas/pkg/services/scorecard"
	"github.com/kv-tools/value-atlas/pkg/services/scoring"
	"github.com/kv-tools/value-atlas/pkg/store/sqlite"
)

// Deps carries the shared command dependencies. Config is populated by
// the root command before any subcommand runs.
type Deps struct {
	Config   *config.Config
	Reporter *export.Reporter
}

func (d *Deps) openDB() (*sql.DB, error) {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: d.Config.DatabasePath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", d.Config.DatabasePath, err)
	}
	return db, nil
}

func (d *Deps) newScorecardService() (*scorecard.Service, error) {
	table, err := scoring.LoadTable(d.Config.WeightsPath, d.Config.TableVersion)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(table)
	if err != nil {
		return nil, err
	}
	policy, err := scorecard.ParsePolicy(d.Config.OnMissingData)
	if err != nil {
		return nil, err
	}
	return scorecard.NewService(scorer, policy), nil
}
