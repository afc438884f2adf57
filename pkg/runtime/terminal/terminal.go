package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kv-tools/value-atlas/pkg/runtime/terminal/commands"
	"github.com/kv-tools/value-atlas/pkg/runtime/terminal/export"
	"github.com/kv-tools/value-atlas/pkg/services/config"
)

// CLI represents the command-line interface
type CLI struct {
	deps    *commands.Deps
	rootCmd *cobra.Command
	cfgPath string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		deps: &commands.Deps{
			Reporter: export.NewReporter(opts.Output),
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "value-atlas",
		Short:        "Value investing toolkit for the Korean market",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cli.cfgPath)
			if err != nil {
				return err
			}
			cli.deps.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "",
		"Path to the YAML profile (built-in defaults when empty)")

	cmd.AddCommand(commands.NewScoreCmd(cli.deps))
	cmd.AddCommand(commands.NewBatchCmd(cli.deps))
	cmd.AddCommand(commands.NewScreenCmd(cli.deps))
	cmd.AddCommand(commands.NewCollectCmd(cli.deps))
	cmd.AddCommand(commands.NewStatusCmd(cli.deps))
	cmd.AddCommand(commands.NewServeCmd(cli.deps))

	return cmd
}
