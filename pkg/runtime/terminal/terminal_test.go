package terminal

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCLI_RegistersCommands(t *testing.T) {
	cli := NewCLI(Options{Output: &bytes.Buffer{}})

	var names []string
	for _, cmd := range cli.rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"score", "batch", "screen", "collect", "status", "serve"} {
		assert.Contains(t, names, want)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	cli := NewCLI(Options{Output: &bytes.Buffer{}})
	cli.rootCmd.SetArgs([]string{"definitely-not-a-command"})
	cli.rootCmd.SetErr(&bytes.Buffer{})
	cli.rootCmd.SetOut(&bytes.Buffer{})

	err := cli.Execute(context.Background())
	assert.Error(t, err)
}

func TestExecute_ScoreRequiresStockCode(t *testing.T) {
	cli := NewCLI(Options{Output: &bytes.Buffer{}})
	cli.rootCmd.SetArgs([]string{"score"})
	cli.rootCmd.SetErr(&bytes.Buffer{})
	cli.rootCmd.SetOut(&bytes.Buffer{})

	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock-code")
}

func TestExecute_BadConfigPathFails(t *testing.T) {
	cli := NewCLI(Options{Output: &bytes.Buffer{}})
	cli.rootCmd.SetArgs([]string{"status", "--config", "/does/not/exist.yaml"})
	cli.rootCmd.SetErr(&bytes.Buffer{})
	cli.rootCmd.SetOut(&bytes.Buffer{})

	err := cli.Execute(context.Background())
	assert.Error(t, err)
}
