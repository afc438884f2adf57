package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "value_atlas.db", cfg.DatabasePath)
	assert.Equal(t, "v110", cfg.TableVersion)
	assert.Equal(t, "partial", cfg.OnMissingData)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.Collect.NewsLimit)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_path: /tmp/atlas.db
table_version: v100
on_missing_data: estimate
batch:
  workers: 8
  top_n: 50
server:
  addr: ":9090"
`), 0o600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/atlas.db", cfg.DatabasePath)
	assert.Equal(t, "v100", cfg.TableVersion)
	assert.Equal(t, "estimate", cfg.OnMissingData)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 50, cfg.Batch.TopN)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidateCredentials(t *testing.T) {
	t.Setenv("DART_API_KEY", "")
	t.Setenv("KIS_APP_KEY", "k")
	t.Setenv("KIS_APP_SECRET", "s")
	t.Setenv("NAVER_CLIENT_ID", "")
	t.Setenv("NAVER_CLIENT_SECRET", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateFilings())
	assert.NoError(t, cfg.ValidateQuotes())
	assert.Error(t, cfg.ValidateNews())
}
