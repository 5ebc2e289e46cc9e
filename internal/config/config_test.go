package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join(".", "reelvault.db"), cfg.DatabasePath())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelvault.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: /var/lib/reelvault\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/reelvault", cfg.DataDir)
	assert.Equal(t, "reelvault.db", cfg.DatabaseFile)
	assert.Equal(t, 30, cfg.Caption.TimeoutSeconds)
}

func TestLoad_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelvault.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataDir: /data
databaseFile: app.db
policyFile: /etc/reelvault/policy.cue
caption:
  endpoint: https://captions.example/v1/generate
  timeoutSeconds: 10
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/app.db", cfg.DatabasePath())
	assert.Equal(t, "/etc/reelvault/policy.cue", cfg.PolicyFile)
	assert.Equal(t, "https://captions.example/v1/generate", cfg.Caption.Endpoint)
	assert.Equal(t, 10, cfg.Caption.TimeoutSeconds)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelvault.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: [broken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
