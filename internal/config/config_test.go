package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "127.0.0.1", d.Host)
	assert.Equal(t, uint16(6379), d.Port)
	assert.Equal(t, "info", d.LogLevel)
	assert.Greater(t, d.WorkerThreads, 0)
}

func TestLoadFileTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
host = "0.0.0.0"
port = 7000
log_level = "debug"
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, uint16(7000), cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Fields the file doesn't set keep their Defaults() value.
	assert.Equal(t, "data", cfg.DataPath)
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"host": "10.0.0.1", "worker_threads": 4}`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, 4, cfg.WorkerThreads)
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: 1.2.3.4\nport: 9000\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", cfg.Host)
	assert.Equal(t, uint16(9000), cfg.Port)
}

func TestLoadFileUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("host=1.2.3.4"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestCLIOverridesApply(t *testing.T) {
	base := Defaults()
	overrides := CLIOverrides{Host: "9.9.9.9", SetHost: true, LogLevel: "warn", SetLogLevel: true}
	merged := overrides.Apply(base)

	assert.Equal(t, "9.9.9.9", merged.Host)
	assert.Equal(t, "warn", merged.LogLevel)
	// Untouched fields stay at the base value.
	assert.Equal(t, base.Port, merged.Port)
	assert.Equal(t, base.WorkerThreads, merged.WorkerThreads)
}
