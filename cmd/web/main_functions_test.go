package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-while/go-pagefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configFile, webport, webssl = "", 0, false
		webcertFile, webkeyFile = "", ""
		staticDir, templateDir = "", ""
		withMetrics = false
	})
}

func TestLoadConfigPrecedence(t *testing.T) {
	resetFlags(t)
	configFile = filepath.Join(t.TempDir(), "pagefront.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("web:\n  listen_port: 9000\n  static_dir: /from/file\n"), 0o644))

	env := map[string]string{"PORT": "9100"}
	cfg, err := loadConfig(func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Web.ListenPort, "PORT wins over the file")
	assert.Equal(t, "/from/file", cfg.Web.StaticDir)

	webport = 9200
	staticDir = "/from/flag"
	withMetrics = true
	cfg, err = loadConfig(func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Web.ListenPort, "flags win over the environment")
	assert.Equal(t, "/from/flag", cfg.Web.StaticDir)
	assert.True(t, cfg.Web.Metrics)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetFlags(t)
	cfg, err := loadConfig(func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, config.DefaultListenPort, cfg.Web.ListenPort)
}

func TestLoadConfigInvalid(t *testing.T) {
	resetFlags(t)
	webssl = true // no cert or key
	_, err := loadConfig(func(string) string { return "" })
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	// missing file is fine
	assert.NoError(t, loadDotEnv(filepath.Join(dir, ".env")))

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("PAGEFRONT_DOTENV_TEST=Development/2.0\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PAGEFRONT_DOTENV_TEST") })
	require.NoError(t, loadDotEnv(good))
	assert.Equal(t, "Development/2.0", os.Getenv("PAGEFRONT_DOTENV_TEST"))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("SERVER_SOFTWARE=\"Development/2.0\n"), 0o644))
	err := loadDotEnv(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
