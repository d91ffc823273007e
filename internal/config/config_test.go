package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg.Web)
	assert.Equal(t, DefaultListenPort, cfg.Web.ListenPort)
	assert.False(t, cfg.Web.SSL)
	assert.Equal(t, AccessLogJSON, cfg.Web.AccessLog)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
web:
  listen_port: 9090
  static_dir: /srv/static
  metrics: true
  access_log: apache
`)
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, 9090, cfg.Web.ListenPort)
	assert.Equal(t, "/srv/static", cfg.Web.StaticDir)
	assert.True(t, cfg.Web.Metrics)
	assert.Equal(t, AccessLogApache, cfg.Web.AccessLog)
	// untouched keys keep their defaults
	assert.Equal(t, "info", cfg.Web.LogLevel)
	assert.NotEmpty(t, cfg.Web.TrustedProxies)
}

func TestLoadFileEmpty(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.LoadFile(writeConfig(t, "")))
	assert.Equal(t, DefaultListenPort, cfg.Web.ListenPort)
}

func TestLoadFileUnknownField(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.LoadFile(writeConfig(t, "web:\n  listen_prot: 1\n"))
	require.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"PORT": "8081", "LOG_LEVEL": "debug"})))
	assert.Equal(t, 8081, cfg.Web.ListenPort)
	assert.Equal(t, "debug", cfg.Web.LogLevel)

	err := cfg.ApplyEnv(envMap(map[string]string{"PORT": "http"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(w *WebConfig)
		wantErr bool
	}{
		{"defaults", func(w *WebConfig) {}, false},
		{"port zero", func(w *WebConfig) { w.ListenPort = 0 }, true},
		{"port too high", func(w *WebConfig) { w.ListenPort = 70000 }, true},
		{"ssl without cert", func(w *WebConfig) { w.SSL = true }, true},
		{"ssl with cert", func(w *WebConfig) {
			w.SSL = true
			w.CertFile = "fullchain.pem"
			w.KeyFile = "privkey.pem"
		}, false},
		{"bad access log", func(w *WebConfig) { w.AccessLog = "common" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.modify(cfg.Web)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
