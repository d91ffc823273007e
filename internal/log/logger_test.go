package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureOnce(t *testing.T) {
	var buf, other bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug", Version: "v1.2.3"})
	// later calls are ignored
	Configure(Config{Output: &other, Level: "error"})

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	l := WithComponent("web")
	l.Debug().Str("event", "test.line").Msg("hello")

	assert.Zero(t, other.Len())
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "web", entry["component"])
	assert.Equal(t, "pagefront", entry["service"])
	assert.Equal(t, "v1.2.3", entry["version"])
	assert.Equal(t, "test.line", entry["event"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "debug", entry["level"])

	buf.Reset()
	base := Base()
	base.Info().Msg("plain")
	assert.Contains(t, buf.String(), `"message":"plain"`)
}
