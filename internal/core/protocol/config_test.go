package protocol

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "localhost:4711", cfg.Addr())
	require.Equal(t, 200*time.Millisecond, cfg.Timeout)
	require.False(t, cfg.IgnoreErrors)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	in := strings.NewReader(`
host: pi.local
port: 4712
timeout: 500ms
ignore_errors: true
`)
	cfg, err := LoadConfig(in)
	require.NoError(t, err)
	require.Equal(t, "pi.local:4712", cfg.Addr())
	require.Equal(t, 500*time.Millisecond, cfg.Timeout)
	require.True(t, cfg.IgnoreErrors)
	// Unset fields keep their defaults.
	require.Equal(t, DefaultConfig().ConnectTimeout, cfg.ConnectTimeout)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(strings.NewReader(`host: ""`))
	require.Error(t, err)

	_, err = LoadConfig(strings.NewReader(`port: 99999`))
	require.Error(t, err)

	_, err = LoadConfig(strings.NewReader(`{[`))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Port = -1
	require.Error(t, cfg.Validate())
}
