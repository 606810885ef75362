package protocol

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/craftconn/craftconn/internal/core/observability/log"
)

// Config holds connection configuration.
type Config struct {
	// Network settings
	Host           string
	Port           int
	ConnectTimeout time.Duration

	// Timeout bounds the wait for a possible failure token after a
	// command with no guaranteed response. Expiry means success; the
	// protocol offers no positive acknowledgement to wait for.
	Timeout time.Duration

	// IgnoreErrors selects the reference client's fire-and-forget
	// behaviour: never wait after a command and never surface a
	// failure token for commands that return no data.
	IgnoreErrors bool

	// ForceVersion skips the server version probe. Used by tests and
	// by callers who know what they are talking to.
	ForceVersion ServerVersion

	LogLevel log.Level
}

// DefaultConfig returns the configuration matching a locally running
// Pi Edition game.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           4711,
		ConnectTimeout: 10 * time.Second,
		Timeout:        200 * time.Millisecond,
		IgnoreErrors:   false,
		LogLevel:       log.LevelInfo,
	}
}

// LoadConfig reads a YAML config, applying defaults for absent fields.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("protocol: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UnmarshalYAML merges a YAML document onto the config. Durations use
// time.ParseDuration strings ("200ms"), log levels their lowercase
// names; absent fields keep whatever the config already holds.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Host           *string `yaml:"host"`
		Port           *int    `yaml:"port"`
		ConnectTimeout *string `yaml:"connect_timeout"`
		Timeout        *string `yaml:"timeout"`
		IgnoreErrors   *bool   `yaml:"ignore_errors"`
		ForceVersion   *string `yaml:"force_version"`
		LogLevel       *string `yaml:"log_level"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Host != nil {
		c.Host = *raw.Host
	}
	if raw.Port != nil {
		c.Port = *raw.Port
	}
	if raw.ConnectTimeout != nil {
		d, err := time.ParseDuration(*raw.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("connect_timeout: %w", err)
		}
		c.ConnectTimeout = d
	}
	if raw.Timeout != nil {
		d, err := time.ParseDuration(*raw.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if raw.IgnoreErrors != nil {
		c.IgnoreErrors = *raw.IgnoreErrors
	}
	if raw.ForceVersion != nil {
		c.ForceVersion = ServerVersion(*raw.ForceVersion)
	}
	if raw.LogLevel != nil {
		lvl, err := parseLevel(*raw.LogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = lvl
	}
	return nil
}

func parseLevel(s string) (log.Level, error) {
	switch s {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "silent":
		return log.LevelSilent, nil
	default:
		return 0, fmt.Errorf("protocol: config: unknown log level %q", s)
	}
}

// Validate checks the configuration for values no connection can work
// with.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("protocol: config: host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("protocol: config: invalid port %d", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("protocol: config: timeout must be positive")
	}
	return nil
}

// Addr returns the host:port dial address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
