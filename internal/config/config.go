package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/zone-alarm/internal/logger"
)

// Config holds the settings shared by the alarm binaries.
type Config struct {
	// ServerAddress is the gRPC address of the alarm server.
	ServerAddress string `yaml:"server_addr"`
	// MetricsAddress is where the server exposes Prometheus metrics; empty disables it.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
	// Timeout is the duration for RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "zone-alarm-settings.yaml"

	// DefaultServerAddress is used when no address is configured.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// Environment variables that override the file. A .env file in the working
// directory is read first; variables already set take precedence over it.
const (
	EnvServerAddress  = "ZONE_ALARM_SERVER_ADDR"
	EnvMetricsAddress = "ZONE_ALARM_METRICS_ADDR"
	EnvLogLevel       = "ZONE_ALARM_LOG_LEVEL"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned for unsupported log levels.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	if _, _, err := net.SplitHostPort(settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if settings.MetricsAddress != "" {
		if _, _, err := net.SplitHostPort(settings.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	return nil
}

// applyEnv overlays environment variables, loading .env first if present.
func applyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if v, ok := os.LookupEnv(EnvServerAddress); ok {
		cfg.ServerAddress = v
	}

	if v, ok := os.LookupEnv(EnvMetricsAddress); ok {
		cfg.MetricsAddress = v
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}

	return nil
}
