package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// EnvWscHome is the environment variable to override the default wsc home directory
	EnvWscHome = "WSC_HOME"

	// EnvConfigRoot is the environment variable to override the connector config root
	EnvConfigRoot = "WSC_CONFIG_ROOT"

	// EnvAPITimeout is the environment variable to configure API request timeout
	EnvAPITimeout = "WSC_API_TIMEOUT"

	// DefaultAPITimeout is the default timeout for API requests (30 seconds)
	DefaultAPITimeout = 30 * time.Second
)

// GetAPITimeout returns the configured API timeout from WSC_API_TIMEOUT.
// If not set or invalid, returns DefaultAPITimeout (30 seconds).
// Accepts duration strings like "30s", "1m", "2m30s".
func GetAPITimeout() time.Duration {
	envValue := os.Getenv(EnvAPITimeout)
	if envValue == "" {
		return DefaultAPITimeout
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			EnvAPITimeout, envValue, DefaultAPITimeout)
		return DefaultAPITimeout
	}

	// Validate reasonable range (1 second to 10 minutes)
	if duration < 1*time.Second {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum 1s\n",
			EnvAPITimeout, duration)
		return 1 * time.Second
	}
	if duration > 10*time.Minute {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum 10m\n",
			EnvAPITimeout, duration)
		return 10 * time.Minute
	}

	return duration
}

// Config holds wsc path configuration.
type Config struct {
	HomeDir    string // $WSC_HOME
	ConfigRoot string // $WSC_HOME/connectors, or $WSC_CONFIG_ROOT
	ConfigFile string // $WSC_HOME/config.toml
}

// DefaultConfig returns the default configuration.
// WSC_HOME overrides the home directory (default ~/.wsc);
// WSC_CONFIG_ROOT overrides the connector config root independently.
func DefaultConfig() (*Config, error) {
	wscHome := os.Getenv(EnvWscHome)
	if wscHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		wscHome = filepath.Join(home, ".wsc")
	}

	configRoot := os.Getenv(EnvConfigRoot)
	if configRoot == "" {
		configRoot = filepath.Join(wscHome, "connectors")
	}

	return &Config{
		HomeDir:    wscHome,
		ConfigRoot: configRoot,
		ConfigFile: filepath.Join(wscHome, "config.toml"),
	}, nil
}

// EnsureDirectories creates the home and config root directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.HomeDir, c.ConfigRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ConnectorDir returns the config directory for a connector.
func (c *Config) ConnectorDir(name string) string {
	return filepath.Join(c.ConfigRoot, name)
}

// ConnectorEnvFile returns the default .env path for a connector.
func (c *Config) ConnectorEnvFile(name string) string {
	return filepath.Join(c.ConfigRoot, name, ".env")
}
