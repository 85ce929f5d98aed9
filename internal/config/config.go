// ABOUTME: Configuration loading and parsing for the RentalBridge client
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names selectable via the config file or RENTALBRIDGE_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Default API endpoints per environment.
const (
	defaultDevBaseURL  = "http://localhost:8000/api/v1"
	defaultProdBaseURL = "https://api.rentalbridge.app/api/v1"
)

// Config represents the complete client configuration
type Config struct {
	Environment string        `yaml:"environment"`
	API         APIConfig     `yaml:"api"`
	Keyring     KeyringConfig `yaml:"keyring"`
	Logging     LoggingConfig `yaml:"logging"`
}

// APIConfig holds backend endpoint configuration
type APIConfig struct {
	// BaseURL overrides the environment default when set
	BaseURL string `yaml:"base_url"`

	RequestTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	RequestTimeoutRaw string `yaml:"request_timeout"`
}

// KeyringConfig holds credential storage configuration
type KeyringConfig struct {
	Path string `yaml:"path"`
	// Key is the hex-encoded 32-byte sealing key, typically ${RENTALBRIDGE_KEYRING_KEY}
	Key string `yaml:"key"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration without reading any file, honoring
// RENTALBRIDGE_ENV for environment selection. Used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	if env := os.Getenv("RENTALBRIDGE_ENV"); env != "" {
		cfg.Environment = env
	}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns the standard config file location:
// $XDG_CONFIG_HOME/rentalbridge/config.yaml, falling back to ~/.config.
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "rentalbridge", "config.yaml")
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	if c.API.BaseURL == "" {
		switch c.Environment {
		case EnvProduction:
			c.API.BaseURL = defaultProdBaseURL
		default:
			c.API.BaseURL = defaultDevBaseURL
		}
	}
	if c.API.RequestTimeoutRaw == "" && c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = 30 * time.Second
	}
	if c.Keyring.Path == "" {
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			c.Keyring.Path = filepath.Join(dir, "rentalbridge", "keyring.db")
		} else if home, err := os.UserHomeDir(); err == nil {
			c.Keyring.Path = filepath.Join(home, ".local", "share", "rentalbridge", "keyring.db")
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if c.Keyring.Path == "" {
		return fmt.Errorf("keyring.path is required")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.API.RequestTimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.API.RequestTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing request_timeout %q: %w", cfg.API.RequestTimeoutRaw, err)
		}
		cfg.API.RequestTimeout = d
	}
	return nil
}
