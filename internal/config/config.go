package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvAPIToken holds the ShipBob personal access token.
const EnvAPIToken = "SHIPBOB_API_TOKEN"

// Config holds the settings of one audit run.
type Config struct {
	// Pacing between orders, in milliseconds.
	CourtesyDelayMs int `yaml:"courtesy_delay_ms"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"` // empty disables the file sink
	DebugMode bool   `yaml:"debug_mode"`

	// Fulfillment provider
	AccountChannel   string `yaml:"account_channel"`
	BaseURL          string `yaml:"base_url"`
	PageSize         int    `yaml:"page_size"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms"`

	// Not read from the file.
	APIToken string `yaml:"-"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		CourtesyDelayMs:  500,
		LogLevel:         "info",
		LogFile:          "combined.log",
		BaseURL:          "https://api.shipbob.com/1.0",
		PageSize:         50,
		RequestTimeoutMs: 30000,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. The API token is always taken from the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	cfg.APIToken = strings.TrimSpace(os.Getenv(EnvAPIToken))
	return cfg, nil
}

// CourtesyDelay returns the pause between orders.
func (c Config) CourtesyDelay() time.Duration {
	return time.Duration(c.CourtesyDelayMs) * time.Millisecond
}

// RequestTimeout returns the per-request HTTP timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.APIToken == "" {
		errs = append(errs, fmt.Errorf("%s is not set", EnvAPIToken))
	}
	if c.CourtesyDelayMs < 0 {
		errs = append(errs, fmt.Errorf("courtesy_delay_ms must not be negative, got %d", c.CourtesyDelayMs))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", c.PageSize))
	}
	if c.RequestTimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("request_timeout_ms must not be negative, got %d", c.RequestTimeoutMs))
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	return errors.Join(errs...)
}
