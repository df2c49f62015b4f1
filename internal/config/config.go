package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/utils"
)

// Config holds all trackpro configuration.
type Config struct {
	// Storage location: a SQLite file, a .json file, or a PostgreSQL connection string
	Storage StorageConfig `yaml:"storage"`

	// IANA timezone used to decide what "today" is ("Local" for the system zone)
	Timezone string `yaml:"timezone"`

	Insights InsightsConfig `yaml:"insights"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig configures the record store.
type StorageConfig struct {
	Location string `yaml:"location"`
}

// InsightsConfig configures the AI insight service.
type InsightsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
	// APIKey is normally read from GEMINI_API_KEY or the OS keyring.
	APIKey string `yaml:"api_key,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage:  StorageConfig{Location: constants.DefaultStorePath},
		Timezone: "Local",
		Insights: InsightsConfig{
			Enabled: true,
			Model:   constants.DefaultInsightModel,
			Timeout: constants.DefaultInsightTimeout.String(),
		},
		Logging: LoggingConfig{Dir: "~/.config/trackpro/logs"},
	}
}

// DefaultPath returns the expanded default config file path.
func DefaultPath() string {
	return utils.ExpandPath(constants.DefaultConfigPath)
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if loc := os.Getenv("TRACKPRO_DB"); loc != "" {
		c.Storage.Location = loc
	}
	if tz := os.Getenv("TRACKPRO_TIMEZONE"); tz != "" {
		c.Timezone = tz
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Insights.APIKey = key
	}
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.Storage.Location == "" {
		return fmt.Errorf("storage.location must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Insights.Timeout != "" {
		if _, err := time.ParseDuration(c.Insights.Timeout); err != nil {
			return fmt.Errorf("invalid insights.timeout %q: %w", c.Insights.Timeout, err)
		}
	}
	return nil
}

// Location returns the configured timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// InsightTimeout returns the insight request timeout.
func (c *Config) InsightTimeout() time.Duration {
	d, err := time.ParseDuration(c.Insights.Timeout)
	if err != nil || d <= 0 {
		return constants.DefaultInsightTimeout
	}
	return d
}

// StoreLocation returns the storage location with "~" expanded.
func (c *Config) StoreLocation() string {
	return utils.ExpandPath(c.Storage.Location)
}

// LogDir returns the log directory with "~" expanded.
func (c *Config) LogDir() string {
	return utils.ExpandPath(c.Logging.Dir)
}
