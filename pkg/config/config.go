package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for tagscrape
type Config struct {
	// Upstream search API
	API APIConfig `yaml:"api" json:"api"`

	// Request pacing and 429 handling
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Resume state
	Checkpoint CheckpointConfig `yaml:"checkpoint" json:"checkpoint"`

	// Output artifacts
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds upstream API settings
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	TaggerURL string        `yaml:"tagger_url" json:"tagger_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// RequestDelay is slept before every request attempt
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`
	// RetryDelay is the first backoff after a 429 response
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier" json:"backoff_multiplier"`
	MaxRetryDelay     time.Duration `yaml:"max_retry_delay" json:"max_retry_delay"`
	// MaxRetries caps 429 retries per request; 0 retries forever
	MaxRetries int `yaml:"max_retries" json:"max_retries"`
}

// CheckpointConfig holds checkpoint configuration
type CheckpointConfig struct {
	Path     string `yaml:"path" json:"path"`
	Interval int    `yaml:"interval" json:"interval"`
	Backup   bool   `yaml:"backup" json:"backup"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	TagsFile   string `yaml:"tags_file" json:"tags_file"`
	Database   string `yaml:"database" json:"database"`
	// SQLite optionally receives a copy of the database; empty disables it
	SQLite     string `yaml:"sqlite" json:"sqlite"`
	Sample     string `yaml:"sample" json:"sample"`
	SampleSize int    `yaml:"sample_size" json:"sample_size"`
	TopN       int    `yaml:"top_n" json:"top_n"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://api.scryfall.com",
			TaggerURL: "https://scryfall.com/docs/tagger-tags",
			UserAgent: "tagscrape/1.0",
			Timeout:   30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestDelay:      100 * time.Millisecond,
			RetryDelay:        1 * time.Second,
			BackoffMultiplier: 2.0,
			MaxRetryDelay:     60 * time.Second,
			MaxRetries:        10,
		},
		Checkpoint: CheckpointConfig{
			Path:     "data/scraper_checkpoint.json",
			Interval: 500,
			Backup:   false,
		},
		Output: OutputConfig{
			TagsFile:   "data/functional_tags.json",
			Database:   "data/mtg_cards_database.csv",
			Sample:     "data/mtg_ml_sample.csv",
			SampleSize: 5000,
			TopN:       100,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("TAGSCRAPE_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TAGSCRAPE_USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}

	if v := os.Getenv("TAGSCRAPE_REQUEST_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TAGSCRAPE_REQUEST_DELAY: %w", err)
		}
		c.RateLimit.RequestDelay = d
	}
	if v := os.Getenv("TAGSCRAPE_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TAGSCRAPE_MAX_RETRIES: %w", err)
		}
		c.RateLimit.MaxRetries = n
	}

	if v := os.Getenv("TAGSCRAPE_CHECKPOINT"); v != "" {
		c.Checkpoint.Path = v
	}
	if v := os.Getenv("TAGSCRAPE_CHECKPOINT_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TAGSCRAPE_CHECKPOINT_INTERVAL: %w", err)
		}
		c.Checkpoint.Interval = n
	}

	if v := os.Getenv("TAGSCRAPE_OUTPUT"); v != "" {
		c.Output.Database = v
	}

	if v := os.Getenv("TAGSCRAPE_SQLITE"); v != "" {
		c.Output.SQLite = v
	}

	if v := os.Getenv("TAGSCRAPE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TAGSCRAPE_LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		"tagscrape.yaml",
		"tagscrape.yml",
		".tagscrape.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "tagscrape", "config.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api base URL is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}

	if c.RateLimit.RequestDelay < 0 {
		errs = append(errs, errors.New("request delay cannot be negative"))
	}
	if c.RateLimit.RetryDelay <= 0 {
		errs = append(errs, errors.New("retry delay must be positive"))
	}
	if c.RateLimit.BackoffMultiplier < 1 {
		errs = append(errs, errors.New("backoff multiplier must be at least 1"))
	}
	if c.RateLimit.MaxRetryDelay < c.RateLimit.RetryDelay {
		errs = append(errs, errors.New("max retry delay must not be below retry delay"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Checkpoint.Path == "" {
		errs = append(errs, errors.New("checkpoint path is required"))
	}
	if c.Checkpoint.Interval <= 0 {
		errs = append(errs, errors.New("checkpoint interval must be positive"))
	}

	if c.Output.Database == "" {
		errs = append(errs, errors.New("output database path is required"))
	}
	if c.Output.SampleSize <= 0 {
		errs = append(errs, errors.New("sample size must be positive"))
	}
	if c.Output.TopN <= 0 {
		errs = append(errs, errors.New("top-n must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Database = v
	}
	if v, ok := flags["sqlite"].(string); ok && v != "" {
		c.Output.SQLite = v
	}
	if v, ok := flags["checkpoint"].(string); ok && v != "" {
		c.Checkpoint.Path = v
	}
	if v, ok := flags["checkpoint-interval"].(int); ok && v > 0 {
		c.Checkpoint.Interval = v
	}
	if v, ok := flags["backup"].(bool); ok {
		c.Checkpoint.Backup = v
	}
	if v, ok := flags["tags-file"].(string); ok && v != "" {
		c.Output.TagsFile = v
	}
	if v, ok := flags["sample-output"].(string); ok && v != "" {
		c.Output.Sample = v
	}
	if v, ok := flags["sample-size"].(int); ok && v > 0 {
		c.Output.SampleSize = v
	}
	if v, ok := flags["top-n"].(int); ok && v > 0 {
		c.Output.TopN = v
	}
	if v, ok := flags["request-delay"].(time.Duration); ok && v >= 0 {
		c.RateLimit.RequestDelay = v
	}
	if v, ok := flags["max-retries"].(int); ok && v >= 0 {
		c.RateLimit.MaxRetries = v
	}
	if v, ok := flags["base-url"].(string); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tagscrape.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
