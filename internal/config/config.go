// Package config resolves CLI settings from defaults, an optional YAML file,
// a .env file, and the environment. Command-line flags are applied on top by
// the caller.
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
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/fpang/ai-headshot-pro/internal/generation"
)

// Environment variables read by Load.
const (
	EnvModel          = "GEMINI_MODEL"
	EnvTimeoutSeconds = "HEADSHOT_TIMEOUT_SECONDS"
	EnvOutputDir      = "HEADSHOT_OUTPUT_DIR"
	EnvLogLevel       = "HEADSHOT_LOG_LEVEL"
	EnvMetrics        = "HEADSHOT_METRICS"
)

const (
	configDir  = ".config/ai-headshot-pro"
	configFile = "config.yaml"
	dotEnvFile = ".env"
)

// Config holds resolved settings.
type Config struct {
	Model     string
	Timeout   time.Duration
	OutputDir string
	LogLevel  string
	Metrics   bool

	// Source is the YAML file that was read, if any.
	Source string
}

// fileConfig mirrors the YAML layout. Pointers distinguish unset from zero.
type fileConfig struct {
	Model          *string `yaml:"model"`
	TimeoutSeconds *int    `yaml:"timeout_seconds"`
	OutputDir      *string `yaml:"output_dir"`
	LogLevel       *string `yaml:"log_level"`
	Metrics        *bool   `yaml:"metrics"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Model:     generation.DefaultModelName,
		Timeout:   generation.DefaultTimeout,
		OutputDir: ".",
		LogLevel:  "info",
	}
}

// DefaultPath returns ~/.config/ai-headshot-pro/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir, configFile), nil
}

// Load resolves settings. An empty path means DefaultPath, which may be
// absent; an explicit path must exist. A .env file in the working directory
// is loaded into the process environment without overriding variables that
// are already set.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			log.Debug().Err(err).Msg("No default config path")
		}
		path = p
	}

	if path != "" {
		if err := cfg.applyFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("source", cfg.Source).
		Str("model", cfg.Model).
		Dur("timeout", cfg.Timeout).
		Str("output_dir", cfg.OutputDir).
		Msg("Configuration loaded")

	return cfg, nil
}

func (c *Config) applyFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Model != nil {
		c.Model = strings.TrimSpace(*fc.Model)
	}
	if fc.TimeoutSeconds != nil {
		if *fc.TimeoutSeconds <= 0 {
			return fmt.Errorf("config file %s: timeout_seconds must be positive, got %d", path, *fc.TimeoutSeconds)
		}
		c.Timeout = time.Duration(*fc.TimeoutSeconds) * time.Second
	}
	if fc.OutputDir != nil {
		c.OutputDir = *fc.OutputDir
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.Metrics != nil {
		c.Metrics = *fc.Metrics
	}

	c.Source = path
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debug().Str("file", path).Msg("Loaded environment file")
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = strings.TrimSpace(v)
	}
	if v := os.Getenv(EnvTimeoutSeconds); v != "" {
		secs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid %s %q: must be a positive number of seconds", EnvTimeoutSeconds, v)
		}
		c.Timeout = time.Duration(secs) * time.Second
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMetrics); v != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMetrics, v, err)
		}
		c.Metrics = enabled
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (want debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}
