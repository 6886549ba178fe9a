// Package config loads application configuration: coded defaults, overridden
// by an optional YAML file, overridden by environment variables with the
// TSCLEAN prefix.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"tsclean/internal/cleanse"
	"tsclean/internal/timealign"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains filesystem paths.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	PresetsDir string `yaml:"presets_dir" envconfig:"PRESETS_DIR"`
}

// SecurityConfig contains request-protection settings.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig throttles the HTTP surface.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// PipelineConfig carries the default cleaning parameters used when a request
// or CLI run leaves them unset.
type PipelineConfig struct {
	OutlierMethod string        `yaml:"outlier_method" envconfig:"OUTLIER_METHOD"`
	Disposition   string        `yaml:"disposition" envconfig:"DISPOSITION"`
	Normalization string        `yaml:"normalization" envconfig:"NORMALIZATION"`
	SnapInterval  time.Duration `yaml:"snap_interval" envconfig:"SNAP_INTERVAL"`
}

// DefaultOptions converts the configured defaults into pipeline options.
func (p PipelineConfig) DefaultOptions() cleanse.Options {
	return cleanse.Options{
		Outlier:       cleanse.OutlierMethod(p.OutlierMethod),
		Disposition:   cleanse.Disposition(p.Disposition),
		Normalization: cleanse.NormalizationMethod(p.Normalization),
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/tsclean.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Pipeline: PipelineConfig{
			OutlierMethod: string(cleanse.Sigma25),
			Disposition:   string(cleanse.DropRow),
			Normalization: string(cleanse.NormalizeNone),
			SnapInterval:  timealign.DefaultInterval,
		},
	}
}

// Load builds the configuration. The YAML file path comes from
// TSCLEAN_CONFIG (default "config.yaml"); a missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	configFile := os.Getenv("TSCLEAN_CONFIG")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configFile, err)
		}
	}

	// Environment variables win over file values.
	if err := envconfig.Process("TSCLEAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output %q", c.Logging.Output)
	}
	opts := c.Pipeline.DefaultOptions()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("pipeline defaults: %w", err)
	}
	if c.Pipeline.SnapInterval <= 0 {
		return fmt.Errorf("snap interval must be positive, got %s", c.Pipeline.SnapInterval)
	}
	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate limit rps must be positive, got %g", c.Security.RateLimit.RPS)
		}
		if c.Security.RateLimit.Burst < 1 {
			return fmt.Errorf("rate limit burst must be at least 1, got %d", c.Security.RateLimit.Burst)
		}
	}
	return nil
}
