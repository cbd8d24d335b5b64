// Package config manages the dot15d4dump driver's configuration using
// koanf/v2.
//
// Supports YAML files, environment variable overrides, and sensible
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the complete dot15d4dump configuration.
type Config struct {
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
	Decode  DecodeConfig  `koanf:"decode"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g.,
	// ":9100"). Empty disables the metrics server.
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// DecodeConfig holds defaults for the decode subcommand.
type DecodeConfig struct {
	// OutputFormat controls how decoded frames are rendered: "text" or
	// "json". Neither is the colorized interactive renderer this module
	// deliberately does not implement.
	OutputFormat string `koanf:"output_format"`
	// MaxConcurrentFrames bounds how many frames a batch decode runs at
	// once.
	MaxConcurrentFrames int `koanf:"max_concurrent_frames"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Metrics: MetricsConfig{
			Addr: "",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Decode: DecodeConfig{
			OutputFormat:        "text",
			MaxConcurrentFrames: 8,
		},
	}
}

// envPrefix is the environment variable prefix for dot15d4dump
// configuration. Variables are named DOT15D4DUMP_<section>_<key>, e.g.,
// DOT15D4DUMP_LOG_LEVEL.
const envPrefix = "DOT15D4DUMP_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (DOT15D4DUMP_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults. An empty path skips
// the file layer and returns defaults plus environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms DOT15D4DUMP_LOG_LEVEL -> log.level and
// DOT15D4DUMP_DECODE_OUTPUT_FORMAT -> decode.output_format. Strips the
// prefix, lowercases, and replaces the first _ (the section separator)
// with .; later underscores stay part of the key.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"metrics.addr":                 defaults.Metrics.Addr,
		"metrics.path":                 defaults.Metrics.Path,
		"log.level":                    defaults.Log.Level,
		"log.format":                   defaults.Log.Format,
		"decode.output_format":         defaults.Decode.OutputFormat,
		"decode.max_concurrent_frames": defaults.Decode.MaxConcurrentFrames,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// Validation errors.
var (
	// ErrInvalidOutputFormat indicates decode.output_format is not a
	// recognized value.
	ErrInvalidOutputFormat = errors.New("decode.output_format must be text or json")

	// ErrInvalidConcurrency indicates decode.max_concurrent_frames is not
	// positive.
	ErrInvalidConcurrency = errors.New("decode.max_concurrent_frames must be >= 1")
)

// validOutputFormats lists the recognized decode.output_format strings.
var validOutputFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks the configuration for logical errors.
func Validate(cfg *Config) error {
	if !validOutputFormats[cfg.Decode.OutputFormat] {
		return fmt.Errorf("%q: %w", cfg.Decode.OutputFormat, ErrInvalidOutputFormat)
	}
	if cfg.Decode.MaxConcurrentFrames < 1 {
		return ErrInvalidConcurrency
	}
	return nil
}

// ParseLogLevel maps a configuration log level string to the
// corresponding slog.Level. Unknown values default to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
