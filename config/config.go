// Package config holds the settings shared by the compiler driver and the
// reference machine.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config carries the tunables of a compile-and-run session.
type Config struct {
	// EntryLabel names the first line of printed listings. Empty means the
	// subprogram name is used.
	EntryLabel string `yaml:"entry_label"`

	// TypeSizes overrides the byte size of declared variable types.
	TypeSizes map[string]int `yaml:"type_sizes"`

	MaxInstructions uint64  `yaml:"max_instructions"`
	FreqGHz         float64 `yaml:"freq_ghz"`
	Concurrency     int     `yaml:"concurrency"`
	LogLevel        string  `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MaxInstructions: 1_000_000,
		FreqGHz:         1,
		Concurrency:     4,
		LogLevel:        "warn",
	}
}

// Parse decodes a YAML document. Keys that are absent keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return Parse(data)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.FreqGHz <= 0 {
		return fmt.Errorf("%w: freq_ghz must be positive, got %v", ErrInvalidConfig, c.FreqGHz)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.Concurrency)
	}

	for typ, size := range c.TypeSizes {
		if size <= 0 {
			return fmt.Errorf("%w: type %q has size %d", ErrInvalidConfig, typ, size)
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// LevelAll is the handler level for "trace". It sits below Debug so the
// debug events of the compiler show up next to the machine trace, which is
// logged at core.LevelTrace.
const LevelAll = slog.LevelDebug - 4

// Level maps LogLevel to the threshold of the log handler. Machine trace
// events are logged at core.LevelTrace and show up at "info" and below.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "trace":
		return LevelAll, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
}

// SetupLogging installs a text handler on stderr at the configured level.
// The default logger is left alone when the level is unknown.
func SetupLogging(c Config) error {
	return setupLogging(c, os.Stderr)
}

func setupLogging(c Config, w io.Writer) error {
	lvl, err := c.Level()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))

	return nil
}
