// Package config loads the mpxcal configuration from YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/internal"
)

// Config is the top-level application configuration.
type Config struct {
	// Locale selects the time unit suffixes, e.g. "en" or "de".
	Locale string `yaml:"locale" toml:"locale"`

	// Separators are single characters. They seed the format context used
	// before a file's own settings records are read, and for command
	// line arguments.
	DecimalSeparator   string `yaml:"decimal_separator" toml:"decimal_separator"`
	ThousandsSeparator string `yaml:"thousands_separator" toml:"thousands_separator"`
	DateSeparator      string `yaml:"date_separator" toml:"date_separator"`
	TimeSeparator      string `yaml:"time_separator" toml:"time_separator"`

	// DateOrder is one of "dmy", "mdy" or "ymd".
	DateOrder string `yaml:"date_order" toml:"date_order"`
	// TimeFormat is "24h" or "12h".
	TimeFormat string `yaml:"time_format" toml:"time_format"`

	// Timezone is the IANA zone dates are read in. Empty means local time.
	Timezone string `yaml:"timezone" toml:"timezone"`

	// Lenient makes the reader skip malformed records instead of failing.
	Lenient bool `yaml:"lenient" toml:"lenient"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// DefaultCalendar is used when a command names no calendar.
	DefaultCalendar string `yaml:"default_calendar" toml:"default_calendar"`

	// FetchTimeout bounds downloads of MPX files, e.g. "30s".
	FetchTimeout string `yaml:"fetch_timeout" toml:"fetch_timeout"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Locale:             "en",
		DecimalSeparator:   ".",
		ThousandsSeparator: ",",
		DateSeparator:      "/",
		TimeSeparator:      ":",
		DateOrder:          "dmy",
		TimeFormat:         "24h",
		LogLevel:           "info",
		DefaultCalendar:    "Standard",
		FetchTimeout:       "30s",
	}
}

// Normalize fills in missing values with defaults so that partially filled
// files still behave.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	if c.DecimalSeparator == "" {
		c.DecimalSeparator = d.DecimalSeparator
	}
	if c.ThousandsSeparator == "" {
		c.ThousandsSeparator = d.ThousandsSeparator
	}
	if c.DateSeparator == "" {
		c.DateSeparator = d.DateSeparator
	}
	if c.TimeSeparator == "" {
		c.TimeSeparator = d.TimeSeparator
	}
	c.DateOrder = strings.ToLower(c.DateOrder)
	if c.DateOrder == "" {
		c.DateOrder = d.DateOrder
	}
	c.TimeFormat = strings.ToLower(c.TimeFormat)
	if c.TimeFormat == "" {
		c.TimeFormat = d.TimeFormat
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.DefaultCalendar == "" {
		c.DefaultCalendar = d.DefaultCalendar
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = d.FetchTimeout
	}
}

// Load reads the configuration at path, choosing TOML for .toml files and
// YAML otherwise. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.Normalize()

	return &cfg, nil
}

// FormatSettings converts the configuration into format settings.
func (c *Config) FormatSettings() (format.Settings, error) {
	s := format.DefaultSettings()
	s.Locale = c.Locale

	var errs []error
	for _, sep := range []struct {
		name  string
		value string
		dst   *rune
	}{
		{"decimal_separator", c.DecimalSeparator, &s.DecimalSeparator},
		{"thousands_separator", c.ThousandsSeparator, &s.ThousandsSeparator},
		{"date_separator", c.DateSeparator, &s.DateSeparator},
		{"time_separator", c.TimeSeparator, &s.TimeSeparator},
	} {
		r, size := utf8.DecodeRuneInString(sep.value)
		if size == 0 || size != len(sep.value) {
			errs = append(errs, fmt.Errorf("%s must be a single character, got %q", sep.name, sep.value))
			continue
		}
		*sep.dst = r
	}

	switch c.DateOrder {
	case "dmy":
		s.DateOrder = format.DMY
	case "mdy":
		s.DateOrder = format.MDY
	case "ymd":
		s.DateOrder = format.YMD
	default:
		errs = append(errs, fmt.Errorf("date_order must be dmy, mdy or ymd, got %q", c.DateOrder))
	}

	switch c.TimeFormat {
	case "24h":
		s.TimeFormat = format.TwentyFourHour
	case "12h":
		s.TimeFormat = format.TwelveHour
	default:
		errs = append(errs, fmt.Errorf("time_format must be 24h or 12h, got %q", c.TimeFormat))
	}

	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			errs = append(errs, fmt.Errorf("timezone: %w", err))
		} else {
			s.Location = loc
		}
	}

	return s, errors.Join(errs...)
}

// Formats builds the format context described by the configuration.
func (c *Config) Formats() (*format.Context, error) {
	s, err := c.FormatSettings()
	if err != nil {
		return nil, err
	}
	return format.NewContext(s)
}

// Timeout parses FetchTimeout.
func (c *Config) Timeout() (time.Duration, error) {
	return internal.ParseDuration(c.FetchTimeout)
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
