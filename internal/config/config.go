// Package config provides configuration management for odense-concerts.
//
// Configuration is read from an optional YAML file. Every setting has a
// default matching the original single-directory layout: concerts.json,
// extra.json, index.html and images/ all live in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "odense-concerts.yaml"

// Configuration validation errors.
var (
	ErrNotFound             = errors.New("config file not found")
	ErrMissingDataDir       = errors.New("data_dir is required")
	ErrMissingOutputDir     = errors.New("output_dir is required")
	ErrMissingSnapshot      = errors.New("snapshot is required")
	ErrMissingPage          = errors.New("page is required")
	ErrInvalidLogLevel      = errors.New("log_level must be one of: debug, info, warn, error")
	ErrInvalidHTTPTimeout   = errors.New("http.timeout must be positive")
	ErrInvalidRequestRate   = errors.New("http.requests_per_second must be positive")
	ErrInvalidBurst         = errors.New("http.burst must be at least 1")
	ErrInvalidThumbnailSize = errors.New("thumbnails.size must be at least 1")
	ErrInvalidQuality       = errors.New("thumbnails.quality must be between 1 and 100")
	ErrInvalidWorkers       = errors.New("thumbnails.workers must be at least 1")
	ErrInvalidThumbTimeout  = errors.New("thumbnails.timeout must be positive")
	ErrInvalidLanguage      = errors.New("locale.language is not a valid BCP 47 tag")
	ErrInvalidTimezone      = errors.New("locale.timezone is not a known time zone")
	ErrInvalidAnnounceMax   = errors.New("announce.max must be non-negative")
	ErrInvalidAnnounceDelay = errors.New("announce.delay must be non-negative")
)

// Config represents the complete configuration.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	OutputDir   string `yaml:"output_dir"`
	Snapshot    string `yaml:"snapshot"`
	Extra       string `yaml:"extra"`
	Page        string `yaml:"page"`
	Calendar    string `yaml:"calendar"`
	MetricsFile string `yaml:"metrics_file"`
	LogLevel    string `yaml:"log_level"`
	FailFast    bool   `yaml:"fail_fast"`

	HTTP       HTTPConfig      `yaml:"http"`
	Thumbnails ThumbnailConfig `yaml:"thumbnails"`
	Locale     LocaleConfig    `yaml:"locale"`
	Sources    SourcesConfig   `yaml:"sources"`
	Blocklist  BlocklistConfig `yaml:"blocklist"`
	Announce   AnnounceConfig  `yaml:"announce"`
}

// HTTPConfig controls the shared fetcher used by all sources.
type HTTPConfig struct {
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// ThumbnailConfig controls image downscaling.
type ThumbnailConfig struct {
	Dir       string        `yaml:"dir"`
	URLPrefix string        `yaml:"url_prefix"`
	Size      int           `yaml:"size"`
	MinWidth  int           `yaml:"min_width"`
	Quality   int           `yaml:"quality"`
	Workers   int           `yaml:"workers"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LocaleConfig is passed explicitly to the page renderer.
type LocaleConfig struct {
	Language string `yaml:"language"`
	Currency string `yaml:"currency"`
	Timezone string `yaml:"timezone"`
}

// SourcesConfig selects which venue sources run.
type SourcesConfig struct {
	Disabled []string `yaml:"disabled"`
}

// BlocklistConfig removes listings that are not concerts but slip through
// the per-source filters.
type BlocklistConfig struct {
	Titles []string `yaml:"titles"`
	Venues []string `yaml:"venues"`
}

// AnnounceConfig limits how many new concerts are posted per run.
type AnnounceConfig struct {
	Max   int           `yaml:"max"`
	Delay time.Duration `yaml:"delay"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataDir:   ".",
		OutputDir: ".",
		Snapshot:  "concerts.json",
		Extra:     "extra.json",
		Page:      "index.html",
		Calendar:  "concerts.ics",
		LogLevel:  "info",
		HTTP: HTTPConfig{
			UserAgent:         "odense-concerts/1.0 (github.com/pfrederiksen/odense-concerts)",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 4,
			Burst:             2,
		},
		Thumbnails: ThumbnailConfig{
			Dir:       "images",
			URLPrefix: "images",
			Size:      768,
			MinWidth:  768,
			Quality:   80,
			Workers:   8,
			Timeout:   30 * time.Second,
		},
		Locale: LocaleConfig{
			Language: "da-DK",
			Currency: "kr.",
			Timezone: "Europe/Copenhagen",
		},
		Announce: AnnounceConfig{
			Max:   10,
			Delay: 2 * time.Second,
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
// A missing file yields an error wrapping ErrNotFound.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrMissingDataDir
	}
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}
	if c.Snapshot == "" {
		return ErrMissingSnapshot
	}
	if c.Page == "" {
		return ErrMissingPage
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if c.HTTP.Timeout <= 0 {
		return ErrInvalidHTTPTimeout
	}
	if c.HTTP.RequestsPerSecond <= 0 {
		return ErrInvalidRequestRate
	}
	if c.HTTP.Burst < 1 {
		return ErrInvalidBurst
	}

	if c.Thumbnails.Size < 1 {
		return ErrInvalidThumbnailSize
	}
	if c.Thumbnails.Quality < 1 || c.Thumbnails.Quality > 100 {
		return ErrInvalidQuality
	}
	if c.Thumbnails.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.Thumbnails.Timeout <= 0 {
		return ErrInvalidThumbTimeout
	}

	if _, err := language.Parse(c.Locale.Language); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, c.Locale.Language)
	}
	if _, err := time.LoadLocation(c.Locale.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Locale.Timezone)
	}

	if c.Announce.Max < 0 {
		return ErrInvalidAnnounceMax
	}
	if c.Announce.Delay < 0 {
		return ErrInvalidAnnounceDelay
	}

	return nil
}

// SnapshotPath returns the location of the saved concert list.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, c.Snapshot)
}

// ExtraPath returns the location of the curated extra list. Relative
// paths are resolved against the data directory.
func (c *Config) ExtraPath() string {
	if c.Extra == "" || filepath.IsAbs(c.Extra) {
		return c.Extra
	}
	return filepath.Join(c.DataDir, c.Extra)
}

// PagePath returns the location of the rendered page.
func (c *Config) PagePath() string {
	return filepath.Join(c.OutputDir, c.Page)
}

// CalendarPath returns the location of the calendar feed, or "" when disabled.
func (c *Config) CalendarPath() string {
	if c.Calendar == "" {
		return ""
	}
	return filepath.Join(c.OutputDir, c.Calendar)
}

// ThumbnailDir returns the directory thumbnails are written to.
func (c *Config) ThumbnailDir() string {
	return filepath.Join(c.OutputDir, c.Thumbnails.Dir)
}

// SourceEnabled reports whether the named source is not disabled.
func (c *Config) SourceEnabled(name string) bool {
	for _, disabled := range c.Sources.Disabled {
		if strings.EqualFold(disabled, name) {
			return false
		}
	}
	return true
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{DataDir: %s, OutputDir: %s, Disabled: %d, Workers: %d}",
		c.DataDir,
		c.OutputDir,
		len(c.Sources.Disabled),
		c.Thumbnails.Workers,
	)
}
