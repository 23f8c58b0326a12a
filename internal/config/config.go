// Package config loads pagesmith settings from YAML with environment
// expansion, applies defaults and validates the result.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// DefaultFilename is looked up in the working directory when no path is given.
const DefaultFilename = "pagesmith.yaml"

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Paths   PathsConfig   `yaml:"paths"`
	Build   BuildConfig   `yaml:"build"`
	Watch   WatchConfig   `yaml:"watch"`
	History HistoryConfig `yaml:"history"`
	Metrics MetricsConfig `yaml:"metrics"`

	// baseDir is the directory relative paths were resolved against.
	baseDir string
}

// SiteConfig holds values exposed to layouts and templates.
type SiteConfig struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	HeaderLinks []string `yaml:"header_links,omitempty"`
}

// PathsConfig locates the source trees and the output directory.
type PathsConfig struct {
	Posts   string `yaml:"posts"`
	Pages   string `yaml:"pages"`
	Static  string `yaml:"static,omitempty"`
	Layouts string `yaml:"layouts,omitempty"`
	// Components holds *.tmpl files that add to or replace the shared
	// component library (PageTitle, NavMenu) used by template pages.
	Components string `yaml:"components,omitempty"`
	Output  string `yaml:"output"`
}

// BuildConfig tunes the batch builder.
type BuildConfig struct {
	// Concurrency bounds documents processed in parallel; 0 means runtime.NumCPU().
	Concurrency   int    `yaml:"concurrency"`
	RenderTimeout string `yaml:"render_timeout"`
	// SummaryLength is the word limit for descriptions derived from the first paragraph.
	SummaryLength int  `yaml:"summary_length"`
	VerifyLinks   bool `yaml:"verify_links"`

	renderTimeout time.Duration
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
	Interval string `yaml:"interval"`

	debounce time.Duration
	interval time.Duration
}

// HistoryConfig enables the SQLite build history when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig enables a Prometheus textfile when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// RenderTimeoutDuration returns the parsed per-document render timeout.
func (b BuildConfig) RenderTimeoutDuration() time.Duration { return b.renderTimeout }

// DebounceDuration returns the parsed watch debounce window.
func (w WatchConfig) DebounceDuration() time.Duration { return w.debounce }

// IntervalDuration returns the parsed periodic rebuild interval.
func (w WatchConfig) IntervalDuration() time.Duration { return w.interval }

// BaseDir returns the directory relative paths were resolved against.
func (c *Config) BaseDir() string { return c.baseDir }

// Load reads configPath, loads .env files next to it, expands environment
// variables, applies defaults and validates. An empty configPath falls back
// to DefaultFilename when present and to pure defaults otherwise.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		if _, err := os.Stat(DefaultFilename); err != nil {
			return Default()
		}
		configPath = DefaultFilename
	}

	baseDir := filepath.Dir(configPath)
	if _, err := loadEnvFiles(baseDir); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "load env file").
			WithContext("dir", baseDir).
			Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read config file").
			WithContext("path", configPath).
			Build()
	}

	return Parse(data, baseDir)
}

// Parse decodes YAML content after environment expansion. Relative paths are
// resolved against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "unmarshal config").Build()
	}
	return finish(&cfg, baseDir)
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	return finish(&Config{}, ".")
}

func finish(cfg *Config, baseDir string) (*Config, error) {
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	cfg.resolvePaths(baseDir)
	return cfg, nil
}

func (c *Config) resolvePaths(baseDir string) {
	c.baseDir = baseDir
	resolve := func(p *string) {
		if *p == "" || filepath.IsAbs(*p) {
			return
		}
		*p = filepath.Join(baseDir, *p)
	}
	resolve(&c.Paths.Posts)
	resolve(&c.Paths.Pages)
	resolve(&c.Paths.Static)
	resolve(&c.Paths.Layouts)
	resolve(&c.Paths.Components)
	resolve(&c.Paths.Output)
	resolve(&c.History.Path)
	resolve(&c.Metrics.Textfile)
}
