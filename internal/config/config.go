// Package config loads the converter settings from an optional YAML file,
// a .env file and RECEIVABLES_* environment variables, in that order.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/receivables-extractor/internal/models"
)

// Environment overrides.
const (
	EnvAddr      = "RECEIVABLES_ADDR"
	EnvStaticDir = "RECEIVABLES_STATIC_DIR"
	EnvLogLevel  = "RECEIVABLES_LOG_LEVEL"
)

// Config holds the application settings.
type Config struct {
	Server Server        `yaml:"server"`
	Log    Log           `yaml:"log"`
	Layout models.Layout `yaml:"layout"`
	Export Export        `yaml:"export"`

	// Concurrency bounds how many documents the CLI converts at once.
	// Each document is still parsed in a single sequential pass.
	Concurrency int `yaml:"concurrency"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `yaml:"addr"`
	// BodyLimitMB caps multipart uploads.
	BodyLimitMB int `yaml:"body_limit_mb"`
	// StaticDir, when set, is served at / (the upload page).
	StaticDir string `yaml:"static_dir"`
}

// Log configures zap. Format is "json" or "console".
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Export configures the writers.
type Export struct {
	// Format is the default output: csv, xlsx or json.
	Format        string `yaml:"format"`
	IncludeHeader bool   `yaml:"include_header"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080", BodyLimitMB: 50},
		Log:    Log{Level: "info", Format: "json"},
		Layout: models.DefaultLayout(),
		Export: Export{Format: "csv", IncludeHeader: true},

		Concurrency: 4,
	}
}

// Load reads path (a missing file is not an error), then .env, then the
// environment, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, eris.Wrapf(err, "read config file %s", path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, eris.Wrapf(err, "parse config file %s", path)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvStaticDir); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// applyDefaults fills what a partial YAML file zeroed out.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.BodyLimitMB == 0 {
		cfg.Server.BodyLimitMB = def.Server.BodyLimitMB
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Layout.HeaderSeparator == "" {
		cfg.Layout.HeaderSeparator = def.Layout.HeaderSeparator
	}
	if cfg.Layout.StatusKeyword == "" {
		cfg.Layout.StatusKeyword = def.Layout.StatusKeyword
	}
	if len(cfg.Layout.Markers) == 0 {
		cfg.Layout.Markers = def.Layout.Markers
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = def.Export.Format
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = def.Concurrency
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if !ValidFormat(c.Export.Format) {
		return eris.Errorf("export format %q: want csv, xlsx or json", c.Export.Format)
	}
	if c.Concurrency < 1 {
		return eris.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Server.BodyLimitMB < 1 {
		return eris.New("server body limit must be at least 1 MB")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return eris.Errorf("log format %q: want json or console", c.Log.Format)
	}
	return nil
}

// ValidFormat reports whether f names a supported export format.
func ValidFormat(f string) bool {
	switch strings.ToLower(f) {
	case "csv", "xlsx", "json":
		return true
	}
	return false
}
