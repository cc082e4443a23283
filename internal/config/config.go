// Package config provides configuration management for contractlens.
//
// Config file locations (priority order):
//  1. $CONTRACTLENS_CONFIG
//  2. ./contractlens.yaml
//  3. $XDG_CONFIG_HOME/contractlens/config.yaml
//  4. ~/.config/contractlens/config.yaml
//  5. /etc/contractlens/config.yaml
//
// Environment variables override individual file values; command line flags
// override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"contractlens/internal/analysis"
	"contractlens/internal/flow"
	"contractlens/internal/layout"
	"contractlens/internal/scene"
	"contractlens/internal/viewport"
)

const (
	defaultAddr     = ":3000"
	defaultBaseURL  = "http://localhost:8000"
	defaultTimeout  = 30 * time.Second
	defaultInterval = 16 * time.Millisecond
	defaultStream   = 100 * time.Millisecond
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	// Keys missing from the file keep their defaults; explicit values, zero
	// included, are validated as written
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:           defaultAddr,
			ReadTimeout:    Duration(15 * time.Second),
			IdleTimeout:    Duration(60 * time.Second),
			FrameInterval:  Duration(defaultInterval),
			StreamInterval: Duration(defaultStream),
			CORSOrigin:     "*",
		},
		Analysis: AnalysisConfig{
			BaseURL: defaultBaseURL,
			Timeout: Duration(defaultTimeout),
		},
		Canvas:     CanvasConfig{Width: 800, Height: 600},
		Simulation: layout.DefaultConfig(),
		Viewport:   viewport.DefaultConfig(),
		Flow:       flow.DefaultConfig(),
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.FrameInterval == 0 {
		c.Server.FrameInterval = Duration(defaultInterval)
	}
	if c.Server.StreamInterval == 0 {
		c.Server.StreamInterval = Duration(defaultStream)
	}
	if c.Analysis.BaseURL == "" {
		c.Analysis.BaseURL = defaultBaseURL
	}
	if c.Analysis.Timeout == 0 {
		c.Analysis.Timeout = Duration(defaultTimeout)
	}
	if c.Canvas.Width <= 0 {
		c.Canvas.Width = 800
	}
	if c.Canvas.Height <= 0 {
		c.Canvas.Height = 600
	}

	c.Simulation.ApplyDefaults()
	c.Viewport.ApplyDefaults()
	c.Flow.ApplyDefaults()
}

// Validate checks every section against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("invalid config: %s: failed %s %s", e.Namespace(), e.Tag(), e.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SceneOptions returns the settings every scene is built with
func (c *Config) SceneOptions() scene.Options {
	return scene.Options{
		Width:    c.Canvas.Width,
		Height:   c.Canvas.Height,
		Layout:   c.Simulation,
		Viewport: c.Viewport,
		Flow:     c.Flow,
	}
}

// AnalysisClient returns the analysis API client settings
func (c *Config) AnalysisClient() analysis.Config {
	return analysis.Config{
		BaseURL: c.Analysis.BaseURL,
		Timeout: c.Analysis.Timeout.Duration(),
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Analysis API: %s\n", c.Server.Addr, c.Analysis.BaseURL)
	summary += fmt.Sprintf("Canvas: %gx%g, Frame: %s, Stream: %s",
		c.Canvas.Width, c.Canvas.Height, c.Server.FrameInterval.Duration(), c.Server.StreamInterval.Duration())
	return summary
}
