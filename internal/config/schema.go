package config

import (
	"time"

	"contractlens/internal/flow"
	"contractlens/internal/layout"
	"contractlens/internal/viewport"
)

// Config is the root configuration structure
type Config struct {
	Version    int             `yaml:"version"`
	Server     ServerConfig    `yaml:"server"`
	Analysis   AnalysisConfig  `yaml:"analysis"`
	Canvas     CanvasConfig    `yaml:"canvas"`
	Simulation layout.Config   `yaml:"simulation"`
	Viewport   viewport.Config `yaml:"viewport"`
	Flow       flow.Config     `yaml:"flow"`
}

// ServerConfig holds HTTP server and event loop settings. FrameInterval is
// the period of the event loop clock; StreamInterval throttles frames pushed
// to event stream clients.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	ReadTimeout    Duration `yaml:"read_timeout" validate:"gte=0"`
	IdleTimeout    Duration `yaml:"idle_timeout" validate:"gte=0"`
	FrameInterval  Duration `yaml:"frame_interval" validate:"gt=0"`
	StreamInterval Duration `yaml:"stream_interval" validate:"gtefield=FrameInterval"`
	CORSOrigin     string   `yaml:"cors_origin"`
}

// AnalysisConfig points at the dependency analysis API
type AnalysisConfig struct {
	BaseURL string   `yaml:"base_url" validate:"required,url"`
	Timeout Duration `yaml:"timeout" validate:"gt=0"`
}

// CanvasConfig is the size of the drawing surface
type CanvasConfig struct {
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
