package layout

import "math"

// Config holds the physical constants of a simulation
type Config struct {
	Width  float64 `yaml:"-"`
	Height float64 `yaml:"-"`

	LinkDistance   float64 `yaml:"link_distance" validate:"gt=0"`
	LinkIterations int     `yaml:"link_iterations" validate:"gt=0"`
	ChargeStrength float64 `yaml:"charge_strength" validate:"lt=0"`
	CenterStrength float64 `yaml:"center_strength" validate:"gt=0,lte=1"`

	AlphaMin      float64 `yaml:"alpha_min" validate:"gt=0,lt=1"`
	AlphaDecay    float64 `yaml:"alpha_decay" validate:"gt=0,lt=1"`
	VelocityDecay float64 `yaml:"velocity_decay" validate:"gt=0,lte=1"`

	// CoolingThreshold is the alpha below which a free-running simulation
	// reports Cooling; StopThreshold is where it stops ticking.
	CoolingThreshold float64 `yaml:"cooling_threshold" validate:"gt=0,lte=1"`
	StopThreshold    float64 `yaml:"stop_threshold" validate:"gt=0,lte=1"`

	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the constants used by the dependency graph view
func DefaultConfig() Config {
	return Config{
		Width:            800,
		Height:           600,
		LinkDistance:     200,
		LinkIterations:   1,
		ChargeStrength:   -350,
		CenterStrength:   1,
		AlphaMin:         0.001,
		VelocityDecay:    0.4,
		CoolingThreshold: 0.05,
		StopThreshold:    0.01,
		Seed:             1,
	}
}

// ApplyDefaults fills zero values from DefaultConfig
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = def.LinkDistance
	}
	if c.LinkIterations == 0 {
		c.LinkIterations = def.LinkIterations
	}
	if c.ChargeStrength == 0 {
		c.ChargeStrength = def.ChargeStrength
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = def.CenterStrength
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = def.AlphaMin
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = 1 - math.Pow(c.AlphaMin, 1.0/300)
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = def.VelocityDecay
	}
	if c.CoolingThreshold == 0 {
		c.CoolingThreshold = def.CoolingThreshold
	}
	if c.StopThreshold == 0 {
		c.StopThreshold = def.StopThreshold
	}
}
