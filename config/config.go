// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Perception PerceptionConfig `yaml:"perception"`
	Simulation SimulationConfig `yaml:"simulation"`
	Chaos      ChaosConfig      `yaml:"chaos"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Log        LogConfig        `yaml:"log"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world geometry. The world is a square of side Size; the
// spatial index divides it into GridSize cells per axis.
type WorldConfig struct {
	Size     float64 `yaml:"size"`
	GridSize int     `yaml:"grid_size"`
}

// PopulationConfig holds the fixed population size.
type PopulationConfig struct {
	Count int `yaml:"count"`
}

// PhysicsConfig holds kinematics parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
}

// PerceptionConfig holds initial sensing parameters. View range for agent i
// is ViewRangeBase + i mod ViewRangeSpread.
type PerceptionConfig struct {
	ViewRangeBase   float64 `yaml:"view_range_base"`
	ViewRangeSpread int     `yaml:"view_range_spread"`
	ViewAngle       float64 `yaml:"view_angle"`
}

// SimulationConfig holds run length and seeding.
type SimulationConfig struct {
	Frames int   `yaml:"frames"`
	Seed   int64 `yaml:"seed"`
}

// ChaosConfig holds fault injection parameters.
type ChaosConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Probability float64 `yaml:"probability"`
}

// TelemetryConfig holds stats and profiling window sizes, in frames.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"`
	PerfWindow  int `yaml:"perf_window"`
}

// LogConfig holds the frame log destination. Empty path disables logging; a
// .zst suffix enables zstd compression.
type LogConfig struct {
	Path string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32       float32 // Physics.DT as float32
	WorldSize  float32 // World.Size as float32
	CellSize   float32 // World.Size / World.GridSize
	MaxSpeed   float32
	Accel      float32
	ViewAngle  float32
	ViewRange  float32 // base view range
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present
		// in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// MustLoad is like Load but panics on error. Intended for tests.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldSize = float32(c.World.Size)
	if c.World.GridSize > 0 {
		c.Derived.CellSize = float32(c.World.Size / float64(c.World.GridSize))
	}
	c.Derived.MaxSpeed = float32(c.Physics.MaxSpeed)
	c.Derived.Accel = float32(c.Physics.Acceleration)
	c.Derived.ViewAngle = float32(c.Perception.ViewAngle)
	c.Derived.ViewRange = float32(c.Perception.ViewRangeBase)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
