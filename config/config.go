// Package config provides configuration loading and access for the vehicle model.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Vehicle   VehicleConfig   `yaml:"vehicle"`
	Camera    CameraConfig    `yaml:"camera"`
	Session   SessionConfig   `yaml:"session"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed-step integration settings.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`             // Seconds per logical tick
	MaxFrameTime float64 `yaml:"max_frame_time"` // Longest real frame conflated into ticks
}

// VehicleConfig holds the tuning constants of the dynamics model.
// A copy is owned by every vehicle, so instances can be tuned independently.
type VehicleConfig struct {
	MaxVelocity         float64 `yaml:"max_velocity"`          // Speed cap
	MinVelocity         float64 `yaml:"min_velocity"`          // Brake-to-stop floor
	Acceleration        float64 `yaml:"acceleration"`          // Forward drive, units/s²
	AccelerationReverse float64 `yaml:"acceleration_reverse"`  // Reverse drive, units/s²
	BrakeAcceleration   float64 `yaml:"brake_acceleration"`    // Extra deceleration while braking

	VelocityDecayRatio     float64 `yaml:"velocity_decay_ratio"`      // Passive relaxation per second
	SideVelocityDecayRatio float64 `yaml:"side_velocity_decay_ratio"` // Lateral relaxation per second
	TurningDecayRatio      float64 `yaml:"turning_decay_ratio"`       // Turn angle relaxation per second

	ZeroVelocityThreshold     float64 `yaml:"zero_velocity_threshold"`
	ZeroTurnAngleThreshold    float64 `yaml:"zero_turn_angle_threshold"`
	ZeroTurnVelocityThreshold float64 `yaml:"zero_turn_velocity_threshold"` // Yaw rate, rad/s

	MaxSideGrip        float64 `yaml:"max_side_grip"`        // Slip onset threshold
	MinCorrelationGrip float64 `yaml:"min_correlation_grip"` // Grip regain alignment

	SlidingTurnCoefficient    float64 `yaml:"sliding_turn_coefficient"`
	NotSlidingTurnCoefficient float64 `yaml:"not_sliding_turn_coefficient"`
	TurnSpeedCoefficient      float64 `yaml:"turn_speed_coefficient"` // Steering input, rad/s

	AccelerateTyreSpeedCoefficient float64 `yaml:"accelerate_tyre_speed_coefficient"`
	SlidingDragCoefficient         float64 `yaml:"sliding_drag_coefficient"`
	Mass                           float64 `yaml:"mass"`
}

// CameraConfig holds the trailing camera rig.
type CameraConfig struct {
	LookAt        [3]float64 `yaml:"look_at"`        // Rig target relative to the car
	Eye           [3]float64 `yaml:"eye"`            // Rig position relative to the car
	ChaseHeight   float64    `yaml:"chase_height"`   // Chase eye height above the car
	ChaseDistance float64    `yaml:"chase_distance"` // Chase eye distance behind the car
	TargetHeight  float64    `yaml:"target_height"`  // Chase look-at height
	OrbitDistance float64    `yaml:"orbit_distance"` // Free-look radius
	FovY          float64    `yaml:"fov_y"`          // Degrees
}

// SessionConfig holds multi-vehicle session settings.
type SessionConfig struct {
	Vehicles int     `yaml:"vehicles"` // Scripted vehicles spawned in headless runs
	Spacing  float64 `yaml:"spacing"`  // Lateral distance between spawn points
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	SampleEvery int     `yaml:"sample_every"` // Ticks between trace samples
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32           float32 // Physics.DT as float32
	TicksPerWindow int     // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values the model cannot integrate.
// Zero is always accepted: a vehicle tuned to zero cannot move but stays well-defined.
func (c *Config) Validate() error {
	if err := c.Vehicle.Validate(); err != nil {
		return err
	}
	if !(c.Physics.DT > 0) || math.IsInf(c.Physics.DT, 0) {
		return fmt.Errorf("physics.dt: must be positive and finite, got %v", c.Physics.DT)
	}
	if c.Physics.MaxFrameTime < 0 {
		return fmt.Errorf("physics.max_frame_time: must not be negative, got %v", c.Physics.MaxFrameTime)
	}
	if c.Session.Vehicles < 0 {
		return fmt.Errorf("session.vehicles: must not be negative, got %d", c.Session.Vehicles)
	}
	if c.Telemetry.SampleEvery < 0 {
		return fmt.Errorf("telemetry.sample_every: must not be negative, got %d", c.Telemetry.SampleEvery)
	}
	return nil
}

// Validate checks every tuning constant is finite and non-negative.
func (v VehicleConfig) Validate() error {
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rv.Field(i).Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("vehicle.%s: must be finite and non-negative, got %v", rt.Field(i).Tag.Get("yaml"), f)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.TicksPerWindow = int(math.Round(c.Telemetry.StatsWindow / c.Physics.DT))
	if c.Derived.TicksPerWindow < 1 {
		c.Derived.TicksPerWindow = 1
	}
	if c.Telemetry.SampleEvery == 0 {
		c.Telemetry.SampleEvery = 1
	}
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

// Clone returns a deep copy, used by tools that mutate tuning per evaluation.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
