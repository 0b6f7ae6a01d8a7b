package main

import (
	"github.com/pthm-cable/kart/config"
)

// ParamSpec defines a single tunable vehicle parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	field func(*config.VehicleConfig) *float64
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
// Defaults are taken from base so the search starts at the current tuning.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "acceleration", Path: "vehicle.acceleration", Min: 1, Max: 40,
				field: func(c *config.VehicleConfig) *float64 { return &c.Acceleration }},
			{Name: "brake_acceleration", Path: "vehicle.brake_acceleration", Min: 0, Max: 60,
				field: func(c *config.VehicleConfig) *float64 { return &c.BrakeAcceleration }},
			{Name: "sliding_drag", Path: "vehicle.sliding_drag_coefficient", Min: 0, Max: 40,
				field: func(c *config.VehicleConfig) *float64 { return &c.SlidingDragCoefficient }},
			{Name: "velocity_decay", Path: "vehicle.velocity_decay_ratio", Min: 0.02, Max: 3,
				field: func(c *config.VehicleConfig) *float64 { return &c.VelocityDecayRatio }},
			{Name: "min_velocity", Path: "vehicle.min_velocity", Min: 0, Max: 5,
				field: func(c *config.VehicleConfig) *float64 { return &c.MinVelocity }},
		},
	}
	defaults := pv.Clamp(pv.ExtractFromConfig(base))
	for i := range pv.Specs {
		pv.Specs[i].Default = defaults[i]
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into the vehicle tuning.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		*spec.field(&cfg.Vehicle) = clamped[i]
	}
}

// ExtractFromConfig reads current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = *spec.field(&cfg.Vehicle)
	}
	return out
}
