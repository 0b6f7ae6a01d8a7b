// Package components defines ECS components for the driving session.
package components

import (
	"github.com/pthm-cable/kart/scenario"
	"github.com/pthm-cable/kart/vehicle"
)

// Tag identifies a vehicle entity.
type Tag struct {
	ID     uint32
	Name   string
	Player bool // Driven from keyboard input instead of a script
}

// Steer is the steering wheel position held for a tick.
type Steer int8

const (
	SteerNone  Steer = 0
	SteerLeft  Steer = 1
	SteerRight Steer = -1
)

func (s Steer) String() string {
	switch s {
	case SteerLeft:
		return "left"
	case SteerRight:
		return "right"
	default:
		return "none"
	}
}

// Controls holds the driver intent applied on the next tick.
type Controls struct {
	Accelerate bool
	Brake      bool
	Reverse    bool
	Steer      Steer
}

// Flags returns the drivetrain part of the controls.
func (c Controls) Flags() vehicle.Controls {
	return vehicle.Controls{
		Accelerate: c.Accelerate,
		Brake:      c.Brake,
		Reverse:    c.Reverse,
	}
}

// Chassis owns the dynamics model of one vehicle.
type Chassis struct {
	Vehicle *vehicle.Vehicle
}

// Autopilot drives a vehicle from a script.
type Autopilot struct {
	Script *scenario.Script
	Offset float64 // Seconds added to the session time before sampling
	Loop   bool    // Restart the script when it runs out
}
