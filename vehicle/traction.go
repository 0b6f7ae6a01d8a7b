package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/kart/config"
)

// Traction is whether the velocity tracks the heading.
type Traction uint8

const (
	Gripping Traction = iota // Velocity constrained to the heading
	Sliding                  // Velocity decoupled from the heading
)

// alignmentEpsilon keeps the alignment ratio finite at rest.
const alignmentEpsilon = 1e-6

func (t Traction) String() string {
	switch t {
	case Gripping:
		return "gripping"
	case Sliding:
		return "sliding"
	default:
		return "unknown"
	}
}

// SideForce is the centrifugal-force proxy compared against MaxSideGrip.
func SideForce(turnAngle, mass float64, velocity mgl64.Vec3) float64 {
	return turnAngle * turnAngle * mass * velocity.Len()
}

// Alignment is the cosine between velocity and heading, 0 at rest.
func Alignment(velocity, forwards mgl64.Vec3) float64 {
	return velocity.Dot(forwards) / (velocity.Len() + alignmentEpsilon)
}

// nextTraction is the only place the traction state changes.
// It re-classifies from scratch each tick; the current state is kept only
// when neither the slip condition nor the regain condition holds.
func nextTraction(cur Traction, cfg *config.VehicleConfig, turnAngle float64, velocity, forwards mgl64.Vec3, braking bool) Traction {
	if braking || SideForce(turnAngle, cfg.Mass, velocity) > cfg.MaxSideGrip {
		return Sliding
	}
	if Alignment(velocity, forwards) > cfg.MinCorrelationGrip {
		return Gripping
	}
	return cur
}
