// Package vehicle implements the arcade ground-vehicle dynamics model.
//
// Each call to Update advances one tick through a fixed pipeline:
//
//  1. Pose - position moves with the velocity the tick started with.
//  2. Traction - the side-force proxy and heading alignment classify the
//     vehicle as gripping or sliding.
//  3. Orientation - yaw advances from the turn angle, then the turn angle
//     relaxes toward straight ahead.
//  4. Forwards - the heading vector is re-derived from the orientation.
//  5. Velocity - the tyre-speed target, the traction branch and the
//     post-processing (speed cap, brake floor, passive decay) run in order.
//
// The traction decision for a tick only sees the velocity and heading left
// by the previous tick. A Vehicle is not safe for concurrent use.
package vehicle

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/kart/camera"
	"github.com/pthm-cable/kart/config"
)

// InitialRotation pitches the model so it lies flat, facing +Z.
var InitialRotation = mgl64.Vec3{-math.Pi / 2, 0, 0}

// Controls are the driver intents read by the next tick.
type Controls struct {
	Accelerate bool
	Brake      bool
	Reverse    bool
}

// State is the complete mutable record of one vehicle.
type State struct {
	Position  mgl64.Vec3
	Rotation  mgl64.Vec3 // X pitch, Y yaw, Z roll
	Velocity  mgl64.Vec3
	Forwards  mgl64.Vec3 // Derived from Rotation
	TurnAngle float64
	Traction  Traction
	Controls  Controls
}

// Vehicle owns a State and the tuning it is integrated with.
type Vehicle struct {
	cfg   config.VehicleConfig
	rig   camera.Rig
	state State

	warnedDT bool
}

// New creates a vehicle at the origin, at rest and gripping.
func New(cfg config.VehicleConfig, cam config.CameraConfig) *Vehicle {
	v := &Vehicle{
		cfg: cfg,
		rig: camera.NewRig(cam),
	}
	v.Reset()
	return v
}

// Reset returns the vehicle to its initial state.
func (v *Vehicle) Reset() {
	v.state = State{
		Rotation: InitialRotation,
		Traction: Gripping,
	}
	v.refreshForwards()
}

// PlaceAt moves the vehicle without touching its orientation or motion.
func (v *Vehicle) PlaceAt(pos mgl64.Vec3) {
	v.state.Position = pos
}

// SetAccelerate sets the throttle flag.
func (v *Vehicle) SetAccelerate(on bool) { v.state.Controls.Accelerate = on }

// SetBrake sets the brake flag.
func (v *Vehicle) SetBrake(on bool) { v.state.Controls.Brake = on }

// SetReverse selects the reverse gear. It only acts together with the throttle.
func (v *Vehicle) SetReverse(on bool) { v.state.Controls.Reverse = on }

// SetControls sets all flags at once.
func (v *Vehicle) SetControls(c Controls) { v.state.Controls = c }

// Update advances the vehicle by dt seconds.
// A negative or non-finite dt is treated as zero.
func (v *Vehicle) Update(dt float64) {
	dt = v.sanitizeDT(dt)
	s := &v.state

	s.Position = s.Position.Add(s.Velocity.Mul(dt))

	s.Traction = nextTraction(s.Traction, &v.cfg, s.TurnAngle, s.Velocity, s.Forwards, s.Controls.Brake)

	v.updateOrientation(dt)
	v.relaxSteering(dt)
	v.refreshForwards()

	v.updateVelocity(dt)
}

func (v *Vehicle) sanitizeDT(dt float64) float64 {
	if dt >= 0 && !math.IsInf(dt, 1) {
		return dt
	}
	if !v.warnedDT {
		slog.Warn("vehicle: invalid elapsed time, treating as zero", "dt", dt)
		v.warnedDT = true
	}
	return 0
}

// Position returns the world-space position.
func (v *Vehicle) Position() mgl64.Vec3 { return v.state.Position }

// Velocity returns the world-space velocity.
func (v *Vehicle) Velocity() mgl64.Vec3 { return v.state.Velocity }

// Speed returns the velocity magnitude.
func (v *Vehicle) Speed() float64 { return v.state.Velocity.Len() }

// ForwardsVector returns the unit heading.
func (v *Vehicle) ForwardsVector() mgl64.Vec3 { return v.state.Forwards }

// Rotation returns the Euler angles (pitch, yaw, roll).
func (v *Vehicle) Rotation() mgl64.Vec3 { return v.state.Rotation }

// Yaw returns the heading angle.
func (v *Vehicle) Yaw() float64 { return v.state.Rotation.Y() }

// TurnAngle returns the steering accumulator.
func (v *Vehicle) TurnAngle() float64 { return v.state.TurnAngle }

// Traction returns the current traction state.
func (v *Vehicle) Traction() Traction { return v.state.Traction }

// IsSliding reports whether the vehicle is sliding.
func (v *Vehicle) IsSliding() bool { return v.state.Traction == Sliding }

// Controls returns the flags the next tick will read.
func (v *Vehicle) Controls() Controls { return v.state.Controls }

// SideVelocity returns the velocity component perpendicular to the heading.
func (v *Vehicle) SideVelocity() mgl64.Vec3 {
	return sideComponent(v.state.Velocity, v.state.Forwards)
}

// Config returns the tuning the vehicle was built with.
func (v *Vehicle) Config() config.VehicleConfig { return v.cfg }

// SetConfig replaces the tuning. The state is kept, so it can be changed mid-drive.
func (v *Vehicle) SetConfig(cfg config.VehicleConfig) { v.cfg = cfg }

// Snapshot returns a copy of the current state.
func (v *Vehicle) Snapshot() State { return v.state }
