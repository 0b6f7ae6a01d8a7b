// Package camera derives trailing and free-look camera placements for a vehicle.
//
// Nothing here feeds back into the vehicle; view and projection matrices are
// built by the renderer from the vectors returned.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/kart/config"
)

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// epsilon guards normalisation of near-zero vectors.
const epsilon = 1e-9

// Rig is the fixed camera offset the spherical camera angles are measured from.
type Rig struct {
	view mgl64.Vec3 // Normalised look-at minus eye

	chaseHeight   float64
	chaseDistance float64
	targetHeight  float64
	orbitDistance float64
}

// NewRig builds a rig from config. The view vector is normalised once here.
func NewRig(cfg config.CameraConfig) Rig {
	lookAt := mgl64.Vec3(cfg.LookAt)
	eye := mgl64.Vec3(cfg.Eye)
	return Rig{
		view:          Normalize(lookAt.Sub(eye)),
		chaseHeight:   cfg.ChaseHeight,
		chaseDistance: cfg.ChaseDistance,
		targetHeight:  cfg.TargetHeight,
		orbitDistance: cfg.OrbitDistance,
	}
}

// ViewVector returns the normalised rig view vector.
func (r Rig) ViewVector() mgl64.Vec3 {
	return r.view
}

// Theta returns the azimuth of the rig, following the vehicle yaw.
func (r Rig) Theta(yaw float64) float64 {
	return math.Atan2(r.view.X(), r.view.Y()) + yaw
}

// Phi returns the inclination of the rig.
func (r Rig) Phi() float64 {
	return math.Acos(clamp(r.view.Z(), -1, 1))
}

// View is a camera placement in world space.
type View struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
}

// Chase places the camera behind the direction of travel.
// At rest the heading is used instead, so the camera never snaps to an arbitrary axis.
func (r Rig) Chase(position, velocity, forwards mgl64.Vec3) View {
	dir := forwards
	if velocity.Len() > epsilon {
		dir = velocity.Normalize()
	}
	return View{
		Eye:    position.Add(Up.Mul(r.chaseHeight)).Sub(dir.Mul(r.chaseDistance)),
		Target: position.Add(Up.Mul(r.targetHeight)),
		Up:     Up,
	}
}

// Orbit places a free-look camera around target at the rig's orbit distance.
func (r Rig) Orbit(target mgl64.Vec3, theta, phi float64) View {
	return Orbit(target, theta, phi, r.orbitDistance)
}

// Orbit converts spherical angles into an eye position around target.
// phi is measured up from the horizontal plane, theta around the up axis.
func Orbit(target mgl64.Vec3, theta, phi, distance float64) View {
	offset := mgl64.Vec3{
		distance * math.Cos(phi) * math.Sin(theta),
		distance * math.Sin(phi),
		distance * math.Cos(phi) * math.Cos(theta),
	}
	return View{
		Eye:    target.Add(offset),
		Target: target,
		Up:     Up,
	}
}

// Normalize returns v scaled to unit length, or the zero vector when v is too short.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
