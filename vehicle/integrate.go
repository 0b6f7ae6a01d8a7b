package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// updateOrientation advances yaw from the turn angle.
// Gripping turns scale with speed, so a car at rest cannot turn by steering alone.
func (v *Vehicle) updateOrientation(dt float64) {
	s := &v.state
	if dt == 0 {
		return
	}

	var rate float64
	if s.Traction == Sliding {
		rate = s.TurnAngle * v.cfg.SlidingTurnCoefficient
	} else {
		rate = s.TurnAngle * v.cfg.NotSlidingTurnCoefficient * s.Velocity.Len()
	}
	if math.Abs(rate) < v.cfg.ZeroTurnVelocityThreshold {
		return
	}

	s.Rotation[1] += rate * dt
}

// tyreSpeed is the forward speed the drivetrain is commanding.
func (v *Vehicle) tyreSpeed() float64 {
	c := v.state.Controls
	switch {
	case c.Brake:
		return 0
	case c.Accelerate && c.Reverse:
		return -v.cfg.AccelerateTyreSpeedCoefficient
	case c.Accelerate:
		return v.cfg.AccelerateTyreSpeedCoefficient
	default:
		return v.state.Forwards.Dot(v.state.Velocity)
	}
}

// drive is the acceleration added along the heading while gripping.
func (v *Vehicle) drive() float64 {
	c := v.state.Controls
	switch {
	case c.Brake || !c.Accelerate:
		return 0
	case c.Reverse:
		return -v.cfg.AccelerationReverse
	default:
		return v.cfg.Acceleration
	}
}

func (v *Vehicle) updateVelocity(dt float64) {
	s := &v.state
	fwd := s.Forwards
	vel := s.Velocity

	if s.Traction == Sliding {
		tyre := fwd.Mul(v.tyreSpeed())
		vel = vel.Sub(tyre)

		if l := vel.Len(); l > 0 {
			drag := v.cfg.Mass * v.cfg.SlidingDragCoefficient * dt
			if s.Controls.Brake {
				drag += v.cfg.BrakeAcceleration * dt
			}
			vel = vel.Sub(vel.Mul(math.Min(l, drag) / l))
		}

		vel = vel.Add(tyre)
	} else {
		// Snap onto the heading: no lateral slip while gripping.
		sign := 1.0
		if fwd.Dot(vel) < 0 {
			sign = -1
		}
		vel = fwd.Mul(sign*vel.Len() + v.drive()*dt)
	}

	if l := vel.Len(); l > v.cfg.MaxVelocity {
		if l > 0 {
			vel = vel.Mul(v.cfg.MaxVelocity / l)
		}
	}

	coasting := !s.Controls.Accelerate && !s.Controls.Brake
	switch {
	case s.Controls.Brake && vel.Len() <= v.cfg.MinVelocity:
		vel = mgl64.Vec3{}
	case coasting:
		vel = vel.Mul(decayFactor(v.cfg.VelocityDecayRatio, dt))
		side := sideComponent(vel, fwd)
		vel = vel.Sub(side.Mul(1 - decayFactor(v.cfg.SideVelocityDecayRatio, dt)))
		if vel.Len() < v.cfg.ZeroVelocityThreshold {
			vel = mgl64.Vec3{}
		}
	}

	s.Velocity = vel
}

// sideComponent returns the part of vel perpendicular to the unit vector fwd.
func sideComponent(vel, fwd mgl64.Vec3) mgl64.Vec3 {
	return vel.Sub(fwd.Mul(vel.Dot(fwd)))
}
