package vehicle

import "math"

// TurnLeft adds steering input for dt seconds.
func (v *Vehicle) TurnLeft(dt float64) {
	v.state.TurnAngle += v.cfg.TurnSpeedCoefficient * v.sanitizeDT(dt)
}

// TurnRight subtracts steering input for dt seconds.
func (v *Vehicle) TurnRight(dt float64) {
	v.state.TurnAngle -= v.cfg.TurnSpeedCoefficient * v.sanitizeDT(dt)
}

// relaxSteering decays the turn angle toward zero and snaps it there once small.
func (v *Vehicle) relaxSteering(dt float64) {
	s := &v.state
	s.TurnAngle *= decayFactor(v.cfg.TurningDecayRatio, dt)
	if math.Abs(s.TurnAngle) < v.cfg.ZeroTurnAngleThreshold {
		s.TurnAngle = 0
	}
}

// decayFactor returns 1 - ratio*dt kept within [0, 1].
// Long frames stop at zero instead of flipping sign.
func decayFactor(ratio, dt float64) float64 {
	f := 1 - ratio*dt
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
