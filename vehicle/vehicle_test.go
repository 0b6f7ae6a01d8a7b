package vehicle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/kart/config"
)

func testConfig() config.VehicleConfig {
	return config.VehicleConfig{
		MaxVelocity:                    50,
		MinVelocity:                    0.5,
		Acceleration:                   10,
		AccelerationReverse:            4,
		BrakeAcceleration:              12,
		VelocityDecayRatio:             0.3,
		SideVelocityDecayRatio:         1.5,
		TurningDecayRatio:              4,
		ZeroVelocityThreshold:          0.01,
		ZeroTurnAngleThreshold:         0.0066,
		ZeroTurnVelocityThreshold:      0.0006,
		MaxSideGrip:                    0.3,
		MinCorrelationGrip:             0.99,
		SlidingTurnCoefficient:         6,
		NotSlidingTurnCoefficient:      0.3,
		TurnSpeedCoefficient:           0.6,
		AccelerateTyreSpeedCoefficient: 60,
		SlidingDragCoefficient:         8,
		Mass:                           1,
	}
}

func testCamera() config.CameraConfig {
	return config.CameraConfig{
		LookAt: [3]float64{0, 3, 0},
		Eye:    [3]float64{0, 8, -7},
	}
}

func newTestVehicle(mutate func(*config.VehicleConfig)) *Vehicle {
	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, testCamera())
}

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func hasNaN(v mgl64.Vec3) bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}

func TestNewVehicle(t *testing.T) {
	v := newTestVehicle(nil)

	if v.Position() != (mgl64.Vec3{}) {
		t.Errorf("expected origin, got %v", v.Position())
	}
	if v.Velocity() != (mgl64.Vec3{}) {
		t.Errorf("expected zero velocity, got %v", v.Velocity())
	}
	if v.Traction() != Gripping {
		t.Errorf("expected gripping, got %v", v.Traction())
	}
	if v.Rotation() != InitialRotation {
		t.Errorf("expected initial rotation %v, got %v", InitialRotation, v.Rotation())
	}
	if !vecNear(v.ForwardsVector(), mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("expected heading +Z, got %v", v.ForwardsVector())
	}
}

func TestResetClearsState(t *testing.T) {
	v := newTestVehicle(nil)
	v.SetAccelerate(true)
	for i := 0; i < 120; i++ {
		v.TurnLeft(1.0 / 60)
		v.Update(1.0 / 60)
	}

	v.Reset()

	if v.Position() != (mgl64.Vec3{}) || v.Velocity() != (mgl64.Vec3{}) {
		t.Errorf("expected rest at origin, got pos=%v vel=%v", v.Position(), v.Velocity())
	}
	if v.TurnAngle() != 0 || v.IsSliding() || v.Controls() != (Controls{}) {
		t.Errorf("expected cleared steering, traction and controls, got %+v", v.Snapshot())
	}
}

func TestAccelerateFromRest(t *testing.T) {
	v := newTestVehicle(func(c *config.VehicleConfig) {
		c.Acceleration = 10
		c.MaxVelocity = 50
	})
	initial := v.ForwardsVector()

	v.SetAccelerate(true)
	v.Update(1.0)

	if math.Abs(v.Speed()-10) > 1e-9 {
		t.Errorf("expected speed 10, got %f", v.Speed())
	}
	if !vecNear(v.Velocity().Normalize(), initial, 1e-9) {
		t.Errorf("expected velocity along %v, got %v", initial, v.Velocity())
	}
	if v.Traction() != Gripping {
		t.Errorf("expected gripping, got %v", v.Traction())
	}
}

func TestBrakeToStop(t *testing.T) {
	v := newTestVehicle(func(c *config.VehicleConfig) {
		c.MinVelocity = 2
	})
	v.state.Velocity = v.ForwardsVector().Mul(5)
	v.SetBrake(true)

	prev := v.Speed()
	stopped := false
	for i := 0; i < 200; i++ {
		v.Update(0.1)
		speed := v.Speed()

		if speed > prev {
			t.Fatalf("tick %d: speed increased from %f to %f", i, prev, speed)
		}
		if prev > 0 && speed == prev {
			t.Fatalf("tick %d: speed stalled at %f", i, speed)
		}
		if speed != 0 && speed <= 2 {
			t.Fatalf("tick %d: speed %f at or below the floor was not zeroed", i, speed)
		}
		if speed == 0 {
			stopped = true
			break
		}
		prev = speed
	}

	if !stopped {
		t.Errorf("expected vehicle to stop, still moving at %f", v.Speed())
	}
	if !v.IsSliding() {
		t.Error("expected braking to force sliding")
	}
}

func TestSteeringRelaxation(t *testing.T) {
	v := newTestVehicle(func(c *config.VehicleConfig) {
		c.TurnSpeedCoefficient = 0.6
		c.TurningDecayRatio = 5
	})

	v.TurnLeft(1.0)
	if math.Abs(v.TurnAngle()-0.6) > 1e-12 {
		t.Fatalf("expected turn angle 0.6, got %f", v.TurnAngle())
	}

	prev := math.Abs(v.TurnAngle())
	ticks := 0
	for v.TurnAngle() != 0 {
		v.Update(0.1)
		ticks++

		if a := math.Abs(v.TurnAngle()); a > prev {
			t.Fatalf("tick %d: turn angle grew from %f to %f", ticks, prev, a)
		} else {
			prev = a
		}
		if ticks > 50 {
			t.Fatalf("turn angle did not reach zero, still %f", v.TurnAngle())
		}
	}

	// 0.6 * 0.5^7 is the first value under the 0.0066 snap threshold
	if ticks != 7 {
		t.Errorf("expected turn angle to reach zero after 7 ticks, took %d", ticks)
	}
}

func TestTurnRightIsSigned(t *testing.T) {
	v := newTestVehicle(nil)

	v.TurnRight(0.5)
	if math.Abs(v.TurnAngle()+0.3) > 1e-12 {
		t.Errorf("expected turn angle -0.3, got %f", v.TurnAngle())
	}
	v.TurnLeft(0.5)
	if math.Abs(v.TurnAngle()) > 1e-12 {
		t.Errorf("expected left and right to cancel, got %f", v.TurnAngle())
	}
}

func TestLongFrameDecayDoesNotFlipSign(t *testing.T) {
	v := newTestVehicle(nil)
	v.TurnLeft(0.5)

	// 1 - 4*10 would be -39 without clamping
	v.Update(10)

	if v.TurnAngle() != 0 {
		t.Errorf("expected turn angle to stop at zero, got %f", v.TurnAngle())
	}
}

func TestIdempotentRest(t *testing.T) {
	for _, dt := range []float64{0, 1.0 / 60, 0.5, 1, 10, 1000} {
		v := newTestVehicle(nil)
		before := v.Snapshot()

		v.Update(dt)

		after := v.Snapshot()
		if after.Position != before.Position || after.Velocity != before.Velocity || after.TurnAngle != before.TurnAngle {
			t.Errorf("dt=%v: expected rest to be unchanged, got %+v", dt, after)
		}
		if after.Traction != Gripping {
			t.Errorf("dt=%v: expected gripping at rest, got %v", dt, after.Traction)
		}
	}
}

func TestPositionUsesVelocityBeforeUpdate(t *testing.T) {
	v := newTestVehicle(nil)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		v.SetAccelerate(rng.Intn(3) > 0)
		v.SetBrake(rng.Intn(8) == 0)
		if rng.Intn(2) == 0 {
			v.TurnLeft(0.05)
		}
		dt := rng.Float64() * 0.1

		posBefore := v.Position()
		velBefore := v.Velocity()
		v.Update(dt)

		want := posBefore.Add(velBefore.Mul(dt))
		if v.Position() != want {
			t.Fatalf("tick %d: expected position %v, got %v", i, want, v.Position())
		}
	}
}

func TestInvariantsUnderRandomInput(t *testing.T) {
	v := newTestVehicle(nil)
	rng := rand.New(rand.NewSource(42))
	maxV := v.Config().MaxVelocity

	for i := 0; i < 20000; i++ {
		// Hold inputs for short stretches, like a player would
		if i%30 == 0 {
			v.SetAccelerate(rng.Intn(3) > 0)
			v.SetBrake(rng.Intn(6) == 0)
			v.SetReverse(rng.Intn(5) == 0)
		}
		dt := rng.Float64() * 0.2
		switch rng.Intn(3) {
		case 0:
			v.TurnLeft(dt)
		case 1:
			v.TurnRight(dt)
		}

		v.Update(dt)

		if v.Speed() > maxV+1e-9 {
			t.Fatalf("tick %d: speed %f exceeds cap %f", i, v.Speed(), maxV)
		}
		if math.Abs(v.ForwardsVector().Len()-1) > 1e-9 {
			t.Fatalf("tick %d: forwards vector length %f", i, v.ForwardsVector().Len())
		}
		if tr := v.Traction(); tr != Gripping && tr != Sliding {
			t.Fatalf("tick %d: unexpected traction %v", i, tr)
		}
		if v.Traction() == Gripping {
			side := v.SideVelocity().Len()
			if side > 1e-9*math.Max(1, v.Speed()) {
				t.Fatalf("tick %d: gripping with side velocity %g", i, side)
			}
		}
		if hasNaN(v.Position()) || hasNaN(v.Velocity()) || math.IsNaN(v.TurnAngle()) {
			t.Fatalf("tick %d: NaN in state %+v", i, v.Snapshot())
		}
	}
}

func TestInvalidElapsedTime(t *testing.T) {
	v := newTestVehicle(nil)
	v.state.Velocity = v.ForwardsVector().Mul(10)
	v.TurnLeft(0.1)
	before := v.Snapshot()

	for _, dt := range []float64{math.NaN(), -1, math.Inf(1), math.Inf(-1)} {
		v.Update(dt)
		v.TurnLeft(dt)
	}

	after := v.Snapshot()
	if after.Position != before.Position {
		t.Errorf("expected position unchanged, got %v", after.Position)
	}
	if after.TurnAngle != before.TurnAngle {
		t.Errorf("expected turn angle unchanged, got %f", after.TurnAngle)
	}
	if hasNaN(after.Velocity) {
		t.Errorf("expected finite velocity, got %v", after.Velocity)
	}
}

func TestDegenerateConfigCannotMove(t *testing.T) {
	v := New(config.VehicleConfig{}, config.CameraConfig{})
	v.SetAccelerate(true)

	for i := 0; i < 100; i++ {
		v.TurnLeft(0.1)
		v.Update(0.1)
	}

	if v.Position() != (mgl64.Vec3{}) {
		t.Errorf("expected vehicle to stay put, got %v", v.Position())
	}
	if v.Speed() != 0 {
		t.Errorf("expected zero speed, got %f", v.Speed())
	}
	if math.IsNaN(v.CameraTheta()) || math.IsNaN(v.CameraPhi()) {
		t.Error("expected finite camera angles")
	}
}

func TestReverseDrivesBackwards(t *testing.T) {
	v := newTestVehicle(nil)
	v.SetAccelerate(true)
	v.SetReverse(true)

	for i := 0; i < 60; i++ {
		v.Update(1.0 / 60)
	}

	if v.Velocity().Dot(v.ForwardsVector()) >= 0 {
		t.Fatalf("expected velocity against the heading, got %v", v.Velocity())
	}
	if math.Abs(v.Speed()-4) > 1e-9 {
		t.Errorf("expected reverse speed 4 after one second, got %f", v.Speed())
	}
}

func TestReverseWithoutThrottleCoasts(t *testing.T) {
	v := newTestVehicle(nil)
	v.state.Velocity = v.ForwardsVector().Mul(10)
	v.SetReverse(true)

	v.Update(0.1)

	if v.Velocity().Dot(v.ForwardsVector()) <= 0 {
		t.Errorf("expected to keep rolling forwards, got %v", v.Velocity())
	}
	if want := 10 * (1 - 0.3*0.1); math.Abs(v.Speed()-want) > 1e-9 {
		t.Errorf("expected passive decay to %f, got %f", want, v.Speed())
	}
}

func TestGrippingTurnNeedsSpeed(t *testing.T) {
	v := newTestVehicle(nil)
	yaw := v.Yaw()

	v.TurnLeft(0.2)
	v.Update(0.1)
	if v.Yaw() != yaw {
		t.Errorf("expected no yaw at rest, got %f", v.Yaw())
	}

	v.state.Velocity = v.ForwardsVector().Mul(5)
	v.TurnLeft(0.2)
	v.Update(0.1)
	if v.Yaw() <= yaw {
		t.Errorf("expected yaw to increase while moving, got %f", v.Yaw())
	}
}

func TestCoastingSnapsToZero(t *testing.T) {
	v := newTestVehicle(nil)
	v.state.Velocity = v.ForwardsVector().Mul(0.0101)

	v.Update(0.1)

	if v.Speed() != 0 {
		t.Errorf("expected speed below threshold to snap to zero, got %g", v.Speed())
	}
}

func TestSpeedCapWhileAccelerating(t *testing.T) {
	v := newTestVehicle(nil)
	v.SetAccelerate(true)

	for i := 0; i < 60*20; i++ {
		v.Update(1.0 / 60)
	}

	if math.Abs(v.Speed()-50) > 1e-9 {
		t.Errorf("expected speed pinned at 50, got %f", v.Speed())
	}
}

func TestMatrices(t *testing.T) {
	v := newTestVehicle(nil)
	v.PlaceAt(mgl64.Vec3{3, 0, -4})
	v.state.Rotation[1] = 0.8
	v.refreshForwards()

	tr := v.TranslationMatrix()
	if got := tr.Col(3).Vec3(); got != (mgl64.Vec3{3, 0, -4}) {
		t.Errorf("expected translation (3, 0, -4), got %v", got)
	}

	fwd := v.RotationMatrix().Mul4x1(ForwardAxis).Vec3()
	if !vecNear(fwd, v.ForwardsVector(), 1e-12) {
		t.Errorf("expected rotation to map the forward axis to %v, got %v", v.ForwardsVector(), fwd)
	}
	if want := (mgl64.Vec3{math.Sin(0.8), 0, math.Cos(0.8)}); !vecNear(fwd, want, 1e-12) {
		t.Errorf("expected yawed heading %v, got %v", want, fwd)
	}

	origin := v.ModelMatrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
	if !vecNear(origin, v.Position(), 1e-12) {
		t.Errorf("expected model origin at %v, got %v", v.Position(), origin)
	}
}

func TestCameraAnglesFollowYaw(t *testing.T) {
	v := newTestVehicle(nil)
	theta0 := v.CameraTheta()
	phi0 := v.CameraPhi()

	v.state.Rotation[1] = 1.25

	if math.Abs(v.CameraTheta()-(theta0+1.25)) > 1e-12 {
		t.Errorf("expected theta to shift by yaw, got %f", v.CameraTheta())
	}
	if v.CameraPhi() != phi0 {
		t.Errorf("expected phi independent of yaw, got %f", v.CameraPhi())
	}
}
