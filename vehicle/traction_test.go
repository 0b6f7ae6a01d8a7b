package vehicle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNextTraction(t *testing.T) {
	cfg := testConfig()
	fwd := mgl64.Vec3{0, 0, 1}
	aligned := mgl64.Vec3{0, 0, 10}
	skewed := mgl64.Vec3{5, 0, 5}

	tests := []struct {
		name      string
		cur       Traction
		turnAngle float64
		velocity  mgl64.Vec3
		braking   bool
		expected  Traction
	}{
		{"straight line keeps grip", Gripping, 0, aligned, false, Gripping},
		{"gentle turn keeps grip", Gripping, 0.1, aligned, false, Gripping},
		{"hard turn breaks grip", Gripping, 0.3, aligned, false, Sliding},
		{"braking breaks grip", Gripping, 0, aligned, true, Sliding},
		{"braking at rest slides", Gripping, 0, mgl64.Vec3{}, true, Sliding},
		{"aligned slide regains grip", Sliding, 0, aligned, false, Gripping},
		{"skewed slide keeps sliding", Sliding, 0, skewed, false, Sliding},
		{"hard turn blocks regain", Sliding, 0.3, aligned, false, Sliding},
		{"skewed grip holds without side force", Gripping, 0, skewed, false, Gripping},
		{"slide at rest holds", Sliding, 0, mgl64.Vec3{}, false, Sliding},
		{"grip at rest holds", Gripping, 0.5, mgl64.Vec3{}, false, Gripping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextTraction(tt.cur, &cfg, tt.turnAngle, tt.velocity, fwd, tt.braking)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSideForce(t *testing.T) {
	got := SideForce(-0.5, 2, mgl64.Vec3{3, 0, 4})
	if math.Abs(got-2.5) > 1e-12 {
		t.Errorf("expected 2.5, got %f", got)
	}
}

func TestAlignment(t *testing.T) {
	fwd := mgl64.Vec3{0, 0, 1}

	if a := Alignment(mgl64.Vec3{}, fwd); a != 0 {
		t.Errorf("expected 0 at rest, got %f", a)
	}
	if a := Alignment(mgl64.Vec3{0, 0, 20}, fwd); math.Abs(a-1) > 1e-6 {
		t.Errorf("expected ~1 when aligned, got %f", a)
	}
	if a := Alignment(mgl64.Vec3{0, 0, -20}, fwd); math.Abs(a+1) > 1e-6 {
		t.Errorf("expected ~-1 when reversing, got %f", a)
	}
}

func TestTractionString(t *testing.T) {
	tests := []struct {
		tr       Traction
		expected string
	}{
		{Gripping, "gripping"},
		{Sliding, "sliding"},
		{Traction(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.tr.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestSlideAndRecoverInTurn(t *testing.T) {
	v := newTestVehicle(nil)
	v.state.Velocity = v.ForwardsVector().Mul(40)
	v.SetAccelerate(true)
	const dt = 1.0 / 60

	slid := false
	for i := 0; i < 600 && !slid; i++ {
		v.TurnLeft(dt)
		v.Update(dt)
		slid = v.IsSliding()
	}
	if !slid {
		t.Fatalf("expected a sustained hard turn at speed to slide, turn angle %f", v.TurnAngle())
	}

	v.SetAccelerate(false)
	for i := 0; i < 60*30 && v.IsSliding(); i++ {
		v.Update(dt)
	}
	if v.IsSliding() {
		t.Errorf("expected grip to return after releasing the wheel, alignment %f",
			Alignment(v.Velocity(), v.ForwardsVector()))
	}
}
