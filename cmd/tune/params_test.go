package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/kart/config"
)

func TestParamVectorDefaults(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	if pv.Dim() != 5 {
		t.Fatalf("expected 5 parameters, got %d", pv.Dim())
	}

	got := pv.DefaultVector()
	want := pv.ExtractFromConfig(cfg)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: expected default %f, got %f", pv.Specs[i].Name, want[i], got[i])
		}
	}
}

func TestParamVectorDefaultsClamped(t *testing.T) {
	cfg := config.Default()
	cfg.Vehicle.Acceleration = 1000
	pv := NewParamVector(cfg)

	if d := pv.Specs[0].Default; d != pv.Specs[0].Max {
		t.Errorf("expected out-of-range default clamped to %f, got %f", pv.Specs[0].Max, d)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))

	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", pv.Specs[i].Name, raw[i], back[i])
		}
	}
	for i, n := range pv.Normalize(raw) {
		if n < 0 || n > 1 {
			t.Errorf("%s: expected normalized value in [0,1], got %f", pv.Specs[i].Name, n)
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector(config.Default())
	v := make([]float64, pv.Dim())
	for i := range v {
		if i%2 == 0 {
			v[i] = -1e6
		} else {
			v[i] = 1e6
		}
	}

	for i, c := range pv.Clamp(v) {
		spec := pv.Specs[i]
		if c < spec.Min || c > spec.Max {
			t.Errorf("%s: expected value in [%f, %f], got %f", spec.Name, spec.Min, spec.Max, c)
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)
	values := []float64{12, 20, 5, 0.5, 1}

	pv.ApplyToConfig(cfg, values)

	if cfg.Vehicle.Acceleration != 12 {
		t.Errorf("expected acceleration 12, got %f", cfg.Vehicle.Acceleration)
	}
	if cfg.Vehicle.BrakeAcceleration != 20 {
		t.Errorf("expected brake acceleration 20, got %f", cfg.Vehicle.BrakeAcceleration)
	}
	if cfg.Vehicle.SlidingDragCoefficient != 5 {
		t.Errorf("expected sliding drag 5, got %f", cfg.Vehicle.SlidingDragCoefficient)
	}
	if cfg.Vehicle.VelocityDecayRatio != 0.5 {
		t.Errorf("expected decay ratio 0.5, got %f", cfg.Vehicle.VelocityDecayRatio)
	}
	if cfg.Vehicle.MinVelocity != 1 {
		t.Errorf("expected min velocity 1, got %f", cfg.Vehicle.MinVelocity)
	}

	extracted := pv.ExtractFromConfig(cfg)
	for i := range values {
		if extracted[i] != values[i] {
			t.Errorf("%s: expected %f, got %f", pv.Specs[i].Name, values[i], extracted[i])
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{90 * time.Second, "1m30s"},
		{3*time.Hour + 5*time.Minute + 7*time.Second, "3h05m07s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v): expected %s, got %s", tt.d, tt.want, got)
		}
	}
}
