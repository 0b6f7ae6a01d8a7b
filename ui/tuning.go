package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kart/config"
)

type tunable struct {
	label    string
	field    func(*config.VehicleConfig) *float64
	min, max float32
}

var tunables = []tunable{
	{"Max velocity", func(c *config.VehicleConfig) *float64 { return &c.MaxVelocity }, 0, 120},
	{"Acceleration", func(c *config.VehicleConfig) *float64 { return &c.Acceleration }, 0, 40},
	{"Reverse accel", func(c *config.VehicleConfig) *float64 { return &c.AccelerationReverse }, 0, 20},
	{"Brake", func(c *config.VehicleConfig) *float64 { return &c.BrakeAcceleration }, 0, 40},
	{"Velocity decay", func(c *config.VehicleConfig) *float64 { return &c.VelocityDecayRatio }, 0, 2},
	{"Turn speed", func(c *config.VehicleConfig) *float64 { return &c.TurnSpeedCoefficient }, 0, 2},
	{"Turn decay", func(c *config.VehicleConfig) *float64 { return &c.TurningDecayRatio }, 0, 10},
	{"Max side grip", func(c *config.VehicleConfig) *float64 { return &c.MaxSideGrip }, 0, 2},
	{"Grip regain", func(c *config.VehicleConfig) *float64 { return &c.MinCorrelationGrip }, 0.5, 1},
	{"Sliding turn", func(c *config.VehicleConfig) *float64 { return &c.SlidingTurnCoefficient }, 0, 12},
	{"Grip turn", func(c *config.VehicleConfig) *float64 { return &c.NotSlidingTurnCoefficient }, 0, 1},
	{"Sliding drag", func(c *config.VehicleConfig) *float64 { return &c.SlidingDragCoefficient }, 0, 30},
}

// TuningPanel edits a vehicle's tuning with sliders.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewTuningPanel creates a hidden tuning panel.
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw shows the sliders for cfg and returns the edited tuning.
// changed is false when nothing was touched this frame.
func (p *TuningPanel) Draw(cfg, defaults config.VehicleConfig) (out config.VehicleConfig, changed bool) {
	if !p.visible {
		return cfg, false
	}

	r := p.renderer
	pad := r.Theme.Padding
	rowHeight := int32(34)
	height := int32(len(tunables))*rowHeight + 3*pad + 60
	r.DrawPanel(p.x, p.y, p.width, height)

	out = cfg
	x := float32(p.x + pad)
	y := r.DrawSectionHeader(p.x+pad, p.y+pad, "Tuning")
	sliderWidth := float32(p.width - 2*pad - 60)

	for _, t := range tunables {
		field := t.field(&out)
		rl.DrawText(t.label, int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
		y += 14

		cur := float32(*field)
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: float32(y), Width: sliderWidth, Height: 14},
			"", "",
			cur, t.min, t.max,
		)
		rl.DrawText(fmt.Sprintf("%.3f", *field), int32(x+sliderWidth+6), y, r.Theme.FontSize, r.Theme.ValueColor)
		if next != cur {
			*field = float64(next)
			changed = true
		}
		y += rowHeight - 14
	}

	if gui.Button(rl.Rectangle{X: x, Y: float32(y + pad), Width: 120, Height: 26}, "Reset tuning") {
		return defaults, true
	}
	return out, changed
}
