package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kart/components"
)

// ControlsLegend lists the driving keys.
const ControlsLegend = "W/Up: throttle | S/Down: brake | A/D, Left/Right: steer | R: reverse gear | C: camera | T: tuning | P: perf | Backspace: reset | Space: pause"

// Input maps keyboard state to vehicle controls. The reverse gear is latched.
type Input struct {
	reverse bool
}

// Read samples the keyboard for this frame.
func (in *Input) Read() components.Controls {
	if rl.IsKeyPressed(rl.KeyR) {
		in.reverse = !in.reverse
	}

	left := rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft)
	right := rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight)

	c := components.Controls{
		Accelerate: rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Brake:      rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Reverse:    in.reverse,
	}
	switch {
	case left && !right:
		c.Steer = components.SteerLeft
	case right && !left:
		c.Steer = components.SteerRight
	}
	return c
}

// Reset drops the latched reverse gear.
func (in *Input) Reset() {
	in.reverse = false
}
