package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kart/systems"
	"github.com/pthm-cable/kart/telemetry"
	"github.com/pthm-cable/kart/vehicle"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Tick       int32
	SimTime    float64
	FPS        int32
	Paused     bool
	CameraMode string
	Vehicles   int

	// Followed vehicle
	Name    string
	Vehicle *vehicle.Vehicle
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding

	rl.DrawText(data.Title, h.x, h.y, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | FPS: %d | Cars: %d | Camera: %s",
			data.Tick, data.SimTime, data.FPS, data.Vehicles, data.CameraMode),
		h.x, h.y+25, 16, rl.LightGray,
	)
	if data.Paused {
		rl.DrawText("PAUSED", h.x, h.y+45, 16, rl.Yellow)
	}

	v := data.Vehicle
	if v == nil {
		return
	}
	cfg := v.Config()
	ctrl := v.Controls()

	panelY := h.y + 70
	r.DrawPanel(h.x, panelY, h.width, 150)
	x := h.x + pad
	y := r.DrawSectionHeader(x, panelY+pad, data.Name)
	y = r.DrawBar(x, y, "Speed", float32(v.Speed()), float32(cfg.MaxVelocity), h.width-2*pad)
	y = r.DrawBar(x, y, "Side slip", float32(v.SideVelocity().Len()), float32(cfg.MaxVelocity), h.width-2*pad)
	y = r.DrawCenteredBar(x, y, "Steering", float32(v.TurnAngle()), 0.5, h.width-2*pad)
	y = r.DrawLabelValue(x, y, "Traction", v.Traction().String())

	gear := "D"
	if ctrl.Reverse {
		gear = "R"
	}
	y = r.DrawLabelValue(x, y, "Gear", gear)
	r.DrawLabelValue(x, y, "Pedals", fmt.Sprintf("throttle=%t brake=%t", ctrl.Accelerate, ctrl.Brake))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the system performance panel.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, registry *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: registry,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("System Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f ticks/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Steps/frame: %.2f (max %d, capped %d)", stats.StepsPerFrame, stats.MaxStepsPerFrame, stats.CappedFrames), x, y, 12, rl.LightGray)
	y += 16

	for _, info := range p.registry.Systems() {
		avg := stats.PhaseAvg[info.Phase]
		pct := stats.PhasePct[info.Phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", info.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
