// Package game runs a driving session: an ECS world of vehicles advanced on a
// fixed time step, with scripted or player input and telemetry output.
package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kart/components"
	"github.com/pthm-cable/kart/config"
	"github.com/pthm-cable/kart/scenario"
	"github.com/pthm-cable/kart/systems"
	"github.com/pthm-cable/kart/telemetry"
	"github.com/pthm-cable/kart/vehicle"
)

// Options configures a session.
type Options struct {
	OutputDir string           // Directory for CSV logs and config snapshot (empty = disabled)
	LogStats  bool             // Log window stats via slog
	Scenario  *scenario.Script // Script for the configured number of scripted vehicles
	Player    bool             // Spawn a keyboard-driven vehicle first
	Loop      bool             // Restart scripts when they run out

	// StatsCallback is called with each flushed stats window
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete session state.
type Game struct {
	cfg   *config.Config
	world *ecs.World

	// Entity mappers
	scriptedMapper *ecs.Map4[components.Tag, components.Controls, components.Chassis, components.Autopilot]
	playerMapper   *ecs.Map3[components.Tag, components.Controls, components.Chassis]
	vehicleFilter  *ecs.Filter2[components.Tag, components.Chassis]

	tagMap     *ecs.Map1[components.Tag]
	controlMap *ecs.Map1[components.Controls]
	chassisMap *ecs.Map1[components.Chassis]

	// Systems
	autopilot *systems.AutopilotSystem
	drive     *systems.DriveSystem

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	trace         []telemetry.Sample

	// State
	tick        int32
	simTime     float64
	accumulator float64
	nextID      uint32
	running     int // Scripts still running after the last step
	player      ecs.Entity
	hasPlayer   bool
	entities    []ecs.Entity // Spawn order
}

// NewGame creates a session and spawns its initial vehicles.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("game: nil config")
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:   cfg,
		world: world,

		scriptedMapper: ecs.NewMap4[components.Tag, components.Controls, components.Chassis, components.Autopilot](world),
		playerMapper:   ecs.NewMap3[components.Tag, components.Controls, components.Chassis](world),
		vehicleFilter:  ecs.NewFilter2[components.Tag, components.Chassis](world),

		tagMap:     ecs.NewMap1[components.Tag](world),
		controlMap: ecs.NewMap1[components.Controls](world),
		chassisMap: ecs.NewMap1[components.Chassis](world),

		autopilot: systems.NewAutopilotSystem(world),
		drive:     systems.NewDriveSystem(world),

		collector:     telemetry.NewCollector(int32(cfg.Derived.TicksPerWindow), cfg.Physics.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Derived.TicksPerWindow),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	if opts.Player {
		g.SpawnPlayer("player")
	}
	if opts.Scenario != nil {
		for i := 0; i < cfg.Session.Vehicles; i++ {
			g.SpawnVehicle(fmt.Sprintf("%s-%d", opts.Scenario.Name, i), opts.Scenario, 0, opts.Loop)
		}
	}

	scriptName := ""
	if opts.Scenario != nil {
		scriptName = opts.Scenario.Name
	}
	slog.Info("session started",
		"vehicles", len(g.entities),
		"player", opts.Player,
		"scenario", scriptName,
		"dt", cfg.Physics.DT,
		"output_dir", om.Dir(),
	)

	return g, nil
}

// Step runs a single fixed tick of the session.
func (g *Game) Step() {
	dt := g.cfg.Physics.DT
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseAutopilot)
	g.running = g.autopilot.Update(g.simTime)

	g.perfCollector.StartPhase(telemetry.PhaseDrive)
	g.drive.Update(dt)

	g.tick++
	g.simTime = float64(g.tick) * dt

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.sampleTelemetry()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Advance conflates a real frame time into whole fixed steps and returns how many ran.
// Frame times above max_frame_time are cut so a stall cannot trigger a burst of ticks.
func (g *Game) Advance(frameTime float64) int {
	if !(frameTime > 0) || math.IsInf(frameTime, 0) {
		return 0
	}
	capped := false
	if max := g.cfg.Physics.MaxFrameTime; max > 0 && frameTime > max {
		frameTime = max
		capped = true
	}

	g.accumulator += frameTime
	dt := g.cfg.Physics.DT
	steps := 0
	for g.accumulator >= dt {
		g.Step()
		g.accumulator -= dt
		steps++
	}
	g.perfCollector.RecordFrame(steps, capped)
	return steps
}

// Alpha returns how far the accumulator is into the next tick, in [0, 1).
func (g *Game) Alpha() float64 {
	return g.accumulator / g.cfg.Physics.DT
}

// Tick returns the number of steps run.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the session time in seconds.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// Config returns the session configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Finished reports whether every script has run out and every vehicle has stopped.
// A session with a player never finishes.
func (g *Game) Finished() bool {
	if g.hasPlayer || g.running > 0 {
		return false
	}
	for _, v := range g.Vehicles() {
		if v.Vehicle.Speed() > 0 {
			return false
		}
	}
	return true
}

// PerfStats returns timing over the current stats window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// Close flushes pending telemetry and closes the output files.
func (g *Game) Close() error {
	g.writeTrace()
	err := g.outputManager.Close()
	slog.Info("session closed", "tick", g.tick, "sim_time", g.simTime)
	return err
}
