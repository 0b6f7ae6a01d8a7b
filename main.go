package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kart/camera"
	"github.com/pthm-cable/kart/config"
	"github.com/pthm-cable/kart/game"
	"github.com/pthm-cable/kart/renderer"
	"github.com/pthm-cable/kart/scenario"
	"github.com/pthm-cable/kart/systems"
	"github.com/pthm-cable/kart/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run scripted vehicles without graphics")
	scenarioName := flag.String("scenario", "", "Builtin script name or path to a script YAML")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until scripts finish)")
	vehicles := flag.Int("vehicles", -1, "Number of scripted vehicles (-1 = use config)")
	loop := flag.Bool("loop", false, "Restart scripts when they run out")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *vehicles >= 0 {
		cfg.Session.Vehicles = *vehicles
	}

	var script *scenario.Script
	name := *scenarioName
	if name == "" && *headless {
		name = "launch"
	}
	if name != "" {
		s, err := scenario.Resolve(name)
		if err != nil {
			slog.Error("failed to load scenario", "error", err, "available", scenario.Builtins())
			os.Exit(1)
		}
		script = s
	}

	opts := game.Options{
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Scenario:  script,
		Loop:      *loop,
		Player:    !*headless,
	}

	if *headless {
		if err := runHeadless(cfg, opts, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runGraphical(cfg, opts, *maxTicks); err != nil {
		slog.Error("session failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps the session as fast as possible until every script has
// finished and every car has stopped, or maxTicks is reached.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int) error {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless session",
		"scenario", opts.Scenario.Name,
		"duration", opts.Scenario.Duration(),
		"max_ticks", maxTicks,
	)

	for !g.Finished() || opts.Loop {
		g.Step()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}

	for _, v := range g.Vehicles() {
		pos := v.Vehicle.Position()
		slog.Info("vehicle finished",
			"name", v.Name,
			"x", pos.X(),
			"z", pos.Z(),
			"yaw", v.Vehicle.Yaw(),
			"speed", v.Vehicle.Speed(),
		)
	}
	return nil
}

func runGraphical(cfg *config.Config, opts game.Options, maxTicks int) error {
	width, height := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, "Kart")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	scene := renderer.NewScene(400)
	defer scene.Unload()

	rig := camera.NewRig(cfg.Camera)
	input := &ui.Input{}
	hud := ui.NewHUD(10, 10, 320)
	perf := ui.NewPerfPanel(width-260, 10, systems.NewSystemRegistry())
	tuning := ui.NewTuningPanel(width-300, 120, 290)

	paused := false
	orbit := false
	showPerf := false
	var orbitOffset float64

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			width, height = int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
			perf.SetPosition(width-260, 10)
			tuning.SetPosition(width-300, 120)
		}

		// Session keys
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		if rl.IsKeyPressed(rl.KeyC) {
			orbit = !orbit
			orbitOffset = 0
		}
		if rl.IsKeyPressed(rl.KeyT) {
			tuning.Toggle()
		}
		if rl.IsKeyPressed(rl.KeyP) {
			showPerf = !showPerf
		}
		if rl.IsKeyPressed(rl.KeyF11) {
			rl.ToggleFullscreen()
		}
		if rl.IsKeyPressed(rl.KeyBackspace) {
			g.ResetVehicles()
			scene.ClearTrails()
			input.Reset()
		}
		if orbit && rl.IsMouseButtonDown(rl.MouseButtonRight) {
			orbitOffset -= float64(rl.GetMouseDelta().X) * 0.01
		}

		g.SetPlayerControls(input.Read())
		if !paused {
			if g.Advance(float64(rl.GetFrameTime())) > 0 {
				scene.Record(g.Vehicles())
			}
		}

		player, _ := g.Player()
		var view camera.View
		mode := "chase"
		if orbit {
			mode = "orbit"
			view = rig.Orbit(player.Position(), player.CameraTheta()+orbitOffset, player.CameraPhi())
		} else {
			view = rig.Chase(player.Position(), player.Velocity(), player.ForwardsVector())
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 135, G: 170, B: 200, A: 255})

		rl.BeginMode3D(renderer.Camera3D(view, cfg.Camera.FovY))
		scene.Draw(g.Vehicles())
		rl.EndMode3D()

		hud.Draw(ui.HUDData{
			Title:      "Kart",
			Tick:       g.Tick(),
			SimTime:    g.SimTime(),
			FPS:        rl.GetFPS(),
			Paused:     paused,
			CameraMode: mode,
			Vehicles:   len(g.Vehicles()),
			Name:       "player",
			Vehicle:    player,
		})
		hud.DrawControls(height, ui.ControlsLegend)
		if showPerf {
			perf.Draw(g.PerfStats())
		}
		if tuned, changed := tuning.Draw(player.Config(), cfg.Vehicle); changed {
			player.SetConfig(tuned)
		}

		rl.EndDrawing()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
