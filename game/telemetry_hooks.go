package game

import (
	"log/slog"

	"github.com/pthm-cable/kart/telemetry"
)

// sampleTelemetry records every vehicle each sample_every ticks.
func (g *Game) sampleTelemetry() {
	if g.tick%int32(g.cfg.Telemetry.SampleEvery) != 0 {
		return
	}

	query := g.vehicleFilter.Query()
	for query.Next() {
		tag, chassis := query.Get()
		s := telemetry.NewSample(g.tick, g.simTime, tag.ID, tag.Name, chassis.Vehicle)
		g.collector.Record(s)
		if g.outputManager != nil {
			g.trace = append(g.trace, s)
		}
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, len(g.entities))
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	g.writeTrace()
	if err := g.outputManager.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	g.perfCollector.ResetFrames()
}

// writeTrace writes the buffered samples once per window.
func (g *Game) writeTrace() {
	if len(g.trace) == 0 {
		return
	}
	if err := g.outputManager.WriteSamples(g.trace); err != nil {
		slog.Error("failed to write trace", "error", err)
	}
	g.trace = g.trace[:0]
}
