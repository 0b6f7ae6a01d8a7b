package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAutopilot)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDrive)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseAutopilot] <= 0 {
		t.Error("expected autopilot phase to be tracked")
	}
	if stats.PhaseAvg[PhaseDrive] <= 0 {
		t.Error("expected drive phase to be tracked")
	}
	if stats.PhaseAvg[PhaseTelemetry] != 0 {
		t.Errorf("expected untouched telemetry phase to be zero, got %v", stats.PhaseAvg[PhaseTelemetry])
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDrive)
		pc.EndTick()
	}

	if pc.filled != 5 {
		t.Errorf("expected window to hold 5 ticks, got %d", pc.filled)
	}
	if stats := pc.Stats(); stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAutopilot)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseDrive)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fast := stats.PhasePct[PhaseAutopilot]
	slow := stats.PhasePct[PhaseDrive]

	if slow <= fast {
		t.Errorf("expected drive phase (%v%%) > autopilot phase (%v%%)", slow, fast)
	}
	if total := fast + slow; total > 100.0001 {
		t.Errorf("expected phase shares to stay within the tick, got %v%%", total)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First frame only sets the baseline
	pc.RecordFrame(1, false)
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame(2, false)

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfCollector_FrameConflation(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame(1, false)
	pc.RecordFrame(0, false)
	pc.RecordFrame(5, true)

	stats := pc.Stats()
	if stats.StepsPerFrame != 2 {
		t.Errorf("expected 2 steps per frame, got %v", stats.StepsPerFrame)
	}
	if stats.MaxStepsPerFrame != 5 {
		t.Errorf("expected max 5 steps, got %d", stats.MaxStepsPerFrame)
	}
	if stats.CappedFrames != 1 {
		t.Errorf("expected 1 capped frame, got %d", stats.CappedFrames)
	}

	pc.ResetFrames()
	stats = pc.Stats()
	if stats.StepsPerFrame != 0 || stats.MaxStepsPerFrame != 0 || stats.CappedFrames != 0 {
		t.Errorf("expected cleared frame counters, got %+v", stats)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseAutopilot, "autopilot"},
		{PhaseDrive, "drive"},
		{PhaseTelemetry, "telemetry"},
		{Phase(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
	if n := len(Phases()); n != 3 {
		t.Errorf("expected 3 phases, got %d", n)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{AvgTickDuration: 2 * time.Millisecond}
	stats.PhasePct[PhaseAutopilot] = 10
	stats.PhasePct[PhaseDrive] = 80
	stats.PhasePct[PhaseTelemetry] = 10

	row := stats.ToCSV(600)

	if row.WindowEnd != 600 || row.AvgTickUS != 2000 {
		t.Errorf("unexpected row header fields %+v", row)
	}
	if row.AutopilotPct != 10 || row.DrivePct != 80 || row.TelemetryPct != 10 {
		t.Errorf("expected phase percentages to map to columns, got %+v", row)
	}
}
