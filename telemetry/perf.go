package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of a session step.
type Phase uint8

// Step phases in execution order.
const (
	PhaseAutopilot Phase = iota
	PhaseDrive
	PhaseTelemetry

	numPhases
)

var phaseNames = [numPhases]string{"autopilot", "drive", "telemetry"}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases returns every phase in execution order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// tickTiming is the wall time spent in one step.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times session steps over a rolling window of ticks and
// counts how real frames were conflated into steps.
type PerfCollector struct {
	window []tickTiming
	next   int
	filled int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Frame conflation, reset by ResetFrames
	lastFrame     time.Time
	frameDuration time.Duration
	frames        int
	frameSteps    int
	maxSteps      int
	cappedFrames  int
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{window: make([]tickTiming, windowSize)}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase < numPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the step and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// RecordFrame records one rendered frame that ran steps ticks.
// capped marks a frame whose real time was cut to the frame time limit.
func (p *PerfCollector) RecordFrame(steps int, capped bool) {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now

	p.frames++
	p.frameSteps += steps
	if steps > p.maxSteps {
		p.maxSteps = steps
	}
	if capped {
		p.cappedFrames++
	}
}

// ResetFrames clears the frame conflation counters.
func (p *PerfCollector) ResetFrames() {
	p.frames = 0
	p.frameSteps = 0
	p.maxSteps = 0
	p.cappedFrames = 0
}

// PerfStats holds aggregated timing for the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64 // Share of the average tick

	// Graphics mode only
	FrameDuration    time.Duration
	FPS              float64
	StepsPerFrame    float64
	MaxStepsPerFrame int
	CappedFrames     int
}

// Stats aggregates the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		FrameDuration:    p.frameDuration,
		MaxStepsPerFrame: p.maxSteps,
		CappedFrames:     p.cappedFrames,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.frames > 0 {
		s.StepsPerFrame = float64(p.frameSteps) / float64(p.frames)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i, t := range p.window[:p.filled] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		if t.total > s.MaxTickDuration {
			s.MaxTickDuration = t.total
		}
		for ph, d := range t.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}

	if s.FPS > 0 {
		attrs = append(attrs,
			slog.Int("fps", int(s.FPS)),
			slog.Float64("steps_per_frame", s.StepsPerFrame),
			slog.Int("capped_frames", s.CappedFrames),
		)
	}

	for _, ph := range Phases() {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(s.PhasePct[ph]*10))/10))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	StepsPerFrame float64 `csv:"steps_per_frame"`
	CappedFrames  int     `csv:"capped_frames"`
	AutopilotPct  float64 `csv:"autopilot_pct"`
	DrivePct      float64 `csv:"drive_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		StepsPerFrame: s.StepsPerFrame,
		CappedFrames:  s.CappedFrames,
		AutopilotPct:  s.PhasePct[PhaseAutopilot],
		DrivePct:      s.PhasePct[PhaseDrive],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
