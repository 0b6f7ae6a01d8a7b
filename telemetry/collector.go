package telemetry

import "github.com/go-gl/mathgl/mgl64"

// Collector accumulates trace samples within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	speeds   []float64
	sliding  int
	braking  int
	sideMax  float64
	distance float64

	// Last position per vehicle, kept across windows
	lastPos map[uint32]mgl64.Vec3
}

// NewCollector creates a new stats collector.
// ticksPerWindow: ticks in each stats window
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(ticksPerWindow int32, dt float64) *Collector {
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		lastPos:             make(map[uint32]mgl64.Vec3),
	}
}

// Record adds a sample to the current window.
func (c *Collector) Record(s Sample) {
	c.speeds = append(c.speeds, s.Speed)
	if s.Sliding {
		c.sliding++
	}
	if s.Brake {
		c.braking++
	}
	if s.SideSpeed > c.sideMax {
		c.sideMax = s.SideSpeed
	}

	pos := mgl64.Vec3{s.X, s.Y, s.Z}
	if last, ok := c.lastPos[s.VehicleID]; ok {
		c.distance += pos.Sub(last).Len()
	}
	c.lastPos[s.VehicleID] = pos
}

// Forget drops the position history of a removed vehicle.
func (c *Collector) Forget(id uint32) {
	delete(c.lastPos, id)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, vehicles int) WindowStats {
	mean, p50, p90, max := ComputeSpeedStats(c.speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Vehicles:        vehicles,
		Samples:         len(c.speeds),
		SpeedMean:       mean,
		SpeedP50:        p50,
		SpeedP90:        p90,
		SpeedMax:        max,
		SideSpeedMax:    c.sideMax,
		Distance:        c.distance,
	}
	if n := len(c.speeds); n > 0 {
		stats.SlideFraction = float64(c.sliding) / float64(n)
		stats.BrakeFraction = float64(c.braking) / float64(n)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.speeds = c.speeds[:0]
	c.sliding = 0
	c.braking = 0
	c.sideMax = 0
	c.distance = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
