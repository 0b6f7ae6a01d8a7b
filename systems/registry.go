package systems

import "github.com/pthm-cable/kart/telemetry"

// SystemInfo describes one step phase for the perf panel.
type SystemInfo struct {
	Phase       telemetry.Phase
	Name        string // Display name
	Description string
	Category    string // "input", "physics" or "internal"
}

// SystemRegistry lists the systems a session step runs, in step order.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry creates a registry with every session system.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{systems: []SystemInfo{
		{Phase: telemetry.PhaseAutopilot, Name: "Autopilot", Description: "Samples driving scripts", Category: "input"},
		{Phase: telemetry.PhaseDrive, Name: "Drive", Description: "Integrates vehicle dynamics", Category: "physics"},
		{Phase: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Samples traces and window stats", Category: "internal"},
	}}
}

// Systems returns the registered systems in step order.
func (r *SystemRegistry) Systems() []SystemInfo {
	return r.systems
}

// Name returns the display name for a phase, falling back to its identifier.
func (r *SystemRegistry) Name(p telemetry.Phase) string {
	for _, info := range r.systems {
		if info.Phase == p {
			return info.Name
		}
	}
	return p.String()
}
