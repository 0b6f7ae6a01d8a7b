// Package systems contains ECS systems for the driving session.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kart/components"
)

// AutopilotSystem writes scripted inputs into each scripted vehicle's controls.
type AutopilotSystem struct {
	filter ecs.Filter2[components.Controls, components.Autopilot]
}

// NewAutopilotSystem creates a new autopilot system.
func NewAutopilotSystem(w *ecs.World) *AutopilotSystem {
	return &AutopilotSystem{
		filter: *ecs.NewFilter2[components.Controls, components.Autopilot](w),
	}
}

// Update samples every script at the given session time.
// Returns the number of scripts still running.
func (s *AutopilotSystem) Update(simTime float64) int {
	running := 0
	query := s.filter.Query()
	for query.Next() {
		ctrl, pilot := query.Get()
		if pilot.Script == nil {
			continue
		}

		t := simTime + pilot.Offset
		if pilot.Loop {
			t = math.Mod(t, pilot.Script.Duration())
		}

		seg, ok := pilot.Script.ControlsAt(t)
		if !ok {
			// Script finished: let the car coast
			*ctrl = components.Controls{}
			continue
		}
		running++

		*ctrl = components.Controls{
			Accelerate: seg.Accelerate,
			Brake:      seg.Brake,
			Reverse:    seg.Reverse,
			Steer:      components.Steer(seg.SteerSign()),
		}
	}
	return running
}
