package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kart/components"
)

// DriveSystem feeds controls into each vehicle and advances its dynamics.
type DriveSystem struct {
	filter ecs.Filter2[components.Controls, components.Chassis]
}

// NewDriveSystem creates a new drive system.
func NewDriveSystem(w *ecs.World) *DriveSystem {
	return &DriveSystem{
		filter: *ecs.NewFilter2[components.Controls, components.Chassis](w),
	}
}

// Update advances every vehicle by dt.
// Steering is accumulated before the tick so it is seen by this tick's traction decision.
func (s *DriveSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		ctrl, chassis := query.Get()
		v := chassis.Vehicle
		if v == nil {
			continue
		}

		v.SetControls(ctrl.Flags())
		switch ctrl.Steer {
		case components.SteerLeft:
			v.TurnLeft(dt)
		case components.SteerRight:
			v.TurnRight(dt)
		}

		v.Update(dt)
	}
}
