package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/kart/vehicle"
)

// Sample is one row of a vehicle trace.
type Sample struct {
	Tick      int32   `csv:"tick"`
	SimTime   float64 `csv:"sim_time"`
	VehicleID uint32  `csv:"vehicle_id"`
	Name      string  `csv:"name"`

	X float64 `csv:"x"`
	Y float64 `csv:"y"`
	Z float64 `csv:"z"`

	VX float64 `csv:"vx"`
	VY float64 `csv:"vy"`
	VZ float64 `csv:"vz"`

	Speed     float64 `csv:"speed"`
	SideSpeed float64 `csv:"side_speed"` // Velocity across the heading
	Yaw       float64 `csv:"yaw"`
	TurnAngle float64 `csv:"turn_angle"`
	Sliding   bool    `csv:"sliding"`

	Accelerate bool `csv:"accelerate"`
	Brake      bool `csv:"brake"`
	Reverse    bool `csv:"reverse"`
}

// NewSample reads the current state of v.
func NewSample(tick int32, simTime float64, id uint32, name string, v *vehicle.Vehicle) Sample {
	pos := v.Position()
	vel := v.Velocity()
	ctrl := v.Controls()
	return Sample{
		Tick:       tick,
		SimTime:    simTime,
		VehicleID:  id,
		Name:       name,
		X:          pos.X(),
		Y:          pos.Y(),
		Z:          pos.Z(),
		VX:         vel.X(),
		VY:         vel.Y(),
		VZ:         vel.Z(),
		Speed:      vel.Len(),
		SideSpeed:  v.SideVelocity().Len(),
		Yaw:        v.Yaw(),
		TurnAngle:  v.TurnAngle(),
		Sliding:    v.IsSliding(),
		Accelerate: ctrl.Accelerate,
		Brake:      ctrl.Brake,
		Reverse:    ctrl.Reverse,
	}
}

// ReadTrace loads a trace.csv written by OutputManager.
func ReadTrace(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	var samples []Sample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return samples, nil
}
