// Package renderer draws the driving session in 3D with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/kart/camera"
	"github.com/pthm-cable/kart/game"
)

// Car body extents in model space. The model lies along -Y and is
// pitched flat by the vehicle's initial rotation.
const (
	carWidth  = 2
	carLength = 4
	carHeight = 1
)

// maxTrail is the number of points kept per vehicle.
const maxTrail = 600

var palette = []rl.Color{
	rl.SkyBlue, rl.Lime, rl.Gold, rl.Violet, rl.Orange, rl.Beige, rl.Pink,
}

type trailPoint struct {
	pos     rl.Vector3
	sliding bool
}

// Scene owns GPU resources for drawing vehicles.
type Scene struct {
	carMesh  rl.Mesh
	material rl.Material

	groundSize float32
	trails     map[uint32][]trailPoint
}

// NewScene uploads the car mesh. Must be called after rl.InitWindow.
func NewScene(groundSize float32) *Scene {
	return &Scene{
		carMesh:    rl.GenMeshCube(carWidth, carLength, carHeight),
		material:   rl.LoadMaterialDefault(),
		groundSize: groundSize,
		trails:     make(map[uint32][]trailPoint),
	}
}

// Unload releases GPU resources.
func (s *Scene) Unload() {
	rl.UnloadMesh(&s.carMesh)
}

// Record appends the current vehicle positions to their trails.
func (s *Scene) Record(vehicles []game.VehicleInfo) {
	for _, v := range vehicles {
		t := append(s.trails[v.ID], trailPoint{
			pos:     Vec3(v.Vehicle.Position().Add(mgl64.Vec3{0, 0.05, 0})),
			sliding: v.Vehicle.IsSliding(),
		})
		if len(t) > maxTrail {
			t = t[len(t)-maxTrail:]
		}
		s.trails[v.ID] = t
	}
}

// ClearTrails forgets all recorded trails.
func (s *Scene) ClearTrails() {
	s.trails = make(map[uint32][]trailPoint)
}

// Draw renders the ground, trails and cars. Call between BeginMode3D and EndMode3D.
func (s *Scene) Draw(vehicles []game.VehicleInfo) {
	rl.DrawPlane(rl.NewVector3(0, 0, 0), rl.NewVector2(s.groundSize, s.groundSize), rl.Color{R: 60, G: 64, B: 68, A: 255})
	rl.DrawGrid(int32(s.groundSize/4), 4)

	for _, v := range vehicles {
		s.drawTrail(s.trails[v.ID])
	}

	for i, v := range vehicles {
		color := palette[i%len(palette)]
		if v.Player {
			color = rl.Red
		}
		s.material.Maps.Color = color
		rl.DrawMesh(s.carMesh, s.material, ToMatrix(v.Vehicle.ModelMatrix()))

		// Heading marker
		pos := v.Vehicle.Position().Add(mgl64.Vec3{0, carHeight, 0})
		tip := pos.Add(v.Vehicle.ForwardsVector().Mul(carLength))
		rl.DrawLine3D(Vec3(pos), Vec3(tip), rl.White)
	}
}

// drawTrail draws skid marks where the car slid and a faint line elsewhere.
func (s *Scene) drawTrail(t []trailPoint) {
	for i := 1; i < len(t); i++ {
		color := rl.Color{R: 200, G: 200, B: 200, A: 60}
		if t[i].sliding {
			color = rl.Color{R: 20, G: 20, B: 20, A: 220}
		}
		rl.DrawLine3D(t[i-1].pos, t[i].pos, color)
	}
}

// Camera3D converts a camera placement into a raylib perspective camera.
func Camera3D(view camera.View, fovY float64) rl.Camera3D {
	return rl.Camera3D{
		Position:   Vec3(view.Eye),
		Target:     Vec3(view.Target),
		Up:         Vec3(view.Up),
		Fovy:       float32(fovY),
		Projection: rl.CameraPerspective,
	}
}

// Vec3 narrows a vector to raylib's float32 type.
func Vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

// ToMatrix converts a column-major mgl64 matrix to raylib's layout.
// Both store columns contiguously, so element i maps to Mi.
func ToMatrix(m mgl64.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M1: float32(m[1]), M2: float32(m[2]), M3: float32(m[3]),
		M4: float32(m[4]), M5: float32(m[5]), M6: float32(m[6]), M7: float32(m[7]),
		M8: float32(m[8]), M9: float32(m[9]), M10: float32(m[10]), M11: float32(m[11]),
		M12: float32(m[12]), M13: float32(m[13]), M14: float32(m[14]), M15: float32(m[15]),
	}
}
