package vehicle

import "github.com/go-gl/mathgl/mgl64"

// ForwardAxis is the model-space axis the heading is derived from.
var ForwardAxis = mgl64.Vec4{0, -1, 0, 0}

// RotationMatrix composes the orientation as Rz · Ry · Rx.
func (v *Vehicle) RotationMatrix() mgl64.Mat4 {
	return rotationMatrix(v.state.Rotation)
}

// TranslationMatrix places the model at the vehicle position.
func (v *Vehicle) TranslationMatrix() mgl64.Mat4 {
	p := v.state.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z())
}

// ModelMatrix is the full model transform, translation after rotation.
func (v *Vehicle) ModelMatrix() mgl64.Mat4 {
	return v.TranslationMatrix().Mul4(v.RotationMatrix())
}

// CameraTheta returns the trailing camera azimuth, which follows the yaw.
func (v *Vehicle) CameraTheta() float64 {
	return v.rig.Theta(v.state.Rotation.Y())
}

// CameraPhi returns the trailing camera inclination.
func (v *Vehicle) CameraPhi() float64 {
	return v.rig.Phi()
}

// refreshForwards re-derives the heading; nothing else writes it.
func (v *Vehicle) refreshForwards() {
	v.state.Forwards = rotationMatrix(v.state.Rotation).Mul4x1(ForwardAxis).Vec3()
}

func rotationMatrix(r mgl64.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(r.Z()).
		Mul4(mgl64.HomogRotate3DY(r.Y())).
		Mul4(mgl64.HomogRotate3DX(r.X()))
}
