package components

import "github.com/go-gl/mathgl/mgl32"

// Scene is the mutable state the control panel edits and the render loop reads.
type Scene struct {
	Camera    *Camera
	Lights    []*Light
	Materials []*Material
	// Rotation of the displayed model around the Y axis, in degrees.
	Rotation float32
	// Degrees per second added to Rotation.
	RotationSpeed float32
	ClearColor    mgl32.Vec4
}

func NewScene(camera *Camera) *Scene {
	return &Scene{
		Camera:        camera,
		RotationSpeed: 10,
		ClearColor:    mgl32.Vec4{0.98, 0.98, 0.98, 1},
	}
}

// Advance rotates the model by RotationSpeed*deltaTime, wrapping at 360.
func (s *Scene) Advance(deltaTime float64) {
	s.Rotation += s.RotationSpeed * float32(deltaTime)
	for s.Rotation > 360 {
		s.Rotation -= 360
	}
}

// ModelMatrix is the rotation applied to every shape of the displayed model.
func (s *Scene) ModelMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(s.Rotation))
}
