package components

import (
	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Represents a look-at camera with a perspective projection.
 * Fields are edited in place by the control panel; matrices are derived
 * on demand.
 */
type Camera struct {
	// "eye" of the look-at transform.
	Position mgl32.Vec3
	// "center" of the look-at transform.
	Target mgl32.Vec3
	Up     mgl32.Vec3
	// Vertical field of view in degrees, kept in [0, 180].
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	initial cameraState
}

type cameraState struct {
	position, target, up mgl32.Vec3
	fov                  float32
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

// NewCamera creates a camera and remembers its parameters for Reset.
func NewCamera(position, target, up mgl32.Vec3, fov, aspect float32) *Camera {
	c := &Camera{
		Aspect: aspect,
		Near:   0.1,
		Far:    100.0,
		initial: cameraState{
			position: position,
			target:   target,
			up:       up,
			fov:      fov,
		},
	}
	c.Reset()
	return c
}

// NewDefaultCamera looks at the origin from (0,0,3) with a 45 degree field of view.
func NewDefaultCamera(aspect float32) *Camera {
	return NewCamera(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 45.0, aspect)
}

// Reset restores position, target, up vector and field of view. The aspect ratio is kept.
func (c *Camera) Reset() {
	c.Position = c.initial.position
	c.Target = c.initial.target
	c.Up = c.initial.up
	c.FOV = c.initial.fov
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	fov := mgl32.Clamp(c.FOV, 0.01, 179.99)
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(fov), aspect, c.Near, c.Far)
}

// SetViewport updates the aspect ratio from a viewport size. Zero sizes are ignored.
func (c *Camera) SetViewport(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Dolly moves the camera along its viewing direction without passing the target.
func (c *Camera) Dolly(distance float32) {
	dir := c.Target.Sub(c.Position)
	length := dir.Len()
	if length == 0 {
		return
	}
	if distance >= length {
		distance = length - 0.01
	}
	c.Position = c.Position.Add(dir.Normalize().Mul(distance))
}
