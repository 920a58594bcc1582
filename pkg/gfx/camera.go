// Package gfx holds renderer independent graphics types.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveCamera is a camera that uses perspective projection.
type PerspectiveCamera struct {
	eye        mgl32.Vec3
	target     mgl32.Vec3
	up         mgl32.Vec3
	fovRadians float32
	near       float32
	far        float32
	aspect     float32
}

// NewPerspectiveCamera creates a new camera with a vertical field of view
// of fov radians.
func NewPerspectiveCamera(eye, target, up mgl32.Vec3, fov, near, far, aspect float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		eye:        eye,
		target:     target,
		up:         up,
		fovRadians: fov,
		near:       near,
		far:        far,
		aspect:     aspect,
	}
}

// SetAspect updates the width to height ratio after a resize.
func (c *PerspectiveCamera) SetAspect(aspect float32) {
	c.aspect = aspect
}

// Aspect returns the width to height ratio.
func (c *PerspectiveCamera) Aspect() float32 {
	return c.aspect
}

// Eye returns the camera position.
func (c *PerspectiveCamera) Eye() mgl32.Vec3 {
	return c.eye
}

// Target returns the point the camera looks at.
func (c *PerspectiveCamera) Target() mgl32.Vec3 {
	return c.target
}

// Up returns the camera up vector.
func (c *PerspectiveCamera) Up() mgl32.Vec3 {
	return c.up
}

// FOV returns the vertical field of view in radians.
func (c *PerspectiveCamera) FOV() float32 {
	return c.fovRadians
}

// Near returns the near clipping plane distance.
func (c *PerspectiveCamera) Near() float32 {
	return c.near
}

// Far returns the far clipping plane distance.
func (c *PerspectiveCamera) Far() float32 {
	return c.far
}
