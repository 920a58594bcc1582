// Package rig holds the skeleton and animation clip model of a character.
package rig

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Joint is a named node of a skeleton with a local transform.
type Joint struct {
	Name   string
	Index  int
	Parent int

	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	rest Transform
}

// Transform is a translation, rotation and scale triple.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// NewJoint creates a joint posed at its rest transform.
func NewJoint(name string, index, parent int, rest Transform) *Joint {
	j := &Joint{
		Name:   name,
		Index:  index,
		Parent: parent,
		rest:   rest,
	}
	j.ResetPose()
	return j
}

// Rest returns the rest transform of the joint.
func (j *Joint) Rest() Transform {
	return j.rest
}

// ResetPose moves the joint back to its rest transform.
func (j *Joint) ResetPose() {
	j.Translation = j.rest.Translation
	j.Rotation = j.rest.Rotation
	j.Scale = j.rest.Scale
}

// Euler returns the local rotation as XYZ-order Euler angles in radians.
func (j *Joint) Euler() (x, y, z float32) {
	return QuatToEuler(j.Rotation)
}

// SetPitchYaw overwrites the X (pitch) and Y (yaw) Euler angles of the local
// rotation, in radians, keeping the current Z angle.
func (j *Joint) SetPitchYaw(pitch, yaw float32) {
	_, _, z := j.Euler()
	j.Rotation = mgl32.AnglesToQuat(pitch, yaw, z, mgl32.XYZ)
}

// QuatToEuler decomposes q into XYZ-order Euler angles in radians.
func QuatToEuler(q mgl32.Quat) (x, y, z float32) {
	m := q.Normalize().Mat4()

	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	y = math32.Asin(mgl32.Clamp(m13, -1, 1))
	if math32.Abs(m13) < 0.9999999 {
		x = math32.Atan2(-m23, m33)
		z = math32.Atan2(-m12, m11)
	} else {
		x = math32.Atan2(m32, m22)
		z = 0
	}

	return x, y, z
}
