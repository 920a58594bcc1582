package control

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/anglemap"
	"github.com/mgnsk/wasm-rig-viewer/pkg/face"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

type axis struct {
	pos, vel float64
	target   float64
}

type followedJoint struct {
	joint      *rig.Joint
	limit      float32
	pitch, yaw axis
}

// Follower eases the joints toward the latest face signal with a damped
// spring per axis instead of snapping to it.
type Follower struct {
	frequency float64
	damping   float64

	spring harmonica.Spring
	step   time.Duration

	joints []*followedJoint
	active bool
}

// NewFollower creates a follower for j. A damping ratio of 1 is critically damped.
func NewFollower(j *Joints, frequency, damping float64) *Follower {
	f := &Follower{
		frequency: frequency,
		damping:   damping,
	}
	j.each(func(joint *rig.Joint, limit float32) {
		f.joints = append(f.joints, &followedJoint{joint: joint, limit: limit})
	})
	return f
}

// Active reports whether the follower is driving the joints.
func (f *Follower) Active() bool {
	return f.active
}

// SetTarget sets the face signal the joints move toward and activates the follower.
// It returns false if no joint is bound.
func (f *Follower) SetTarget(s face.Signal) bool {
	if len(f.joints) == 0 {
		return false
	}

	for _, fj := range f.joints {
		if !f.active {
			x, y, _ := fj.joint.Euler()
			fj.pitch = axis{pos: float64(mgl32.RadToDeg(x))}
			fj.yaw = axis{pos: float64(mgl32.RadToDeg(y))}
		}
		yaw, pitch := anglemap.MapFaceTilt(s.TiltX, s.TiltY, fj.limit)
		fj.yaw.target = float64(yaw)
		fj.pitch.target = float64(pitch)
	}
	f.active = true

	return true
}

// Stop releases the joints. They keep their current rotation.
func (f *Follower) Stop() {
	f.active = false
}

// Update advances the springs by dt and writes the joints.
func (f *Follower) Update(dt time.Duration) {
	if !f.active || dt <= 0 {
		return
	}

	if dt != f.step {
		f.spring = harmonica.NewSpring(dt.Seconds(), f.frequency, f.damping)
		f.step = dt
	}

	for _, fj := range f.joints {
		fj.pitch.pos, fj.pitch.vel = f.spring.Update(fj.pitch.pos, fj.pitch.vel, fj.pitch.target)
		fj.yaw.pos, fj.yaw.vel = f.spring.Update(fj.yaw.pos, fj.yaw.vel, fj.yaw.target)
		setDegrees(fj.joint, float32(fj.pitch.pos), float32(fj.yaw.pos))
	}
}
