package control

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/anglemap"
	"github.com/mgnsk/wasm-rig-viewer/pkg/face"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

// Default joint limits in degrees.
const (
	DefaultNeckLimit  = 50
	DefaultWaistLimit = 30
)

// Joints references the neck and waist of a loaded skeleton.
// The joints are owned by the skeleton; a nil joint is never written.
type Joints struct {
	Neck       *rig.Joint
	Waist      *rig.Joint
	NeckLimit  float32
	WaistLimit float32
}

// NewJoints resolves the neck and waist roles on s. Roles that could not be
// resolved stay nil and the lookup error is returned alongside.
func NewJoints(s *rig.Skeleton, bones map[rig.Role]string, neckLimit, waistLimit float32) (*Joints, error) {
	resolved, err := s.Resolve(bones)
	return &Joints{
		Neck:       resolved[rig.Neck],
		Waist:      resolved[rig.Waist],
		NeckLimit:  neckLimit,
		WaistLimit: waistLimit,
	}, err
}

// Bound reports whether any joint can be driven.
func (j *Joints) Bound() bool {
	return j != nil && (j.Neck != nil || j.Waist != nil)
}

// ApplyPointer turns the joints toward a pointer position on a
// width x height screen. It returns false if no joint is bound.
func (j *Joints) ApplyPointer(x, y, width, height float32) bool {
	if !j.Bound() {
		return false
	}
	j.each(func(joint *rig.Joint, limit float32) {
		yaw, pitch := anglemap.MapPointer(x, y, width, height, limit)
		setDegrees(joint, pitch, yaw)
	})
	return true
}

// ApplyFace turns the joints by a face signal. It returns false if no joint is bound.
func (j *Joints) ApplyFace(s face.Signal) bool {
	if !j.Bound() {
		return false
	}
	j.each(func(joint *rig.Joint, limit float32) {
		yaw, pitch := anglemap.MapFaceTilt(s.TiltX, s.TiltY, limit)
		setDegrees(joint, pitch, yaw)
	})
	return true
}

func (j *Joints) each(fn func(joint *rig.Joint, limit float32)) {
	if j.Neck != nil {
		fn(j.Neck, j.NeckLimit)
	}
	if j.Waist != nil {
		fn(j.Waist, j.WaistLimit)
	}
}

func setDegrees(joint *rig.Joint, pitch, yaw float32) {
	joint.SetPitchYaw(mgl32.DegToRad(pitch), mgl32.DegToRad(yaw))
}
