package anim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

type bindingKey struct {
	joint int
	path  rig.Path
}

// binding accumulates the weighted values of every active track
// targeting one joint property.
type binding struct {
	joint  *rig.Joint
	path   rig.Path
	buf    [4]float32
	tmp    [4]float32
	weight float32
	refs   int
}

func (b *binding) accumulate(values []float32, weight float32) {
	if b.weight == 0 {
		copy(b.buf[:], values)
		b.weight = weight
		return
	}

	b.weight += weight
	b.mix(values, weight/b.weight)
}

// apply writes the accumulated value to the joint. Missing weight is taken
// from the rest pose.
func (b *binding) apply() {
	w := b.weight
	b.weight = 0

	if w < 1 {
		rest := b.restValues()
		if w <= 0 {
			copy(b.buf[:], rest)
		} else {
			b.mix(rest, 1-w)
		}
	}

	switch b.path {
	case rig.PathTranslation:
		b.joint.Translation = mgl32.Vec3{b.buf[0], b.buf[1], b.buf[2]}
	case rig.PathRotation:
		b.joint.Rotation = quatOf(b.buf[:]).Normalize()
	case rig.PathScale:
		b.joint.Scale = mgl32.Vec3{b.buf[0], b.buf[1], b.buf[2]}
	}
}

// restore puts the property back to its rest value.
func (b *binding) restore() {
	rest := b.joint.Rest()
	switch b.path {
	case rig.PathTranslation:
		b.joint.Translation = rest.Translation
	case rig.PathRotation:
		b.joint.Rotation = rest.Rotation
	case rig.PathScale:
		b.joint.Scale = rest.Scale
	}
}

func (b *binding) mix(values []float32, t float32) {
	if b.path == rig.PathRotation {
		putQuat(b.buf[:], slerp(quatOf(b.buf[:]), quatOf(values), t))
		return
	}
	for i := 0; i < 3; i++ {
		b.buf[i] += (values[i] - b.buf[i]) * t
	}
}

func (b *binding) restValues() []float32 {
	rest := b.joint.Rest()
	switch b.path {
	case rig.PathTranslation:
		return rest.Translation[:]
	case rig.PathRotation:
		putQuat(b.tmp[:], rest.Rotation)
		return b.tmp[:]
	default:
		return rest.Scale[:]
	}
}
