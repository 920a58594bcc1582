package anim

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

// sample evaluates a track at clip time t into dst.
func sample(tr *rig.Track, t float32, dst []float32) {
	w := tr.Path.Width()
	n := len(tr.Times)
	if n == 0 {
		return
	}

	stride := w
	offset := 0
	if tr.Interpolation == rig.InterpolateCubicSpline {
		stride = 3 * w
		offset = w
	}

	// First keyframe strictly after t.
	next := sort.Search(n, func(i int) bool { return tr.Times[i] > t })
	switch {
	case next == 0:
		copy(dst, tr.Values[offset:offset+w])
		return
	case next == n:
		copy(dst, tr.Values[(n-1)*stride+offset:(n-1)*stride+offset+w])
		return
	}

	prev := next - 1
	t0, t1 := tr.Times[prev], tr.Times[next]
	td := t1 - t0
	s := (t - t0) / td

	switch tr.Interpolation {
	case rig.InterpolateStep:
		copy(dst, tr.Values[prev*stride:prev*stride+w])

	case rig.InterpolateCubicSpline:
		s2 := s * s
		s3 := s2 * s
		h00 := 2*s3 - 3*s2 + 1
		h10 := td * (s3 - 2*s2 + s)
		h01 := -2*s3 + 3*s2
		h11 := td * (s3 - s2)

		v0 := tr.Values[prev*stride+w : prev*stride+2*w]
		b0 := tr.Values[prev*stride+2*w : prev*stride+3*w]
		a1 := tr.Values[next*stride : next*stride+w]
		v1 := tr.Values[next*stride+w : next*stride+2*w]

		for i := 0; i < w; i++ {
			dst[i] = h00*v0[i] + h10*b0[i] + h01*v1[i] + h11*a1[i]
		}
		if tr.Path == rig.PathRotation {
			q := quatOf(dst).Normalize()
			putQuat(dst, q)
		}

	default:
		a := tr.Values[prev*w : prev*w+w]
		b := tr.Values[next*w : next*w+w]
		if tr.Path == rig.PathRotation {
			putQuat(dst, slerp(quatOf(a), quatOf(b), s))
			return
		}
		for i := 0; i < w; i++ {
			dst[i] = a[i] + (b[i]-a[i])*s
		}
	}
}

// slerp interpolates along the shortest arc.
func slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}

	dot := a.Dot(b)
	if dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	}

	if dot > 0.9995 {
		return mgl32.Quat{
			W: a.W + (b.W-a.W)*t,
			V: a.V.Add(b.V.Sub(a.V).Mul(t)),
		}.Normalize()
	}

	theta := math32.Acos(dot)
	sinTheta := math32.Sin(theta)
	wa := math32.Sin((1-t)*theta) / sinTheta
	wb := math32.Sin(t*theta) / sinTheta

	return mgl32.Quat{
		W: a.W*wa + b.W*wb,
		V: a.V.Mul(wa).Add(b.V.Mul(wb)),
	}
}

// quatOf reads an x, y, z, w quaternion.
func quatOf(v []float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

func putQuat(dst []float32, q mgl32.Quat) {
	dst[0], dst[1], dst[2], dst[3] = q.V[0], q.V[1], q.V[2], q.W
}
