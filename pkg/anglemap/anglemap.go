// Package anglemap converts pointer positions and face tilt estimates
// into bounded joint rotation angles in degrees.
package anglemap

import (
	"github.com/chewxy/math32"
)

// upScale damps upward pitch; a head tilts up less than it tilts down.
const upScale = 0.5

// MapPointer maps a pointer position on a width x height screen to yaw and
// pitch degrees bounded by limit.
//
// Each axis is split at the screen centre. The distance from the centre
// toward the edge is taken as a fraction of the half extent and scaled by
// limit. Left and up are negative. Both half tests include the centre, so a
// pointer exactly on the centre line resolves to zero on that axis.
func MapPointer(x, y, width, height, limit float32) (yaw, pitch float32) {
	halfW := width / 2
	halfH := height / 2

	// Left.
	if x <= halfW {
		yaw = -limit * (halfW - x) / halfW
	}
	// Right.
	if x >= halfW {
		yaw = limit * (x - halfW) / halfW
	}
	// Up.
	if y <= halfH {
		pitch = -limit * upScale * (halfH - y) / halfH
	}
	// Down.
	if y >= halfH {
		pitch = limit * (y - halfH) / halfH
	}

	return yaw, pitch
}

// MapFaceTilt clamps a face tilt signal into [-limit, limit] on both axes.
func MapFaceTilt(tiltX, tiltY, limit float32) (yaw, pitch float32) {
	return Clamp(tiltX, limit), Clamp(tiltY, limit)
}

// Clamp returns v if |v| < limit, otherwise limit carrying the sign of v.
func Clamp(v, limit float32) float32 {
	if math32.Abs(v) < limit {
		return v
	}
	if v < 0 {
		return -limit
	}
	return limit
}
