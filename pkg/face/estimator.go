// Package face derives head tilt signals from face landmark detections.
package face

import "github.com/joomcode/errorx"

// Signal is the head tilt estimated from one detection frame, in
// degree-like units.
type Signal struct {
	TiltX float32
	TiltY float32
}

// Landmark picks used by Estimate.
const (
	noseTip   = 3  // nose[3], the lowest bridge point
	jawLeft   = 2  // jaw[2]
	jawRight  = 14 // jaw[14]
	jawBottom = 8  // jaw[8], the chin
)

// jawOffset recentres the vertical signal so that a level head reads near 0.
const jawOffset = 100

// Estimate computes the tilt signal of a landmark set.
//
// TiltX measures how far the nose sits from the middle of the jaw, scaled
// down by 3. TiltY is the negated vertical distance between the left jaw
// point and the chin plus a fixed offset. Negative TiltY is halved.
func Estimate(l Landmarks) (Signal, error) {
	if len(l) < LandmarkCount {
		return Signal{}, errorx.IllegalArgument.New("expected %d landmarks, got %d", LandmarkCount, len(l))
	}

	center := l.Nose()[noseTip]
	jaw := l.JawOutline()
	left := jaw[jawLeft]
	right := jaw[jawRight]
	bottom := jaw[jawBottom]

	tiltX := ((center.X - left.X) - (right.X - center.X)) / 3

	tiltY := -(left.Y - bottom.Y + jawOffset)
	if tiltY < 0 {
		tiltY /= 2
	}

	return Signal{TiltX: tiltX, TiltY: tiltY}, nil
}
