package face

// Point is a landmark position in video pixel coordinates.
type Point struct {
	X, Y float32
}

// LandmarkCount is the size of the 68 point landmark model.
const LandmarkCount = 68

// Landmark ranges of the 68 point model.
const (
	jawStart  = 0
	jawEnd    = 17
	noseStart = 27
	noseEnd   = 36
)

// Landmarks is a full 68 point face landmark set.
type Landmarks []Point

// JawOutline returns the 17 jaw outline points, left ear to right ear.
func (l Landmarks) JawOutline() []Point {
	return l[jawStart:jawEnd]
}

// Nose returns the 9 nose points, bridge first.
func (l Landmarks) Nose() []Point {
	return l[noseStart:noseEnd]
}
