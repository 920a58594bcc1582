package face

import "github.com/joomcode/errorx"

var (
	// Errors is the face detection error namespace.
	Errors = errorx.NewNamespace("face")

	// NoFace is returned by a Detector when the frame contains no face.
	// It carries the NotFound trait and is not a failure.
	NoFace = Errors.NewType("no_face", errorx.NotFound())

	// DetectFailed wraps unexpected detector failures.
	DetectFailed = Errors.NewType("detect_failed")
)

// IsNoFace reports whether err means that no face was found in the frame.
func IsNoFace(err error) bool {
	return errorx.IsOfType(err, NoFace)
}
