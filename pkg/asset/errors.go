package asset

import "github.com/joomcode/errorx"

var (
	// Errors is the asset loading error namespace.
	Errors = errorx.NewNamespace("asset")

	// FetchFailed is returned when the model could not be downloaded.
	FetchFailed = Errors.NewType("fetch_failed")

	// DecodeFailed is returned for malformed model files.
	DecodeFailed = Errors.NewType("decode_failed")

	// MissingClip is returned when a required animation is absent.
	MissingClip = Errors.NewType("missing_clip", errorx.NotFound())
)
