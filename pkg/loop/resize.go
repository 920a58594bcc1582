package loop

// NeedsResize reports whether a canvas whose backing store is
// canvasW x canvasH device pixels no longer matches a display area of
// displayW x displayH CSS pixels at the given device pixel ratio.
func NeedsResize(canvasW, canvasH int, pixelRatio float64, displayW, displayH int) bool {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	w := float64(canvasW) / pixelRatio
	h := float64(canvasH) / pixelRatio
	return w != float64(displayW) || h != float64(displayH)
}
