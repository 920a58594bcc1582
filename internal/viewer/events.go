package viewer

import "github.com/mgnsk/wasm-rig-viewer/pkg/face"

// Event is an input handled by the App.
type Event interface {
	event()
}

// PointerMoved is a pointer position on a Width x Height screen.
// Consecutive pointer events are coalesced to the latest one.
type PointerMoved struct {
	X, Y          float32
	Width, Height float32
}

// FaceDetected carries the tilt signal of one detection.
type FaceDetected struct {
	Signal face.Signal
}

// ModeToggled switches between mouse and face control.
type ModeToggled struct{}

// GestureRequested asks for a random gesture.
type GestureRequested struct{}

func (PointerMoved) event()     {}
func (FaceDetected) event()     {}
func (ModeToggled) event()      {}
func (GestureRequested) event() {}
