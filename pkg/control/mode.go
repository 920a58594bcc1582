// Package control applies pointer and face input to the directly driven joints.
package control

import "sync/atomic"

// Mode selects the input source that drives the joints.
type Mode int32

// Control modes.
const (
	MouseControl Mode = iota
	FaceControl
)

func (m Mode) String() string {
	if m == FaceControl {
		return "face"
	}
	return "mouse"
}

// Switch holds the active control mode. It is safe for concurrent use.
type Switch struct {
	mode atomic.Int32
}

// Mode returns the active mode.
func (s *Switch) Mode() Mode {
	return Mode(s.mode.Load())
}

// Set sets the active mode.
func (s *Switch) Set(m Mode) {
	s.mode.Store(int32(m))
}

// Toggle flips the mode and returns the new one.
func (s *Switch) Toggle() Mode {
	for {
		old := s.mode.Load()
		next := int32(FaceControl)
		if Mode(old) == FaceControl {
			next = int32(MouseControl)
		}
		if s.mode.CompareAndSwap(old, next) {
			return Mode(next)
		}
	}
}
