// Package loop drives the per-frame update and render cycle.
package loop

import (
	"time"

	"github.com/mgnsk/wasm-rig-viewer/pkg/gfx"
)

// Animator advances animations by dt seconds.
type Animator interface {
	Update(dt float32)
}

// Surface is the output area of a renderer.
type Surface interface {
	// DisplaySize returns the size the surface should have, in CSS pixels.
	DisplaySize() (width, height int)
	// NeedsResize reports whether the surface differs from the given size.
	NeedsResize(width, height int) bool
	// ApplyResize resizes the surface.
	ApplyResize(width, height int)
}

// Renderer draws the scene as seen by a camera.
type Renderer interface {
	Surface
	Render(camera *gfx.PerspectiveCamera)
}

// Hook runs once per frame after animations are advanced and before rendering.
type Hook func(dt time.Duration)

// Driver runs one frame per display refresh.
type Driver struct {
	renderer  Renderer
	camera    *gfx.PerspectiveCamera
	scheduler *Scheduler
	animator  Animator
	hooks     []Hook

	last    time.Duration
	started bool
	frames  uint64
}

// NewDriver constructor.
func NewDriver(renderer Renderer, camera *gfx.PerspectiveCamera, scheduler *Scheduler) *Driver {
	return &Driver{
		renderer:  renderer,
		camera:    camera,
		scheduler: scheduler,
	}
}

// SetAnimator attaches the animator advanced every frame.
func (d *Driver) SetAnimator(a Animator) {
	d.animator = a
}

// AddHook registers a per-frame hook.
func (d *Driver) AddHook(h Hook) {
	d.hooks = append(d.hooks, h)
}

// Frames returns the number of frames ticked.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Tick runs a frame for the display refresh timestamp now.
// The first frame has zero elapsed time.
func (d *Driver) Tick(now time.Duration) {
	var dt time.Duration
	if d.started {
		dt = now - d.last
		if dt < 0 {
			dt = 0
		}
	}
	d.last = now
	d.started = true
	d.frames++

	if d.animator != nil {
		d.animator.Update(float32(dt.Seconds()))
	}
	d.scheduler.Advance(dt)

	for _, h := range d.hooks {
		h(dt)
	}

	if w, h := d.renderer.DisplaySize(); d.renderer.NeedsResize(w, h) {
		d.renderer.ApplyResize(w, h)
		if h > 0 {
			d.camera.SetAspect(float32(w) / float32(h))
		}
	}

	d.renderer.Render(d.camera)
}
