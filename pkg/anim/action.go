package anim

import (
	"github.com/chewxy/math32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

// LoopMode controls what happens when an action reaches the end of its clip.
type LoopMode int

// Loop modes.
const (
	// LoopRepeat wraps around to the start of the clip.
	LoopRepeat LoopMode = iota
	// LoopOnce plays the clip a single time and disables the action at the end.
	LoopOnce
)

type boundTrack struct {
	track   *rig.Track
	binding *binding
}

// weightFade linearly scales an action's weight between two mixer times.
type weightFade struct {
	start, end float32
	from, to   float32
}

func (f *weightFade) at(t float32) float32 {
	switch {
	case t <= f.start:
		return f.from
	case t >= f.end:
		return f.to
	}
	return f.from + (f.to-f.from)*(t-f.start)/(f.end-f.start)
}

// Action is the playback state of one clip on a mixer.
type Action struct {
	mixer  *Mixer
	clip   *rig.Clip
	tracks []boundTrack

	time            float32
	weight          float32
	effectiveWeight float32
	enabled         bool
	finished        bool
	loop            LoopMode
	fade            *weightFade

	scratch [4]float32
}

// Clip returns the clip played by the action.
func (a *Action) Clip() *rig.Clip {
	return a.clip
}

// Time returns the local clip time in seconds.
func (a *Action) Time() float32 {
	return a.time
}

// Enabled reports whether the action contributes to the pose.
func (a *Action) Enabled() bool {
	return a.enabled
}

// SetEnabled enables or disables the action without changing its time.
func (a *Action) SetEnabled(enabled bool) *Action {
	a.enabled = enabled
	return a
}

// Finished reports whether a LoopOnce action reached the end of its clip.
func (a *Action) Finished() bool {
	return a.finished
}

// EffectiveWeight returns the weight applied on the last update.
func (a *Action) EffectiveWeight() float32 {
	return a.effectiveWeight
}

// SetLoop sets the loop mode.
func (a *Action) SetLoop(mode LoopMode) *Action {
	a.loop = mode
	return a
}

// Loop returns the loop mode.
func (a *Action) Loop() LoopMode {
	return a.loop
}

// Play activates the action on its mixer.
func (a *Action) Play() *Action {
	a.mixer.activate(a)
	return a
}

// Stop deactivates and resets the action. Joint properties no longer
// animated by any active action return to their rest value.
func (a *Action) Stop() *Action {
	a.mixer.deactivate(a)
	return a.Reset()
}

// Reset rewinds the action, enables it and cancels any fade.
func (a *Action) Reset() *Action {
	a.time = 0
	a.enabled = true
	a.finished = false
	a.fade = nil
	return a
}

// IsRunning reports whether the action is active and enabled.
func (a *Action) IsRunning() bool {
	return a.enabled && a.mixer.isActive(a)
}

// IsFading reports whether a weight fade is scheduled.
func (a *Action) IsFading() bool {
	return a.fade != nil
}

// FadeIn ramps the weight from 0 to 1 over duration seconds.
func (a *Action) FadeIn(duration float32) *Action {
	return a.scheduleFade(duration, 0, 1)
}

// FadeOut ramps the weight from 1 to 0 over duration seconds.
// The action disables itself when the fade completes.
func (a *Action) FadeOut(duration float32) *Action {
	return a.scheduleFade(duration, 1, 0)
}

// CrossFadeTo fades this action out and next in over duration seconds.
func (a *Action) CrossFadeTo(next *Action, duration float32) *Action {
	next.FadeIn(duration)
	return a.FadeOut(duration)
}

func (a *Action) scheduleFade(duration, from, to float32) *Action {
	now := a.mixer.time
	a.fade = &weightFade{
		start: now,
		end:   now + duration,
		from:  from,
		to:    to,
	}
	return a
}

func (a *Action) update(now, dt float32) {
	if !a.enabled {
		a.updateWeight(now)
		return
	}

	clipTime := a.updateTime(dt)
	w := a.updateWeight(now)
	if w <= 0 {
		return
	}

	for _, t := range a.tracks {
		v := a.scratch[:t.track.Path.Width()]
		sample(t.track, clipTime, v)
		t.binding.accumulate(v, w)
	}
}

func (a *Action) updateTime(dt float32) float32 {
	duration := a.clip.Duration
	t := a.time + dt

	if duration <= 0 {
		a.time = 0
		return 0
	}

	if a.loop == LoopOnce {
		switch {
		case t >= duration:
			t = duration
		case t < 0:
			t = 0
		default:
			a.time = t
			return t
		}
		a.time = t
		a.enabled = false
		a.finished = true
		return t
	}

	if t >= duration || t < 0 {
		t -= duration * math32.Floor(t/duration)
	}
	a.time = t
	return t
}

func (a *Action) updateWeight(now float32) float32 {
	var w float32
	if a.enabled {
		w = a.weight
		if f := a.fade; f != nil {
			v := f.at(now)
			w *= v
			if now > f.end {
				a.fade = nil
				if v == 0 {
					a.enabled = false
				}
			}
		}
	}
	a.effectiveWeight = w
	return w
}
