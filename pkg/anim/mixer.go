// Package anim plays skeletal animation clips with weighted cross-fades.
package anim

import (
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

// Mixer advances clip actions and writes the blended pose to a skeleton.
//
// Only joint properties animated by at least one active action are written;
// every other joint keeps whatever transform it was given.
type Mixer struct {
	skeleton *rig.Skeleton
	time     float32
	actions  map[*rig.Clip]*Action
	active   []*Action
	bindings map[bindingKey]*binding
	order    []*binding
}

// NewMixer creates a mixer posing s.
func NewMixer(s *rig.Skeleton) *Mixer {
	return &Mixer{
		skeleton: s,
		actions:  make(map[*rig.Clip]*Action),
		bindings: make(map[bindingKey]*binding),
	}
}

// Time returns the mixer's global time in seconds.
func (m *Mixer) Time() float32 {
	return m.time
}

// ClipAction returns the action playing clip, creating it on first use.
// Tracks targeting joints missing from the skeleton are ignored.
func (m *Mixer) ClipAction(clip *rig.Clip) *Action {
	if a, ok := m.actions[clip]; ok {
		return a
	}

	a := &Action{
		mixer:   m,
		clip:    clip,
		weight:  1,
		enabled: true,
		loop:    LoopRepeat,
	}

	for i := range clip.Tracks {
		tr := &clip.Tracks[i]
		j := m.skeleton.Joint(tr.Joint)
		if j == nil {
			continue
		}
		a.tracks = append(a.tracks, boundTrack{track: tr, binding: m.binding(j, tr.Path)})
	}

	m.actions[clip] = a
	return a
}

// Update advances all active actions by dt seconds and applies the pose.
func (m *Mixer) Update(dt float32) {
	m.time += dt

	for _, a := range m.active {
		a.update(m.time, dt)
	}

	for _, b := range m.order {
		if b.refs > 0 {
			b.apply()
		}
	}
}

func (m *Mixer) binding(j *rig.Joint, path rig.Path) *binding {
	key := bindingKey{joint: j.Index, path: path}
	if b, ok := m.bindings[key]; ok {
		return b
	}

	b := &binding{joint: j, path: path}
	m.bindings[key] = b
	m.order = append(m.order, b)
	return b
}

func (m *Mixer) isActive(a *Action) bool {
	for _, x := range m.active {
		if x == a {
			return true
		}
	}
	return false
}

func (m *Mixer) activate(a *Action) {
	if m.isActive(a) {
		return
	}
	m.active = append(m.active, a)
	for _, t := range a.tracks {
		t.binding.refs++
	}
}

func (m *Mixer) deactivate(a *Action) {
	for i, x := range m.active {
		if x != a {
			continue
		}
		m.active = append(m.active[:i], m.active[i+1:]...)
		for _, t := range a.tracks {
			t.binding.refs--
			if t.binding.refs == 0 {
				t.binding.restore()
			}
		}
		return
	}
}
