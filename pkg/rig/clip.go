package rig

import "sort"

// Path is the joint property animated by a track.
type Path int

// Track paths.
const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Width returns the number of components of one value on the path.
func (p Path) Width() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Interpolation is the keyframe interpolation mode of a track.
type Interpolation int

// Interpolation modes.
const (
	InterpolateLinear Interpolation = iota
	InterpolateStep
	InterpolateCubicSpline
)

// Track animates one property of one joint.
//
// Values holds Path.Width() components per keyframe, or three times that
// for cubic spline tracks (in-tangent, value, out-tangent).
type Track struct {
	Joint         string
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

// Clip is a named, time bounded set of tracks.
type Clip struct {
	Name     string
	Duration float32
	Tracks   []Track
}

// NewClip creates a clip whose duration is the last keyframe time.
func NewClip(name string, tracks []Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, t := range tracks {
		if n := len(t.Times); n > 0 && t.Times[n-1] > c.Duration {
			c.Duration = t.Times[n-1]
		}
	}
	return c
}

// StripJoints removes every track animating one of the named joints.
// It returns the number of removed tracks.
func (c *Clip) StripJoints(names ...string) int {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	kept := c.Tracks[:0]
	for _, t := range c.Tracks {
		if _, ok := drop[t.Joint]; ok {
			continue
		}
		kept = append(kept, t)
	}

	removed := len(c.Tracks) - len(kept)
	c.Tracks = kept
	return removed
}

// Animates reports whether the clip has a track for the named joint.
func (c *Clip) Animates(joint string) bool {
	for _, t := range c.Tracks {
		if t.Joint == joint {
			return true
		}
	}
	return false
}

// FindClip returns the clip called name, or nil.
func FindClip(clips []*Clip, name string) *Clip {
	for _, c := range clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Except returns the clips not called name, sorted by name.
func Except(clips []*Clip, name string) []*Clip {
	var out []*Clip
	for _, c := range clips {
		if c.Name != name {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
