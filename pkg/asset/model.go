// Package asset loads rigged character models.
package asset

import (
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

// Model is a decoded character: its node hierarchy and animation clips.
type Model struct {
	Skeleton *rig.Skeleton
	Clips    []*rig.Clip
	// Data is the encoded file, handed unchanged to the renderer.
	Data []byte
}

// Clip returns the clip called name.
func (m *Model) Clip(name string) (*rig.Clip, error) {
	c := rig.FindClip(m.Clips, name)
	if c == nil {
		return nil, MissingClip.New("model has no %q animation", name)
	}
	return c, nil
}

// SplitClips returns the idle clip and every other clip as gestures.
func (m *Model) SplitClips(idle string) (*rig.Clip, []*rig.Clip, error) {
	c, err := m.Clip(idle)
	if err != nil {
		return nil, nil, err
	}
	return c, rig.Except(m.Clips, idle), nil
}
