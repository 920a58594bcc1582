package blend

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/mgnsk/wasm-rig-viewer/pkg/anim"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
	"github.com/rs/zerolog"
)

// Prepare strips the directly driven joints from the idle and gesture clips,
// creates their mixer actions and starts the idle loop.
func Prepare(m *anim.Mixer, idle *rig.Clip, gestures []*rig.Clip, driven []string, log zerolog.Logger) (*anim.Action, []*anim.Action) {
	stripped := idle.StripJoints(driven...)
	for _, c := range gestures {
		stripped += c.StripJoints(driven...)
	}

	if e := log.Debug(); e.Enabled() {
		e.Int("stripped", stripped).
			Str("tracks", spew.Sdump(trackTable(idle))).
			Msg("idle clip")
	}

	idleAction := m.ClipAction(idle).SetLoop(anim.LoopRepeat).Play()

	actions := make([]*anim.Action, 0, len(gestures))
	for _, c := range gestures {
		actions = append(actions, m.ClipAction(c))
	}

	return idleAction, actions
}

func trackTable(c *rig.Clip) []string {
	rows := make([]string, 0, len(c.Tracks))
	for _, t := range c.Tracks {
		rows = append(rows, t.Joint+"."+t.Path.String())
	}
	return rows
}
