// Package blend runs the idle and gesture animation state machine.
package blend

import (
	"math/rand"
	"time"

	"github.com/mgnsk/wasm-rig-viewer/pkg/anim"
	"github.com/rs/zerolog"
)

// State of the controller.
type State int

// Controller states.
const (
	Idle State = iota
	TransitioningToGesture
	PlayingGesture
	TransitioningToIdle
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TransitioningToGesture:
		return "to-gesture"
	case PlayingGesture:
		return "gesture"
	case TransitioningToIdle:
		return "to-idle"
	default:
		return "unknown"
	}
}

// Timer runs fn once d has elapsed on the frame clock.
type Timer interface {
	After(d time.Duration, fn func())
}

// Default fade durations in seconds.
const (
	DefaultFadeIn  = 0.25
	DefaultFadeOut = 0.25
)

// Options for a Controller.
type Options struct {
	// FadeIn is the idle to gesture cross-fade in seconds.
	FadeIn float32
	// FadeOut is the gesture to idle cross-fade in seconds.
	FadeOut float32
	// Rand picks gestures. Defaults to a time seeded source.
	Rand *rand.Rand
	Log  zerolog.Logger
}

// Controller cross-fades between a looping idle action and one-shot
// gesture actions. At most one gesture sequence runs at a time.
//
// Controller is not safe for concurrent use. It must be driven from the
// goroutine that advances the mixer and the timer.
type Controller struct {
	idle     *anim.Action
	gestures []*anim.Action
	timer    Timer
	rng      *rand.Rand
	log      zerolog.Logger

	fadeIn  float32
	fadeOut float32

	state   State
	busy    bool
	current *anim.Action
}

// New creates a controller in the Idle state. The idle action is expected
// to be playing already.
func New(idle *anim.Action, gestures []*anim.Action, timer Timer, opts Options) *Controller {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Controller{
		idle:     idle,
		gestures: gestures,
		timer:    timer,
		rng:      rng,
		log:      opts.Log,
		fadeIn:   opts.FadeIn,
		fadeOut:  opts.FadeOut,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Busy reports whether a gesture sequence is running.
func (c *Controller) Busy() bool {
	return c.busy
}

// Current returns the gesture being played, or nil when idle.
func (c *Controller) Current() *anim.Action {
	return c.current
}

// Gestures returns the gesture pool.
func (c *Controller) Gestures() []*anim.Action {
	return c.gestures
}

// TriggerRandomGesture starts a random gesture and schedules the return to
// idle. It returns false without side effects while a gesture is running or
// when there are no gestures.
func (c *Controller) TriggerRandomGesture() bool {
	if c.busy {
		c.log.Debug().Stringer("state", c.state).Msg("gesture already running")
		return false
	}

	if len(c.gestures) == 0 {
		c.log.Warn().Msg("no gesture clips to play")
		return false
	}

	g := c.gestures[c.rng.Intn(len(c.gestures))]
	c.busy = true
	c.current = g
	c.state = TransitioningToGesture

	g.SetLoop(anim.LoopOnce).Reset().Play()
	c.idle.CrossFadeTo(g, c.fadeIn)

	c.log.Debug().
		Str("clip", g.Clip().Name).
		Float32("duration", g.Clip().Duration).
		Msg("playing gesture")

	c.timer.After(seconds(c.fadeIn), func() {
		if c.current == g && c.state == TransitioningToGesture {
			c.state = PlayingGesture
		}
	})

	c.timer.After(seconds(g.Clip().Duration-(c.fadeIn+c.fadeOut)), func() {
		c.returnToIdle(g)
	})

	return true
}

func (c *Controller) returnToIdle(g *anim.Action) {
	c.idle.SetEnabled(true)
	g.CrossFadeTo(c.idle, c.fadeOut)
	c.state = TransitioningToIdle

	c.timer.After(seconds(c.fadeOut), func() {
		c.state = Idle
		c.busy = false
		c.current = nil
		c.log.Debug().Str("clip", g.Clip().Name).Msg("gesture finished")
	})
}

func seconds(s float32) time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}
