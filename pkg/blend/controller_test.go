package blend_test

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/anim"
	"github.com/mgnsk/wasm-rig-viewer/pkg/blend"
	"github.com/mgnsk/wasm-rig-viewer/pkg/loop"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

const (
	frame     = float32(1) / 60
	frameTime = time.Second / 60
)

type fixture struct {
	skeleton  *rig.Skeleton
	mixer     *anim.Mixer
	scheduler *loop.Scheduler
	idle      *anim.Action
	gestures  []*anim.Action
	clips     []*rig.Clip
}

func translation(joint string, x, duration float32) rig.Track {
	return rig.Track{
		Joint:  joint,
		Path:   rig.PathTranslation,
		Times:  []float32{0, duration},
		Values: []float32{x, 0, 0, x, 0, 0},
	}
}

func nod(joint string, duration float32) rig.Track {
	q := mgl32.QuatRotate(mgl32.DegToRad(20), mgl32.Vec3{1, 0, 0})
	return rig.Track{
		Joint:  joint,
		Path:   rig.PathRotation,
		Times:  []float32{0, duration},
		Values: []float32{q.V[0], q.V[1], q.V[2], q.W, q.V[0], q.V[1], q.V[2], q.W},
	}
}

func newFixture(gestureNames ...string) *fixture {
	rest := rig.Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
	s := rig.NewSkeleton([]*rig.Joint{
		rig.NewJoint("hips", 0, -1, rest),
		rig.NewJoint("spine", 1, 0, rest),
		rig.NewJoint("neck", 2, 1, rest),
		rig.NewJoint("arm", 3, 1, rest),
	})

	idle := rig.NewClip("idle", []rig.Track{
		translation("hips", 1, 1),
		nod("neck", 1),
		nod("spine", 1),
	})

	all := map[string]*rig.Clip{
		"wave":  rig.NewClip("wave", []rig.Track{translation("arm", 3, 2), nod("neck", 2)}),
		"shrug": rig.NewClip("shrug", []rig.Track{translation("arm", -2, 1.5), nod("spine", 1.5)}),
		"bow":   rig.NewClip("bow", []rig.Track{translation("hips", 5, 3)}),
		"flick": rig.NewClip("flick", []rig.Track{translation("arm", 1, 0.3)}),
	}

	var gestures []*rig.Clip
	for _, name := range gestureNames {
		gestures = append(gestures, all[name])
	}

	m := anim.NewMixer(s)
	idleAction, actions := blend.Prepare(m, idle, gestures, []string{"neck", "spine"}, zerolog.Nop())

	return &fixture{
		skeleton:  s,
		mixer:     m,
		scheduler: loop.NewScheduler(),
		idle:      idleAction,
		gestures:  actions,
		clips:     gestures,
	}
}

func (f *fixture) controller(seed int64) *blend.Controller {
	return blend.New(f.idle, f.gestures, f.scheduler, blend.Options{
		FadeIn:  blend.DefaultFadeIn,
		FadeOut: blend.DefaultFadeOut,
		Rand:    rand.New(rand.NewSource(seed)),
		Log:     zerolog.Nop(),
	})
}

// run advances the mixer and scheduler together for the given seconds.
func (f *fixture) run(seconds float32) {
	for t := float32(0); t < seconds; t += frame {
		f.mixer.Update(frame)
		f.scheduler.Advance(frameTime)
	}
}

var _ = Describe("Prepare", func() {
	It("strips the driven joints from every clip and starts the idle loop", func() {
		f := newFixture("wave", "shrug")

		Expect(f.idle.Clip().Animates("neck")).To(BeFalse())
		Expect(f.idle.Clip().Animates("spine")).To(BeFalse())
		Expect(f.idle.Clip().Animates("hips")).To(BeTrue())
		for _, c := range f.clips {
			Expect(c.Animates("neck")).To(BeFalse())
			Expect(c.Animates("spine")).To(BeFalse())
		}

		Expect(f.idle.IsRunning()).To(BeTrue())
		Expect(f.idle.Loop()).To(Equal(anim.LoopRepeat))
		for _, g := range f.gestures {
			Expect(g.IsRunning()).To(BeFalse())
		}
	})

	It("leaves the driven joints to their owner", func() {
		f := newFixture("wave")
		neck := f.skeleton.Joint("neck")
		neck.SetPitchYaw(0.2, -0.3)

		f.run(0.5)

		x, y, _ := neck.Euler()
		Expect(x).To(BeNumerically("~", 0.2, 1e-4))
		Expect(y).To(BeNumerically("~", -0.3, 1e-4))
	})
})

var _ = Describe("Controller", func() {
	It("starts idle", func() {
		f := newFixture("wave")
		c := f.controller(1)

		Expect(c.State()).To(Equal(blend.Idle))
		Expect(c.Busy()).To(BeFalse())
		Expect(c.Current()).To(BeNil())
	})

	It("walks through every state of a gesture sequence", func() {
		f := newFixture("wave")
		c := f.controller(1)
		hips := f.skeleton.Joint("hips")

		f.run(0.1)
		Expect(hips.Translation.X()).To(BeNumerically("~", 1, 1e-5))

		Expect(c.TriggerRandomGesture()).To(BeTrue())
		Expect(c.State()).To(Equal(blend.TransitioningToGesture))
		Expect(c.Busy()).To(BeTrue())
		Expect(c.Current()).To(Equal(f.gestures[0]))
		Expect(c.Current().Loop()).To(Equal(anim.LoopOnce))

		// wave lasts 2s: to-gesture until 0.25s, to-idle from 1.5s to 1.75s.
		f.run(0.4)
		Expect(c.State()).To(Equal(blend.PlayingGesture))
		Expect(f.idle.Enabled()).To(BeFalse())
		Expect(hips.Translation.X()).To(BeNumerically("~", 0, 1e-5))
		Expect(f.skeleton.Joint("arm").Translation.X()).To(BeNumerically("~", 3, 1e-5))

		f.run(1.2)
		Expect(c.State()).To(Equal(blend.TransitioningToIdle))
		Expect(c.Busy()).To(BeTrue())
		Expect(f.idle.Enabled()).To(BeTrue())

		f.run(0.4)
		Expect(c.State()).To(Equal(blend.Idle))
		Expect(c.Busy()).To(BeFalse())
		Expect(c.Current()).To(BeNil())
		Expect(f.scheduler.Pending()).To(BeZero())
	})

	It("ignores triggers while a gesture is running", func() {
		f := newFixture("wave", "shrug", "bow")
		c := f.controller(7)

		Expect(c.TriggerRandomGesture()).To(BeTrue())
		current := c.Current()
		pending := f.scheduler.Pending()

		f.run(0.1)
		Expect(c.TriggerRandomGesture()).To(BeFalse())
		Expect(c.Current()).To(Equal(current))
		Expect(c.State()).To(Equal(blend.TransitioningToGesture))

		f.run(0.5)
		Expect(c.TriggerRandomGesture()).To(BeFalse())
		Expect(c.Current()).To(Equal(current))
		Expect(c.State()).To(Equal(blend.PlayingGesture))
		Expect(f.scheduler.Pending()).To(Equal(pending - 1))
	})

	It("does nothing without gestures", func() {
		f := newFixture()
		c := f.controller(1)

		Expect(c.TriggerRandomGesture()).To(BeFalse())
		Expect(c.State()).To(Equal(blend.Idle))
		Expect(c.Busy()).To(BeFalse())
		Expect(f.scheduler.Pending()).To(BeZero())
	})

	It("picks gestures from the whole pool", func() {
		f := newFixture("wave", "shrug", "bow")
		c := f.controller(42)

		seen := map[string]bool{}
		for i := 0; i < 30 && len(seen) < 3; i++ {
			Expect(c.TriggerRandomGesture()).To(BeTrue())
			seen[c.Current().Clip().Name] = true
			f.run(c.Current().Clip().Duration + 0.2)
			Expect(c.Busy()).To(BeFalse())
		}

		Expect(seen).To(HaveLen(3))
	})

	It("returns to idle when a gesture is shorter than both fades", func() {
		f := newFixture("flick")
		c := f.controller(1)

		Expect(c.TriggerRandomGesture()).To(BeTrue())
		g := c.Current()

		// The fade back starts on the first scheduler step.
		f.run(frame)
		Expect(c.State()).To(Equal(blend.TransitioningToIdle))

		f.run(1)
		Expect(c.State()).To(Equal(blend.Idle))
		Expect(c.Busy()).To(BeFalse())
		Expect(f.scheduler.Pending()).To(BeZero())
		Expect(f.idle.EffectiveWeight()).To(BeNumerically("~", 1, 1e-5))
		Expect(g.Enabled()).To(BeFalse())
		Expect(f.skeleton.Joint("hips").Translation.X()).To(BeNumerically("~", 1, 1e-5))
	})

	DescribeTable("returns to idle after any gesture",
		func(name string) {
			f := newFixture(name)
			c := f.controller(1)

			Expect(c.TriggerRandomGesture()).To(BeTrue())
			Expect(c.Current().Clip().Name).To(Equal(name))
			g := c.Current()

			f.run(g.Clip().Duration + 0.2)

			Expect(c.State()).To(Equal(blend.Idle))
			Expect(c.Busy()).To(BeFalse())
			Expect(f.idle.IsRunning()).To(BeTrue())
			Expect(f.idle.IsFading()).To(BeFalse())
			Expect(f.idle.EffectiveWeight()).To(BeNumerically("~", 1, 1e-5))
			Expect(g.Enabled()).To(BeFalse())
			Expect(f.skeleton.Joint("hips").Translation.X()).To(BeNumerically("~", 1, 1e-5))

			// A new sequence can start.
			Expect(c.TriggerRandomGesture()).To(BeTrue())
		},
		Entry("wave", "wave"),
		Entry("shrug", "shrug"),
		Entry("bow", "bow"),
	)
})
