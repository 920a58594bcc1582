package viewer_test

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/internal/viewer"
	"github.com/mgnsk/wasm-rig-viewer/pkg/asset"
	"github.com/mgnsk/wasm-rig-viewer/pkg/blend"
	"github.com/mgnsk/wasm-rig-viewer/pkg/config"
	"github.com/mgnsk/wasm-rig-viewer/pkg/control"
	"github.com/mgnsk/wasm-rig-viewer/pkg/face"
	"github.com/mgnsk/wasm-rig-viewer/pkg/gfx"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

const frame = 16 * time.Millisecond

type fakeScene struct {
	width, height int
	renders       int
	models        []*asset.Model
	syncs         int
}

func (s *fakeScene) DisplaySize() (int, int) { return 1000, 800 }
func (s *fakeScene) NeedsResize(w, h int) bool { return s.width != w || s.height != h }
func (s *fakeScene) ApplyResize(w, h int) { s.width, s.height = w, h }
func (s *fakeScene) Render(*gfx.PerspectiveCamera) { s.renders++ }
func (s *fakeScene) AddModel(m *asset.Model) error { s.models = append(s.models, m); return nil }
func (s *fakeScene) SyncPose(*rig.Skeleton) { s.syncs++ }

func translation(joint string, x, duration float32) rig.Track {
	return rig.Track{
		Joint:  joint,
		Path:   rig.PathTranslation,
		Times:  []float32{0, duration},
		Values: []float32{x, 0, 0, x, 0, 0},
	}
}

func rotation(joint string, duration float32) rig.Track {
	q := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	v := []float32{q.V[0], q.V[1], q.V[2], q.W}
	return rig.Track{
		Joint:  joint,
		Path:   rig.PathRotation,
		Times:  []float32{0, duration},
		Values: append(v, v...),
	}
}

func testModel() *asset.Model {
	rest := rig.Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
	return &asset.Model{
		Skeleton: rig.NewSkeleton([]*rig.Joint{
			rig.NewJoint("mixamorigHips", 0, -1, rest),
			rig.NewJoint("mixamorigSpine", 1, 0, rest),
			rig.NewJoint("mixamorigNeck", 2, 1, rest),
			rig.NewJoint("mixamorigRightHand", 3, 1, rest),
		}),
		Clips: []*rig.Clip{
			rig.NewClip("idle", []rig.Track{
				translation("mixamorigHips", 1, 2),
				rotation("mixamorigNeck", 2),
				rotation("mixamorigSpine", 2),
			}),
			rig.NewClip("wave", []rig.Track{
				translation("mixamorigRightHand", 2, 1.5),
				rotation("mixamorigNeck", 1.5),
			}),
		},
	}
}

type harness struct {
	app   *viewer.App
	scene *fakeScene
	model *asset.Future
	now   time.Duration
	modes []control.Mode
}

func newHarness(mutate func(*config.Config)) *harness {
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	h := &harness{
		scene: &fakeScene{},
		model: asset.NewFuture(),
	}
	h.app = viewer.New(viewer.Options{
		Config: cfg,
		Scene:  h.scene,
		Model:  h.model,
		Rand:   rand.New(rand.NewSource(1)),
		Log:    zerolog.Nop(),
		OnModeChange: func(m control.Mode) {
			h.modes = append(h.modes, m)
		},
	})
	return h
}

func (h *harness) frames(n int) {
	for i := 0; i < n; i++ {
		h.app.Frame(h.now)
		h.now += frame
	}
}

func yawDegrees(j *rig.Joint) float32 {
	_, y, _ := j.Euler()
	return mgl32.RadToDeg(y)
}

func TestRendersBeforeModelIsReady(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(nil)
	g.Expect(h.app.Post(viewer.PointerMoved{X: 0, Y: 0, Width: 1000, Height: 800})).To(BeTrue())
	g.Expect(h.app.Post(viewer.GestureRequested{})).To(BeTrue())
	h.frames(3)

	g.Expect(h.scene.renders).To(Equal(3))
	g.Expect(h.scene.syncs).To(BeZero())
	g.Expect(h.app.Ready()).To(BeFalse())
	g.Expect(h.app.Joints()).To(BeNil())
	g.Expect(h.scene.width).To(Equal(1000))
	g.Expect(h.app.Camera().Aspect()).To(Equal(float32(1.25)))
}

func TestBindsModelOnce(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(nil)
	h.frames(1)

	m := testModel()
	h.model.Resolve(m, nil)
	h.frames(3)

	g.Expect(h.app.Ready()).To(BeTrue())
	g.Expect(h.scene.models).To(Equal([]*asset.Model{m}))
	g.Expect(h.scene.syncs).To(Equal(3))

	// Driven joints are left out of the clips.
	idle := rig.FindClip(m.Clips, "idle")
	g.Expect(idle.Animates("mixamorigNeck")).To(BeFalse())
	g.Expect(idle.Animates("mixamorigSpine")).To(BeFalse())
	g.Expect(m.Skeleton.Joint("mixamorigHips").Translation.X()).To(BeNumerically("~", 1, 1e-5))

	b := h.app.Blend()
	g.Expect(b).NotTo(BeNil())
	g.Expect(b.Gestures()).To(HaveLen(1))
}

func TestFailedModelKeepsRendering(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(nil)
	h.model.Resolve(nil, asset.FetchFailed.New("GET rat.glb: 404 Not Found"))
	h.frames(5)

	g.Expect(h.app.Ready()).To(BeFalse())
	g.Expect(h.scene.renders).To(Equal(5))
	g.Expect(h.scene.models).To(BeEmpty())
}

func TestPointerDrivesJointsInMouseMode(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(nil)
	h.model.Resolve(testModel(), nil)
	h.frames(1)

	neck := h.app.Joints().Neck
	waist := h.app.Joints().Waist

	h.app.Post(viewer.PointerMoved{X: 1000, Y: 400, Width: 1000, Height: 800})
	h.app.Post(viewer.PointerMoved{X: 0, Y: 400, Width: 1000, Height: 800})
	h.frames(1)

	g.Expect(yawDegrees(neck)).To(BeNumerically("~", -50, 1e-3))
	g.Expect(yawDegrees(waist)).To(BeNumerically("~", -30, 1e-3))

	// Face signals are ignored in mouse mode.
	h.app.Post(viewer.FaceDetected{Signal: face.Signal{TiltX: 10}})
	h.frames(1)
	g.Expect(yawDegrees(neck)).To(BeNumerically("~", -50, 1e-3))
}

func TestToggleSwitchesInputSource(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(nil)
	h.model.Resolve(testModel(), nil)
	h.frames(1)
	neck := h.app.Joints().Neck

	// The pointer event before the toggle still applies.
	h.app.Post(viewer.PointerMoved{X: 1000, Y: 400, Width: 1000, Height: 800})
	h.app.Post(viewer.ModeToggled{})
	h.app.Post(viewer.PointerMoved{X: 0, Y: 400, Width: 1000, Height: 800})
	h.frames(1)

	g.Expect(h.app.Mode()).To(Equal(control.FaceControl))
	g.Expect(h.modes).To(Equal([]control.Mode{control.FaceControl}))
	g.Expect(yawDegrees(neck)).To(BeNumerically("~", 50, 1e-3))

	h.app.Post(viewer.FaceDetected{Signal: face.Signal{TiltX: 80, TiltY: -10}})
	h.frames(1)
	g.Expect(yawDegrees(neck)).To(BeNumerically("~", 50, 1e-3))
	g.Expect(yawDegrees(h.app.Joints().Waist)).To(BeNumerically("~", 30, 1e-3))

	h.app.Post(viewer.FaceDetected{Signal: face.Signal{TiltX: -12}})
	h.frames(1)
	g.Expect(yawDegrees(neck)).To(BeNumerically("~", -12, 1e-3))

	h.app.Post(viewer.ModeToggled{})
	h.frames(1)
	g.Expect(h.app.Mode()).To(Equal(control.MouseControl))
	g.Expect(h.modes).To(Equal([]control.Mode{control.FaceControl, control.MouseControl}))
}

func TestSmoothedFaceFollow(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(func(c *config.Config) {
		c.Face.Smoothing.Frequency = 8
	})
	h.model.Resolve(testModel(), nil)
	h.frames(1)
	neck := h.app.Joints().Neck

	h.app.Post(viewer.ModeToggled{})
	h.app.Post(viewer.FaceDetected{Signal: face.Signal{TiltX: 20}})
	h.frames(2)

	yaw := yawDegrees(neck)
	g.Expect(yaw).To(BeNumerically(">", 0))
	g.Expect(yaw).To(BeNumerically("<", 20))

	h.frames(240)
	g.Expect(yawDegrees(neck)).To(BeNumerically("~", 20, 0.01))
}

func TestGestureRoundTrip(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(nil)
	h.model.Resolve(testModel(), nil)
	h.frames(1)
	b := h.app.Blend()

	h.app.Post(viewer.GestureRequested{})
	h.frames(1)
	g.Expect(b.Busy()).To(BeTrue())
	g.Expect(b.Current().Clip().Name).To(Equal("wave"))

	h.app.Post(viewer.GestureRequested{})
	h.frames(30)
	g.Expect(b.State()).To(Equal(blend.PlayingGesture))

	// wave lasts 1.5s.
	h.frames(80)
	g.Expect(b.State()).To(Equal(blend.Idle))
	g.Expect(b.Busy()).To(BeFalse())
}

func TestRunStopsWithFrames(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(nil)
	frames := make(chan time.Duration, 3)
	frames <- 0
	frames <- frame
	frames <- 2 * frame
	close(frames)

	g.Expect(h.app.Run(context.Background(), frames)).To(Succeed())
	g.Expect(h.scene.renders).To(Equal(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g.Expect(h.app.Run(ctx, make(chan time.Duration))).To(MatchError(context.Canceled))
}

func TestMissingBonesAreSkipped(t *testing.T) {
	g := NewGomegaWithT(t)

	h := newHarness(func(c *config.Config) {
		c.Joints.Neck.Bone = "Head"
		c.Animation.Idle = "breathing"
	})
	h.model.Resolve(testModel(), nil)
	h.frames(1)

	g.Expect(h.app.Ready()).To(BeTrue())
	g.Expect(h.app.Joints().Neck).To(BeNil())
	g.Expect(h.app.Blend()).To(BeNil())

	h.app.Post(viewer.PointerMoved{X: 0, Y: 400, Width: 1000, Height: 800})
	h.app.Post(viewer.GestureRequested{})
	h.frames(1)

	g.Expect(yawDegrees(h.app.Joints().Waist)).To(BeNumerically("~", -30, 1e-3))
}

func TestPostReportsDroppedEvents(t *testing.T) {
	g := NewGomegaWithT(t)

	var logs bytes.Buffer
	app := viewer.New(viewer.Options{
		Scene: &fakeScene{},
		Model: asset.NewFuture(),
		Rand:  rand.New(rand.NewSource(1)),
		Log:   zerolog.New(&logs).Level(zerolog.DebugLevel),
	})

	accepted := 0
	for i := 0; i < 1000; i++ {
		if !app.Post(viewer.GestureRequested{}) {
			break
		}
		accepted++
	}

	g.Expect(accepted).To(Equal(256))
	g.Expect(logs.String()).To(ContainSubstring("dropping event"))
	g.Expect(logs.String()).To(ContainSubstring("GestureRequested"))

	app.Frame(0)
	g.Expect(app.Post(viewer.ModeToggled{})).To(BeTrue())
	app.Frame(frame)
	g.Expect(app.Mode()).To(Equal(control.FaceControl))
}
