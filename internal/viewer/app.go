// Package viewer holds the application state of the character viewer.
package viewer

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/anim"
	"github.com/mgnsk/wasm-rig-viewer/pkg/asset"
	"github.com/mgnsk/wasm-rig-viewer/pkg/blend"
	"github.com/mgnsk/wasm-rig-viewer/pkg/config"
	"github.com/mgnsk/wasm-rig-viewer/pkg/control"
	"github.com/mgnsk/wasm-rig-viewer/pkg/gfx"
	"github.com/mgnsk/wasm-rig-viewer/pkg/logging"
	"github.com/mgnsk/wasm-rig-viewer/pkg/loop"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
	"github.com/rs/zerolog"
)

// Scene is the rendering backend.
type Scene interface {
	loop.Renderer
	// AddModel adds the model to the scene.
	AddModel(m *asset.Model) error
	// SyncPose copies the skeleton pose to the rendered model.
	SyncPose(s *rig.Skeleton)
}

const eventBuffer = 256

// Options for an App.
type Options struct {
	Config *config.Config
	Scene  Scene
	// Model resolves to the character. The app binds it on the first frame
	// after it is ready.
	Model *asset.Future
	// Rand picks gestures.
	Rand *rand.Rand
	Log  zerolog.Logger
	// OnModeChange is called after the control mode changes.
	OnModeChange func(control.Mode)
}

// App owns the viewer state. Post may be called from any goroutine;
// everything else runs on the goroutine calling Frame or Run.
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	rng    *rand.Rand
	events chan Event

	mode         control.Switch
	onModeChange func(control.Mode)

	scene     Scene
	camera    *gfx.PerspectiveCamera
	scheduler *loop.Scheduler
	driver    *loop.Driver

	model    *asset.Future
	bound    bool
	skeleton *rig.Skeleton
	mixer    *anim.Mixer
	joints   *control.Joints
	follower *control.Follower
	blend    *blend.Controller
}

// New creates an app rendering into opts.Scene.
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	a := &App{
		cfg:          cfg,
		log:          logging.Component(opts.Log, "viewer"),
		rng:          opts.Rand,
		events:       make(chan Event, eventBuffer),
		onModeChange: opts.OnModeChange,
		scene:        opts.Scene,
		camera:       NewCamera(cfg.Camera),
		scheduler:    loop.NewScheduler(),
		model:        opts.Model,
	}

	a.driver = loop.NewDriver(a.scene, a.camera, a.scheduler)
	a.driver.AddHook(a.follow)
	a.driver.AddHook(a.syncPose)

	return a
}

// NewCamera creates the scene camera.
func NewCamera(c config.CameraConfig) *gfx.PerspectiveCamera {
	return gfx.NewPerspectiveCamera(
		mgl32.Vec3{c.Position.X, c.Position.Y, c.Position.Z},
		mgl32.Vec3{c.Target.X, c.Target.Y, c.Target.Z},
		mgl32.Vec3{0, 1, 0},
		mgl32.DegToRad(c.FOV),
		c.Near,
		c.Far,
		1,
	)
}

// Post queues an event without blocking. It reports false and logs the
// dropped event if the queue is full.
func (a *App) Post(e Event) bool {
	select {
	case a.events <- e:
		return true
	default:
		a.log.Debug().Type("event", e).Msg("event queue full, dropping event")
		return false
	}
}

// Mode returns the active control mode.
func (a *App) Mode() control.Mode {
	return a.mode.Mode()
}

// Camera returns the scene camera.
func (a *App) Camera() *gfx.PerspectiveCamera {
	return a.camera
}

// Ready reports whether the model has been bound.
func (a *App) Ready() bool {
	return a.bound
}

// Blend returns the gesture controller, or nil before the model is bound
// or when it has no idle animation.
func (a *App) Blend() *blend.Controller {
	return a.blend
}

// Joints returns the directly driven joints, or nil before the model is bound.
func (a *App) Joints() *control.Joints {
	return a.joints
}

// Run calls Frame for every refresh timestamp until ctx is done or frames is closed.
func (a *App) Run(ctx context.Context, frames <-chan time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			a.Frame(now)
		}
	}
}

// Frame handles queued events, binds the model once it is ready and renders.
func (a *App) Frame(now time.Duration) {
	a.drain()
	a.pollModel()
	a.driver.Tick(now)
}

func (a *App) drain() {
	var pointer *PointerMoved
	defer func() {
		if pointer != nil {
			a.Handle(*pointer)
		}
	}()

	for {
		select {
		case e := <-a.events:
			if p, ok := e.(PointerMoved); ok {
				pointer = &p
				continue
			}
			if pointer != nil {
				a.Handle(*pointer)
				pointer = nil
			}
			a.Handle(e)
		default:
			return
		}
	}
}

// Handle applies a single event.
func (a *App) Handle(e Event) {
	switch e := e.(type) {
	case PointerMoved:
		if a.mode.Mode() == control.MouseControl {
			a.joints.ApplyPointer(e.X, e.Y, e.Width, e.Height)
		}

	case FaceDetected:
		if a.mode.Mode() != control.FaceControl {
			return
		}
		if a.follower != nil {
			a.follower.SetTarget(e.Signal)
		} else {
			a.joints.ApplyFace(e.Signal)
		}

	case ModeToggled:
		m := a.mode.Toggle()
		if a.follower != nil {
			a.follower.Stop()
		}
		a.log.Info().Stringer("mode", m).Msg("control mode changed")
		if a.onModeChange != nil {
			a.onModeChange(m)
		}

	case GestureRequested:
		if a.blend == nil {
			a.log.Debug().Msg("no animations to play yet")
			return
		}
		a.blend.TriggerRandomGesture()
	}
}

func (a *App) pollModel() {
	if a.bound || a.model == nil {
		return
	}

	state, m, err := a.model.Poll()
	switch state {
	case asset.Loading:
		return
	case asset.Failed:
		a.log.Error().Err(err).Msg("model failed to load")
		a.model = nil
		return
	}

	a.bind(m)
}

func (a *App) bind(m *asset.Model) {
	a.bound = true
	a.model = nil

	neck := asset.SanitizeName(a.cfg.Joints.Neck.Bone)
	waist := asset.SanitizeName(a.cfg.Joints.Waist.Bone)

	joints, err := control.NewJoints(m.Skeleton, map[rig.Role]string{
		rig.Neck:  neck,
		rig.Waist: waist,
	}, a.cfg.Joints.Neck.LimitDegrees, a.cfg.Joints.Waist.LimitDegrees)
	if err != nil {
		a.log.Warn().Err(err).Msg("joints will not follow input")
	}
	a.joints = joints

	if s := a.cfg.Face.Smoothing; s.Frequency > 0 {
		a.follower = control.NewFollower(joints, s.Frequency, s.Damping)
	}

	a.skeleton = m.Skeleton
	a.mixer = anim.NewMixer(m.Skeleton)
	a.driver.SetAnimator(a.mixer)

	idle, gestures, err := m.SplitClips(a.cfg.Animation.Idle)
	if err != nil {
		a.log.Error().Err(err).Msg("animations disabled")
	} else {
		log := logging.Component(a.log, "blend")
		idleAction, actions := blend.Prepare(a.mixer, idle, gestures, []string{neck, waist}, log)
		a.blend = blend.New(idleAction, actions, a.scheduler, blend.Options{
			FadeIn:  a.cfg.Animation.FadeIn,
			FadeOut: a.cfg.Animation.FadeOut,
			Rand:    a.rng,
			Log:     log,
		})
	}

	if err := a.scene.AddModel(m); err != nil {
		a.log.Error().Err(err).Msg("model not added to scene")
	}

	a.log.Info().
		Int("joints", len(m.Skeleton.Joints)).
		Int("clips", len(m.Clips)).
		Msg("model ready")
}

func (a *App) follow(dt time.Duration) {
	if a.follower != nil {
		a.follower.Update(dt)
	}
}

func (a *App) syncPose(time.Duration) {
	if a.skeleton != nil {
		a.scene.SyncPose(a.skeleton)
	}
}
