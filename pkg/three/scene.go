//go:build js && wasm

// Package three renders the viewer scene with three.js.
package three

import (
	"math"
	"syscall/js"

	"github.com/joomcode/errorx"
	"github.com/mgnsk/wasm-rig-viewer/pkg/array"
	"github.com/mgnsk/wasm-rig-viewer/pkg/config"
	"github.com/mgnsk/wasm-rig-viewer/pkg/gfx"
	"github.com/mgnsk/wasm-rig-viewer/pkg/loop"
	"github.com/rs/zerolog"
)

const (
	shadowMapSize = 1024
	shadowExtent  = 8.25
	floorSize     = 5000
)

// Scene is a lit three.js scene with a shadow receiving floor.
type Scene struct {
	three    js.Value
	canvas   js.Value
	renderer js.Value
	scene    js.Value
	camera   js.Value

	modelCfg config.ModelConfig
	loader   js.Value
	log      zerolog.Logger

	bones  []bone
	pose   *array.Buffer[float32]
	onLoad js.Func
	onErr  js.Func
}

// New sets up the scene and renderer on canvas. The three.js module and
// its GLTFLoader must be available as the global THREE.
func New(canvas js.Value, scene config.SceneConfig, model config.ModelConfig, log zerolog.Logger) (*Scene, error) {
	three := js.Global().Get("THREE")
	if three.IsUndefined() {
		return nil, errorx.IllegalState.New("three.js is not loaded")
	}
	if three.Get("GLTFLoader").IsUndefined() {
		return nil, errorx.IllegalState.New("three.js GLTFLoader is not loaded")
	}

	s := &Scene{
		three:    three,
		canvas:   canvas,
		modelCfg: model,
		loader:   three.Get("GLTFLoader").New(),
		log:      log,
	}

	s.renderer = three.Get("WebGLRenderer").New(map[string]interface{}{
		"canvas":    canvas,
		"antialias": true,
	})
	s.renderer.Get("shadowMap").Set("enabled", true)
	s.renderer.Call("setPixelRatio", devicePixelRatio())

	background := three.Get("Color").New(scene.Background)
	s.scene = three.Get("Scene").New()
	s.scene.Set("background", background)
	s.scene.Set("fog", three.Get("Fog").New(background, scene.FogNear, scene.FogFar))

	s.camera = three.Get("PerspectiveCamera").New(50, 1, 0.1, 1000)

	s.addLights()
	s.addFloor(scene)

	return s, nil
}

func (s *Scene) addLights() {
	hemi := s.three.Get("HemisphereLight").New(0xffffff, 0xffffff, 0.61)
	hemi.Get("position").Call("set", 0, 50, 0)
	s.scene.Call("add", hemi)

	dir := s.three.Get("DirectionalLight").New(0xffffff, 0.54)
	dir.Get("position").Call("set", -8, 12, 8)
	dir.Set("castShadow", true)

	shadow := dir.Get("shadow")
	shadow.Set("mapSize", s.three.Get("Vector2").New(shadowMapSize, shadowMapSize))
	cam := shadow.Get("camera")
	cam.Set("near", 0.1)
	cam.Set("far", 1500)
	cam.Set("left", -shadowExtent)
	cam.Set("right", shadowExtent)
	cam.Set("top", shadowExtent)
	cam.Set("bottom", -shadowExtent)

	s.scene.Call("add", dir)
}

func (s *Scene) addFloor(cfg config.SceneConfig) {
	geometry := s.three.Get("PlaneGeometry").New(floorSize, floorSize, 1, 1)
	material := s.three.Get("MeshPhongMaterial").New(map[string]interface{}{
		"color":     cfg.Floor,
		"shininess": 0,
	})

	floor := s.three.Get("Mesh").New(geometry, material)
	floor.Get("rotation").Set("x", -0.5*math.Pi)
	floor.Set("receiveShadow", true)
	floor.Get("position").Set("y", cfg.FloorY)
	s.scene.Call("add", floor)
}

// DisplaySize returns the window size in CSS pixels.
func (s *Scene) DisplaySize() (int, int) {
	w := js.Global().Get("window")
	return w.Get("innerWidth").Int(), w.Get("innerHeight").Int()
}

// NeedsResize reports whether the canvas backing store differs from width x height.
func (s *Scene) NeedsResize(width, height int) bool {
	return loop.NeedsResize(
		s.canvas.Get("width").Int(),
		s.canvas.Get("height").Int(),
		devicePixelRatio(),
		width,
		height,
	)
}

// ApplyResize resizes the drawing buffer without touching the canvas style.
func (s *Scene) ApplyResize(width, height int) {
	s.renderer.Call("setSize", width, height, false)
}

// Render draws the scene as seen by camera.
func (s *Scene) Render(camera *gfx.PerspectiveCamera) {
	s.syncCamera(camera)
	s.renderer.Call("render", s.scene, s.camera)
}

func (s *Scene) syncCamera(c *gfx.PerspectiveCamera) {
	eye, target, up := c.Eye(), c.Target(), c.Up()

	s.camera.Get("position").Call("set", eye.X(), eye.Y(), eye.Z())
	s.camera.Get("up").Call("set", up.X(), up.Y(), up.Z())
	s.camera.Call("lookAt", target.X(), target.Y(), target.Z())

	s.camera.Set("fov", float64(c.FOV())*180/math.Pi)
	s.camera.Set("aspect", c.Aspect())
	s.camera.Set("near", c.Near())
	s.camera.Set("far", c.Far())
	s.camera.Call("updateProjectionMatrix")
}

func devicePixelRatio() float64 {
	r := js.Global().Get("window").Get("devicePixelRatio")
	if r.IsUndefined() {
		return 1
	}
	return r.Float()
}
