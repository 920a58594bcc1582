//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"syscall/js"
	"time"

	"github.com/mgnsk/wasm-rig-viewer/internal/viewer"
	"github.com/mgnsk/wasm-rig-viewer/pkg/asset"
	"github.com/mgnsk/wasm-rig-viewer/pkg/config"
	"github.com/mgnsk/wasm-rig-viewer/pkg/control"
	"github.com/mgnsk/wasm-rig-viewer/pkg/face"
	"github.com/mgnsk/wasm-rig-viewer/pkg/faceapi"
	"github.com/mgnsk/wasm-rig-viewer/pkg/jsutil"
	"github.com/mgnsk/wasm-rig-viewer/pkg/logging"
	"github.com/mgnsk/wasm-rig-viewer/pkg/three"
	"github.com/rs/zerolog"
)

const defaultConfigURL = "viewer.yaml"

var document = js.Global().Get("document")

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	ctx := context.Background()

	cfg, cfgErr := loadConfig(ctx, resolve(configURL()))
	log := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
		App:     "viewer",
	}, os.Stdout)
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("using default configuration")
	}

	canvas := document.Call("querySelector", "#c")
	if canvas.IsNull() {
		panic("canvas #c not found")
	}

	scene, err := three.New(canvas, cfg.Scene, cfg.Model, logging.Component(log, "three"))
	check(err)

	modelURL := resolve(cfg.Model.URL)
	log.Info().Str("url", modelURL).Msg("loading model")

	toggle := newButton("", "200px")
	gesture := newButton("Random animation", "150px")

	app := viewer.New(viewer.Options{
		Config: cfg,
		Scene:  scene,
		Model:  asset.Load(ctx, http.DefaultClient, modelURL),
		Log:    log,
		OnModeChange: func(m control.Mode) {
			toggle.Set("innerHTML", modeLabel(m))
		},
	})
	toggle.Set("innerHTML", modeLabel(app.Mode()))

	jsutil.Listen(toggle, "click", func(js.Value) {
		app.Post(viewer.ModeToggled{})
	})
	jsutil.Listen(gesture, "click", func(js.Value) {
		app.Post(viewer.GestureRequested{})
	})
	jsutil.Listen(document, "mousemove", func(e js.Value) {
		w := js.Global().Get("window")
		app.Post(viewer.PointerMoved{
			X:      float32(e.Get("clientX").Float()),
			Y:      float32(e.Get("clientY").Float()),
			Width:  float32(w.Get("innerWidth").Float()),
			Height: float32(w.Get("innerHeight").Float()),
		})
	})

	jsutil.RequestAnimationFrames(func(ms float64) {
		app.Frame(time.Duration(ms * float64(time.Millisecond)))
	})

	if cfg.Face.Enabled {
		go func() {
			if err := trackFace(ctx, cfg.Face, app, logging.Component(log, "face")); err != nil {
				log.Error().Err(err).Msg("face tracking disabled")
			}
		}()
	}

	select {}
}

func configURL() string {
	q := js.Global().Get("location").Get("search").String()
	if v, err := url.ParseQuery(strings.TrimPrefix(q, "?")); err == nil && v.Get("config") != "" {
		return v.Get("config")
	}
	return defaultConfigURL
}

// resolve makes ref absolute against the document base URL.
func resolve(ref string) string {
	base, err := url.Parse(document.Get("baseURI").String())
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func loadConfig(ctx context.Context, u string) (*config.Config, error) {
	data, err := asset.Fetch(ctx, http.DefaultClient, u)
	if err != nil {
		return config.Default(), err
	}

	format := strings.TrimPrefix(path.Ext(u), ".")
	if format == "yml" {
		format = "yaml"
	}

	cfg, err := config.Load(bytes.NewReader(data), format)
	if err != nil {
		return config.Default(), err
	}

	return cfg, nil
}

func modeLabel(m control.Mode) string {
	if m == control.FaceControl {
		return "Face control"
	}
	return "Mouse control"
}

func newButton(label, bottom string) js.Value {
	b := document.Call("createElement", "button")
	b.Set("innerHTML", label)
	style := b.Get("style")
	style.Set("position", "fixed")
	style.Set("bottom", bottom)
	style.Set("right", "140px")
	style.Set("width", "150px")
	style.Set("height", "50px")
	document.Get("body").Call("appendChild", b)
	return b
}

func newOverlayElement(tag string, width, height int) js.Value {
	el := document.Call("createElement", tag)
	el.Set("width", width)
	el.Set("height", height)
	style := el.Get("style")
	style.Set("position", "fixed")
	style.Set("top", "25px")
	style.Set("right", "20px")
	return el
}

// trackFace opens the webcam and feeds face signals to app until ctx is done.
func trackFace(ctx context.Context, cfg config.FaceConfig, app *viewer.App, log zerolog.Logger) error {
	media := js.Global().Get("navigator").Get("mediaDevices")
	if media.IsUndefined() {
		return face.DetectFailed.New("camera access is not available")
	}

	stream, err := jsutil.Await(ctx, media.Call("getUserMedia", map[string]interface{}{"video": true}))
	if err != nil {
		return face.DetectFailed.Wrap(err, "camera permission")
	}

	video := newOverlayElement("video", cfg.VideoWidth, cfg.VideoHeight)
	overlay := newOverlayElement("canvas", cfg.VideoWidth, cfg.VideoHeight)
	video.Set("srcObject", stream)

	loaded := jsutil.ListenOnce(video, "loadedmetadata")

	video.Call("play")
	body := document.Get("body")
	body.Call("appendChild", video)
	body.Call("appendChild", overlay)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-loaded:
	}

	detector, err := faceapi.New(video, overlay, cfg)
	if err != nil {
		return err
	}

	go func() {
		if err := detector.LoadModels(ctx, resolve(cfg.WeightsURL)); err != nil {
			log.Error().Err(err).Msg("face models not loaded")
			return
		}
		log.Info().Msg("face models loaded")
	}()

	poller := face.NewPoller(detector, log)
	return poller.Run(ctx, jsutil.AnimationFrames(ctx), func(s face.Signal) {
		app.Post(viewer.FaceDetected{Signal: s})
	})
}
