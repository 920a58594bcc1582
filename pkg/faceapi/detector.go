//go:build js && wasm

// Package faceapi detects face landmarks in a video element with face-api.js.
package faceapi

import (
	"context"
	"syscall/js"

	"github.com/joomcode/errorx"
	"github.com/mgnsk/wasm-rig-viewer/pkg/config"
	"github.com/mgnsk/wasm-rig-viewer/pkg/face"
	"github.com/mgnsk/wasm-rig-viewer/pkg/jsutil"
)

// Detector runs the tiny face detector and the 68 point landmark model on
// the current video frame and draws the result on an overlay canvas.
type Detector struct {
	api     js.Value
	video   js.Value
	overlay js.Value
	ctx2d   js.Value
	options js.Value
	size    js.Value
}

// New creates a detector reading from video. The face-api.js module must
// be available as the global faceapi.
func New(video, overlay js.Value, cfg config.FaceConfig) (*Detector, error) {
	api := js.Global().Get("faceapi")
	if api.IsUndefined() {
		return nil, errorx.IllegalState.New("face-api.js is not loaded")
	}

	return &Detector{
		api:     api,
		video:   video,
		overlay: overlay,
		ctx2d:   overlay.Call("getContext", "2d"),
		options: api.Get("TinyFaceDetectorOptions").New(map[string]interface{}{
			"inputSize":      cfg.InputSize,
			"scoreThreshold": cfg.ScoreThreshold,
		}),
		size: js.ValueOf(map[string]interface{}{
			"width":  cfg.VideoWidth,
			"height": cfg.VideoHeight,
		}),
	}, nil
}

// LoadModels downloads the detector and landmark weights from url.
func (d *Detector) LoadModels(ctx context.Context, url string) error {
	nets := d.api.Get("nets")

	if _, err := jsutil.Await(ctx, nets.Get("tinyFaceDetector").Call("loadFromUri", url)); err != nil {
		return face.DetectFailed.Wrap(err, "load face detector weights from %s", url)
	}
	if _, err := jsutil.Await(ctx, nets.Get("faceLandmark68Net").Call("loadFromUri", url)); err != nil {
		return face.DetectFailed.Wrap(err, "load landmark weights from %s", url)
	}

	return nil
}

// Ready reports whether both models are loaded.
func (d *Detector) Ready() bool {
	nets := d.api.Get("nets")
	return nets.Get("tinyFaceDetector").Get("params").Truthy() &&
		nets.Get("faceLandmark68Net").Get("params").Truthy()
}

// Detect finds the landmarks of a single face in the current video frame.
func (d *Detector) Detect(ctx context.Context) (face.Landmarks, error) {
	task := d.api.Call("detectSingleFace", d.video, d.options).Call("withFaceLandmarks")

	result, err := jsutil.Await(ctx, task)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, face.DetectFailed.Wrap(err, "detect face")
	}
	if result.IsUndefined() || result.IsNull() {
		return nil, face.NoFace.New("no face in frame")
	}

	d.draw(result)

	positions := result.Get("landmarks").Get("positions")
	n := positions.Length()
	landmarks := make(face.Landmarks, n)
	for i := 0; i < n; i++ {
		p := positions.Index(i)
		landmarks[i] = face.Point{
			X: float32(p.Get("x").Float()),
			Y: float32(p.Get("y").Float()),
		}
	}

	return landmarks, nil
}

func (d *Detector) draw(result js.Value) {
	resized := d.api.Call("resizeResults", result, d.size)
	draw := d.api.Get("draw")

	d.ctx2d.Call("clearRect", 0, 0, d.overlay.Get("width"), d.overlay.Get("height"))
	draw.Call("drawDetections", d.overlay, resized)
	draw.Call("drawFaceLandmarks", d.overlay, resized)
}
