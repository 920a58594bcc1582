// Package config provides configuration management for the viewer.
package config

import (
	"io"
	"strings"

	"github.com/joomcode/errorx"
	"github.com/spf13/viper"
)

var (
	// Errors namespace.
	Errors = errorx.NewNamespace("config")
	// Invalid is returned for configuration that cannot be used.
	Invalid = Errors.NewType("invalid")
)

// Config holds all viewer configuration.
type Config struct {
	Model     ModelConfig     `mapstructure:"model"`
	Joints    JointsConfig    `mapstructure:"joints"`
	Animation AnimationConfig `mapstructure:"animation"`
	Face      FaceConfig      `mapstructure:"face"`
	Scene     SceneConfig     `mapstructure:"scene"`
	Camera    CameraConfig    `mapstructure:"camera"`
	Log       LogConfig       `mapstructure:"log"`
}

// ModelConfig configures the character model.
type ModelConfig struct {
	URL     string  `mapstructure:"url"`
	Scale   float32 `mapstructure:"scale"`
	OffsetY float32 `mapstructure:"offset_y"`
}

// JointConfig binds a joint role to a bone.
type JointConfig struct {
	Bone         string  `mapstructure:"bone"`
	LimitDegrees float32 `mapstructure:"limit_degrees"`
}

// JointsConfig configures the directly driven joints.
type JointsConfig struct {
	Neck  JointConfig `mapstructure:"neck"`
	Waist JointConfig `mapstructure:"waist"`
}

// AnimationConfig configures idle and gesture blending.
type AnimationConfig struct {
	Idle    string  `mapstructure:"idle"`
	FadeIn  float32 `mapstructure:"fade_in"`
	FadeOut float32 `mapstructure:"fade_out"`
}

// SmoothingConfig configures face follow springs. Zero frequency disables smoothing.
type SmoothingConfig struct {
	Frequency float64 `mapstructure:"frequency"`
	Damping   float64 `mapstructure:"damping"`
}

// FaceConfig configures webcam face tracking.
type FaceConfig struct {
	Enabled        bool            `mapstructure:"enabled"`
	WeightsURL     string          `mapstructure:"weights_url"`
	InputSize      int             `mapstructure:"input_size"`
	ScoreThreshold float32         `mapstructure:"score_threshold"`
	VideoWidth     int             `mapstructure:"video_width"`
	VideoHeight    int             `mapstructure:"video_height"`
	Smoothing      SmoothingConfig `mapstructure:"smoothing"`
}

// SceneConfig configures the environment around the model.
type SceneConfig struct {
	Background string  `mapstructure:"background"`
	FogNear    float32 `mapstructure:"fog_near"`
	FogFar     float32 `mapstructure:"fog_far"`
	Floor      string  `mapstructure:"floor"`
	FloorY     float32 `mapstructure:"floor_y"`
}

// Vec3 is a point in scene space.
type Vec3 struct {
	X float32 `mapstructure:"x"`
	Y float32 `mapstructure:"y"`
	Z float32 `mapstructure:"z"`
}

// CameraConfig configures the perspective camera.
type CameraConfig struct {
	FOV      float32 `mapstructure:"fov"`
	Near     float32 `mapstructure:"near"`
	Far      float32 `mapstructure:"far"`
	Position Vec3    `mapstructure:"position"`
	Target   Vec3    `mapstructure:"target"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			URL:     "rat.glb",
			Scale:   7,
			OffsetY: -11,
		},
		Joints: JointsConfig{
			Neck:  JointConfig{Bone: "mixamorigNeck", LimitDegrees: 50},
			Waist: JointConfig{Bone: "mixamorigSpine", LimitDegrees: 30},
		},
		Animation: AnimationConfig{
			Idle:    "idle",
			FadeIn:  0.25,
			FadeOut: 0.25,
		},
		Face: FaceConfig{
			Enabled:        true,
			WeightsURL:     "weights",
			InputSize:      224,
			ScoreThreshold: 0.5,
			VideoWidth:     400,
			VideoHeight:    300,
			Smoothing:      SmoothingConfig{Frequency: 0, Damping: 1},
		},
		Scene: SceneConfig{
			Background: "#f1f1f1",
			FogNear:    60,
			FogFar:     100,
			Floor:      "#eeeeee",
			FloorY:     -11,
		},
		Camera: CameraConfig{
			FOV:      50,
			Near:     0.1,
			Far:      1000,
			Position: Vec3{X: 0, Y: -3, Z: 30},
			Target:   Vec3{X: 0, Y: -3, Z: 0},
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load overlays a document in the given format (yaml, json, toml) and the
// VIEWER_ environment on the defaults. A nil reader loads only the defaults
// and the environment.
func Load(r io.Reader, format string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("VIEWER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if r != nil {
		v.SetConfigType(format)
		if err := v.ReadConfig(r); err != nil {
			return nil, Invalid.Wrap(err, "read %s config", format)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, Invalid.Wrap(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Model.URL != "", "model.url is empty")
	check(c.Model.Scale > 0, "model.scale must be positive")
	check(c.Joints.Neck.Bone != "", "joints.neck.bone is empty")
	check(c.Joints.Waist.Bone != "", "joints.waist.bone is empty")
	check(c.Joints.Neck.LimitDegrees > 0, "joints.neck.limit_degrees must be positive")
	check(c.Joints.Waist.LimitDegrees > 0, "joints.waist.limit_degrees must be positive")
	check(c.Animation.Idle != "", "animation.idle is empty")
	check(c.Animation.FadeIn >= 0, "animation.fade_in is negative")
	check(c.Animation.FadeOut >= 0, "animation.fade_out is negative")
	check(c.Face.Smoothing.Frequency >= 0, "face.smoothing.frequency is negative")
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near/far range is empty")
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov out of range")
	if c.Face.Enabled {
		check(c.Face.WeightsURL != "", "face.weights_url is empty")
		check(c.Face.InputSize > 0 && c.Face.InputSize%32 == 0, "face.input_size must be a positive multiple of 32")
		check(c.Face.VideoWidth > 0 && c.Face.VideoHeight > 0, "face video size must be positive")
	}

	if len(problems) > 0 {
		return Invalid.New("%s", strings.Join(problems, "; "))
	}

	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("model.url", d.Model.URL)
	v.SetDefault("model.scale", d.Model.Scale)
	v.SetDefault("model.offset_y", d.Model.OffsetY)

	v.SetDefault("joints.neck.bone", d.Joints.Neck.Bone)
	v.SetDefault("joints.neck.limit_degrees", d.Joints.Neck.LimitDegrees)
	v.SetDefault("joints.waist.bone", d.Joints.Waist.Bone)
	v.SetDefault("joints.waist.limit_degrees", d.Joints.Waist.LimitDegrees)

	v.SetDefault("animation.idle", d.Animation.Idle)
	v.SetDefault("animation.fade_in", d.Animation.FadeIn)
	v.SetDefault("animation.fade_out", d.Animation.FadeOut)

	v.SetDefault("face.enabled", d.Face.Enabled)
	v.SetDefault("face.weights_url", d.Face.WeightsURL)
	v.SetDefault("face.input_size", d.Face.InputSize)
	v.SetDefault("face.score_threshold", d.Face.ScoreThreshold)
	v.SetDefault("face.video_width", d.Face.VideoWidth)
	v.SetDefault("face.video_height", d.Face.VideoHeight)
	v.SetDefault("face.smoothing.frequency", d.Face.Smoothing.Frequency)
	v.SetDefault("face.smoothing.damping", d.Face.Smoothing.Damping)

	v.SetDefault("scene.background", d.Scene.Background)
	v.SetDefault("scene.fog_near", d.Scene.FogNear)
	v.SetDefault("scene.fog_far", d.Scene.FogFar)
	v.SetDefault("scene.floor", d.Scene.Floor)
	v.SetDefault("scene.floor_y", d.Scene.FloorY)

	v.SetDefault("camera.fov", d.Camera.FOV)
	v.SetDefault("camera.near", d.Camera.Near)
	v.SetDefault("camera.far", d.Camera.Far)
	v.SetDefault("camera.position.x", d.Camera.Position.X)
	v.SetDefault("camera.position.y", d.Camera.Position.Y)
	v.SetDefault("camera.position.z", d.Camera.Position.Z)
	v.SetDefault("camera.target.x", d.Camera.Target.X)
	v.SetDefault("camera.target.y", d.Camera.Target.Y)
	v.SetDefault("camera.target.z", d.Camera.Target.Z)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
}
