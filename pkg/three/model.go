//go:build js && wasm

package three

import (
	"syscall/js"

	"github.com/mgnsk/wasm-rig-viewer/pkg/array"
	"github.com/mgnsk/wasm-rig-viewer/pkg/asset"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
)

// Floats per joint in the pose buffer: translation, rotation (x, y, z, w), scale.
const poseStride = 10

type bone struct {
	joint  int
	object js.Value
}

// AddModel parses the model file with GLTFLoader and adds it to the scene
// once parsed. Poses are not synced before that. Parse errors are logged.
func (s *Scene) AddModel(m *asset.Model) error {
	data := array.NewFromSlice(m.Data).ArrayBuffer()

	s.onLoad = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.attach(args[0].Get("scene"), m)
		s.release()
		return nil
	})
	s.onErr = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.log.Error().Err(js.Error{Value: args[0]}).Msg("three.js could not parse the model")
		s.release()
		return nil
	})

	s.loader.Call("parse", data, "", s.onLoad, s.onErr)

	return nil
}

func (s *Scene) release() {
	s.onLoad.Release()
	s.onErr.Release()
}

func (s *Scene) attach(model js.Value, m *asset.Model) {
	traverse := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		o := args[0]
		if o.Get("isMesh").Truthy() {
			o.Set("castShadow", true)
			o.Set("receiveShadow", true)
		}
		return nil
	})
	model.Call("traverse", traverse)
	traverse.Release()

	model.Get("scale").Call("set", s.modelCfg.Scale, s.modelCfg.Scale, s.modelCfg.Scale)
	model.Get("position").Set("y", s.modelCfg.OffsetY)

	s.bones = s.bones[:0]
	for _, j := range m.Skeleton.Joints {
		if j.Name == "" {
			continue
		}
		o := model.Call("getObjectByName", j.Name)
		if o.IsUndefined() || o.IsNull() {
			continue
		}
		s.bones = append(s.bones, bone{joint: j.Index, object: o})
	}
	s.pose = array.NewBuffer[float32](len(s.bones) * poseStride)

	s.scene.Call("add", model)

	if loader := js.Global().Get("document").Call("getElementById", "js-loader"); !loader.IsNull() {
		loader.Call("remove")
	}

	s.log.Debug().Int("bones", len(s.bones)).Msg("model added to scene")
}

// SyncPose copies the local transforms of s to the scene objects.
func (s *Scene) SyncPose(sk *rig.Skeleton) {
	if s.pose == nil {
		return
	}

	buf := s.pose.Data()
	for i, b := range s.bones {
		j := sk.Joints[b.joint]
		o := buf[i*poseStride : (i+1)*poseStride]
		copy(o[0:3], j.Translation[:])
		o[3], o[4], o[5], o[6] = j.Rotation.V[0], j.Rotation.V[1], j.Rotation.V[2], j.Rotation.W
		copy(o[7:10], j.Scale[:])
	}
	s.pose.Sync()

	arr := s.pose.Array().Value
	for i, b := range s.bones {
		off := i * poseStride
		b.object.Get("position").Call("fromArray", arr, off)
		b.object.Get("quaternion").Call("fromArray", arr, off+3)
		b.object.Get("scale").Call("fromArray", arr, off+7)
	}
}
