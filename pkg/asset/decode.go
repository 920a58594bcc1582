package asset

import (
	"bytes"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mgnsk/wasm-rig-viewer/pkg/rig"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/exp/constraints"
)

// Decode reads a glTF or GLB model. Buffers must be embedded.
func Decode(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, DecodeFailed.Wrap(err, "read model")
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory glTF or GLB model.
func DecodeBytes(data []byte) (*Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, DecodeFailed.Wrap(err, "decode gltf")
	}

	skeleton, names := decodeSkeleton(doc)

	clips := make([]*rig.Clip, 0, len(doc.Animations))
	for i, a := range doc.Animations {
		clip, err := decodeClip(doc, a, i, names)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}

	return &Model{
		Skeleton: skeleton,
		Clips:    clips,
		Data:     data,
	}, nil
}

func decodeSkeleton(doc *gltf.Document) (*rig.Skeleton, []string) {
	parents := make([]int, len(doc.Nodes))
	for i := range parents {
		parents[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) >= 0 && int(c) < len(parents) {
				parents[int(c)] = i
			}
		}
	}

	unique := uniqueNames{}
	names := make([]string, len(doc.Nodes))
	joints := make([]*rig.Joint, 0, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.Name != "" {
			names[i] = unique.next(n.Name)
		}
		joints = append(joints, rig.NewJoint(names[i], i, parents[i], nodeTransform(n)))
	}

	return rig.NewSkeleton(joints), names
}

func nodeTransform(n *gltf.Node) rig.Transform {
	var m mgl32.Mat4
	for i := range m {
		m[i] = float32(n.Matrix[i])
	}
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return decompose(m)
	}

	t := rig.Transform{
		Translation: mgl32.Vec3{float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2])},
		Rotation: mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		},
		Scale: mgl32.Vec3{float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2])},
	}

	if t.Rotation.Len() == 0 {
		t.Rotation = mgl32.QuatIdent()
	} else {
		t.Rotation = t.Rotation.Normalize()
	}
	if t.Scale == (mgl32.Vec3{}) {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}

	return t
}

func decompose(m mgl32.Mat4) rig.Transform {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()

	rot := m
	for i, s := range [3]float32{sx, sy, sz} {
		if s == 0 {
			continue
		}
		rot.SetCol(i, m.Col(i).Mul(1/s))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

	return rig.Transform{
		Translation: m.Col(3).Vec3(),
		Rotation:    mgl32.Mat4ToQuat(rot).Normalize(),
		Scale:       mgl32.Vec3{sx, sy, sz},
	}
}

func decodeClip(doc *gltf.Document, a *gltf.Animation, index int, names []string) (*rig.Clip, error) {
	name := a.Name
	if name == "" {
		name = "animation_" + strconv.Itoa(index)
	}

	tracks := make([]rig.Track, 0, len(a.Channels))
	for _, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		node := int(*ch.Target.Node)
		if node < 0 || node >= len(names) || names[node] == "" {
			continue
		}

		path, ok := trackPath(ch.Target.Path)
		if !ok {
			continue
		}

		si := int(ch.Sampler)
		if si < 0 || si >= len(a.Samplers) {
			return nil, DecodeFailed.New("animation %q: sampler %d out of range", name, si)
		}
		s := a.Samplers[si]

		times, err := readFloats(doc, int(s.Input))
		if err != nil {
			return nil, DecodeFailed.Wrap(err, "animation %q: read keyframe times", name)
		}
		values, err := readFloats(doc, int(s.Output))
		if err != nil {
			return nil, DecodeFailed.Wrap(err, "animation %q: read keyframe values", name)
		}

		interp := trackInterpolation(s.Interpolation)
		perKey := path.Width()
		if interp == rig.InterpolateCubicSpline {
			perKey *= 3
		}
		if len(times) == 0 || len(values) != len(times)*perKey {
			return nil, DecodeFailed.New("animation %q: %s track of %q has %d values for %d keyframes",
				name, path, names[node], len(values), len(times))
		}

		tracks = append(tracks, rig.Track{
			Joint:         names[node],
			Path:          path,
			Interpolation: interp,
			Times:         times,
			Values:        values,
		})
	}

	return rig.NewClip(name, tracks), nil
}

func trackPath(p gltf.TRSProperty) (rig.Path, bool) {
	switch p {
	case gltf.TRSTranslation:
		return rig.PathTranslation, true
	case gltf.TRSRotation:
		return rig.PathRotation, true
	case gltf.TRSScale:
		return rig.PathScale, true
	default:
		return 0, false
	}
}

func trackInterpolation(i gltf.Interpolation) rig.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return rig.InterpolateStep
	case gltf.InterpolationCubicSpline:
		return rig.InterpolateCubicSpline
	default:
		return rig.InterpolateLinear
	}
}

func readFloats(doc *gltf.Document, index int) ([]float32, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, DecodeFailed.New("accessor %d out of range", index)
	}

	data, err := modeler.ReadAccessor(doc, doc.Accessors[index], nil)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []float32:
		return v, nil
	case [][2]float32:
		out := make([]float32, 0, len(v)*2)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][3]float32:
		out := make([]float32, 0, len(v)*3)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][4]float32:
		out := make([]float32, 0, len(v)*4)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][4]int8:
		return normalized(v, 127), nil
	case [][4]uint8:
		return normalized(v, 255), nil
	case [][4]int16:
		return normalized(v, 32767), nil
	case [][4]uint16:
		return normalized(v, 65535), nil
	default:
		return nil, DecodeFailed.New("accessor %d: unsupported element type %T", index, data)
	}
}

// normalized converts normalized integer quaternion components to floats.
func normalized[T constraints.Integer](v [][4]T, scale float32) []float32 {
	out := make([]float32, 0, len(v)*4)
	for _, e := range v {
		for _, c := range e {
			f := float32(c) / scale
			if f < -1 {
				f = -1
			}
			out = append(out, f)
		}
	}
	return out
}
