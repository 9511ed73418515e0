package loader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	doc    *gltf.Document
	logger *slog.Logger
}

// gltfAnimationExtractor defines the interface for extracting animation data from a glTF document.
// It converts glTF animations into animation.Animation values with one BoneKeyFrames per bone of
// the target skin.
//
// Channels a clip does not animate are filled with the joint's rest transform as a single key,
// so unanimated bones keep their bind placement instead of collapsing to identity.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index against an extracted skin.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - skin: the skin the animation targets
	//
	// Returns:
	//   - *animation.Animation: the extracted clip
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int, skin *gltfSkin) (*animation.Animation, error)

	// ExtractAnimationsForSkin extracts every animation with at least one channel targeting a
	// joint of skin. Other animations are skipped.
	//
	// Parameters:
	//   - skin: the skin the animations target
	//
	// Returns:
	//   - []*animation.Animation: the extracted clips in document order
	//   - error: error if extraction fails
	ExtractAnimationsForSkin(skin *gltfSkin) ([]*animation.Animation, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a decoded document.
//
// Parameters:
//   - doc: the decoded document
//   - logger: receives warnings about skipped or approximated channels
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(doc *gltf.Document, logger *slog.Logger) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{doc: doc, logger: logger}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimationsForSkin(skin *gltfSkin) ([]*animation.Animation, error) {
	var clips []*animation.Animation
	for i, anim := range e.doc.Animations {
		relevant := false
		for _, ch := range anim.Channels {
			if ch.Target.Node == nil {
				continue
			}
			if _, ok := skin.NodeToBone[*ch.Target.Node]; ok {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		clip, err := e.ExtractAnimation(i, skin)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, skin *gltfSkin) (*animation.Animation, error) {
	if animIndex < 0 || animIndex >= len(e.doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}
	anim := e.doc.Animations[animIndex]
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	keys := make([]animation.BoneKeyFrames, skin.Skeleton.Len())
	var maxTime float32

	for i, ch := range anim.Channels {
		if ch.Target.Node == nil {
			continue
		}
		bone, ok := skin.NodeToBone[*ch.Target.Node]
		if !ok {
			e.logger.Debug("skipping channel for non-joint node", "animation", name, "channel", i, "node", *ch.Target.Node)
			continue
		}
		if ch.Target.Path == gltf.TRSWeights {
			e.logger.Debug("skipping morph weight channel", "animation", name, "channel", i)
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) || anim.Samplers[ch.Sampler] == nil {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}
		sampler := anim.Samplers[ch.Sampler]

		times, err := e.readScalars(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", name, i, err)
		}
		if n := len(times); n > 0 {
			maxTime = max(maxTime, times[n-1])
		}

		// Cubic spline outputs store (in-tangent, value, out-tangent) per key.
		stride, pick := 1, 0
		switch sampler.Interpolation {
		case gltf.InterpolationCubicSpline:
			stride, pick = 3, 1
			e.logger.Warn("cubic spline channel sampled linearly", "animation", name, "channel", i)
		case gltf.InterpolationStep:
			e.logger.Warn("step channel sampled linearly", "animation", name, "channel", i)
		}

		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			values, err := e.readVec3(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read %s values: %w", name, i, pathName(ch.Target.Path), err)
			}
			track, err := zipKeys(times, values, stride, pick)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
			}
			frame, rooted := skin.RootFrames[bone]
			if ch.Target.Path == gltf.TRSTranslation {
				if rooted {
					mapKeys(track, frame.position)
				}
				keys[bone].Positions = track
			} else {
				if rooted {
					mapKeys(track, frame.scaling)
				}
				keys[bone].Scalings = track
			}

		case gltf.TRSRotation:
			values, err := e.readQuats(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read rotation values: %w", name, i, err)
			}
			track, err := zipKeys(times, values, stride, pick)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
			}
			if frame, rooted := skin.RootFrames[bone]; rooted {
				mapKeys(track, frame.orientation)
			}
			keys[bone].Rotations = track
		}
	}

	for id := range keys {
		rest := skin.Rest[id]
		if len(keys[id].Positions) == 0 {
			keys[id].Positions = []animation.PositionKey{{Value: rest.Translation}}
		}
		if len(keys[id].Rotations) == 0 {
			keys[id].Rotations = []animation.RotationKey{{Value: rest.Rotation}}
		}
		if len(keys[id].Scalings) == 0 {
			keys[id].Scalings = []animation.ScaleKey{{Value: rest.Scale}}
		}
	}

	// glTF timestamps are always in seconds.
	return animation.NewAnimation(name, maxTime, 1, keys)
}

func (e *gltfAnimationExtractorImpl) read(accessor int) (any, error) {
	if accessor < 0 || accessor >= len(e.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrAccessor, accessor)
	}
	return modeler.ReadAccessor(e.doc, e.doc.Accessors[accessor], nil)
}

func (e *gltfAnimationExtractorImpl) readScalars(accessor int) ([]float32, error) {
	data, err := e.read(accessor)
	if err != nil {
		return nil, err
	}
	values, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("%w: accessor %d holds %T, want SCALAR float", ErrAccessor, accessor, data)
	}
	return values, nil
}

func (e *gltfAnimationExtractorImpl) readVec3(accessor int) ([]mgl32.Vec3, error) {
	data, err := e.read(accessor)
	if err != nil {
		return nil, err
	}
	values, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("%w: accessor %d holds %T, want VEC3 float", ErrAccessor, accessor, data)
	}
	out := make([]mgl32.Vec3, len(values))
	for i, v := range values {
		out[i] = mgl32.Vec3(v)
	}
	return out, nil
}

// readQuats reads glTF (x, y, z, w) rotations, including the normalized integer encodings
// allowed for rotation outputs.
func (e *gltfAnimationExtractorImpl) readQuats(accessor int) ([]mgl32.Quat, error) {
	data, err := e.read(accessor)
	if err != nil {
		return nil, err
	}
	var raw [][4]float32
	switch v := data.(type) {
	case [][4]float32:
		raw = v
	case [][4]int8:
		raw = normalizeVec4(v, 127)
	case [][4]uint8:
		raw = normalizeVec4(v, 255)
	case [][4]int16:
		raw = normalizeVec4(v, 32767)
	case [][4]uint16:
		raw = normalizeVec4(v, 65535)
	default:
		return nil, fmt.Errorf("%w: accessor %d holds %T, want VEC4", ErrAccessor, accessor, data)
	}
	out := make([]mgl32.Quat, len(raw))
	for i, q := range raw {
		out[i] = mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
	}
	return out, nil
}

func normalizeVec4[T int8 | uint8 | int16 | uint16](in [][4]T, scale float32) [][4]float32 {
	out := make([][4]float32, len(in))
	for i, v := range in {
		for c := range v {
			out[i][c] = max(float32(v[c])/scale, -1)
		}
	}
	return out
}

// zipKeys pairs timestamps with every stride-th output value starting at pick.
func zipKeys[V any](times []float32, values []V, stride, pick int) ([]animation.KeyFrame[V], error) {
	if len(values) != len(times)*stride {
		return nil, fmt.Errorf("%w: %d timestamps but %d output values", ErrAccessor, len(times), len(values))
	}
	keys := make([]animation.KeyFrame[V], len(times))
	for i, t := range times {
		keys[i] = animation.KeyFrame[V]{Time: t, Value: values[i*stride+pick]}
	}
	return keys, nil
}

func mapKeys[V any](keys []animation.KeyFrame[V], f func(V) V) {
	for i := range keys {
		keys[i].Value = f(keys[i].Value)
	}
}

func pathName(p gltf.TRSProperty) string {
	switch p {
	case gltf.TRSTranslation:
		return "translation"
	case gltf.TRSScale:
		return "scale"
	case gltf.TRSRotation:
		return "rotation"
	default:
		return "weights"
	}
}
