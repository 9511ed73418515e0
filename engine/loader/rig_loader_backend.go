package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-skin/common"
	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
	"github.com/Carmen-Shannon/oxy-skin/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// rigFile is the TOML layout of a hand-authored rig:
//
//	name = "arm"
//
//	[[bone]]
//	name = "shoulder"
//	offset = [1.0, 0.0, ...] # 16 floats, column major; omitted means identity
//
//	[[bone]]
//	name = "elbow"
//	parent = "shoulder"
//
//	[[animation]]
//	name = "wave"
//	duration = 10.0
//	ticks_per_second = 24.0
//
//	[[animation.track]]
//	bone = "elbow"
//	positions = [{ time = 0.0, value = [0.0, 1.0, 0.0] }]
//	rotations = [{ time = 0.0, value = [0.0, 0.0, 0.0, 1.0] }] # x, y, z, w
//	scales = [{ time = 0.0, value = [1.0, 1.0, 1.0] }]
//
// Bones may be listed in any order. Bones without a track in an animation have empty
// channels and hold their identity local transform.
type rigFile struct {
	Name       string         `toml:"name"`
	Bones      []rigBone      `toml:"bone"`
	Animations []rigAnimation `toml:"animation"`
}

type rigBone struct {
	Name   string    `toml:"name"`
	Parent string    `toml:"parent"`
	Offset []float32 `toml:"offset"`
}

type rigAnimation struct {
	Name           string     `toml:"name"`
	Duration       float32    `toml:"duration"`
	TicksPerSecond float32    `toml:"ticks_per_second"`
	Tracks         []rigTrack `toml:"track"`
}

type rigTrack struct {
	Bone      string       `toml:"bone"`
	Positions []rigVec3Key `toml:"positions"`
	Rotations []rigQuatKey `toml:"rotations"`
	Scales    []rigVec3Key `toml:"scales"`
}

type rigVec3Key struct {
	Time  float32    `toml:"time"`
	Value [3]float32 `toml:"value"`
}

type rigQuatKey struct {
	Time  float32    `toml:"time"`
	Value [4]float32 `toml:"value"`
}

// rigLoaderBackendImpl is the implementation of rigLoaderBackend.
type rigLoaderBackendImpl struct {
	logger *slog.Logger
}

// rigLoaderBackend is a loaderBackend implementation for TOML rig descriptions.
type rigLoaderBackend interface {
	loaderBackend
}

var _ rigLoaderBackend = &rigLoaderBackendImpl{}

// newRigLoaderBackend creates a new TOML rig loader backend.
//
// Parameters:
//   - logger: the logger for import diagnostics
//
// Returns:
//   - rigLoaderBackend: the loader backend for .toml rigs
func newRigLoaderBackend(logger *slog.Logger) rigLoaderBackend {
	return &rigLoaderBackendImpl{logger: logger}
}

func (b *rigLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := b.LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Name = common.Coalesce(m.Name, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	m.Source = path
	return m, nil
}

func (b *rigLoaderBackendImpl) LoadReader(r io.Reader) (*model.ImportedModel, error) {
	var file rigFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode rig: %w", err)
	}

	skeleton, err := file.skeleton()
	if err != nil {
		return nil, err
	}

	animations := make([]*animation.Animation, 0, len(file.Animations))
	for i, a := range file.Animations {
		anim, err := a.build(i, skeleton)
		if err != nil {
			return nil, err
		}
		animations = append(animations, anim)
	}

	b.logger.Info("imported rig", "model", file.Name, "bones", skeleton.Len(), "animations", len(animations))
	return &model.ImportedModel{
		Name:       file.Name,
		Skeleton:   skeleton,
		Animations: animations,
	}, nil
}

func (f *rigFile) skeleton() (*animation.Skeleton, error) {
	builder := animation.NewSkeletonBuilder()
	for i, bone := range f.Bones {
		offset := mgl32.Ident4()
		switch len(bone.Offset) {
		case 0:
		case 16:
			copy(offset[:], bone.Offset)
		default:
			return nil, fmt.Errorf("bone %d %q: offset has %d values, want 16", i, bone.Name, len(bone.Offset))
		}
		if bone.Name == "" {
			return nil, fmt.Errorf("bone %d: missing name", i)
		}
		builder.AddChild(bone.Name, bone.Parent, offset)
	}
	skeleton, _, err := builder.Build()
	return skeleton, err
}

func (a *rigAnimation) build(index int, skeleton *animation.Skeleton) (*animation.Animation, error) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", index)
	}

	keys := make([]animation.BoneKeyFrames, skeleton.Len())
	seen := make(map[animation.BoneID]bool, len(a.Tracks))
	for _, track := range a.Tracks {
		id, ok := skeleton.BoneIndex(track.Bone)
		if !ok {
			return nil, fmt.Errorf("animation %q: %w %q", name, ErrUnknownBone, track.Bone)
		}
		if seen[id] {
			return nil, fmt.Errorf("animation %q: %w for bone %q", name, ErrDuplicateTrack, track.Bone)
		}
		seen[id] = true

		for _, k := range track.Positions {
			keys[id].Positions = append(keys[id].Positions, animation.PositionKey{Time: k.Time, Value: k.Value})
		}
		for _, k := range track.Rotations {
			q := mgl32.Quat{W: k.Value[3], V: mgl32.Vec3{k.Value[0], k.Value[1], k.Value[2]}}
			keys[id].Rotations = append(keys[id].Rotations, animation.RotationKey{Time: k.Time, Value: q})
		}
		for _, k := range track.Scales {
			keys[id].Scalings = append(keys[id].Scalings, animation.ScaleKey{Time: k.Time, Value: k.Value})
		}
	}

	return animation.NewAnimation(name, a.Duration, a.TicksPerSecond, keys)
}
