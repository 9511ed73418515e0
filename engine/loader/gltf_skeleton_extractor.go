package loader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	doc    *gltf.Document
	logger *slog.Logger
}

// gltfSkin is an extracted skeleton together with the data the animation extractor needs to
// target it.
type gltfSkin struct {
	// Skeleton is the validated, parent-before-child sorted skeleton.
	Skeleton *animation.Skeleton

	// NodeToBone maps a glTF node index to its bone in Skeleton.
	NodeToBone map[int]animation.BoneID

	// Rest holds each bone's node transform, indexed by BoneID. Root bones have their
	// ancestor frame already applied.
	Rest []animation.Transform

	// RootFrames holds the accumulated transform of the non-joint nodes above a root bone,
	// for roots where that chain is not identity. Keys sampled for those bones must be
	// mapped through it.
	RootFrames map[animation.BoneID]gltfRootFrame
}

// gltfRootFrame is the transform of the non-joint ancestors of a root joint, limited to
// translation, rotation and uniform scale so it folds into each TRS channel on its own.
type gltfRootFrame struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       float32
}

func (f gltfRootFrame) position(p mgl32.Vec3) mgl32.Vec3 {
	return f.translation.Add(f.rotation.Rotate(p.Mul(f.scale)))
}

func (f gltfRootFrame) orientation(q mgl32.Quat) mgl32.Quat {
	return f.rotation.Mul(q).Normalize()
}

func (f gltfRootFrame) scaling(s mgl32.Vec3) mgl32.Vec3 {
	return s.Mul(f.scale)
}

func (f gltfRootFrame) apply(t animation.Transform) animation.Transform {
	return animation.Transform{
		Translation: f.position(t.Translation),
		Rotation:    f.orientation(t.Rotation),
		Scale:       f.scaling(t.Scale),
	}
}

// gltfSkeletonExtractor defines the interface for extracting skeleton/bone data from a glTF document.
// It converts glTF skin definitions into animation.Skeleton values with topologically sorted bones.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton extracts a skeleton from a skin by index.
	// Joints whose parent node is not itself a joint of the skin become roots, and the
	// transforms of the nodes above them are folded into their rest pose and keys.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//
	// Returns:
	//   - *gltfSkin: the skeleton with its node mapping and rest transforms
	//   - error: error if extraction fails
	ExtractSkeleton(skinIndex int) (*gltfSkin, error)

	// FindSkin resolves a skin by name. An empty name selects the skin of the first skinned
	// mesh node, or the first skin when no mesh node references one.
	//
	// Parameters:
	//   - name: the skin name, or ""
	//
	// Returns:
	//   - int: the skin index
	//   - error: ErrNoSkin if nothing matches
	FindSkin(name string) (int, error)
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a decoded document.
//
// Parameters:
//   - doc: the decoded document
//   - logger: receives warnings about approximated ancestor transforms
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(doc *gltf.Document, logger *slog.Logger) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{doc: doc, logger: logger}
}

func (e *gltfSkeletonExtractorImpl) FindSkin(name string) (int, error) {
	if len(e.doc.Skins) == 0 {
		return -1, ErrNoSkin
	}
	if name == "" {
		for _, node := range e.doc.Nodes {
			if node.Mesh != nil && node.Skin != nil && *node.Skin < len(e.doc.Skins) {
				return *node.Skin, nil
			}
		}
		return 0, nil
	}
	for i, skin := range e.doc.Skins {
		if skin.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNoSkin, name)
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (*gltfSkin, error) {
	if skinIndex < 0 || skinIndex >= len(e.doc.Skins) {
		return nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := e.doc.Skins[skinIndex]

	var inverseBind []mgl32.Mat4
	if skin.InverseBindMatrices != nil {
		var err error
		inverseBind, err = e.readMat4(*skin.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("failed to read inverse bind matrices: %w", err)
		}
	}

	parentNode := make(map[int]int, len(e.doc.Nodes))
	for nodeIdx, node := range e.doc.Nodes {
		for _, child := range node.Children {
			parentNode[child] = nodeIdx
		}
	}

	jointOf := make(map[int]int, len(skin.Joints))
	for i, nodeIdx := range skin.Joints {
		if nodeIdx < 0 || nodeIdx >= len(e.doc.Nodes) {
			return nil, fmt.Errorf("joint %d: invalid node index %d", i, nodeIdx)
		}
		jointOf[nodeIdx] = i
	}

	builder := animation.NewSkeletonBuilder()
	used := make(map[string]bool, len(skin.Joints))
	isRoot := make([]bool, len(skin.Joints))
	for i, nodeIdx := range skin.Joints {
		parent := -1
		if p, ok := parentNode[nodeIdx]; ok {
			if j, isJoint := jointOf[p]; isJoint {
				parent = j
			}
		}
		isRoot[i] = parent < 0

		offset := mgl32.Ident4()
		if i < len(inverseBind) {
			offset = inverseBind[i]
		}
		builder.AddBone(gltfJointName(e.doc.Nodes[nodeIdx], nodeIdx, used), parent, offset)
	}

	skeleton, mapping, err := builder.Build()
	if err != nil {
		return nil, err
	}

	out := &gltfSkin{
		Skeleton:   skeleton,
		NodeToBone: make(map[int]animation.BoneID, len(skin.Joints)),
		Rest:       make([]animation.Transform, skeleton.Len()),
		RootFrames: make(map[animation.BoneID]gltfRootFrame),
	}
	for i, nodeIdx := range skin.Joints {
		id := mapping[i]
		out.NodeToBone[nodeIdx] = id
		out.Rest[id] = gltfNodeTransform(e.doc.Nodes[nodeIdx])
		if !isRoot[i] {
			continue
		}
		if frame, ok := e.rootFrame(nodeIdx, parentNode); ok {
			out.RootFrames[id] = frame
			out.Rest[id] = frame.apply(out.Rest[id])
		}
	}
	return out, nil
}

// rootFrame composes the node transforms above a root joint up to the scene root. It reports
// false when the chain is identity.
func (e *gltfSkeletonExtractorImpl) rootFrame(nodeIdx int, parentNode map[int]int) (gltfRootFrame, bool) {
	chain := mgl32.Ident4()
	seen := map[int]bool{nodeIdx: true}
	for p, ok := parentNode[nodeIdx]; ok && !seen[p]; p, ok = parentNode[p] {
		seen[p] = true
		chain = gltfNodeTransform(e.doc.Nodes[p]).Matrix().Mul4(chain)
	}
	if chain.ApproxEqualThreshold(mgl32.Ident4(), 1e-6) {
		return gltfRootFrame{}, false
	}

	t := gltfDecomposeMatrix(chain)
	scale := (t.Scale[0] + t.Scale[1] + t.Scale[2]) / 3
	if max(t.Scale[0], t.Scale[1], t.Scale[2])-min(t.Scale[0], t.Scale[1], t.Scale[2]) > 1e-4*scale {
		e.logger.Warn("non-uniform scale above root joint approximated as uniform",
			"node", nodeIdx, "scale", t.Scale, "uniform", scale)
	}
	return gltfRootFrame{translation: t.Translation, rotation: t.Rotation, scale: scale}, true
}

func (e *gltfSkeletonExtractorImpl) readMat4(accessor int) ([]mgl32.Mat4, error) {
	if accessor < 0 || accessor >= len(e.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrAccessor, accessor)
	}
	data, err := modeler.ReadAccessor(e.doc, e.doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	cols, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("%w: accessor %d holds %T, want MAT4 float", ErrAccessor, accessor, data)
	}
	out := make([]mgl32.Mat4, len(cols))
	for i, m := range cols {
		for c := range 4 {
			for r := range 4 {
				out[i][c*4+r] = m[c][r]
			}
		}
	}
	return out, nil
}

// gltfJointName returns a unique bone name for a joint node.
func gltfJointName(node *gltf.Node, nodeIdx int, used map[string]bool) string {
	name := node.Name
	if name == "" || used[name] {
		name = fmt.Sprintf("%s_node%d", node.Name, nodeIdx)
		if node.Name == "" {
			name = fmt.Sprintf("node_%d", nodeIdx)
		}
	}
	used[name] = true
	return name
}

// gltfNodeTransform returns the local TRS of a node, decomposing its matrix when one is set.
func gltfNodeTransform(node *gltf.Node) animation.Transform {
	var mat mgl32.Mat4
	for i, v := range node.MatrixOrDefault() {
		mat[i] = float32(v)
	}
	if mat != mgl32.Ident4() {
		return gltfDecomposeMatrix(mat)
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	return animation.Transform{
		Translation: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation:    mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		Scale:       mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
}

// gltfDecomposeMatrix splits a column-major affine matrix into translation, rotation and scale.
// Shear is not representable and is dropped.
func gltfDecomposeMatrix(m mgl32.Mat4) animation.Transform {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	scale := mgl32.Vec3{sx, sy, sz}

	for i, s := range scale {
		if s < 1e-4 {
			scale[i] = 1
		}
	}
	rot := mgl32.Ident4()
	for c := range 3 {
		col := m.Col(c).Vec3().Mul(1 / scale[c])
		rot.SetCol(c, col.Vec4(0))
	}

	return animation.Transform{
		Translation: m.Col(3).Vec3(),
		Rotation:    mgl32.Mat4ToQuat(rot).Normalize(),
		Scale:       mgl32.Vec3{sx, sy, sz},
	}
}
