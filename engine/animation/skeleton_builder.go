package animation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// rootParent marks a builder entry without a parent.
const rootParent = -1

// namedParent marks a builder entry whose parent is resolved by name at Build time.
const namedParent = -2

type builderBone struct {
	name       string
	parent     int
	parentName string
	offset     mgl32.Mat4
}

// SkeletonBuilder collects bones in any order and produces a Skeleton stored parents-first.
// Importers use it when the source format does not guarantee a topological bone order.
// A SkeletonBuilder is not safe for concurrent use.
type SkeletonBuilder struct {
	bones []builderBone
}

// NewSkeletonBuilder creates an empty SkeletonBuilder.
//
// Returns:
//   - *SkeletonBuilder: the builder
func NewSkeletonBuilder() *SkeletonBuilder {
	return &SkeletonBuilder{}
}

// AddBone appends a bone whose parent is given by insertion index.
//
// Parameters:
//   - name: the bone name (empty names become "bone_<final index>")
//   - parent: the insertion index of the parent, or -1 for a root; may refer to a bone added later
//   - offset: the bone's inverse bind matrix
//
// Returns:
//   - int: the insertion index of the new bone
func (b *SkeletonBuilder) AddBone(name string, parent int, offset mgl32.Mat4) int {
	if parent < 0 {
		parent = rootParent
	}
	b.bones = append(b.bones, builderBone{name: name, parent: parent, offset: offset})
	return len(b.bones) - 1
}

// AddChild appends a bone whose parent is given by name. An empty parent name adds a root.
// The parent may be added after the child.
//
// Parameters:
//   - name: the bone name, must be unique and non-empty
//   - parent: the parent bone name, or "" for a root
//   - offset: the bone's inverse bind matrix
//
// Returns:
//   - int: the insertion index of the new bone
func (b *SkeletonBuilder) AddChild(name, parent string, offset mgl32.Mat4) int {
	if parent == "" {
		return b.AddBone(name, rootParent, offset)
	}
	b.bones = append(b.bones, builderBone{name: name, parent: namedParent, parentName: parent, offset: offset})
	return len(b.bones) - 1
}

// Len returns the number of bones added so far.
func (b *SkeletonBuilder) Len() int {
	return len(b.bones)
}

// Build sorts the collected bones so that every parent precedes its children and returns the
// resulting Skeleton together with the insertion-index to bone-index mapping. Bones that are
// already in a valid order keep their relative order.
//
// Returns:
//   - *Skeleton: the sorted skeleton
//   - []BoneID: mapping[insertionIndex] = final BoneID
//   - error: ErrUnknownParent, ErrParentOutOfRange, ErrCyclicHierarchy or a NewSkeleton error
func (b *SkeletonBuilder) Build() (*Skeleton, []BoneID, error) {
	parents, err := b.resolveParents()
	if err != nil {
		return nil, nil, err
	}

	oldToNew := make([]BoneID, len(b.bones))
	placed := make([]bool, len(b.bones))
	order := make([]int, 0, len(b.bones))

	// Repeated stable passes: emit every pending bone whose parent is already placed.
	for len(order) < len(b.bones) {
		progress := false
		for i := range b.bones {
			if placed[i] {
				continue
			}
			p := parents[i]
			if p != rootParent && !placed[p] {
				continue
			}
			oldToNew[i] = BoneID(len(order))
			order = append(order, i)
			placed[i] = true
			progress = true
		}
		if !progress {
			for i := range b.bones {
				if !placed[i] {
					return nil, nil, fmt.Errorf("bone %q: %w", b.bones[i].name, ErrCyclicHierarchy)
				}
			}
		}
	}

	bones := make([]Bone, len(order))
	names := make([]string, len(order))
	for newIdx, oldIdx := range order {
		src := b.bones[oldIdx]
		bone := Bone{Parent: NoParent, Offset: src.offset}
		if p := parents[oldIdx]; p != rootParent {
			bone.Parent = oldToNew[p]
		}
		bones[newIdx] = bone
		names[newIdx] = src.name
	}

	skel, err := NewSkeleton(bones, names)
	if err != nil {
		return nil, nil, err
	}
	return skel, oldToNew, nil
}

// resolveParents converts every entry's parent reference into an insertion index or rootParent.
func (b *SkeletonBuilder) resolveParents() ([]int, error) {
	byName := make(map[string]int, len(b.bones))
	for i, bone := range b.bones {
		if bone.name == "" {
			continue
		}
		if prev, ok := byName[bone.name]; ok {
			return nil, fmt.Errorf("bones %d and %d: %w %q", prev, i, ErrDuplicateBoneName, bone.name)
		}
		byName[bone.name] = i
	}

	parents := make([]int, len(b.bones))
	for i, bone := range b.bones {
		switch bone.parent {
		case rootParent:
			parents[i] = rootParent
		case namedParent:
			p, ok := byName[bone.parentName]
			if !ok {
				return nil, fmt.Errorf("bone %q: %w %q", bone.name, ErrUnknownParent, bone.parentName)
			}
			parents[i] = p
		default:
			if bone.parent >= len(b.bones) {
				return nil, fmt.Errorf("bone %q: %w (parent %d, %d bones)", bone.name, ErrParentOutOfRange, bone.parent, len(b.bones))
			}
			parents[i] = bone.parent
		}
		if parents[i] == i {
			return nil, fmt.Errorf("bone %q: %w", bone.name, ErrCyclicHierarchy)
		}
	}
	return parents, nil
}
