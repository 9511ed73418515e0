// Package animation evaluates keyframed skeletal animation into per-bone skinning matrices.
//
// A Skeleton is a flat arena of bones linked to their parents by index, with every parent
// stored before its children. An Animation holds one BoneKeyFrames per bone. Evaluate walks
// the bones once in index order, composing each bone's sampled local transform with its
// parent's world transform and the bone's offset (inverse bind) matrix. Skeletons and
// animations are immutable once built and may be shared between goroutines without locking.
package animation

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoneID is a dense, zero-based bone index that is stable for the lifetime of a Skeleton.
type BoneID uint32

// NoParent marks a root bone.
const NoParent BoneID = math.MaxUint32

// Bone is a single joint of a skeleton.
type Bone struct {
	// Parent is the index of the parent bone, or NoParent for a root.
	// A non-root parent is always smaller than the bone's own index.
	Parent BoneID

	// Offset transforms a vertex from model (bind) space into this bone's local space.
	// This is the inverse of the bone's world transform at bind time.
	Offset mgl32.Mat4
}

// IsRoot reports whether the bone has no parent.
func (b Bone) IsRoot() bool {
	return b.Parent == NoParent
}

// Skeleton is an immutable bone hierarchy stored parents-first.
type Skeleton struct {
	bones  []Bone
	names  []string
	lookup map[string]BoneID
}

// NewSkeleton validates and wraps a bone hierarchy.
// The slices are copied, so later changes by the caller do not affect the Skeleton.
// names may be nil, in which case bones are named "bone_<index>".
//
// Parameters:
//   - bones: the bones in storage order; every non-root parent must precede its child
//   - names: one name per bone, parallel to bones, or nil
//
// Returns:
//   - *Skeleton: the validated skeleton
//   - error: ErrParentOutOfRange, ErrParentOrder, ErrBoneNameCount or ErrDuplicateBoneName (wrapped)
func NewSkeleton(bones []Bone, names []string) (*Skeleton, error) {
	if names != nil && len(names) != len(bones) {
		return nil, fmt.Errorf("%w: %d names for %d bones", ErrBoneNameCount, len(names), len(bones))
	}

	s := &Skeleton{
		bones:  make([]Bone, len(bones)),
		names:  make([]string, len(bones)),
		lookup: make(map[string]BoneID, len(bones)),
	}
	copy(s.bones, bones)

	for i, bone := range bones {
		if !bone.IsRoot() {
			if int(bone.Parent) >= len(bones) {
				return nil, fmt.Errorf("bone %d: %w (parent %d, %d bones)", i, ErrParentOutOfRange, bone.Parent, len(bones))
			}
			if int(bone.Parent) >= i {
				return nil, fmt.Errorf("bone %d: %w (parent %d)", i, ErrParentOrder, bone.Parent)
			}
		}

		name := fmt.Sprintf("bone_%d", i)
		if names != nil && names[i] != "" {
			name = names[i]
		}
		if prev, ok := s.lookup[name]; ok {
			return nil, fmt.Errorf("bone %d: %w %q (also bone %d)", i, ErrDuplicateBoneName, name, prev)
		}
		s.names[i] = name
		s.lookup[name] = BoneID(i)
	}

	return s, nil
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	return len(s.bones)
}

// Bone returns the bone at index id. It panics if id is out of range.
func (s *Skeleton) Bone(id BoneID) Bone {
	return s.bones[id]
}

// Name returns the name of the bone at index id. It panics if id is out of range.
func (s *Skeleton) Name(id BoneID) string {
	return s.names[id]
}

// Bones returns a copy of the bone slice.
func (s *Skeleton) Bones() []Bone {
	out := make([]Bone, len(s.bones))
	copy(out, s.bones)
	return out
}

// Names returns a copy of the bone names, parallel to Bones.
func (s *Skeleton) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// BoneIndex looks up a bone by name.
//
// Parameters:
//   - name: the bone name
//
// Returns:
//   - BoneID: the bone index, or NoParent if absent
//   - bool: true if the bone exists
func (s *Skeleton) BoneIndex(name string) (BoneID, bool) {
	id, ok := s.lookup[name]
	if !ok {
		return NoParent, false
	}
	return id, true
}

// Roots returns the indices of all root bones in storage order.
func (s *Skeleton) Roots() []BoneID {
	var roots []BoneID
	for i, b := range s.bones {
		if b.IsRoot() {
			roots = append(roots, BoneID(i))
		}
	}
	return roots
}

// Children returns the direct children of id in storage order.
func (s *Skeleton) Children(id BoneID) []BoneID {
	var children []BoneID
	for i := int(id) + 1; i < len(s.bones); i++ {
		if s.bones[i].Parent == id {
			children = append(children, BoneID(i))
		}
	}
	return children
}
