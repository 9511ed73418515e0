package animation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Rig is a skeleton linked with the animations that target it. The bone-count contract is
// checked once when the rig is built, so its evaluation methods skip the per-call checks.
// A Rig is immutable and safe for concurrent use.
type Rig struct {
	skeleton   *Skeleton
	animations []*Animation
	byName     map[string]int
}

// NewRig validates that every animation has exactly one track per skeleton bone.
//
// Parameters:
//   - skel: the skeleton, must not be nil
//   - anims: the animations targeting skel
//
// Returns:
//   - *Rig: the linked rig
//   - error: ErrNilSkeleton or ErrBoneCountMismatch (wrapped with the clip name)
func NewRig(skel *Skeleton, anims ...*Animation) (*Rig, error) {
	if skel == nil {
		return nil, ErrNilSkeleton
	}
	r := &Rig{
		skeleton:   skel,
		animations: make([]*Animation, 0, len(anims)),
		byName:     make(map[string]int, len(anims)),
	}
	for i, a := range anims {
		if a == nil {
			return nil, fmt.Errorf("animation %d is nil", i)
		}
		if a.BoneCount() != skel.Len() {
			return nil, fmt.Errorf("animation %q: %w (%d tracks, %d bones)", a.Name(), ErrBoneCountMismatch, a.BoneCount(), skel.Len())
		}
		if _, dup := r.byName[a.Name()]; !dup {
			r.byName[a.Name()] = i
		}
		r.animations = append(r.animations, a)
	}
	return r, nil
}

// Skeleton returns the rig's skeleton.
func (r *Rig) Skeleton() *Skeleton {
	return r.skeleton
}

// AnimationCount returns the number of linked animations.
func (r *Rig) AnimationCount() int {
	return len(r.animations)
}

// Animation returns the animation at index i, or nil if i is out of range.
func (r *Rig) Animation(i int) *Animation {
	if i < 0 || i >= len(r.animations) {
		return nil
	}
	return r.animations[i]
}

// AnimationIndex returns the index of the first animation called name, or -1.
func (r *Rig) AnimationIndex(name string) int {
	if i, ok := r.byName[name]; ok {
		return i
	}
	return -1
}

// Evaluate computes the skinning palette of animation clip at time t (ticks).
// It panics if clip is out of range.
func (r *Rig) Evaluate(clip int, t float32) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, r.skeleton.Len())
	r.EvaluateInto(out, clip, t)
	return out
}

// EvaluateInto writes the palette of animation clip at time t into dst.
// It panics if clip is out of range or dst is shorter than the skeleton.
func (r *Rig) EvaluateInto(dst []mgl32.Mat4, clip int, t float32) {
	anim := r.animations[clip]
	mustFit(dst, r.skeleton)
	if debugAssertions {
		assertTimeInRange(anim, t)
	}
	evaluate(dst, anim, r.skeleton, t)
}

// EvaluateBlendInto writes a cross-fade between two clips of the rig into dst.
// See EvaluateBlend for the blend semantics.
func (r *Rig) EvaluateBlendInto(dst []mgl32.Mat4, from int, fromTime float32, to int, toTime, weight float32) {
	mustFit(dst, r.skeleton)
	blend(dst, r.animations[from], fromTime, r.animations[to], toTime, weight, r.skeleton)
}
