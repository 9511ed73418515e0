package animation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Evaluate computes the final skinning matrix of every bone at time t (ticks).
// The result is freshly allocated, indexed like the skeleton, and owned by the caller.
//
// The animation and skeleton must agree on bone count; a mismatch indicates a corrupt asset
// and panics. Use NewRig to validate a pair once at load time instead of per frame.
// Callers are responsible for wrapping or clamping t into [0, Duration).
//
// Parameters:
//   - anim: the animation to sample
//   - skel: the skeleton the animation targets
//   - t: the query time in ticks
//
// Returns:
//   - []mgl32.Mat4: one model-space skinning matrix per bone
func Evaluate(anim *Animation, skel *Skeleton, t float32) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, skel.Len())
	EvaluateInto(out, anim, skel, t)
	return out
}

// EvaluateInto is Evaluate writing into a caller-owned buffer, for callers that pool
// palettes across frames. The first skel.Len() entries of dst are overwritten.
// It panics if dst is too short or the bone counts disagree.
func EvaluateInto(dst []mgl32.Mat4, anim *Animation, skel *Skeleton, t float32) {
	mustMatch(anim, skel)
	mustFit(dst, skel)
	if debugAssertions {
		assertTimeInRange(anim, t)
	}
	evaluate(dst, anim, skel, t)
}

// BindPose returns the palette produced when every bone sits at its identity local transform:
// identity transforms composed down the hierarchy, multiplied by each offset matrix.
func BindPose(skel *Skeleton) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, skel.Len())
	compose(out, skel, func(BoneID) mgl32.Mat4 {
		return mgl32.Ident4()
	})
	return out
}

// evaluate is the unchecked hot path.
func evaluate(dst []mgl32.Mat4, anim *Animation, skel *Skeleton, t float32) {
	compose(dst, skel, func(id BoneID) mgl32.Mat4 {
		return LocalTransform(anim.boneKeyframes[id], t)
	})
}

// compose runs the hierarchical pass. Bones are visited in increasing index order, so a
// parent's world transform is always ready before any of its children need it. dst first
// holds world transforms and is then multiplied by the offsets in place.
func compose(dst []mgl32.Mat4, skel *Skeleton, local func(BoneID) mgl32.Mat4) {
	bones := skel.bones
	for i, bone := range bones {
		l := local(BoneID(i))
		if bone.IsRoot() {
			dst[i] = l
		} else {
			dst[i] = dst[bone.Parent].Mul4(l)
		}
	}
	for i, bone := range bones {
		dst[i] = dst[i].Mul4(bone.Offset)
	}
}

func mustMatch(anim *Animation, skel *Skeleton) {
	if anim.BoneCount() != skel.Len() {
		panic(fmt.Sprintf("animation: %q has %d bone tracks but skeleton has %d bones", anim.name, anim.BoneCount(), skel.Len()))
	}
}

func mustFit(dst []mgl32.Mat4, skel *Skeleton) {
	if len(dst) < skel.Len() {
		panic(fmt.Sprintf("animation: destination holds %d matrices, skeleton has %d bones", len(dst), skel.Len()))
	}
}

// assertTimeInRange panics when t is negative, or when t is at or past the clip duration
// and some non-empty channel ends before t.
func assertTimeInRange(anim *Animation, t float32) {
	if t < 0 {
		panic(fmt.Sprintf("animation: %q evaluated at negative time %v", anim.name, t))
	}
	if t < anim.duration {
		return
	}
	for i, keys := range anim.boneKeyframes {
		if endsBefore(keys.Positions, t) || endsBefore(keys.Rotations, t) || endsBefore(keys.Scalings, t) {
			panic(fmt.Sprintf("animation: %q evaluated at %v, past duration %v, and bone %d has no key that late", anim.name, t, anim.duration, i))
		}
	}
}

func endsBefore[V any](track []KeyFrame[V], t float32) bool {
	return len(track) > 0 && track[len(track)-1].Time < t
}
