package animation

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EvaluateBlend cross-fades two animations of the same skeleton. Each bone's local transform
// is sampled from both clips and blended (translation and scale linearly, rotation by slerp)
// before the hierarchical pass, so the result stays a valid rigid hierarchy.
// A weight of 0 reproduces from at fromTime; a weight of 1 reproduces to at toTime.
//
// Parameters:
//   - from: the outgoing animation
//   - fromTime: the outgoing clip time in ticks
//   - to: the incoming animation
//   - toTime: the incoming clip time in ticks
//   - weight: the blend weight, clamped to [0, 1]
//   - skel: the skeleton both animations target
//
// Returns:
//   - []mgl32.Mat4: one skinning matrix per bone
func EvaluateBlend(from *Animation, fromTime float32, to *Animation, toTime, weight float32, skel *Skeleton) []mgl32.Mat4 {
	mustMatch(from, skel)
	mustMatch(to, skel)
	out := make([]mgl32.Mat4, skel.Len())
	blend(out, from, fromTime, to, toTime, weight, skel)
	return out
}

func blend(dst []mgl32.Mat4, from *Animation, fromTime float32, to *Animation, toTime, weight float32, skel *Skeleton) {
	weight = mgl32.Clamp(weight, 0, 1)
	switch weight {
	case 0:
		evaluate(dst, from, skel, fromTime)
		return
	case 1:
		evaluate(dst, to, skel, toTime)
		return
	}
	compose(dst, skel, func(id BoneID) mgl32.Mat4 {
		a := SampleTransform(from.boneKeyframes[id], fromTime)
		b := SampleTransform(to.boneKeyframes[id], toTime)
		return a.Lerp(b, weight).Matrix()
	})
}
