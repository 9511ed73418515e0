package animation

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a decomposed local bone transform.
type Transform struct {
	// Translation is the position offset relative to the parent.
	Translation mgl32.Vec3

	// Rotation is the orientation relative to the parent.
	Rotation mgl32.Quat

	// Scale is the scale factor along each local axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns the rest transform used for bones without keyframes.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes the transform as T * R * S: scale along the local axes first,
// then rotate, then translate. Changing this order changes the skinned result.
func (t Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	rotation := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return translation.Mul4(rotation).Mul4(scale)
}

// Lerp blends towards other by weight w in [0, 1]: translation and scale linearly,
// rotation by shortest-arc slerp.
func (t Transform) Lerp(other Transform, w float32) Transform {
	return Transform{
		Translation: mixVec3(t.Translation, other.Translation, w),
		Rotation:    slerpQuat(t.Rotation, other.Rotation, w),
		Scale:       mixVec3(t.Scale, other.Scale, w),
	}
}

// SampleTransform samples all three channels of a bone at time t (ticks).
func SampleTransform(keys BoneKeyFrames, t float32) Transform {
	return Transform{
		Translation: SamplePosition(keys.Positions, t),
		Rotation:    SampleRotation(keys.Rotations, t),
		Scale:       SampleScale(keys.Scalings, t),
	}
}

// LocalTransform samples a bone and composes its local matrix at time t (ticks).
func LocalTransform(keys BoneKeyFrames, t float32) mgl32.Mat4 {
	return SampleTransform(keys, t).Matrix()
}
