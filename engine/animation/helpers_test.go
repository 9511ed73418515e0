package animation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol, msgAndArgs...)
}

func assertMat4Near(t *testing.T, want, got mgl32.Mat4, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tol, msgAndArgs...)
}

// assertSameOrientation compares quaternions up to sign.
func assertSameOrientation(t *testing.T, want, got mgl32.Quat) {
	t.Helper()
	if want.Dot(got) < 0 {
		got = got.Scale(-1)
	}
	assert.InDelta(t, want.W, got.W, tol)
	assert.InDeltaSlice(t, want.V[:], got.V[:], tol)
}

func translationOf(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// chain builds a root -> bone1 -> bone2 ... skeleton with identity offsets.
func chain(t *testing.T, n int) *Skeleton {
	t.Helper()
	bones := make([]Bone, n)
	for i := range bones {
		bones[i] = Bone{Parent: BoneID(i - 1), Offset: mgl32.Ident4()}
	}
	bones[0].Parent = NoParent
	skel, err := NewSkeleton(bones, nil)
	require.NoError(t, err)
	return skel
}

func mustAnimation(t *testing.T, duration float32, keys []BoneKeyFrames) *Animation {
	t.Helper()
	anim, err := NewAnimation("test", duration, 1, keys)
	require.NoError(t, err)
	return anim
}

func pk(time, x, y, z float32) PositionKey {
	return PositionKey{Time: time, Value: mgl32.Vec3{x, y, z}}
}

func sk(time, x, y, z float32) ScaleKey {
	return ScaleKey{Time: time, Value: mgl32.Vec3{x, y, z}}
}

func rk(time, degrees float32, axis mgl32.Vec3) RotationKey {
	return RotationKey{Time: time, Value: mgl32.QuatRotate(mgl32.DegToRad(degrees), axis)}
}
