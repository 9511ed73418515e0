package animation

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateTranslationsAccumulateDownChain(t *testing.T) {
	skel := chain(t, 3)
	keys := make([]BoneKeyFrames, 3)
	for i := range keys {
		keys[i].Positions = []PositionKey{pk(0, 1, 0, 0)}
	}
	anim := mustAnimation(t, 1, keys)

	got := Evaluate(anim, skel, 0)
	require.Len(t, got, 3)
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, translationOf(got[0]))
	assertVec3Near(t, mgl32.Vec3{2, 0, 0}, translationOf(got[1]))
	assertVec3Near(t, mgl32.Vec3{3, 0, 0}, translationOf(got[2]))
}

func TestEvaluateInterpolatesChildBone(t *testing.T) {
	skel := chain(t, 3)
	keys := []BoneKeyFrames{
		{Positions: []PositionKey{pk(0, 1, 0, 0)}},
		{Positions: []PositionKey{pk(0, 0, 0, 0), pk(10, 10, 0, 0)}},
		{Positions: []PositionKey{pk(0, 1, 0, 0)}},
	}
	anim := mustAnimation(t, 10, keys)

	local := LocalTransform(anim.KeyFrames(1), 5)
	assertVec3Near(t, mgl32.Vec3{5, 0, 0}, translationOf(local))

	got := Evaluate(anim, skel, 5)
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, translationOf(got[0]))
	assertVec3Near(t, mgl32.Vec3{6, 0, 0}, translationOf(got[1]))
	assertVec3Near(t, mgl32.Vec3{7, 0, 0}, translationOf(got[2]))
}

func TestEvaluateChildComposesWithRotatedRoot(t *testing.T) {
	skel := chain(t, 2)
	z := mgl32.Vec3{0, 0, 1}
	keys := []BoneKeyFrames{
		{Positions: []PositionKey{pk(0, 0, 0, 2)}, Rotations: []RotationKey{rk(0, 90, z)}},
		{Positions: []PositionKey{pk(0, 1, 0, 0)}},
	}
	anim := mustAnimation(t, 1, keys)

	got := Evaluate(anim, skel, 0)
	rootWorld := mgl32.Translate3D(0, 0, 2).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	assertMat4Near(t, rootWorld, got[0])
	assertMat4Near(t, rootWorld.Mul4(mgl32.Translate3D(1, 0, 0)), got[1])
	assertVec3Near(t, mgl32.Vec3{0, 1, 2}, translationOf(got[1]))
}

func TestEvaluateAppliesOffsetAfterWorld(t *testing.T) {
	offset := mgl32.Translate3D(-1, -2, -3)
	skel, err := NewSkeleton([]Bone{{Parent: NoParent, Offset: offset}}, []string{"root"})
	require.NoError(t, err)
	anim := mustAnimation(t, 1, []BoneKeyFrames{{Positions: []PositionKey{pk(0, 1, 2, 3)}}})

	got := Evaluate(anim, skel, 0)
	assertMat4Near(t, mgl32.Ident4(), got[0])
}

func TestEvaluateEmptyTracksGiveBindPose(t *testing.T) {
	bones := []Bone{
		{Parent: NoParent, Offset: mgl32.Translate3D(0, -1, 0)},
		{Parent: 0, Offset: mgl32.Scale3D(2, 2, 2)},
		{Parent: 0, Offset: mgl32.HomogRotate3DX(0.3)},
		{Parent: 2, Offset: mgl32.Translate3D(4, 0, 0)},
	}
	skel, err := NewSkeleton(bones, nil)
	require.NoError(t, err)
	anim := mustAnimation(t, 10, make([]BoneKeyFrames, len(bones)))

	bind := BindPose(skel)
	for i, b := range bones {
		assertMat4Near(t, b.Offset, bind[i], "bone %d", i)
	}
	for _, tm := range []float32{0, 3.3, 9.9} {
		got := Evaluate(anim, skel, tm)
		for i := range got {
			assertMat4Near(t, bind[i], got[i], "bone %d at %v", i, tm)
		}
	}
}

func TestEvaluateIntoOverwritesPooledBuffer(t *testing.T) {
	skel := chain(t, 3)
	keys := []BoneKeyFrames{
		{Positions: []PositionKey{pk(0, 0, 0, 0), pk(4, 4, 0, 0)}},
		{Rotations: []RotationKey{rk(0, 0, mgl32.Vec3{0, 1, 0}), rk(4, 60, mgl32.Vec3{0, 1, 0})}},
		{Scalings: []ScaleKey{sk(0, 1, 1, 1), sk(4, 3, 3, 3)}},
	}
	anim := mustAnimation(t, 4, keys)

	buf := make([]mgl32.Mat4, 5)
	for i := range buf {
		buf[i] = mgl32.Scale3D(9, 9, 9)
	}
	EvaluateInto(buf, anim, skel, 2.5)

	want := Evaluate(anim, skel, 2.5)
	for i := range want {
		assert.Equal(t, want[i], buf[i])
	}
	assert.Equal(t, mgl32.Scale3D(9, 9, 9), buf[3], "entries past the skeleton are untouched")
}

func TestEvaluatePanicsOnCorruptPairing(t *testing.T) {
	skel := chain(t, 3)
	anim := mustAnimation(t, 1, make([]BoneKeyFrames, 2))

	assert.Panics(t, func() { Evaluate(anim, skel, 0) })
	assert.Panics(t, func() {
		EvaluateInto(make([]mgl32.Mat4, 2), mustAnimation(t, 1, make([]BoneKeyFrames, 3)), skel, 0)
	})
}

func TestEvaluateIsDeterministicAcrossGoroutines(t *testing.T) {
	skel := chain(t, 8)
	keys := make([]BoneKeyFrames, 8)
	for i := range keys {
		keys[i] = BoneKeyFrames{
			Positions: []PositionKey{pk(0, 0, 1, 0), pk(5, float32(i), 1, 0)},
			Rotations: []RotationKey{rk(0, 0, mgl32.Vec3{1, 0, 0}), rk(5, float32(10*i), mgl32.Vec3{1, 0, 0})},
		}
	}
	anim := mustAnimation(t, 5, keys)
	want := Evaluate(anim, skel, 1.25)

	var wg sync.WaitGroup
	results := make([][]mgl32.Mat4, 16)
	for g := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[g] = Evaluate(anim, skel, 1.25)
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestTransformMatrixScalesThenRotatesThenTranslates(t *testing.T) {
	tr := Transform{
		Translation: mgl32.Vec3{1, 0, 0},
		Rotation:    mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}),
		Scale:       mgl32.Vec3{2, 1, 1},
	}

	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec3Near(t, mgl32.Vec3{1, 2, 0}, p)
	assertMat4Near(t, mgl32.Ident4(), IdentityTransform().Matrix())
}
