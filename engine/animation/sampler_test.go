package animation

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSampleEmptyTracksReturnIdentity(t *testing.T) {
	for _, tm := range []float32{-1, 0, 0.5, 100} {
		assert.Equal(t, mgl32.Vec3{}, SamplePosition(nil, tm))
		assert.Equal(t, mgl32.Vec3{1, 1, 1}, SampleScale(nil, tm))
		assert.Equal(t, mgl32.QuatIdent(), SampleRotation(nil, tm))
	}
}

func TestSampleSingleKeyframeIsConstant(t *testing.T) {
	pos := []PositionKey{pk(3, 1, 2, 3)}
	scale := []ScaleKey{sk(3, 2, 2, 2)}
	rot := []RotationKey{rk(3, 45, mgl32.Vec3{0, 1, 0})}

	for _, tm := range []float32{0, 2.9, 3, 3.1, 50} {
		assert.Equal(t, pos[0].Value, SamplePosition(pos, tm), "time %v", tm)
		assert.Equal(t, scale[0].Value, SampleScale(scale, tm), "time %v", tm)
		assert.Equal(t, rot[0].Value, SampleRotation(rot, tm), "time %v", tm)
	}
}

func TestSampleReproducesKeysExactly(t *testing.T) {
	pos := []PositionKey{pk(0, 0.1, 0.2, 0.3), pk(1.7, -4, 5.5, 9), pk(2.3, 3.3, 3.3, 3.3), pk(7, 1e3, -1e3, 0.001)}
	rot := []RotationKey{
		rk(0, 0, mgl32.Vec3{0, 0, 1}),
		rk(1.7, 33, mgl32.Vec3{1, 0, 0}),
		rk(2.3, 170, mgl32.Vec3{0, 1, 0}),
		rk(7, -80, mgl32.Vec3{0, 0, 1}),
	}

	for _, k := range pos {
		assert.Equal(t, k.Value, SamplePosition(pos, k.Time), "time %v", k.Time)
	}
	for _, k := range rot {
		assert.Equal(t, k.Value, SampleRotation(rot, k.Time), "time %v", k.Time)
	}
}

func TestSampleLinearMidpoint(t *testing.T) {
	pos := []PositionKey{pk(0, 0, 0, 0), pk(10, 10, 4, -2)}
	assertVec3Near(t, mgl32.Vec3{5, 2, -1}, SamplePosition(pos, 5))

	scale := []ScaleKey{sk(2, 1, 1, 1), sk(4, 3, 5, 1)}
	assertVec3Near(t, mgl32.Vec3{2, 3, 1}, SampleScale(scale, 3))
	assertVec3Near(t, mgl32.Vec3{1.5, 2, 1}, SampleScale(scale, 2.5))
}

func TestSampleUsesFirstQualifyingBracket(t *testing.T) {
	pos := []PositionKey{pk(0, 0, 0, 0), pk(1, 10, 0, 0), pk(2, 10, 10, 0), pk(3, 0, 10, 0)}

	assertVec3Near(t, mgl32.Vec3{5, 0, 0}, SamplePosition(pos, 0.5))
	assertVec3Near(t, mgl32.Vec3{10, 5, 0}, SamplePosition(pos, 1.5))
	assertVec3Near(t, mgl32.Vec3{5, 10, 0}, SamplePosition(pos, 2.5))
	// At an interior key boundary the earlier bracket wins with ratio 1.
	assert.Equal(t, mgl32.Vec3{10, 10, 0}, SamplePosition(pos, 2))
}

func TestSampleExtrapolatesBeforeFirstKey(t *testing.T) {
	pos := []PositionKey{pk(2, 1, 0, 0), pk(4, 3, 0, 0)}

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, SamplePosition(pos, 2))
	assertVec3Near(t, mgl32.Vec3{0, 0, 0}, SamplePosition(pos, 1))
	assertVec3Near(t, mgl32.Vec3{-1, 0, 0}, SamplePosition(pos, 0))
	assertVec3Near(t, mgl32.Vec3{-6, 0, 0}, SamplePosition(pos, -5))

	z := mgl32.Vec3{0, 0, 1}
	rot := []RotationKey{rk(2, 0, z), rk(4, 90, z)}
	assertSameOrientation(t, mgl32.QuatRotate(mgl32.DegToRad(-45), z), SampleRotation(rot, 1))
}

func TestSampleClampsPastLastKey(t *testing.T) {
	pos := []PositionKey{pk(2, 1, 0, 0), pk(4, 3, 0, 0)}

	assert.Equal(t, mgl32.Vec3{3, 0, 0}, SamplePosition(pos, 4))
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, SamplePosition(pos, 4.01))
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, SamplePosition(pos, 1000))
}

func TestSampleRotationBoundariesAndMidpoint(t *testing.T) {
	z := mgl32.Vec3{0, 0, 1}
	rot := []RotationKey{rk(0, 0, z), rk(10, 90, z)}

	assertSameOrientation(t, rot[0].Value, SampleRotation(rot, 0))
	assertSameOrientation(t, rot[1].Value, SampleRotation(rot, 10))
	assertSameOrientation(t, mgl32.QuatRotate(mgl32.DegToRad(45), z), SampleRotation(rot, 5))
	assertSameOrientation(t, mgl32.QuatRotate(mgl32.DegToRad(9), z), SampleRotation(rot, 1))
}

func TestSampleRotationTakesShortestArc(t *testing.T) {
	z := mgl32.Vec3{0, 0, 1}
	a := rk(0, 0, z)
	b := rk(1, 90, z)
	flipped := RotationKey{Time: 1, Value: b.Value.Scale(-1)}

	want := mgl32.QuatRotate(mgl32.DegToRad(45), z)
	assertSameOrientation(t, want, SampleRotation([]RotationKey{a, b}, 0.5))
	assertSameOrientation(t, want, SampleRotation([]RotationKey{a, flipped}, 0.5))
}

func TestSampleEachChannelUsesItsOwnTrackLength(t *testing.T) {
	keys := BoneKeyFrames{
		Positions: []PositionKey{pk(0, 7, 7, 7)},
		Scalings:  []ScaleKey{sk(0, 1, 1, 1), sk(1, 2, 2, 2), sk(2, 4, 4, 4)},
	}

	tr := SampleTransform(keys, 1.5)
	assert.Equal(t, mgl32.Vec3{7, 7, 7}, tr.Translation)
	assertVec3Near(t, mgl32.Vec3{3, 3, 3}, tr.Scale)
	assert.Equal(t, mgl32.QuatIdent(), tr.Rotation)
}

// linearBracket is the plain forward scan the binary search must agree with.
func linearBracket(track []PositionKey, t float32) int {
	for i := 1; i < len(track); i++ {
		if track[i].Time >= t {
			return i
		}
	}
	return len(track)
}

func TestBracketMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(12)
		track := make([]PositionKey, n)
		var tm float32
		for i := range track {
			tm += 0.1 + rng.Float32()*3
			track[i] = pk(tm, 0, 0, 0)
		}
		queries := []float32{-1, 0, tm + 1}
		for _, k := range track {
			queries = append(queries, k.Time, k.Time-0.05, k.Time+0.05)
		}
		for _, q := range queries {
			if n == 0 {
				continue
			}
			assert.Equal(t, linearBracket(track, q), bracket(track, q), "n=%d t=%v", n, q)
		}
	}
}
