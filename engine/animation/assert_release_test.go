//go:build !animdebug

package animation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateOutsideClipDoesNotPanicInRelease(t *testing.T) {
	skel := chain(t, 1)
	anim := mustAnimation(t, 10, []BoneKeyFrames{{Positions: []PositionKey{pk(0, 0, 0, 0), pk(5, 5, 0, 0)}}})

	assert.NotPanics(t, func() { Evaluate(anim, skel, 10) })
	assertVec3Near(t, mgl32.Vec3{5, 0, 0}, translationOf(Evaluate(anim, skel, 10)[0]), "clamps to the last key")
	assertVec3Near(t, mgl32.Vec3{5, 0, 0}, translationOf(Evaluate(anim, skel, 40)[0]))

	assert.NotPanics(t, func() { Evaluate(anim, skel, -1) })
	assertVec3Near(t, mgl32.Vec3{-1, 0, 0}, translationOf(Evaluate(anim, skel, -1)[0]))
}
