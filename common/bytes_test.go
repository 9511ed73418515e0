package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceToBytesViewsMatrices(t *testing.T) {
	assert.Nil(t, SliceToBytes[mgl32.Mat4](nil))

	mats := []mgl32.Mat4{mgl32.Ident4(), mgl32.Translate3D(3, 0, 0)}
	raw := SliceToBytes(mats)
	require.Len(t, raw, 2*64)
	assert.Equal(t, float32(3), math.Float32frombits(binary.NativeEndian.Uint32(raw[64+48:])))

	mats[0][0] = 2
	assert.Equal(t, float32(2), math.Float32frombits(binary.NativeEndian.Uint32(raw[0:])), "the view shares memory")
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "rig", Coalesce("", "rig", "file"))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, 4, Coalesce(0, 0, 4))
}
