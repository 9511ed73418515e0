package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderTracksBufferSizes(t *testing.T) {
	p := NewBindGroupProvider("palette", WithBufferSize(0, 128))
	assert.Equal(t, "palette", p.Label())
	assert.Equal(t, uint64(128), p.BufferSize(0))
	assert.Zero(t, p.BufferSize(1))

	p.SetBufferSize(0, 256)
	assert.Equal(t, uint64(256), p.BufferSize(0))
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetBuffer(2, nil)
	assert.NotPanics(t, p.Release)
	assert.Empty(t, p.Buffers())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
}

func TestBufferWriteExtent(t *testing.T) {
	w := BufferWrite{Binding: 1, Offset: 64, Data: make([]byte, 128)}
	assert.Equal(t, uint64(128), w.Size())
	assert.Equal(t, uint64(192), w.End())
}
