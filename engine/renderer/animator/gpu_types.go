package animator

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-skin/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUBonePaletteSource is the canonical WGSL definition of the BonePalette storage struct
// and the skin_matrix helper. Matches GPUBonePalette layout exactly (64 bytes per matrix).
//
//go:embed assets/bone_palette.wgsl
var GPUBonePaletteSource string

// GPUBoneMatrixSize is the byte size of one mat4x4<f32> palette entry.
const GPUBoneMatrixSize = 64

// GPUBonePalette is the GPU-facing view of a run of skinning matrices. mgl32.Mat4 is stored
// column-major, which is the layout WGSL expects for mat4x4<f32>.
type GPUBonePalette []mgl32.Mat4

// Size returns the size of the palette in bytes.
//
// Returns:
//   - int: The size of the palette in bytes.
func (g GPUBonePalette) Size() int {
	return len(g) * GPUBoneMatrixSize
}

// Bytes returns the palette as a byte view for GPU upload. The view shares memory with g and
// is in host byte order, which is little-endian on every platform wgpu supports.
//
// Returns:
//   - []byte: Size() bytes aliasing g, or nil for an empty palette.
func (g GPUBonePalette) Bytes() []byte {
	return common.SliceToBytes(g)
}

// boneLayoutEntry describes the palette as a read-only storage buffer visible to the vertex
// and compute stages. MinBindingSize covers one instance's palette.
func boneLayoutEntry(binding int, boneCount uint32) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(binding),
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageCompute,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	entry.Buffer.MinBindingSize = uint64(boneCount) * GPUBoneMatrixSize
	return entry
}
