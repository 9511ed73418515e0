package animation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSkeletonValidatesHierarchy(t *testing.T) {
	id := mgl32.Ident4()
	tests := []struct {
		name  string
		bones []Bone
		names []string
		err   error
	}{
		{"parent out of range", []Bone{{Parent: NoParent, Offset: id}, {Parent: 5, Offset: id}}, nil, ErrParentOutOfRange},
		{"parent after child", []Bone{{Parent: 1, Offset: id}, {Parent: NoParent, Offset: id}}, nil, ErrParentOrder},
		{"self parent", []Bone{{Parent: NoParent, Offset: id}, {Parent: 1, Offset: id}}, nil, ErrParentOrder},
		{"name count", []Bone{{Parent: NoParent, Offset: id}}, []string{"a", "b"}, ErrBoneNameCount},
		{"duplicate name", []Bone{{Parent: NoParent, Offset: id}, {Parent: 0, Offset: id}}, []string{"a", "a"}, ErrDuplicateBoneName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSkeleton(tt.bones, tt.names)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSkeletonAccessors(t *testing.T) {
	id := mgl32.Ident4()
	bones := []Bone{
		{Parent: NoParent, Offset: id},
		{Parent: 0, Offset: id},
		{Parent: NoParent, Offset: id},
		{Parent: 0, Offset: mgl32.Translate3D(1, 0, 0)},
	}
	skel, err := NewSkeleton(bones, []string{"hips", "", "prop", "leg"})
	require.NoError(t, err)

	assert.Equal(t, 4, skel.Len())
	assert.Equal(t, []string{"hips", "bone_1", "prop", "leg"}, skel.Names())
	assert.Equal(t, []BoneID{0, 2}, skel.Roots())
	assert.Equal(t, []BoneID{1, 3}, skel.Children(0))
	assert.True(t, skel.Bone(0).IsRoot())
	assert.Equal(t, BoneID(0), skel.Bone(3).Parent)

	leg, ok := skel.BoneIndex("leg")
	assert.True(t, ok)
	assert.Equal(t, BoneID(3), leg)
	_, ok = skel.BoneIndex("tail")
	assert.False(t, ok)

	bones[3].Parent = 2
	assert.Equal(t, BoneID(0), skel.Bone(3).Parent, "skeleton keeps its own copy")
	copied := skel.Bones()
	copied[1].Parent = NoParent
	assert.Equal(t, BoneID(0), skel.Bone(1).Parent)
}

func TestSkeletonBuilderSortsParentsFirst(t *testing.T) {
	b := NewSkeletonBuilder()
	hand := b.AddChild("hand", "arm", mgl32.Translate3D(0, 0, -2))
	arm := b.AddChild("arm", "spine", mgl32.Translate3D(0, 0, -1))
	spine := b.AddChild("spine", "", mgl32.Ident4())

	skel, mapping, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"spine", "arm", "hand"}, skel.Names())
	assert.Equal(t, BoneID(0), mapping[spine])
	assert.Equal(t, BoneID(1), mapping[arm])
	assert.Equal(t, BoneID(2), mapping[hand])
	assert.Equal(t, BoneID(1), skel.Bone(2).Parent)
	assert.Equal(t, mgl32.Translate3D(0, 0, -2), skel.Bone(mapping[hand]).Offset)
}

func TestSkeletonBuilderKeepsValidOrder(t *testing.T) {
	b := NewSkeletonBuilder()
	root := b.AddBone("root", -1, mgl32.Ident4())
	a := b.AddBone("a", root, mgl32.Ident4())
	b.AddBone("b", -1, mgl32.Ident4())
	b.AddBone("a1", a, mgl32.Ident4())

	skel, mapping, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "b", "a1"}, skel.Names())
	assert.Equal(t, []BoneID{0, 1, 2, 3}, mapping)
}

func TestSkeletonBuilderErrors(t *testing.T) {
	t.Run("unknown parent", func(t *testing.T) {
		b := NewSkeletonBuilder()
		b.AddChild("a", "ghost", mgl32.Ident4())
		_, _, err := b.Build()
		assert.ErrorIs(t, err, ErrUnknownParent)
	})
	t.Run("cycle", func(t *testing.T) {
		b := NewSkeletonBuilder()
		b.AddChild("root", "", mgl32.Ident4())
		b.AddChild("a", "b", mgl32.Ident4())
		b.AddChild("b", "a", mgl32.Ident4())
		_, _, err := b.Build()
		assert.ErrorIs(t, err, ErrCyclicHierarchy)
	})
	t.Run("self parent", func(t *testing.T) {
		b := NewSkeletonBuilder()
		b.AddBone("a", 0, mgl32.Ident4())
		_, _, err := b.Build()
		assert.ErrorIs(t, err, ErrCyclicHierarchy)
	})
	t.Run("parent index out of range", func(t *testing.T) {
		b := NewSkeletonBuilder()
		b.AddBone("a", 3, mgl32.Ident4())
		_, _, err := b.Build()
		assert.ErrorIs(t, err, ErrParentOutOfRange)
	})
	t.Run("duplicate", func(t *testing.T) {
		b := NewSkeletonBuilder()
		b.AddChild("a", "", mgl32.Ident4())
		b.AddChild("a", "", mgl32.Ident4())
		_, _, err := b.Build()
		assert.ErrorIs(t, err, ErrDuplicateBoneName)
	})
}
