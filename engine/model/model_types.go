package model

import (
	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
)

// ImportedModel is the format-neutral result of an importer (glTF, TOML rig, ...).
// The Loader turns it into a Model.
type ImportedModel struct {
	// Name is the model identifier, usually the file name without extension.
	Name string

	// Source is the path the model was read from.
	Source string

	// Skeleton is the validated bone hierarchy (nil for static models).
	Skeleton *animation.Skeleton

	// Animations are all clips bundled with the model, one BoneKeyFrames per skeleton bone.
	Animations []*animation.Animation
}

// Skinned reports whether the import carries a skeleton.
func (m *ImportedModel) Skinned() bool {
	return m.Skeleton != nil && m.Skeleton.Len() > 0
}
