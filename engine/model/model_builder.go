package model

import (
	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSource is an option builder that records the file the Model was loaded from.
//
// Parameters:
//   - path: the source path
//
// Returns:
//   - ModelBuilderOption: a function that applies the source option to a model
func WithSource(path string) ModelBuilderOption {
	return func(m *model) {
		m.source = path
	}
}

// WithSkeleton is an option builder that sets the bone hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *animation.Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithAnimations is an option builder that sets the animation clips of the Model.
// Every clip must have one track per skeleton bone; this is checked by Rig.
//
// Parameters:
//   - animations: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations ...*animation.Animation) ModelBuilderOption {
	return func(m *model) {
		m.animations = animations
	}
}
