package model

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-skin/engine/animation"
)

// ErrNotSkinned is returned by Rig for a model without a skeleton.
var ErrNotSkinned = errors.New("model has no skeleton")

// model is the implementation of the Model interface.
type model struct {
	name       string
	source     string
	skeleton   *animation.Skeleton
	animations []*animation.Animation

	rigOnce sync.Once
	rig     *animation.Rig
	rigErr  error
}

// Model defines the interface for a loaded animated model.
// A Model pairs one skeleton with the animation clips that target it.
// It is produced by the Loader after importing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Source retrieves the path the model was loaded from, or "" for models built in code.
	//
	// Returns:
	//   - string: the source path
	Source() string

	// Skinned reports whether this model uses skeletal animation.
	//
	// Returns:
	//   - bool: true if the model has bone data
	Skinned() bool

	// Skeleton retrieves the bone hierarchy for this model.
	// Returns nil for static (non-skinned) models.
	//
	// Returns:
	//   - *animation.Skeleton: the skeleton or nil
	Skeleton() *animation.Skeleton

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*animation.Animation: the animation clips
	Animations() []*animation.Animation

	// AnimationCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// AnimationNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the animation clip names
	AnimationNames() []string

	// GetAnimationIndex returns the index of an animation by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - int: the animation index, or -1 if not found
	GetAnimationIndex(name string) int

	// Rig links the skeleton with its animations, validating bone counts on the first call.
	// The result is cached, so every caller shares the same Rig.
	//
	// Returns:
	//   - *animation.Rig: the validated rig
	//   - error: ErrNotSkinned or an animation.NewRig error
	Rig() (*animation.Rig, error)
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// FromImported wraps an importer result in a Model.
//
// Parameters:
//   - imp: the imported model
//
// Returns:
//   - Model: the model
func FromImported(imp *ImportedModel) Model {
	return NewModel(
		WithName(imp.Name),
		WithSource(imp.Source),
		WithSkeleton(imp.Skeleton),
		WithAnimations(imp.Animations...),
	)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Source() string {
	return m.source
}

func (m *model) Skinned() bool {
	return m.skeleton != nil && m.skeleton.Len() > 0
}

func (m *model) Skeleton() *animation.Skeleton {
	return m.skeleton
}

func (m *model) Animations() []*animation.Animation {
	return m.animations
}

func (m *model) AnimationCount() int {
	return len(m.animations)
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, anim := range m.animations {
		names[i] = anim.Name()
	}
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	for i, anim := range m.animations {
		if anim.Name() == name {
			return i
		}
	}
	return -1
}

func (m *model) Rig() (*animation.Rig, error) {
	m.rigOnce.Do(func() {
		if m.skeleton == nil {
			m.rigErr = ErrNotSkinned
			return
		}
		m.rig, m.rigErr = animation.NewRig(m.skeleton, m.animations...)
	})
	return m.rig, m.rigErr
}
