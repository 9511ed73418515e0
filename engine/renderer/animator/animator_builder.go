package animator

import (
	"log/slog"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithMaxInstances is an option builder that sets the initial instance capacity of the Animator.
// The capacity still grows automatically when AddInstance runs out of room.
//
// Parameters:
//   - maxInstances: the number of instances to allocate palette space for
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the max instances option to an animator
func WithMaxInstances(maxInstances int) AnimatorBuilderOption {
	return func(a *animator) {
		if maxInstances > 0 {
			a.maxInstances = uint32(maxInstances)
		}
	}
}

// WithWorkers is an option builder that sets how many pool workers evaluate palettes in
// PrepareFrame. Values below one fall back to runtime.NumCPU.
//
// Parameters:
//   - workers: the number of palette workers
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the worker count to an animator
func WithWorkers(workers int) AnimatorBuilderOption {
	return func(a *animator) {
		a.workers = workers
	}
}

// WithOutputBinding is an option builder that sets the binding index the palette buffer is
// written to on the output BindGroupProvider.
//
// Parameters:
//   - binding: the binding index of the palette storage buffer
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the output binding to an animator
func WithOutputBinding(binding int) AnimatorBuilderOption {
	return func(a *animator) {
		a.outputBinding = binding
	}
}

// WithLogger is an option builder that sets the logger used by the Animator.
//
// Parameters:
//   - logger: the structured logger to use
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the logger to an animator
func WithLogger(logger *slog.Logger) AnimatorBuilderOption {
	return func(a *animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}
