package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skin/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger used by the Loader and its backends.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSkinName is an option builder that selects which glTF skin to import by name.
// By default the skin of the first skinned mesh is used.
//
// Parameters:
//   - name: the skin name
//
// Returns:
//   - LoaderBuilderOption: a function that applies the skin option to a loader
func WithSkinName(name string) LoaderBuilderOption {
	return func(l *loader) {
		l.skinName = name
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
