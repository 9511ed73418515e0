package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-skin/engine/model"
)

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (gltfLoaderBackend, rigLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported skeleton and animations
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *model.ImportedModel: the imported skeleton and animations
	//   - error: error if loading fails
	LoadReader(r io.Reader) (*model.ImportedModel, error)
}
