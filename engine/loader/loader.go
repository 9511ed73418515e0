package loader

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-skin/common"
	"github.com/Carmen-Shannon/oxy-skin/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota

	// BackendTypeRig selects the TOML rig loader backend.
	BackendTypeRig
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger   *slog.Logger
	skinName string

	modelCache map[string]model.Model

	backends map[LoaderBackendType]loaderBackend
}

// Loader defines the public-facing interface for loading and caching animated models.
// It abstracts the file format (glTF, GLB, TOML rig) behind a backend per format and
// manages a cache of previously loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb → glTF, .toml → rig).
	// The model's rig is validated before it is cached.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading or validation fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - backendType: the format of the stream
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading or validation fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with every backend registered and options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		logger:     slog.Default(),
		modelCache: make(map[string]model.Model),
	}
	for _, option := range options {
		option(l)
	}

	l.backends = map[LoaderBackendType]loaderBackend{
		BackendTypeGLTF: newGLTFLoaderBackend(l.skinName, l.logger),
		BackendTypeRig:  newRigLoaderBackend(l.logger),
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, ok := l.backends[backendType]
	if !ok {
		return nil, fmt.Errorf("%w: backend %d", ErrUnsupportedFormat, backendType)
	}

	imported, err := backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	imported.Name = common.Coalesce(imported.Name, name)

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backends[BackendTypeGLTF], nil
	case ".toml":
		return l.backends[BackendTypeRig], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// importedToModel converts an ImportedModel into a Model and validates its rig once,
// so a bone-count mismatch surfaces at load time instead of during playback.
func (l *loader) importedToModel(imported *model.ImportedModel) (model.Model, error) {
	m := model.FromImported(imported)
	if _, err := m.Rig(); err != nil {
		return nil, err
	}
	return m, nil
}
