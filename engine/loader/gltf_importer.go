package loader

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-skin/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	skinName string
	logger   *slog.Logger
}

// gltfImporter defines the interface for orchestrating a glTF/GLB import.
// It decodes the document and runs the skeleton and animation extractors to produce an ImportedModel.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts its skeleton and animations.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	Import(path string) (*model.ImportedModel, error)

	// ImportReader loads a self-contained glTF document (GLB, or JSON with embedded buffers)
	// from a reader.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if import fails
	ImportReader(r io.Reader) (*model.ImportedModel, error)

	// ImportDocument extracts a model from an already decoded document.
	//
	// Parameters:
	//   - doc: the decoded document
	//   - fallbackName: the model name used when the document's scene has none
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if extraction fails
	ImportDocument(doc *gltf.Document, fallbackName string) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Parameters:
//   - skinName: the skin to import, or "" for the default skin
//   - logger: the logger handed to the extractors
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter(skinName string, logger *slog.Logger) gltfImporter {
	return &gltfImporterImpl{skinName: skinName, logger: logger}
}

func (imp *gltfImporterImpl) Import(path string) (*model.ImportedModel, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	m, err := imp.ImportDocument(doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, err
	}
	m.Source = path
	return m, nil
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader) (*model.ImportedModel, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.ImportDocument(doc, "")
}

func (imp *gltfImporterImpl) ImportDocument(doc *gltf.Document, fallbackName string) (*model.ImportedModel, error) {
	skeletonExtractor := newGLTFSkeletonExtractor(doc, imp.logger)
	animationExtractor := newGLTFAnimationExtractor(doc, imp.logger)

	skinIndex, err := skeletonExtractor.FindSkin(imp.skinName)
	if err != nil {
		return nil, err
	}
	skin, err := skeletonExtractor.ExtractSkeleton(skinIndex)
	if err != nil {
		return nil, fmt.Errorf("skeleton extraction failed: %w", err)
	}
	animations, err := animationExtractor.ExtractAnimationsForSkin(skin)
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}

	name := gltfExtractModelName(doc, fallbackName)
	imp.logger.Info("imported glTF skin", "model", name, "skin", skinIndex, "bones", skin.Skeleton.Len(), "animations", len(animations))

	return &model.ImportedModel{
		Name:       name,
		Skeleton:   skin.Skeleton,
		Animations: animations,
	}, nil
}

// gltfExtractModelName derives a model name from the default scene or a fallback.
func gltfExtractModelName(doc *gltf.Document, fallback string) string {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "unnamed_model"
}
