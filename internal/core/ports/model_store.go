package ports

import "github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"

// ModelStore defines the interface for loading and persisting the base model.
//
//go:generate mockgen -source=model_store.go -destination=mocks/mock_model_store.go -package=mocks
type ModelStore interface {
	// Load reads the manifest and every layer. Layers are never loaded lazily.
	Load() (*domain.Model, error)

	// SaveDirtyLayers writes every layer flagged dirty and clears the flag.
	SaveDirtyLayers(model *domain.Model) error

	// SaveLayers writes the named layers regardless of their dirty flag.
	SaveLayers(model *domain.Model, layers []string) error

	// SaveManifest writes the manifest.
	SaveManifest(model *domain.Model) error

	// Init creates an empty model with the given manifest.
	Init(manifest domain.Manifest) (*domain.Model, error)

	// Exists reports whether a model has been initialized.
	Exists() bool
}
