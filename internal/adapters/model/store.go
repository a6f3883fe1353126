// Package model persists the base architecture model as YAML files.
package model

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// layerFile is the on-disk form of one layer.
type layerFile struct {
	Layer    string            `yaml:"layer"`
	Elements []*domain.Element `yaml:"elements"`
}

// Store implements ports.ModelStore with a manifest.yaml plus one YAML file per layer.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at the model directory.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Dir returns the model directory.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether the manifest file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.manifestPath())
	return err == nil
}

// Init writes the manifest and an empty file for each of its layers.
func (s *Store) Init(manifest domain.Manifest) (*domain.Model, error) {
	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrModelWriteFailed, err.Error()), "path", s.dir)
	}

	m := domain.NewModel(manifest)
	if err := s.SaveLayers(m, m.LayerNames()); err != nil {
		return nil, err
	}
	if err := s.SaveManifest(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the manifest and every layer it lists.
func (s *Store) Load() (*domain.Model, error) {
	var manifest domain.Manifest
	if err := readYAML(s.manifestPath(), &manifest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrModelNotInitialized, "manifest missing"), "path", s.dir)
		}
		return nil, err
	}

	m := domain.NewModel(manifest)
	for _, name := range manifest.Layers {
		layer, err := s.loadLayer(name)
		if err != nil {
			return nil, err
		}
		m.SetLayer(layer)
	}
	return m, nil
}

func (s *Store) loadLayer(name string) (*domain.Layer, error) {
	layer := domain.NewLayer(name)

	var file layerFile
	path := s.layerPath(name)
	if err := readYAML(path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return layer, nil
		}
		return nil, err
	}

	for _, el := range file.Elements {
		if el == nil {
			continue
		}
		if err := layer.Add(el); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrModelParseFailed, err.Error()), "path", path)
		}
	}
	layer.MarkClean()
	return layer, nil
}

// SaveDirtyLayers writes every dirty layer and clears its flag.
func (s *Store) SaveDirtyLayers(m *domain.Model) error {
	return s.SaveLayers(m, m.DirtyLayers())
}

// SaveLayers writes the named layers regardless of their dirty flag.
func (s *Store) SaveLayers(m *domain.Model, layers []string) error {
	for _, name := range layers {
		layer, err := m.Layer(name)
		if err != nil {
			return err
		}

		file := layerFile{Layer: name, Elements: layer.Elements()}
		if file.Elements == nil {
			file.Elements = []*domain.Element{}
		}
		if err := writeYAML(s.layerPath(name), &file); err != nil {
			return zerr.With(err, "layer", name)
		}
		layer.MarkClean()
	}
	return nil
}

// SaveManifest writes the manifest.
func (s *Store) SaveManifest(m *domain.Model) error {
	manifest := m.Manifest()
	return writeYAML(s.manifestPath(), &manifest)
}

func (s *Store) manifestPath() string {
	return filepath.Join(s.dir, domain.ManifestFileName)
}

func (s *Store) layerPath(name string) string {
	return filepath.Join(s.dir, domain.LayerFileName(name))
}

func readYAML[T any](path string, target *T) error {
	//nolint:gosec // path is built from the configured model directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return zerr.With(zerr.Wrap(domain.ErrModelReadFailed, err.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrModelParseFailed, err.Error()), "path", path)
	}
	return nil
}

// writeYAML writes to a temp file in the same directory and renames it into place.
func writeYAML[T any](path string, value *T) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrModelWriteFailed, err.Error()), "path", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrModelWriteFailed, err.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrModelWriteFailed, err.Error()), "path", path)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrModelWriteFailed, err.Error()), "path", path)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrModelWriteFailed, err.Error()), "path", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrModelWriteFailed, err.Error()), "path", path)
	}
	return nil
}
