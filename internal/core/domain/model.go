package domain

import (
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// Model is the loaded architecture model: a manifest plus its layers.
// Clone and ReplaceWith are safe for concurrent use; layer contents are not
// synchronized and must be mutated on a clone owned by the caller.
type Model struct {
	mu       sync.RWMutex
	manifest Manifest
	layers   map[string]*Layer
}

// NewModel creates a model with an empty layer for every layer named in the manifest.
func NewModel(manifest Manifest) *Model {
	m := &Model{
		manifest: manifest.Clone(),
		layers:   make(map[string]*Layer, len(manifest.Layers)),
	}
	for _, name := range manifest.Layers {
		m.layers[name] = NewLayer(name)
	}
	return m
}

// Manifest returns a copy of the manifest.
func (m *Model) Manifest() Manifest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.manifest.Clone()
}

// AppendHistory records a history entry in the manifest.
func (m *Model) AppendHistory(entry HistoryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifest.History = append(m.manifest.History, entry)
}

// SetLayer installs a layer, registering its name in the manifest when new.
func (m *Model) SetLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.layers[l.Name()]; !ok && !slices.Contains(m.manifest.Layers, l.Name()) {
		m.manifest.Layers = append(m.manifest.Layers, l.Name())
	}
	m.layers[l.Name()] = l
}

// Layer returns the named layer.
func (m *Model) Layer(name string) (*Layer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.layers[name]
	if !ok || l == nil {
		return nil, zerr.With(zerr.Wrap(ErrLayerNotFound, "unknown layer"), "layer", name)
	}
	return l, nil
}

// HasLayer reports whether the model contains the named layer.
func (m *Model) HasLayer(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.layers[name]
	return ok
}

// LayerNames returns the layer names in manifest order.
func (m *Model) LayerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.manifest.Layers)
}

// FindElement looks an element up by id across all layers.
// The layer named by the id prefix is checked first.
func (m *Model) FindElement(id string) (*Element, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if layer, err := LayerOf(id); err == nil {
		if l, ok := m.layers[layer]; ok && l != nil {
			if e, found := l.Get(id); found {
				return e, layer, true
			}
		}
	}
	for _, name := range m.manifest.Layers {
		l := m.layers[name]
		if l == nil {
			continue
		}
		if e, found := l.Get(id); found {
			return e, name, true
		}
	}
	return nil, "", false
}

// ElementCount returns the total number of elements across all layers.
func (m *Model) ElementCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, l := range m.layers {
		if l != nil {
			n += l.Len()
		}
	}
	return n
}

// DirtyLayers returns the names of layers mutated since the last save, in manifest order.
func (m *Model) DirtyLayers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for _, name := range m.manifest.Layers {
		if l := m.layers[name]; l != nil && l.Dirty() {
			out = append(out, name)
		}
	}
	return out
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := &Model{
		manifest: m.manifest.Clone(),
		layers:   make(map[string]*Layer, len(m.layers)),
	}
	for name, l := range m.layers {
		if l == nil {
			c.layers[name] = nil
			continue
		}
		c.layers[name] = l.Clone()
	}
	return c
}

// ReplaceWith swaps in the state of other. The receiver takes ownership of other's layers.
func (m *Model) ReplaceWith(other *Model) {
	if m == other {
		return
	}
	other.mu.RLock()
	manifest := other.manifest
	layers := other.layers
	other.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifest = manifest
	m.layers = layers
}
