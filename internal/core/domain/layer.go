package domain

import (
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// DefaultLayers is the ordered set of layers created by a fresh model.
var DefaultLayers = []string{
	"motivation",
	"business",
	"security",
	"application",
	"technology",
	"api",
	"data-model",
	"datastore",
	"ux",
	"navigation",
	"apm",
	"testing",
}

// Layer is a named collection of elements keyed by id.
type Layer struct {
	name     string
	elements map[string]*Element
	dirty    bool
}

// NewLayer creates an empty layer.
func NewLayer(name string) *Layer {
	return &Layer{
		name:     name,
		elements: make(map[string]*Element),
	}
}

// Name returns the layer name.
func (l *Layer) Name() string {
	return l.name
}

// Len returns the number of elements in the layer.
func (l *Layer) Len() int {
	return len(l.elements)
}

// Get returns the element with the given id.
func (l *Layer) Get(id string) (*Element, bool) {
	e, ok := l.elements[id]
	return e, ok
}

// Has reports whether the layer contains the element.
func (l *Layer) Has(id string) bool {
	_, ok := l.elements[id]
	return ok
}

// Elements returns the elements sorted by id.
func (l *Layer) Elements() []*Element {
	ids := slices.Sorted(maps.Keys(l.elements))
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.elements[id])
	}
	return out
}

// Add inserts a new element. It fails if the id is already present.
func (l *Layer) Add(e *Element) error {
	if _, exists := l.elements[e.ID]; exists {
		return zerr.With(zerr.With(zerr.Wrap(ErrElementAlreadyExists, "cannot add element"), "element_id", e.ID), "layer", l.name)
	}
	l.elements[e.ID] = e
	l.dirty = true
	return nil
}

// Put inserts or replaces an element.
func (l *Layer) Put(e *Element) {
	l.elements[e.ID] = e
	l.dirty = true
}

// Remove deletes the element with the given id.
func (l *Layer) Remove(id string) error {
	if _, exists := l.elements[id]; !exists {
		return zerr.With(zerr.With(zerr.Wrap(ErrElementNotFound, "cannot remove element"), "element_id", id), "layer", l.name)
	}
	delete(l.elements, id)
	l.dirty = true
	return nil
}

// Dirty reports whether the layer was mutated since it was loaded or last saved.
func (l *Layer) Dirty() bool {
	return l.dirty
}

// MarkDirty flags the layer for persistence.
func (l *Layer) MarkDirty() {
	l.dirty = true
}

// MarkClean clears the dirty flag after the layer was persisted.
func (l *Layer) MarkClean() {
	l.dirty = false
}

// Clone returns a deep copy of the layer, including the dirty flag.
func (l *Layer) Clone() *Layer {
	c := &Layer{
		name:     l.name,
		elements: make(map[string]*Element, len(l.elements)),
		dirty:    l.dirty,
	}
	for id, e := range l.elements {
		c.elements[id] = e.Clone()
	}
	return c
}
