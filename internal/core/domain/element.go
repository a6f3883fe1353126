package domain

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Relationship is a typed, directed edge from one element to another.
type Relationship struct {
	Type   string `json:"type" yaml:"type"`
	Target string `json:"target" yaml:"target"`
}

// Element is a single architecture element inside a layer.
type Element struct {
	// ID is layer qualified: <layer>.<type>.<kebab-name>.
	ID            string         `json:"id" yaml:"id"`
	Type          string         `json:"type" yaml:"type"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description,omitzero" yaml:"description,omitempty"`
	Properties    map[string]any `json:"properties,omitzero" yaml:"properties,omitempty"`
	Relationships []Relationship `json:"relationships,omitzero" yaml:"relationships,omitempty"`
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	c.Properties = cloneProperties(e.Properties)
	c.Relationships = slices.Clone(e.Relationships)
	return &c
}

// State returns the full state of the element, used as a change payload.
func (e *Element) State() *ElementState {
	if e == nil {
		return nil
	}
	rels := slices.Clone(e.Relationships)
	if rels == nil {
		rels = []Relationship{}
	}
	return &ElementState{
		Type:          ptr(e.Type),
		Name:          ptr(e.Name),
		Description:   ptr(e.Description),
		Properties:    cloneProperties(e.Properties),
		Relationships: rels,
	}
}

// ElementState is a partial element snapshot carried by a change.
// Nil fields are absent. A nil value inside Properties removes the key when merged.
// A non-nil Relationships slice replaces the element's relationships.
type ElementState struct {
	Type          *string        `json:"type,omitempty" yaml:"type,omitempty"`
	Name          *string        `json:"name,omitempty" yaml:"name,omitempty"`
	Description   *string        `json:"description,omitempty" yaml:"description,omitempty"`
	Properties    map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Clone returns a deep copy of the state.
func (s *ElementState) Clone() *ElementState {
	if s == nil {
		return nil
	}
	c := *s
	c.Type = clonePtr(s.Type)
	c.Name = clonePtr(s.Name)
	c.Description = clonePtr(s.Description)
	c.Properties = cloneProperties(s.Properties)
	if s.Relationships != nil {
		c.Relationships = slices.Clone(s.Relationships)
	}
	return &c
}

// NewElement materializes the state into a new element with the given id.
func (s *ElementState) NewElement(id string) *Element {
	e := &Element{ID: id}
	s.MergeInto(e)
	return e
}

// MergeInto applies the state onto the element in place.
func (s *ElementState) MergeInto(e *Element) {
	if s == nil || e == nil {
		return
	}
	if s.Type != nil {
		e.Type = *s.Type
	}
	if s.Name != nil {
		e.Name = *s.Name
	}
	if s.Description != nil {
		e.Description = *s.Description
	}
	for k, v := range s.Properties {
		if v == nil {
			delete(e.Properties, k)
			continue
		}
		if e.Properties == nil {
			e.Properties = make(map[string]any, len(s.Properties))
		}
		e.Properties[k] = v
	}
	if len(e.Properties) == 0 {
		e.Properties = nil
	}
	if s.Relationships != nil {
		e.Relationships = slices.Clone(s.Relationships)
		if len(e.Relationships) == 0 {
			e.Relationships = nil
		}
	}
}

// LayerOf returns the layer prefix of a layer qualified element id.
func LayerOf(elementID string) (string, error) {
	layer, rest, ok := strings.Cut(elementID, ".")
	if !ok || layer == "" || rest == "" {
		return "", zerr.With(zerr.Wrap(ErrInvalidElementID, "cannot derive layer"), "element_id", elementID)
	}
	return layer, nil
}

// ElementID builds a layer qualified element id from its parts.
// The name is converted to kebab case.
func ElementID(layer, elementType, name string) string {
	return layer + "." + elementType + "." + Slugify(name)
}

// Slugify lower cases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneProperties deep copies nested maps and slices produced by YAML or JSON decoding.
func cloneProperties(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneProperties(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// PropertyKeys returns the sorted property keys of the element.
func (e *Element) PropertyKeys() []string {
	return slices.Sorted(maps.Keys(e.Properties))
}
