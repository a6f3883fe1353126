package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// ChangeType is the kind of mutation a change records.
type ChangeType string

const (
	// ChangeAdd inserts a new element.
	ChangeAdd ChangeType = "add"
	// ChangeUpdate merges new state onto an existing element.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete removes an element.
	ChangeDelete ChangeType = "delete"
)

// Valid reports whether t is a known change type.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeAdd, ChangeUpdate, ChangeDelete:
		return true
	default:
		return false
	}
}

// Change is one staged mutation of one element.
type Change struct {
	Type      ChangeType `json:"type" yaml:"type"`
	ElementID string     `json:"elementId" yaml:"element"`
	LayerName string     `json:"layerName" yaml:"layer"`
	// SequenceNumber is assigned at stage time and orders replay within a changeset.
	SequenceNumber int           `json:"sequenceNumber" yaml:"sequence"`
	Before         *ElementState `json:"before,omitempty" yaml:"before,omitempty"`
	After          *ElementState `json:"after,omitempty" yaml:"after,omitempty"`
	Timestamp      time.Time     `json:"timestamp" yaml:"timestamp"`
}

// Validate checks the structural integrity of the change.
func (c *Change) Validate() error {
	if !c.Type.Valid() {
		return zerr.With(zerr.Wrap(ErrInvalidChangeType, "invalid change"), "type", string(c.Type))
	}
	if c.ElementID == "" {
		return zerr.Wrap(ErrInvalidElementID, "change has no element id")
	}
	if c.LayerName == "" {
		return zerr.With(zerr.Wrap(ErrLayerNotFound, "change has no layer"), "element_id", c.ElementID)
	}
	if c.Type != ChangeDelete && c.After == nil {
		return zerr.With(zerr.Wrap(ErrMissingChangePayload, "invalid change"), "element_id", c.ElementID)
	}
	return nil
}

// Clone returns a deep copy of the change.
func (c Change) Clone() Change {
	c.Before = c.Before.Clone()
	c.After = c.After.Clone()
	return c
}

// ApplyTo applies the change to the layer in place.
// An update of a missing element and an add of an existing element fail.
func (c *Change) ApplyTo(l *Layer) error {
	switch c.Type {
	case ChangeAdd:
		return l.Add(c.After.NewElement(c.ElementID))
	case ChangeUpdate:
		e, ok := l.Get(c.ElementID)
		if !ok {
			return zerr.With(zerr.With(zerr.Wrap(ErrElementNotFound, "cannot update element"), "element_id", c.ElementID), "layer", l.Name())
		}
		c.After.MergeInto(e)
		l.MarkDirty()
		return nil
	case ChangeDelete:
		return l.Remove(c.ElementID)
	default:
		return zerr.With(zerr.Wrap(ErrInvalidChangeType, "cannot apply change"), "type", string(c.Type))
	}
}

func cloneChanges(changes []Change) []Change {
	if changes == nil {
		return nil
	}
	out := make([]Change, len(changes))
	for i, c := range changes {
		out[i] = c.Clone()
	}
	return out
}
