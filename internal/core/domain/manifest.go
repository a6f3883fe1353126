package domain

import (
	"slices"
	"time"
)

// HistoryAction identifies what a manifest history entry recorded.
type HistoryAction string

const (
	// HistoryApply records a changeset applied to the model.
	HistoryApply HistoryAction = "apply"
	// HistoryRevert records a changeset reverted from the model.
	HistoryRevert HistoryAction = "revert"
)

// Manifest describes the model: its name, version, layer order and change history.
type Manifest struct {
	Name    string         `yaml:"name"`
	Version string         `yaml:"version"`
	Layers  []string       `yaml:"layers"`
	History []HistoryEntry `yaml:"history,omitempty"`
}

// HistoryEntry records an apply or revert of a changeset.
type HistoryEntry struct {
	ID          string        `yaml:"id"`
	ChangesetID string        `yaml:"changeset"`
	Action      HistoryAction `yaml:"action"`
	Timestamp   time.Time     `yaml:"timestamp"`
	ChangeCount int           `yaml:"changes"`
	// Inverse undoes the recorded action when replayed in reverse order.
	Inverse []Change `yaml:"inverse,omitempty"`
}

// NewManifest creates a manifest with the default layers.
func NewManifest(name string) Manifest {
	return Manifest{
		Name:    name,
		Version: "1.0.0",
		Layers:  slices.Clone(DefaultLayers),
	}
}

// Clone returns a deep copy of the manifest.
func (m Manifest) Clone() Manifest {
	c := m
	c.Layers = slices.Clone(m.Layers)
	if m.History != nil {
		c.History = make([]HistoryEntry, len(m.History))
		for i, h := range m.History {
			c.History[i] = h
			c.History[i].Inverse = cloneChanges(h.Inverse)
		}
	}
	return c
}

// LastApply returns the most recent apply entry for the changeset that was not reverted afterwards.
func (m Manifest) LastApply(changesetID string) (HistoryEntry, bool) {
	for i := len(m.History) - 1; i >= 0; i-- {
		h := m.History[i]
		if h.ChangesetID != changesetID {
			continue
		}
		if h.Action == HistoryRevert {
			return HistoryEntry{}, false
		}
		return h, true
	}
	return HistoryEntry{}, false
}
