package domain

import (
	"maps"
	"slices"
	"time"
)

// Snapshot is the fingerprint of a model at a point in time.
type Snapshot struct {
	CapturedAt time.Time `json:"capturedAt"`
	// Layers maps each layer name to the hex encoded hash of its content.
	Layers map[string]string `json:"layers"`
	// Digest combines every layer hash in name order.
	Digest string `json:"digest"`
}

// IsZero reports whether the snapshot was never captured.
func (s Snapshot) IsZero() bool {
	return s.Digest == "" && len(s.Layers) == 0
}

// Clone returns a copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	s.Layers = maps.Clone(s.Layers)
	return s
}

// DriftKind describes how a layer differs from its snapshot.
type DriftKind string

const (
	// DriftModified means the layer content hash changed.
	DriftModified DriftKind = "modified"
	// DriftAdded means the layer exists in the model but not in the snapshot.
	DriftAdded DriftKind = "added"
	// DriftRemoved means the layer exists in the snapshot but not in the model.
	DriftRemoved DriftKind = "removed"
)

// LayerDrift is the drift of a single layer.
type LayerDrift struct {
	Layer    string    `json:"layer"`
	Kind     DriftKind `json:"kind"`
	Expected string    `json:"expected,omitzero"`
	Actual   string    `json:"actual,omitzero"`
}

// DriftReport is the result of comparing a snapshot against the current model.
type DriftReport struct {
	HasDrift bool         `json:"hasDrift"`
	Layers   []LayerDrift `json:"layers,omitzero"`
}

// Affects reports whether any drifted layer is one of the given layers.
func (r DriftReport) Affects(layers []string) bool {
	for _, d := range r.Layers {
		if slices.Contains(layers, d.Layer) {
			return true
		}
	}
	return false
}

// LayerNames returns the names of the drifted layers.
func (r DriftReport) LayerNames() []string {
	out := make([]string, 0, len(r.Layers))
	for _, d := range r.Layers {
		out = append(out, d.Layer)
	}
	return out
}

// CacheMetrics are the projection cache counters of one changeset.
type CacheMetrics struct {
	Hits             uint64
	Misses           uint64
	Invalidations    uint64
	LastInvalidation time.Time
}

// HitRatio returns hits over total lookups, or zero when nothing was looked up.
func (m CacheMetrics) HitRatio() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// ValidationIssue is one problem found in a model.
type ValidationIssue struct {
	Layer     string `json:"layer"`
	ElementID string `json:"elementId"`
	Field     string `json:"field,omitzero"`
	Message   string `json:"message"`
}

// String renders the issue on a single line.
func (i ValidationIssue) String() string {
	if i.ElementID == "" {
		return i.Layer + ": " + i.Message
	}
	return i.ElementID + ": " + i.Message
}
