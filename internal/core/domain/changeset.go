package domain

import (
	"maps"
	"slices"
	"time"
)

// ChangesetStatus is the lifecycle state of a changeset.
type ChangesetStatus string

const (
	// StatusDraft is the state of a changeset accepting staged changes.
	StatusDraft ChangesetStatus = "draft"
	// StatusCommitted is the state of a changeset whose changes reached the model.
	StatusCommitted ChangesetStatus = "committed"
	// StatusReverted is the state of a changeset whose changes were undone.
	StatusReverted ChangesetStatus = "reverted"
	// StatusDiscarded is the state of a changeset abandoned without committing.
	StatusDiscarded ChangesetStatus = "discarded"
)

// Changeset is a named, ordered batch of staged changes against a base snapshot.
type Changeset struct {
	// ID is a slug derived from Name and used as the storage key.
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitzero"`
	Status       ChangesetStatus `json:"status"`
	BaseSnapshot Snapshot        `json:"baseSnapshot"`
	Changes      []Change        `json:"changes"`
	Created      time.Time       `json:"created"`
	Modified     time.Time       `json:"modified"`
}

// NewChangeset creates an empty draft changeset.
func NewChangeset(id, name, description string, snapshot Snapshot, now time.Time) *Changeset {
	return &Changeset{
		ID:           id,
		Name:         name,
		Description:  description,
		Status:       StatusDraft,
		BaseSnapshot: snapshot,
		Changes:      []Change{},
		Created:      now,
		Modified:     now,
	}
}

// ChangesetID derives a changeset id from its display name.
func ChangesetID(name string) string {
	return Slugify(name)
}

// IsDraft reports whether the changeset still accepts staged changes.
func (cs *Changeset) IsDraft() bool {
	return cs.Status == StatusDraft
}

// ChangeCount returns the number of staged changes.
func (cs *Changeset) ChangeCount() int {
	return len(cs.Changes)
}

// NextSequence returns the sequence number the next staged change receives.
func (cs *Changeset) NextSequence() int {
	next := 1
	for _, c := range cs.Changes {
		if c.SequenceNumber >= next {
			next = c.SequenceNumber + 1
		}
	}
	return next
}

// Append assigns the next sequence number to the change and appends it.
func (cs *Changeset) Append(c Change, now time.Time) Change {
	c.SequenceNumber = cs.NextSequence()
	if c.Timestamp.IsZero() {
		c.Timestamp = now
	}
	cs.Changes = append(cs.Changes, c)
	cs.Modified = now
	return c
}

// RemoveElement drops every change for the element and returns how many were removed.
func (cs *Changeset) RemoveElement(elementID string, now time.Time) int {
	before := len(cs.Changes)
	cs.Changes = slices.DeleteFunc(cs.Changes, func(c Change) bool {
		return c.ElementID == elementID
	})
	removed := before - len(cs.Changes)
	if removed > 0 {
		cs.Modified = now
	}
	return removed
}

// Ordered returns the changes sorted by sequence number.
func (cs *Changeset) Ordered() []Change {
	out := slices.Clone(cs.Changes)
	slices.SortStableFunc(out, func(a, b Change) int {
		return a.SequenceNumber - b.SequenceNumber
	})
	return out
}

// ChangesByType counts changes per change type.
func (cs *Changeset) ChangesByType() map[ChangeType]int {
	out := make(map[ChangeType]int, 3)
	for _, c := range cs.Changes {
		out[c.Type]++
	}
	return out
}

// ChangesByLayer counts changes per layer.
func (cs *Changeset) ChangesByLayer() map[string]int {
	out := make(map[string]int)
	for _, c := range cs.Changes {
		out[c.LayerName]++
	}
	return out
}

// ChangesFor returns the changes for one element in sequence order.
func (cs *Changeset) ChangesFor(elementID string) []Change {
	var out []Change
	for _, c := range cs.Ordered() {
		if c.ElementID == elementID {
			out = append(out, c)
		}
	}
	return out
}

// ChangesForLayer returns the changes for one layer in sequence order.
func (cs *Changeset) ChangesForLayer(layer string) []Change {
	var out []Change
	for _, c := range cs.Ordered() {
		if c.LayerName == layer {
			out = append(out, c)
		}
	}
	return out
}

// TouchedLayers returns the sorted names of layers with at least one change.
func (cs *Changeset) TouchedLayers() []string {
	return slices.Sorted(maps.Keys(cs.ChangesByLayer()))
}

// Clone returns a deep copy of the changeset.
func (cs *Changeset) Clone() *Changeset {
	c := *cs
	c.BaseSnapshot = cs.BaseSnapshot.Clone()
	c.Changes = cloneChanges(cs.Changes)
	if c.Changes == nil {
		c.Changes = []Change{}
	}
	return &c
}
