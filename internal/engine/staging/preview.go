package staging

import (
	"context"
	"reflect"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
)

// DiffKind is the net effect of a changeset on one element.
type DiffKind string

const (
	// DiffAdded means the element exists only in the projected view.
	DiffAdded DiffKind = "added"
	// DiffModified means the element exists in both views with different content.
	DiffModified DiffKind = "modified"
	// DiffRemoved means the element exists only in the base model.
	DiffRemoved DiffKind = "removed"
)

// ElementDiff is the net effect of a changeset on one element.
type ElementDiff struct {
	ElementID string
	Layer     string
	Kind      DiffKind
	Before    *domain.Element
	After     *domain.Element
}

// Status summarizes a changeset for review.
type Status struct {
	Changeset *domain.Changeset
	Active    bool
	Drift     domain.DriftReport
	Metrics   domain.CacheMetrics
}

// Preview returns the base model with the changeset's staged changes applied.
func (m *Manager) Preview(ctx context.Context, base *domain.Model, changesetID string) (*domain.Model, error) {
	lock := m.lockFor(changesetID)
	lock.RLock()
	defer lock.RUnlock()

	if _, err := m.Load(ctx, changesetID); err != nil {
		return nil, err
	}
	return m.projector.ProjectModel(ctx, base, changesetID)
}

// PreviewLayer returns one layer with the changeset's staged changes applied.
func (m *Manager) PreviewLayer(ctx context.Context, base *domain.Model, changesetID, layer string) (*domain.Layer, error) {
	lock := m.lockFor(changesetID)
	lock.RLock()
	defer lock.RUnlock()

	return m.projector.ProjectLayer(ctx, base, changesetID, layer)
}

// DetectDrift compares the changeset's base snapshot against the live model.
func (m *Manager) DetectDrift(ctx context.Context, base *domain.Model, changesetID string) (domain.DriftReport, error) {
	lock := m.lockFor(changesetID)
	lock.RLock()
	defer lock.RUnlock()

	cs, err := m.Load(ctx, changesetID)
	if err != nil {
		return domain.DriftReport{}, err
	}
	return m.snapshots.DetectDrift(ctx, cs.BaseSnapshot, base)
}

// Status returns the changeset together with its drift and cache counters.
// Drift is only computed for drafts.
func (m *Manager) Status(ctx context.Context, base *domain.Model, changesetID string) (*Status, error) {
	lock := m.lockFor(changesetID)
	lock.RLock()
	defer lock.RUnlock()

	cs, err := m.Load(ctx, changesetID)
	if err != nil {
		return nil, err
	}

	active, err := m.store.ActiveID(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Changeset: cs,
		Active:    active == changesetID,
		Metrics:   m.projector.CacheMetrics(changesetID),
	}
	if cs.IsDraft() {
		status.Drift, err = m.snapshots.DetectDrift(ctx, cs.BaseSnapshot, base)
		if err != nil {
			return nil, err
		}
	}
	return status, nil
}

// Diff returns the net effect of the changeset on every element it touches, in staging order.
// Elements whose changes cancel out are omitted.
func (m *Manager) Diff(ctx context.Context, base *domain.Model, changesetID string) ([]ElementDiff, error) {
	lock := m.lockFor(changesetID)
	lock.RLock()
	defer lock.RUnlock()

	cs, err := m.Load(ctx, changesetID)
	if err != nil {
		return nil, err
	}

	projected := make(map[string]*domain.Layer)
	var diffs []ElementDiff
	seen := make(map[string]bool)

	for _, c := range cs.Ordered() {
		if seen[c.ElementID] {
			continue
		}
		seen[c.ElementID] = true

		after, ok := projected[c.LayerName]
		if !ok {
			after, err = m.projector.ProjectLayer(ctx, base, changesetID, c.LayerName)
			if err != nil {
				return nil, err
			}
			projected[c.LayerName] = after
		}

		var before *domain.Element
		if layer, err := base.Layer(c.LayerName); err == nil {
			if e, found := layer.Get(c.ElementID); found {
				before = e.Clone()
			}
		}
		current, _ := after.Get(c.ElementID)

		d := ElementDiff{ElementID: c.ElementID, Layer: c.LayerName, Before: before, After: current}
		switch {
		case before == nil && current == nil:
			continue
		case before == nil:
			d.Kind = DiffAdded
		case current == nil:
			d.Kind = DiffRemoved
		case reflect.DeepEqual(before, current):
			continue
		default:
			d.Kind = DiffModified
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}
