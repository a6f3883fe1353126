package staging

import (
	"context"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"go.trai.ch/zerr"
)

// UnstageResult reports how many changes an unstage removed.
// Zero means the element had no staged changes.
type UnstageResult struct {
	ElementID string
	Removed   int
}

// Stage appends a change to a draft changeset and invalidates the projection of its layer.
// The change receives the next sequence number of the changeset.
func (m *Manager) Stage(ctx context.Context, changesetID string, change domain.Change) (domain.Change, error) {
	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.loadDraft(ctx, changesetID)
	if err != nil {
		return domain.Change{}, err
	}
	return m.stageLocked(ctx, cs, change)
}

func (m *Manager) stageLocked(ctx context.Context, cs *domain.Changeset, change domain.Change) (domain.Change, error) {
	if err := change.Validate(); err != nil {
		return domain.Change{}, zerr.With(err, "changeset", cs.ID)
	}

	staged := cs.Append(change, m.now().UTC())
	if err := m.store.Save(ctx, cs); err != nil {
		return domain.Change{}, err
	}

	m.projector.IndexChange(cs.ID, staged)
	m.projector.InvalidateOnStage(cs.ID, staged.LayerName)
	return staged, nil
}

// StageAdd stages the addition of a new element.
// The element must not exist in the projected view of the changeset.
func (m *Manager) StageAdd(ctx context.Context, base *domain.Model, changesetID string, element *domain.Element) (domain.Change, error) {
	layerName, err := domain.LayerOf(element.ID)
	if err != nil {
		return domain.Change{}, err
	}

	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.loadDraft(ctx, changesetID)
	if err != nil {
		return domain.Change{}, err
	}

	layer, err := m.projector.ProjectLayer(ctx, base, changesetID, layerName)
	if err != nil {
		return domain.Change{}, err
	}
	if layer.Has(element.ID) {
		return domain.Change{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrElementAlreadyExists, "cannot stage add"),
			"element_id", element.ID), "changeset", changesetID)
	}

	return m.stageLocked(ctx, cs, domain.Change{
		Type:      domain.ChangeAdd,
		ElementID: element.ID,
		LayerName: layerName,
		After:     element.State(),
	})
}

// StageUpdate stages an update of an element as it appears in the projected view.
// Before records the projected state so staged history stays reviewable.
func (m *Manager) StageUpdate(
	ctx context.Context,
	base *domain.Model,
	changesetID, elementID string,
	after *domain.ElementState,
) (domain.Change, error) {
	return m.stageExisting(ctx, base, changesetID, elementID, domain.ChangeUpdate, after)
}

// StageDelete stages the deletion of an element as it appears in the projected view.
func (m *Manager) StageDelete(ctx context.Context, base *domain.Model, changesetID, elementID string) (domain.Change, error) {
	return m.stageExisting(ctx, base, changesetID, elementID, domain.ChangeDelete, nil)
}

func (m *Manager) stageExisting(
	ctx context.Context,
	base *domain.Model,
	changesetID, elementID string,
	changeType domain.ChangeType,
	after *domain.ElementState,
) (domain.Change, error) {
	layerName, err := domain.LayerOf(elementID)
	if err != nil {
		return domain.Change{}, err
	}

	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.loadDraft(ctx, changesetID)
	if err != nil {
		return domain.Change{}, err
	}

	layer, err := m.projector.ProjectLayer(ctx, base, changesetID, layerName)
	if err != nil {
		return domain.Change{}, err
	}
	current, ok := layer.Get(elementID)
	if !ok {
		return domain.Change{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrElementNotFound, "cannot stage "+string(changeType)),
			"element_id", elementID), "changeset", changesetID)
	}

	return m.stageLocked(ctx, cs, domain.Change{
		Type:      changeType,
		ElementID: elementID,
		LayerName: layerName,
		Before:    current.State(),
		After:     after,
	})
}

// Unstage removes every staged change of an element.
// Unstaging an element without changes is a no-op reported through the result.
func (m *Manager) Unstage(ctx context.Context, changesetID, elementID string) (UnstageResult, error) {
	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.loadDraft(ctx, changesetID)
	if err != nil {
		return UnstageResult{}, err
	}

	// Changes staged by an earlier process are not in the engine index yet.
	for _, c := range cs.ChangesFor(elementID) {
		m.projector.IndexChange(changesetID, c)
	}

	removed := cs.RemoveElement(elementID, m.now().UTC())
	result := UnstageResult{ElementID: elementID, Removed: removed}
	if removed == 0 {
		return result, nil
	}

	if err := m.store.Save(ctx, cs); err != nil {
		return UnstageResult{}, err
	}
	m.projector.InvalidateOnUnstage(changesetID, elementID)
	return result, nil
}

// Discard drops every staged change and closes the changeset.
func (m *Manager) Discard(ctx context.Context, changesetID string) (int, error) {
	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.loadDraft(ctx, changesetID)
	if err != nil {
		return 0, err
	}

	dropped := cs.ChangeCount()
	cs.Changes = []domain.Change{}
	cs.Status = domain.StatusDiscarded
	cs.Modified = m.now().UTC()
	if err := m.store.Save(ctx, cs); err != nil {
		return 0, err
	}

	m.projector.Release(changesetID)
	return dropped, m.clearActiveIf(ctx, changesetID)
}
