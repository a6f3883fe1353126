package staging

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/projection"
	"go.trai.ch/zerr"
)

// CommitOptions controls the gates applied before a commit.
type CommitOptions struct {
	// Validate runs the model validator on the merged model. Validation failures are never forced.
	Validate bool
	// Force commits despite base drift.
	Force bool
}

// DefaultCommitOptions validates and refuses to commit over drift.
func DefaultCommitOptions() CommitOptions {
	return CommitOptions{Validate: true}
}

// CommitResult reports the outcome of a successful commit, apply or revert.
type CommitResult struct {
	ChangesetID string
	Committed   int
	Failed      int
	// DriftWarning is set when the commit was forced over base drift.
	DriftWarning bool
	Drift        domain.DriftReport
	// Layers are the layers written to disk.
	Layers    []string
	HistoryID string
}

// Commit validates the changeset against the live base model and applies it atomically.
// On any failure the base model, in memory and on disk, is left as it was.
func (m *Manager) Commit(ctx context.Context, base *domain.Model, changesetID string, opts CommitOptions) (*CommitResult, error) {
	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.loadDraft(ctx, changesetID)
	if err != nil {
		return nil, err
	}

	result := &CommitResult{ChangesetID: changesetID}
	if cs.ChangeCount() == 0 {
		return result, nil
	}

	drift, err := m.snapshots.DetectDrift(ctx, cs.BaseSnapshot, base)
	if err != nil {
		return nil, err
	}
	if drift.HasDrift {
		if !opts.Force {
			return nil, &domain.DriftError{ChangesetID: changesetID, Report: drift}
		}
		result.DriftWarning = true
		result.Drift = drift
	}

	if opts.Validate {
		if err := m.validate(ctx, base, cs); err != nil {
			return nil, err
		}
	}

	if err := m.applyChangeset(ctx, base, cs, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Apply applies a draft changeset without the drift and validation gates.
// Like Commit it records an apply entry in the manifest history so it can be reverted.
func (m *Manager) Apply(ctx context.Context, base *domain.Model, changesetID string) (*CommitResult, error) {
	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.loadDraft(ctx, changesetID)
	if err != nil {
		return nil, err
	}

	result := &CommitResult{ChangesetID: changesetID}
	if err := m.applyChangeset(ctx, base, cs, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (m *Manager) validate(ctx context.Context, base *domain.Model, cs *domain.Changeset) error {
	merged, err := m.projector.ProjectModel(ctx, base, cs.ID)
	if err != nil {
		return &domain.CommitError{ChangesetID: cs.ID, Failed: cs.ChangeCount(), Cause: err}
	}

	issues, err := m.validator.Validate(ctx, merged)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "validator failed"), "changeset", cs.ID)
	}
	if len(issues) > 0 {
		return &domain.ValidationError{ChangesetID: cs.ID, Issues: issues}
	}
	return nil
}

// applyChangeset applies cs to a working copy of base, swaps it in and persists it.
// Callers must hold the changeset write lock.
func (m *Manager) applyChangeset(ctx context.Context, base *domain.Model, cs *domain.Changeset, result *CommitResult) error {
	changes := cs.Ordered()

	m.baseMu.Lock()
	defer m.baseMu.Unlock()

	working := base.Clone()

	inverse, applied, err := applyWithInverse(working, changes)
	if err != nil {
		failed := changes[applied]
		return &domain.CommitError{
			ChangesetID: cs.ID,
			Failed:      len(changes),
			Sequence:    failed.SequenceNumber,
			ElementID:   failed.ElementID,
			Cause:       err,
		}
	}

	now := m.now().UTC()
	entry := domain.HistoryEntry{
		ID:          uuid.NewString(),
		ChangesetID: cs.ID,
		Action:      domain.HistoryApply,
		Timestamp:   now,
		ChangeCount: len(changes),
		Inverse:     inverse,
	}
	working.AppendHistory(entry)

	layers := cs.TouchedLayers()
	previous, err := m.swapAndPersist(base, working, layers)
	if err != nil {
		var commitErr *domain.CommitError
		if errors.As(err, &commitErr) {
			commitErr.ChangesetID = cs.ID
			commitErr.Failed = len(changes)
		}
		return err
	}

	status, modified := cs.Status, cs.Modified
	cs.Status = domain.StatusCommitted
	cs.Modified = now
	if err := m.store.Save(ctx, cs); err != nil {
		cs.Status, cs.Modified = status, modified
		return &domain.CommitError{
			ChangesetID: cs.ID,
			Failed:      len(changes),
			Cause:       zerr.Wrap(err, "changeset status could not be saved"),
			RollbackErr: m.restore(base, previous, layers),
		}
	}

	m.projector.Release(cs.ID)
	m.projector.InvalidateBase()

	result.Committed = len(changes)
	result.Layers = layers
	result.HistoryID = entry.ID
	return m.clearActiveIf(ctx, cs.ID)
}

// Revert undoes the latest apply of a changeset by replaying its inverse changes in reverse order.
func (m *Manager) Revert(ctx context.Context, base *domain.Model, changesetID string) (*CommitResult, error) {
	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	cs, err := m.Load(ctx, changesetID)
	if err != nil {
		return nil, err
	}

	m.baseMu.Lock()
	defer m.baseMu.Unlock()

	entry, ok := base.Manifest().LastApply(changesetID)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrHistoryEntryNotFound, "cannot revert changeset"), "changeset", changesetID)
	}
	if cs.Status != domain.StatusCommitted {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrChangesetNotCommitted, "cannot revert changeset"),
			"changeset", changesetID), "status", string(cs.Status))
	}

	undo := slices.Clone(entry.Inverse)
	slices.Reverse(undo)

	working := base.Clone()
	reInverse, applied, err := applyWithInverse(working, undo)
	if err != nil {
		failed := undo[applied]
		return nil, &domain.CommitError{
			ChangesetID: changesetID,
			Failed:      len(undo),
			Sequence:    failed.SequenceNumber,
			ElementID:   failed.ElementID,
			Cause:       err,
		}
	}

	now := m.now().UTC()
	revertEntry := domain.HistoryEntry{
		ID:          uuid.NewString(),
		ChangesetID: changesetID,
		Action:      domain.HistoryRevert,
		Timestamp:   now,
		ChangeCount: len(undo),
		Inverse:     reInverse,
	}
	working.AppendHistory(revertEntry)

	layers := touchedLayers(undo)
	previous, err := m.swapAndPersist(base, working, layers)
	if err != nil {
		var commitErr *domain.CommitError
		if errors.As(err, &commitErr) {
			commitErr.ChangesetID = changesetID
			commitErr.Failed = len(undo)
		}
		return nil, err
	}

	cs.Status = domain.StatusReverted
	cs.Modified = now
	if err := m.store.Save(ctx, cs); err != nil {
		return nil, &domain.CommitError{
			ChangesetID: changesetID,
			Failed:      len(undo),
			Cause:       zerr.Wrap(err, "changeset status could not be saved"),
			RollbackErr: m.restore(base, previous, layers),
		}
	}

	m.projector.Release(changesetID)
	m.projector.InvalidateBase()

	return &CommitResult{
		ChangesetID: changesetID,
		Committed:   len(undo),
		Layers:      layers,
		HistoryID:   revertEntry.ID,
	}, nil
}

// swapAndPersist installs working as the base model and writes it to disk.
// It returns the replaced model so a later failing step can restore it.
// If writing fails the previous state is restored before returning.
func (m *Manager) swapAndPersist(base, working *domain.Model, layers []string) (*domain.Model, error) {
	previous := base.Clone()
	base.ReplaceWith(working)

	err := m.models.SaveDirtyLayers(base)
	if err == nil {
		err = m.models.SaveManifest(base)
	}
	if err == nil {
		return previous, nil
	}
	return nil, &domain.CommitError{Cause: err, RollbackErr: m.restore(base, previous, layers)}
}

// restore puts previous back as the base model and rewrites layers and the manifest on a best effort basis.
func (m *Manager) restore(base, previous *domain.Model, layers []string) error {
	base.ReplaceWith(previous)
	m.projector.InvalidateBase()
	return errors.Join(
		m.models.SaveLayers(base, layers),
		m.models.SaveManifest(base),
	)
}

// applyWithInverse applies changes to m in order and returns the changes that undo them.
// The inverse is in application order and must be replayed in reverse.
func applyWithInverse(m *domain.Model, changes []domain.Change) ([]domain.Change, int, error) {
	inverse := make([]domain.Change, 0, len(changes))
	for i := range changes {
		c := changes[i]
		var prior *domain.Element
		if layer, err := m.Layer(c.LayerName); err == nil {
			if e, ok := layer.Get(c.ElementID); ok {
				prior = e.Clone()
			}
		}

		if _, err := projection.ApplyChanges(m, changes[i:i+1]); err != nil {
			return nil, i, err
		}

		undo := domain.Change{
			ElementID:      c.ElementID,
			LayerName:      c.LayerName,
			SequenceNumber: c.SequenceNumber,
			Timestamp:      c.Timestamp,
		}
		switch c.Type {
		case domain.ChangeAdd:
			undo.Type = domain.ChangeDelete
			undo.Before = c.After.Clone()
		case domain.ChangeDelete:
			undo.Type = domain.ChangeAdd
			undo.After = prior.State()
		case domain.ChangeUpdate:
			undo.Type = domain.ChangeUpdate
			undo.Before = c.After.Clone()
			undo.After = restoreState(prior, m, c)
		}
		inverse = append(inverse, undo)
	}
	return inverse, len(changes), nil
}

// restoreState returns the state that turns the updated element back into prior.
// Properties the update introduced are removed with nil values.
func restoreState(prior *domain.Element, m *domain.Model, c domain.Change) *domain.ElementState {
	state := prior.State()
	layer, err := m.Layer(c.LayerName)
	if err != nil {
		return state
	}
	updated, ok := layer.Get(c.ElementID)
	if !ok {
		return state
	}
	for key := range updated.Properties {
		if _, existed := prior.Properties[key]; existed {
			continue
		}
		if state.Properties == nil {
			state.Properties = make(map[string]any)
		}
		state.Properties[key] = nil
	}
	return state
}

func touchedLayers(changes []domain.Change) []string {
	var out []string
	for _, c := range changes {
		if !slices.Contains(out, c.LayerName) {
			out = append(out, c.LayerName)
		}
	}
	slices.Sort(out)
	return out
}
