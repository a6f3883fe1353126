package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/metrics"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/staging"
)

// CreateChangeset captures the base model and creates an empty draft changeset.
func (a *App) CreateChangeset(ctx context.Context, name, description string, activate bool) (*domain.Changeset, error) {
	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}

	cs, err := a.staging.Create(ctx, base, name, description)
	if err != nil {
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("created changeset %s", cs.ID))

	if activate {
		if err := a.staging.SetActive(ctx, cs.ID); err != nil {
			return nil, err
		}
		a.logger.Info(fmt.Sprintf("activated changeset %s", cs.ID))
	}
	return cs, nil
}

// ChangesetEntry is one row of ListChangesets.
type ChangesetEntry struct {
	Changeset *domain.Changeset
	Active    bool
}

// ListChangesets returns every changeset ordered by creation time.
func (a *App) ListChangesets(ctx context.Context) ([]ChangesetEntry, error) {
	all, err := a.staging.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := a.staging.ActiveID(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ChangesetEntry, 0, len(all))
	for _, cs := range all {
		entries = append(entries, ChangesetEntry{Changeset: cs, Active: cs.ID == active})
	}
	return entries, nil
}

// ShowChangeset returns a changeset with its staged changes. An empty id selects the active changeset.
func (a *App) ShowChangeset(ctx context.Context, id string) (*domain.Changeset, error) {
	id, err := a.resolveChangeset(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.staging.Load(ctx, id)
}

// ActivateChangeset makes a draft changeset the target of element commands.
func (a *App) ActivateChangeset(ctx context.Context, id string) error {
	if err := a.staging.SetActive(ctx, id); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("activated changeset %s", id))
	return nil
}

// DeactivateChangeset clears the active changeset and returns the id that was active.
func (a *App) DeactivateChangeset(ctx context.Context) (string, error) {
	active, err := a.staging.ActiveID(ctx)
	if err != nil {
		return "", err
	}
	if active == "" {
		return "", nil
	}
	if err := a.staging.ClearActive(ctx); err != nil {
		return "", err
	}
	a.logger.Info(fmt.Sprintf("deactivated changeset %s", active))
	return active, nil
}

// StatusReport is the review summary of a changeset.
type StatusReport struct {
	*staging.Status
	// ProjectedElements is the element count of the projected model, zero unless the changeset is a draft.
	ProjectedElements int
	BaseElements      int
	Cache             metrics.Summary
}

// ChangesetStatus reports staged change counts, drift against the live model and projection cache counters.
func (a *App) ChangesetStatus(ctx context.Context, id string) (*StatusReport, error) {
	id, err := a.resolveChangeset(ctx, id)
	if err != nil {
		return nil, err
	}
	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}

	report := &StatusReport{BaseElements: base.ElementCount()}

	cs, err := a.staging.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if cs.IsDraft() {
		projected, err := a.staging.Preview(ctx, base, id)
		if err != nil {
			return nil, err
		}
		report.ProjectedElements = projected.ElementCount()
	}

	if report.Status, err = a.staging.Status(ctx, base, id); err != nil {
		return nil, err
	}
	if report.Cache, err = a.observer.Snapshot(); err != nil {
		return nil, err
	}
	if report.Drift.HasDrift {
		a.logger.Warn(driftMessage(id, report.Drift))
	}
	return report, nil
}

// DiffChangeset returns the net per-element effect of a changeset against the base model.
func (a *App) DiffChangeset(ctx context.Context, id string) (string, []staging.ElementDiff, error) {
	id, err := a.resolveChangeset(ctx, id)
	if err != nil {
		return "", nil, err
	}
	base, err := a.loadBase()
	if err != nil {
		return "", nil, err
	}
	diffs, err := a.staging.Diff(ctx, base, id)
	if err != nil {
		return "", nil, err
	}
	return id, diffs, nil
}

// Unstage drops every staged change of an element from a changeset.
func (a *App) Unstage(ctx context.Context, id, elementID string) (staging.UnstageResult, error) {
	id, err := a.resolveChangeset(ctx, id)
	if err != nil {
		return staging.UnstageResult{}, err
	}
	result, err := a.staging.Unstage(ctx, id, elementID)
	if err != nil {
		return staging.UnstageResult{}, err
	}
	if result.Removed == 0 {
		a.logger.Warn(fmt.Sprintf("%s has no staged changes in changeset %s", elementID, id))
	}
	return result, nil
}

// Discard drops every staged change and closes the changeset.
func (a *App) Discard(ctx context.Context, id string) (string, int, error) {
	id, err := a.resolveChangeset(ctx, id)
	if err != nil {
		return "", 0, err
	}
	dropped, err := a.staging.Discard(ctx, id)
	if err != nil {
		return "", 0, err
	}
	a.logger.Info(fmt.Sprintf("discarded changeset %s (%d changes dropped)", id, dropped))
	return id, dropped, nil
}

// CommitOptions configures Commit. Validation defaults to the workspace setting.
type CommitOptions struct {
	NoValidate bool
	Force      bool
}

// Commit applies a changeset to the model after the drift and validation gates.
func (a *App) Commit(ctx context.Context, id string, opts CommitOptions) (*staging.CommitResult, error) {
	id, err := a.resolveChangeset(ctx, id)
	if err != nil {
		return nil, err
	}
	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}

	result, err := a.staging.Commit(ctx, base, id, staging.CommitOptions{
		Validate: a.workspace.ValidateOnCommit && !opts.NoValidate,
		Force:    opts.Force,
	})
	if err != nil {
		return nil, err
	}
	if result.DriftWarning {
		a.logger.Warn("committed over drift: " + driftMessage(id, result.Drift))
	}
	a.logger.Info(fmt.Sprintf("committed changeset %s (%d changes)", id, result.Committed))
	return result, nil
}

// Apply applies a draft changeset without the drift and validation gates.
func (a *App) Apply(ctx context.Context, id string) (*staging.CommitResult, error) {
	id, err := a.resolveChangeset(ctx, id)
	if err != nil {
		return nil, err
	}
	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}
	result, err := a.staging.Apply(ctx, base, id)
	if err != nil {
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("applied changeset %s (%d changes)", id, result.Committed))
	return result, nil
}

// Revert undoes the latest apply of a changeset.
func (a *App) Revert(ctx context.Context, id string) (*staging.CommitResult, error) {
	base, err := a.loadBase()
	if err != nil {
		return nil, err
	}
	result, err := a.staging.Revert(ctx, base, id)
	if err != nil {
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("reverted changeset %s (%d changes)", id, result.Committed))
	return result, nil
}

// DeleteChangeset removes a changeset from storage.
func (a *App) DeleteChangeset(ctx context.Context, id string) error {
	if err := a.staging.Delete(ctx, id); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("deleted changeset %s", id))
	return nil
}

func driftMessage(id string, report domain.DriftReport) string {
	return fmt.Sprintf("base model drifted since changeset %s was created (layers: %s)",
		id, strings.Join(report.LayerNames(), ", "))
}
