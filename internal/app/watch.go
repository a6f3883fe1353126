package app

import (
	"context"
	"fmt"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// WatchReport describes one debounced batch of model file changes.
type WatchReport struct {
	Events []ports.WatchEvent
	// Elements is the element count of the reloaded base model.
	Elements int
	// ChangesetID is the active changeset checked for drift, empty when none is active.
	ChangesetID string
	Drift       domain.DriftReport
}

// Watch reloads the model whenever its files change and checks the active changeset for drift.
// It blocks until ctx is canceled. Reload failures are logged and do not stop the watch.
func (a *App) Watch(ctx context.Context, onReport func(WatchReport)) error {
	w, err := a.watchers.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(ctx, a.workspace.ModelPath); err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	a.logger.Info("watching " + a.workspace.ModelPath)

	for batch := range w.Events() {
		report, err := a.inspect(ctx, batch)
		if err != nil {
			a.logger.Error(zerr.Wrap(err, "failed to inspect model change"))
			continue
		}
		if report.Drift.HasDrift {
			a.logger.Warn(driftMessage(report.ChangesetID, report.Drift))
		}
		if onReport != nil {
			onReport(report)
		}
	}
	return nil
}

func (a *App) inspect(ctx context.Context, batch []ports.WatchEvent) (WatchReport, error) {
	report := WatchReport{Events: batch}

	base, err := a.reloadBase()
	if err != nil {
		return report, err
	}
	report.Elements = base.ElementCount()

	active, err := a.staging.ActiveID(ctx)
	if err != nil {
		return report, err
	}
	if active == "" {
		a.logger.Info(fmt.Sprintf("model reloaded: %d files changed", len(batch)))
		return report, nil
	}

	report.ChangesetID = active
	if report.Drift, err = a.staging.DetectDrift(ctx, base, active); err != nil {
		return report, err
	}
	return report, nil
}
