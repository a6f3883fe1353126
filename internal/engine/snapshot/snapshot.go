// Package snapshot fingerprints the base model and detects drift against a captured snapshot.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Manager captures model snapshots and compares them against the live model.
type Manager struct {
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for CapturedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new snapshot Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Capture fingerprints every layer of the model.
// Layer hashes are independent of element insertion order.
func (m *Manager) Capture(ctx context.Context, model *domain.Model) (domain.Snapshot, error) {
	hashes, err := m.hashLayers(ctx, model)
	if err != nil {
		return domain.Snapshot{}, err
	}

	return domain.Snapshot{
		CapturedAt: m.now().UTC(),
		Layers:     hashes,
		Digest:     digest(hashes),
	}, nil
}

// DetectDrift recomputes the layer hashes and reports every layer that differs from the snapshot.
func (m *Manager) DetectDrift(ctx context.Context, snap domain.Snapshot, model *domain.Model) (domain.DriftReport, error) {
	current, err := m.hashLayers(ctx, model)
	if err != nil {
		return domain.DriftReport{}, err
	}

	var report domain.DriftReport
	for layer, expected := range snap.Layers {
		actual, ok := current[layer]
		switch {
		case !ok:
			report.Layers = append(report.Layers, domain.LayerDrift{Layer: layer, Kind: domain.DriftRemoved, Expected: expected})
		case actual != expected:
			report.Layers = append(report.Layers, domain.LayerDrift{Layer: layer, Kind: domain.DriftModified, Expected: expected, Actual: actual})
		}
	}
	for layer, actual := range current {
		if _, ok := snap.Layers[layer]; !ok {
			report.Layers = append(report.Layers, domain.LayerDrift{Layer: layer, Kind: domain.DriftAdded, Actual: actual})
		}
	}

	slices.SortFunc(report.Layers, func(a, b domain.LayerDrift) int {
		if a.Layer < b.Layer {
			return -1
		}
		if a.Layer > b.Layer {
			return 1
		}
		return 0
	})
	report.HasDrift = len(report.Layers) > 0

	return report, nil
}

func (m *Manager) hashLayers(ctx context.Context, model *domain.Model) (map[string]string, error) {
	if model == nil {
		return nil, &domain.SnapshotError{Cause: zerr.New("model is nil")}
	}

	names := model.LayerNames()
	results := make([]string, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			layer, err := model.Layer(name)
			if err != nil {
				return &domain.SnapshotError{Layer: name, Cause: err}
			}
			h, err := HashLayer(layer)
			if err != nil {
				return err
			}
			results[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hashes := make(map[string]string, len(names))
	for i, name := range names {
		hashes[name] = results[i]
	}
	return hashes, nil
}

// HashLayer returns the content hash of a layer.
// Elements are hashed in id order as canonical JSON.
func HashLayer(layer *domain.Layer) (string, error) {
	hasher := xxhash.New()
	_, _ = hasher.WriteString(layer.Name())
	_, _ = hasher.Write([]byte{0})

	for _, e := range layer.Elements() {
		if e == nil || e.ID == "" {
			return "", &domain.SnapshotError{Layer: layer.Name(), Cause: zerr.New("element has no id")}
		}
		data, err := json.Marshal(e)
		if err != nil {
			return "", &domain.SnapshotError{
				Layer: layer.Name(),
				Cause: zerr.With(zerr.Wrap(err, "failed to serialize element"), "element_id", e.ID),
			}
		}
		_, _ = hasher.Write(data)
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func digest(hashes map[string]string) string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	slices.Sort(names)

	hasher := xxhash.New()
	for _, name := range names {
		_, _ = hasher.WriteString(name)
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(hashes[name])
		_, _ = hasher.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
