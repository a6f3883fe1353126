// Package staging manages changesets: staging changes, previewing them and committing them to the base model.
package staging

import (
	"context"
	"sync"
	"time"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/projection"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/snapshot"
	"go.trai.ch/zerr"
)

// Manager is the staging area. It owns the changeset lifecycle and is the only
// component that mutates the base model through a changeset.
type Manager struct {
	store     ports.ChangesetStore
	models    ports.ModelStore
	snapshots *snapshot.Manager
	projector *projection.Engine
	validator ports.ModelValidator
	now       func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.RWMutex

	// baseMu serializes swaps of the base model across changesets.
	baseMu sync.Mutex
}

// NewManager creates a new staging Manager.
func NewManager(
	store ports.ChangesetStore,
	models ports.ModelStore,
	snapshots *snapshot.Manager,
	projector *projection.Engine,
	validator ports.ModelValidator,
) *Manager {
	return &Manager{
		store:     store,
		models:    models,
		snapshots: snapshots,
		projector: projector,
		validator: validator,
		now:       time.Now,
		locks:     make(map[string]*sync.RWMutex),
	}
}

// lockFor returns the lock serializing mutations of one changeset.
func (m *Manager) lockFor(changesetID string) *sync.RWMutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[changesetID]
	if !ok {
		l = &sync.RWMutex{}
		m.locks[changesetID] = l
	}
	return l
}

// Create captures a snapshot of the base model and persists a new empty draft changeset.
// The id is derived from the name.
func (m *Manager) Create(ctx context.Context, base *domain.Model, name, description string) (*domain.Changeset, error) {
	id := domain.ChangesetID(name)
	if id == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidChangesetName, "cannot create changeset"), "name", name)
	}

	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	existing, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrChangesetAlreadyExists, "cannot create changeset"), "changeset", id)
	}

	snap, err := m.snapshots.Capture(ctx, base)
	if err != nil {
		return nil, err
	}

	return m.store.Create(ctx, id, name, description, snap)
}

// Load returns the changeset or domain.ErrChangesetNotFound.
func (m *Manager) Load(ctx context.Context, changesetID string) (*domain.Changeset, error) {
	cs, err := m.store.Load(ctx, changesetID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrChangesetNotFound, "cannot load changeset"), "changeset", changesetID)
	}
	return cs, nil
}

// loadDraft returns the changeset if it still accepts staged changes.
func (m *Manager) loadDraft(ctx context.Context, changesetID string) (*domain.Changeset, error) {
	cs, err := m.Load(ctx, changesetID)
	if err != nil {
		return nil, err
	}
	if !cs.IsDraft() {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrChangesetNotDraft, "changeset is closed"),
			"changeset", changesetID), "status", string(cs.Status))
	}
	return cs, nil
}

// List returns every changeset ordered by creation time.
func (m *Manager) List(ctx context.Context) ([]*domain.Changeset, error) {
	return m.store.List(ctx)
}

// Delete removes a changeset, clearing the active pointer if it pointed at it.
func (m *Manager) Delete(ctx context.Context, changesetID string) error {
	lock := m.lockFor(changesetID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := m.Load(ctx, changesetID); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, changesetID); err != nil {
		return err
	}
	m.projector.Release(changesetID)
	return m.clearActiveIf(ctx, changesetID)
}

// SetActive makes a draft changeset the target of element commands.
func (m *Manager) SetActive(ctx context.Context, changesetID string) error {
	if _, err := m.loadDraft(ctx, changesetID); err != nil {
		return err
	}
	return m.store.SetActiveID(ctx, changesetID)
}

// ActiveID returns the active changeset id, or "" when none is active.
func (m *Manager) ActiveID(ctx context.Context) (string, error) {
	return m.store.ActiveID(ctx)
}

// ClearActive unsets the active changeset.
func (m *Manager) ClearActive(ctx context.Context) error {
	return m.store.ClearActiveID(ctx)
}

func (m *Manager) clearActiveIf(ctx context.Context, changesetID string) error {
	active, err := m.store.ActiveID(ctx)
	if err != nil {
		return err
	}
	if active != changesetID {
		return nil
	}
	return m.store.ClearActiveID(ctx)
}

// CacheMetrics returns the projection cache counters of a changeset.
func (m *Manager) CacheMetrics(changesetID string) domain.CacheMetrics {
	return m.projector.CacheMetrics(changesetID)
}

// InvalidateBase drops every cached projection after the base model changed outside a commit.
func (m *Manager) InvalidateBase() {
	m.projector.InvalidateBase()
}
