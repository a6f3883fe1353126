// Package app implements the application layer for dr.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/metrics"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/staging"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	workspace *domain.Workspace
	loader    ports.ConfigLoader
	models    ports.ModelStore
	staging   *staging.Manager
	observer  *metrics.Observer
	watchers  ports.WatcherFactory
	logger    ports.Logger
	now       func() time.Time

	// base is loaded once and mutated in place by commits so cached projections stay coherent.
	baseMu sync.Mutex
	base   *domain.Model
}

// New creates a new App instance.
func New(
	ws *domain.Workspace,
	loader ports.ConfigLoader,
	models ports.ModelStore,
	mgr *staging.Manager,
	observer *metrics.Observer,
	watchers ports.WatcherFactory,
	log ports.Logger,
) *App {
	return &App{
		workspace: ws,
		loader:    loader,
		models:    models,
		staging:   mgr,
		observer:  observer,
		watchers:  watchers,
		logger:    log,
		now:       time.Now,
	}
}

// Workspace returns the resolved workspace.
func (a *App) Workspace() *domain.Workspace {
	return a.workspace
}

// InitResult reports the outcome of Init.
type InitResult struct {
	Workspace *domain.Workspace
	Layers    []string
	// WroteConfig is false when dr.yaml already existed.
	WroteConfig bool
}

// Init creates dr.yaml when missing and an empty model with the default layers.
func (a *App) Init(_ context.Context, name string) (*InitResult, error) {
	if a.models.Exists() {
		return nil, zerr.With(zerr.Wrap(domain.ErrModelAlreadyInitialized, "cannot init"), "path", a.workspace.ModelPath)
	}

	result := &InitResult{Workspace: a.workspace}
	if !a.workspace.Initialized() {
		if name == "" {
			name = a.workspace.Name
		}
		ws, err := a.loader.WriteDefault(a.workspace.Root, name)
		if err != nil {
			return nil, err
		}
		result.Workspace = ws
		result.WroteConfig = true
	}
	if name == "" {
		name = result.Workspace.Name
	}

	m, err := a.models.Init(domain.NewManifest(name))
	if err != nil {
		return nil, err
	}
	result.Layers = m.LayerNames()

	a.baseMu.Lock()
	a.base = m
	a.baseMu.Unlock()

	a.logger.Info(fmt.Sprintf("initialized model %q with %d layers", name, len(result.Layers)))
	return result, nil
}

// loadBase returns the base model, reading it from disk on first use.
func (a *App) loadBase() (*domain.Model, error) {
	a.baseMu.Lock()
	defer a.baseMu.Unlock()
	if a.base != nil {
		return a.base, nil
	}

	base, err := a.models.Load()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load model")
	}
	a.base = base
	return base, nil
}

// reloadBase re-reads the base model from disk after it changed outside this process.
func (a *App) reloadBase() (*domain.Model, error) {
	fresh, err := a.models.Load()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to reload model")
	}

	a.baseMu.Lock()
	if a.base == nil {
		a.base = fresh
	} else {
		a.base.ReplaceWith(fresh)
	}
	base := a.base
	a.baseMu.Unlock()

	a.staging.InvalidateBase()
	return base, nil
}

// resolveChangeset returns id, or the active changeset id when id is empty.
func (a *App) resolveChangeset(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	active, err := a.staging.ActiveID(ctx)
	if err != nil {
		return "", err
	}
	if active == "" {
		return "", domain.ErrNoActiveChangeset
	}
	return active, nil
}
