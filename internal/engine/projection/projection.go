// Package projection computes the merged view of a base model and a changeset's staged changes.
package projection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Invalidation scopes reported to the cache observer.
const (
	ScopeLayer   = "layer"
	ScopeElement = "element"
	ScopeFull    = "full"
	ScopeBase    = "base"
)

// changesetCache holds the projected layers of one changeset.
// Stored layers are never mutated; callers always receive clones.
type changesetCache struct {
	// epoch is bumped by full invalidations, layerEpochs by targeted ones.
	epoch       uint64
	layerEpochs map[string]uint64
	entries     map[string]*domain.Layer
	// index maps element ids to the layers their staged changes touch.
	index   map[string]map[string]struct{}
	metrics domain.CacheMetrics
}

func newChangesetCache() *changesetCache {
	return &changesetCache{
		layerEpochs: make(map[string]uint64),
		entries:     make(map[string]*domain.Layer),
		index:       make(map[string]map[string]struct{}),
	}
}

// Engine projects changesets onto the base model and caches the result per layer.
type Engine struct {
	store    ports.ChangesetStore
	observer ports.CacheObserver
	now      func() time.Time

	mu     sync.Mutex
	caches map[string]*changesetCache
	flight singleflight.Group
}

// NewEngine creates a new projection Engine.
// A nil observer disables cache event reporting.
func NewEngine(store ports.ChangesetStore, observer ports.CacheObserver) *Engine {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Engine{
		store:    store,
		observer: observer,
		now:      time.Now,
		caches:   make(map[string]*changesetCache),
	}
}

// cacheFor returns the cache of a changeset, creating it on first use. Callers must hold e.mu.
func (e *Engine) cacheFor(changesetID string) *changesetCache {
	c, ok := e.caches[changesetID]
	if !ok {
		c = newChangesetCache()
		e.caches[changesetID] = c
	}
	return c
}

// ProjectLayer returns the named layer with the changeset's staged changes applied.
// The result is a private copy the caller may mutate.
func (e *Engine) ProjectLayer(ctx context.Context, base *domain.Model, changesetID, layerName string) (*domain.Layer, error) {
	e.mu.Lock()
	c := e.cacheFor(changesetID)
	if cached, ok := c.entries[layerName]; ok {
		c.metrics.Hits++
		e.mu.Unlock()
		e.observer.ObserveHit(changesetID, layerName)
		return cached.Clone(), nil
	}
	key := fmt.Sprintf("%s\x00%s\x00%d\x00%d", changesetID, layerName, c.epoch, c.layerEpochs[layerName])
	e.mu.Unlock()

	v, err, _ := e.flight.Do(key, func() (any, error) {
		return e.compute(ctx, base, changesetID, layerName)
	})
	if err != nil {
		return nil, err
	}

	layer, _ := v.(*domain.Layer)
	return layer.Clone(), nil
}

func (e *Engine) compute(ctx context.Context, base *domain.Model, changesetID, layerName string) (*domain.Layer, error) {
	e.mu.Lock()
	c := e.cacheFor(changesetID)
	if cached, ok := c.entries[layerName]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	c.metrics.Misses++
	epoch, layerEpoch := c.epoch, c.layerEpochs[layerName]
	e.mu.Unlock()
	e.observer.ObserveMiss(changesetID, layerName)

	cs, err := e.load(ctx, changesetID)
	if err != nil {
		return nil, err
	}

	baseLayer, err := base.Layer(layerName)
	if err != nil {
		return nil, zerr.With(err, "changeset", changesetID)
	}

	projected := baseLayer.Clone()
	if err := ReplayLayer(projected, cs.ChangesForLayer(layerName)); err != nil {
		return nil, zerr.With(err, "changeset", changesetID)
	}

	e.mu.Lock()
	if current := e.caches[changesetID]; current == c && c.epoch == epoch && c.layerEpochs[layerName] == layerEpoch {
		c.entries[layerName] = projected
	}
	e.mu.Unlock()

	return projected, nil
}

// ProjectModel returns a copy of the base model with every touched layer projected.
func (e *Engine) ProjectModel(ctx context.Context, base *domain.Model, changesetID string) (*domain.Model, error) {
	cs, err := e.load(ctx, changesetID)
	if err != nil {
		return nil, err
	}

	merged := base.Clone()
	for _, name := range cs.TouchedLayers() {
		layer, err := e.ProjectLayer(ctx, base, changesetID, name)
		if err != nil {
			return nil, err
		}
		merged.SetLayer(layer)
	}
	return merged, nil
}

// InvalidateOnStage drops the cached projection of one layer, or of every layer when layerName is empty.
func (e *Engine) InvalidateOnStage(changesetID, layerName string) {
	scope := ScopeLayer
	e.mu.Lock()
	c := e.cacheFor(changesetID)
	if layerName == "" {
		scope = ScopeFull
		c.invalidateAll()
	} else {
		c.invalidateLayer(layerName)
	}
	c.recordInvalidation(e.now())
	e.mu.Unlock()

	e.observer.ObserveInvalidation(changesetID, scope)
}

// InvalidateOnUnstage drops the cached projections of the layers the element's changes touched.
// It falls back to a full invalidation when no layer resolves.
func (e *Engine) InvalidateOnUnstage(changesetID, elementID string) {
	scope := ScopeElement
	e.mu.Lock()
	c := e.cacheFor(changesetID)
	layers := c.index[elementID]
	if elementID == "" || len(layers) == 0 {
		scope = ScopeFull
		c.invalidateAll()
	} else {
		for layer := range layers {
			c.invalidateLayer(layer)
		}
	}
	delete(c.index, elementID)
	c.recordInvalidation(e.now())
	e.mu.Unlock()

	e.observer.ObserveInvalidation(changesetID, scope)
}

// IndexChange records which layer a staged change touches.
func (e *Engine) IndexChange(changesetID string, change domain.Change) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.cacheFor(changesetID)
	layers, ok := c.index[change.ElementID]
	if !ok {
		layers = make(map[string]struct{}, 1)
		c.index[change.ElementID] = layers
	}
	layers[change.LayerName] = struct{}{}
}

// Release drops every cached projection and the element index of a changeset.
// Metrics are kept.
func (e *Engine) Release(changesetID string) {
	e.mu.Lock()
	c := e.cacheFor(changesetID)
	c.invalidateAll()
	c.index = make(map[string]map[string]struct{})
	c.recordInvalidation(e.now())
	e.mu.Unlock()

	e.observer.ObserveInvalidation(changesetID, ScopeFull)
}

// InvalidateBase drops the cached projections of every changeset after the base model changed.
// Every epoch is bumped so computations in flight are discarded. Only caches that held entries
// count as invalidated.
func (e *Engine) InvalidateBase() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.caches))
	now := e.now()
	for id, c := range e.caches {
		held := len(c.entries) > 0
		c.invalidateAll()
		if !held {
			continue
		}
		c.recordInvalidation(now)
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.observer.ObserveInvalidation(id, ScopeBase)
	}
}

// CacheMetrics returns a copy of the changeset's cache counters.
// Unknown changesets report zero values.
func (e *Engine) CacheMetrics(changesetID string) domain.CacheMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.caches[changesetID]
	if !ok {
		return domain.CacheMetrics{}
	}
	return c.metrics
}

// CachedLayers returns how many layers of the changeset are currently cached.
func (e *Engine) CachedLayers(changesetID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.caches[changesetID]
	if !ok {
		return 0
	}
	return len(c.entries)
}

func (e *Engine) load(ctx context.Context, changesetID string) (*domain.Changeset, error) {
	cs, err := e.store.Load(ctx, changesetID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrChangesetNotFound, "cannot project changeset"), "changeset", changesetID)
	}
	return cs, nil
}

func (c *changesetCache) invalidateAll() {
	c.entries = make(map[string]*domain.Layer)
	c.epoch++
}

func (c *changesetCache) invalidateLayer(layer string) {
	delete(c.entries, layer)
	c.layerEpochs[layer]++
}

func (c *changesetCache) recordInvalidation(at time.Time) {
	c.metrics.Invalidations++
	c.metrics.LastInvalidation = at
}

type noopObserver struct{}

func (noopObserver) ObserveHit(string, string)          {}
func (noopObserver) ObserveMiss(string, string)         {}
func (noopObserver) ObserveInvalidation(string, string) {}
