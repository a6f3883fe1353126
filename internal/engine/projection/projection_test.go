package projection_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports/mocks"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/projection"
	"go.uber.org/mock/gomock"
)

func strPtr(s string) *string { return &s }

func baseModel(t *testing.T) *domain.Model {
	t.Helper()
	m := domain.NewModel(domain.Manifest{Name: "test", Layers: []string{"api", "business", "ux"}})
	api, err := m.Layer("api")
	require.NoError(t, err)
	require.NoError(t, api.Add(&domain.Element{ID: "api.endpoint.list-users", Type: "endpoint", Name: "List Users"}))
	biz, err := m.Layer("business")
	require.NoError(t, err)
	require.NoError(t, biz.Add(&domain.Element{ID: "business.service.accounts", Type: "service", Name: "Accounts"}))
	return m
}

func newChangeset(changes ...domain.Change) *domain.Changeset {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cs := domain.NewChangeset("c1", "C1", "", domain.Snapshot{}, now)
	for _, c := range changes {
		cs.Append(c, now)
	}
	return cs
}

func addChange(id, name string) domain.Change {
	layer, _ := domain.LayerOf(id)
	return domain.Change{
		Type:      domain.ChangeAdd,
		ElementID: id,
		LayerName: layer,
		After:     &domain.ElementState{Type: strPtr("endpoint"), Name: strPtr(name)},
	}
}

func updateChange(id, description string) domain.Change {
	layer, _ := domain.LayerOf(id)
	return domain.Change{
		Type:      domain.ChangeUpdate,
		ElementID: id,
		LayerName: layer,
		After:     &domain.ElementState{Description: strPtr(description)},
	}
}

func deleteChange(id string) domain.Change {
	layer, _ := domain.LayerOf(id)
	return domain.Change{Type: domain.ChangeDelete, ElementID: id, LayerName: layer}
}

func TestProjectLayer_CacheHitIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(addChange("api.endpoint.e1", "E1")), nil).Times(1)

	engine := projection.NewEngine(store, nil)
	base := baseModel(t)

	first, err := engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)
	second, err := engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)

	assert.Equal(t, first.Elements(), second.Elements())
	assert.Equal(t, 2, second.Len())

	metrics := engine.CacheMetrics("c1")
	assert.Equal(t, uint64(1), metrics.Misses)
	assert.Equal(t, uint64(1), metrics.Hits)

	// Mutating a returned layer must not leak into the cache.
	require.NoError(t, second.Remove("api.endpoint.e1"))
	third, err := engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)
	assert.True(t, third.Has("api.endpoint.e1"))

	baseAPI, err := base.Layer("api")
	require.NoError(t, err)
	assert.False(t, baseAPI.Has("api.endpoint.e1"), "projection must not touch the base model")
}

func TestInvalidateOnStage_Targeted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	cs := newChangeset(addChange("api.endpoint.e1", "E1"), updateChange("business.service.accounts", "owns users"))
	store.EXPECT().Load(gomock.Any(), "c1").Return(cs, nil).AnyTimes()

	engine := projection.NewEngine(store, nil)
	base := baseModel(t)

	_, err := engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)
	_, err = engine.ProjectLayer(t.Context(), base, "c1", "business")
	require.NoError(t, err)
	require.Equal(t, 2, engine.CachedLayers("c1"))

	engine.InvalidateOnStage("c1", "api")
	assert.Equal(t, 1, engine.CachedLayers("c1"))

	_, err = engine.ProjectLayer(t.Context(), base, "c1", "business")
	require.NoError(t, err)
	_, err = engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)

	metrics := engine.CacheMetrics("c1")
	assert.Equal(t, uint64(1), metrics.Hits, "business stays cached")
	assert.Equal(t, uint64(3), metrics.Misses, "api is recomputed")
	assert.Equal(t, uint64(1), metrics.Invalidations)
	assert.False(t, metrics.LastInvalidation.IsZero())

	engine.InvalidateOnStage("c1", "")
	assert.Zero(t, engine.CachedLayers("c1"))
	assert.Equal(t, uint64(2), engine.CacheMetrics("c1").Invalidations)
}

func TestInvalidateOnUnstage(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	e1 := addChange("api.endpoint.e1", "E1")
	b1 := updateChange("business.service.accounts", "owns users")
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(e1, b1), nil).AnyTimes()

	engine := projection.NewEngine(store, nil)
	engine.IndexChange("c1", e1)
	engine.IndexChange("c1", b1)
	base := baseModel(t)

	warm := func(t *testing.T) {
		t.Helper()
		for _, layer := range []string{"api", "business"} {
			_, err := engine.ProjectLayer(t.Context(), base, "c1", layer)
			require.NoError(t, err)
		}
	}

	t.Run("Indexed Element Drops Only Its Layer", func(t *testing.T) {
		warm(t)
		engine.InvalidateOnUnstage("c1", "api.endpoint.e1")
		assert.Equal(t, 1, engine.CachedLayers("c1"))
	})

	t.Run("Unknown Element Falls Back To Full", func(t *testing.T) {
		warm(t)
		engine.InvalidateOnUnstage("c1", "ux.screen.unknown")
		assert.Zero(t, engine.CachedLayers("c1"))
	})

	t.Run("Empty Element Falls Back To Full", func(t *testing.T) {
		warm(t)
		engine.InvalidateOnUnstage("c1", "")
		assert.Zero(t, engine.CachedLayers("c1"))
	})
}

func TestReplay_Determinism(t *testing.T) {
	tests := []struct {
		name    string
		changes []domain.Change
		check   func(t *testing.T, l *domain.Layer)
		wantErr error
	}{
		{
			name: "Later Update Wins",
			changes: []domain.Change{
				addChange("api.endpoint.e1", "E1"),
				updateChange("api.endpoint.e1", "first"),
				updateChange("api.endpoint.e1", "second"),
			},
			check: func(t *testing.T, l *domain.Layer) {
				e, ok := l.Get("api.endpoint.e1")
				require.True(t, ok)
				assert.Equal(t, "E1", e.Name)
				assert.Equal(t, "second", e.Description)
			},
		},
		{
			name: "Delete Nullifies Earlier Add",
			changes: []domain.Change{
				addChange("api.endpoint.e1", "E1"),
				updateChange("api.endpoint.e1", "first"),
				deleteChange("api.endpoint.e1"),
			},
			check: func(t *testing.T, l *domain.Layer) {
				assert.False(t, l.Has("api.endpoint.e1"))
			},
		},
		{
			name: "Add After Delete Resurrects",
			changes: []domain.Change{
				addChange("api.endpoint.e1", "E1"),
				updateChange("api.endpoint.e1", "first"),
				deleteChange("api.endpoint.e1"),
				addChange("api.endpoint.e1", "E1 again"),
			},
			check: func(t *testing.T, l *domain.Layer) {
				e, ok := l.Get("api.endpoint.e1")
				require.True(t, ok)
				assert.Equal(t, "E1 again", e.Name)
				assert.Empty(t, e.Description, "state from before the delete is gone")
			},
		},
		{
			name: "Delete Then Add Of Base Element",
			changes: []domain.Change{
				deleteChange("api.endpoint.list-users"),
				addChange("api.endpoint.list-users", "Replaced"),
			},
			check: func(t *testing.T, l *domain.Layer) {
				e, ok := l.Get("api.endpoint.list-users")
				require.True(t, ok)
				assert.Equal(t, "Replaced", e.Name)
			},
		},
		{
			name:    "Add Of Existing Element Fails",
			changes: []domain.Change{addChange("api.endpoint.list-users", "Dup")},
			wantErr: domain.ErrElementAlreadyExists,
		},
		{
			name:    "Update Of Missing Element Fails",
			changes: []domain.Change{updateChange("api.endpoint.missing", "x")},
			wantErr: domain.ErrElementNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockChangesetStore(ctrl)
			store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(tt.changes...), nil)

			engine := projection.NewEngine(store, nil)
			layer, err := engine.ProjectLayer(t.Context(), baseModel(t), "c1", "api")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, engine.CachedLayers("c1"), "failed projections are not cached")
				return
			}
			require.NoError(t, err)
			tt.check(t, layer)
		})
	}
}

func TestProjectLayer_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	store.EXPECT().Load(gomock.Any(), "missing").Return(nil, nil)
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(), nil)

	engine := projection.NewEngine(store, nil)
	base := baseModel(t)

	_, err := engine.ProjectLayer(t.Context(), base, "missing", "api")
	require.ErrorIs(t, err, domain.ErrChangesetNotFound)

	_, err = engine.ProjectLayer(t.Context(), base, "c1", "nope")
	require.ErrorIs(t, err, domain.ErrLayerNotFound)
}

func TestProjectModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(addChange("api.endpoint.e1", "E1")), nil).AnyTimes()

	engine := projection.NewEngine(store, nil)
	base := baseModel(t)

	merged, err := engine.ProjectModel(t.Context(), base, "c1")
	require.NoError(t, err)

	_, layer, ok := merged.FindElement("api.endpoint.e1")
	require.True(t, ok)
	assert.Equal(t, "api", layer)

	_, _, ok = merged.FindElement("business.service.accounts")
	assert.True(t, ok, "untouched layers are carried over")
	assert.Equal(t, 1, engine.CachedLayers("c1"), "only touched layers are cached")

	_, _, ok = base.FindElement("api.endpoint.e1")
	assert.False(t, ok)
}

func TestRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	change := addChange("api.endpoint.e1", "E1")
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(change), nil).AnyTimes()

	engine := projection.NewEngine(store, nil)
	engine.IndexChange("c1", change)
	_, err := engine.ProjectLayer(t.Context(), baseModel(t), "c1", "api")
	require.NoError(t, err)

	engine.Release("c1")

	assert.Zero(t, engine.CachedLayers("c1"))
	metrics := engine.CacheMetrics("c1")
	assert.Equal(t, uint64(1), metrics.Misses, "metrics survive release")
	assert.Equal(t, uint64(1), metrics.Invalidations)
	assert.Equal(t, domain.CacheMetrics{}, engine.CacheMetrics("unknown"))
}

func TestInvalidateBase(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(addChange("api.endpoint.e1", "E1")), nil).AnyTimes()

	engine := projection.NewEngine(store, nil)
	_, err := engine.ProjectLayer(t.Context(), baseModel(t), "c1", "api")
	require.NoError(t, err)

	engine.InvalidateBase()

	assert.Zero(t, engine.CachedLayers("c1"))
	assert.Equal(t, uint64(1), engine.CacheMetrics("c1").Invalidations)
}

func TestProjectLayer_InvalidationDuringComputeIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	cs := newChangeset(addChange("api.endpoint.e1", "E1"))

	var engine *projection.Engine
	store.EXPECT().Load(gomock.Any(), "c1").DoAndReturn(func(_ context.Context, _ string) (*domain.Changeset, error) {
		engine.InvalidateOnStage("c1", "api")
		return cs, nil
	})

	engine = projection.NewEngine(store, nil)
	layer, err := engine.ProjectLayer(t.Context(), baseModel(t), "c1", "api")
	require.NoError(t, err)

	assert.True(t, layer.Has("api.endpoint.e1"))
	assert.Zero(t, engine.CachedLayers("c1"), "a racing invalidation discards the result")
}

func TestProjectLayer_BaseInvalidationDuringComputeIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	cs := newChangeset(addChange("api.endpoint.e1", "E1"))

	var engine *projection.Engine
	gomock.InOrder(
		store.EXPECT().Load(gomock.Any(), "c1").DoAndReturn(func(_ context.Context, _ string) (*domain.Changeset, error) {
			engine.InvalidateBase()
			return cs, nil
		}),
		store.EXPECT().Load(gomock.Any(), "c1").Return(cs, nil),
	)

	engine = projection.NewEngine(store, nil)
	base := baseModel(t)

	_, err := engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)
	assert.Zero(t, engine.CachedLayers("c1"), "a base swap during compute discards the result")
	assert.Zero(t, engine.CacheMetrics("c1").Invalidations, "an empty cache is not counted as invalidated")

	_, err = engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)
	assert.Equal(t, 1, engine.CachedLayers("c1"))
	assert.Equal(t, uint64(2), engine.CacheMetrics("c1").Misses)
}

func TestProjectLayer_ReportsToObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	observer := mocks.NewMockCacheObserver(ctrl)
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(), nil)

	gomock.InOrder(
		observer.EXPECT().ObserveMiss("c1", "api"),
		observer.EXPECT().ObserveHit("c1", "api"),
		observer.EXPECT().ObserveInvalidation("c1", projection.ScopeLayer),
		observer.EXPECT().ObserveInvalidation("c1", projection.ScopeFull),
	)

	engine := projection.NewEngine(store, observer)
	base := baseModel(t)

	_, err := engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)
	_, err = engine.ProjectLayer(t.Context(), base, "c1", "api")
	require.NoError(t, err)
	engine.InvalidateOnStage("c1", "api")
	engine.Release("c1")
}

func TestProjectLayer_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChangesetStore(ctrl)
	store.EXPECT().Load(gomock.Any(), "c1").Return(newChangeset(addChange("api.endpoint.e1", "E1")), nil).MinTimes(1)

	engine := projection.NewEngine(store, nil)
	base := baseModel(t)

	const workers = 16
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			layer, err := engine.ProjectLayer(context.Background(), base, "c1", "api")
			assert.NoError(t, err)
			assert.True(t, layer.Has("api.endpoint.e1"))
		})
	}
	wg.Wait()

	metrics := engine.CacheMetrics("c1")
	assert.GreaterOrEqual(t, metrics.Misses, uint64(1))
	assert.LessOrEqual(t, metrics.Hits+metrics.Misses, uint64(workers))
}
