package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/model"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
)

func orders() *domain.Element {
	return &domain.Element{
		ID:          "business.service.orders",
		Type:        "service",
		Name:        "Orders",
		Description: "Handles orders",
		Properties:  map[string]any{"owner": "team-a", "tier": 1},
		Relationships: []domain.Relationship{
			{Type: "realizes", Target: "motivation.goal.sell"},
		},
	}
}

func TestStore_InitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "model")
	store := model.NewStore(dir)
	assert.False(t, store.Exists())

	m, err := store.Init(domain.NewManifest("shop"))
	require.NoError(t, err)
	assert.True(t, store.Exists())
	assert.Equal(t, domain.DefaultLayers, m.LayerNames())

	for _, layer := range domain.DefaultLayers {
		assert.FileExists(t, filepath.Join(dir, layer+".yaml"))
	}

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "shop", loaded.Manifest().Name)
	assert.Equal(t, 0, loaded.ElementCount())
}

func TestStore_Load_NotInitialized(t *testing.T) {
	store := model.NewStore(t.TempDir())

	_, err := store.Load()
	require.ErrorIs(t, err, domain.ErrModelNotInitialized)
}

func TestStore_SaveDirtyLayers_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := model.NewStore(dir)
	m, err := store.Init(domain.NewManifest("shop"))
	require.NoError(t, err)

	business, err := m.Layer("business")
	require.NoError(t, err)
	require.NoError(t, business.Add(orders()))
	assert.Equal(t, []string{"business"}, m.DirtyLayers())

	require.NoError(t, store.SaveDirtyLayers(m))
	assert.Empty(t, m.DirtyLayers())

	loaded, err := store.Load()
	require.NoError(t, err)

	got, layer, ok := loaded.FindElement("business.service.orders")
	require.True(t, ok)
	assert.Equal(t, "business", layer)
	assert.Equal(t, orders(), got)
}

func TestStore_SaveManifest_History(t *testing.T) {
	dir := t.TempDir()
	store := model.NewStore(dir)
	m, err := store.Init(domain.NewManifest("shop"))
	require.NoError(t, err)

	m.AppendHistory(domain.HistoryEntry{
		ID:          "h1",
		ChangesetID: "feature-x",
		Action:      domain.HistoryApply,
		ChangeCount: 1,
		Inverse: []domain.Change{{
			Type:      domain.ChangeDelete,
			ElementID: "business.service.orders",
			LayerName: "business",
			Before:    orders().State(),
		}},
	})
	require.NoError(t, store.SaveManifest(m))

	loaded, err := store.Load()
	require.NoError(t, err)

	entry, ok := loaded.Manifest().LastApply("feature-x")
	require.True(t, ok)
	assert.Equal(t, "h1", entry.ID)
	require.Len(t, entry.Inverse, 1)
	assert.Equal(t, "Orders", *entry.Inverse[0].Before.Name)
}

func TestStore_Load_MissingLayerFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	store := model.NewStore(dir)
	_, err := store.Init(domain.NewManifest("shop"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "ux.yaml")))

	loaded, err := store.Load()
	require.NoError(t, err)
	ux, err := loaded.Layer("ux")
	require.NoError(t, err)
	assert.Equal(t, 0, ux.Len())
}

func TestStore_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{
			name:    "malformed manifest",
			file:    "manifest.yaml",
			content: "layers: [\n",
			wantErr: domain.ErrModelParseFailed,
		},
		{
			name:    "malformed layer",
			file:    "business.yaml",
			content: "elements: {\n",
			wantErr: domain.ErrModelParseFailed,
		},
		{
			name: "duplicate element",
			file: "business.yaml",
			content: "layer: business\nelements:\n" +
				"  - {id: business.service.a, type: service, name: A}\n" +
				"  - {id: business.service.a, type: service, name: A}\n",
			wantErr: domain.ErrModelParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := model.NewStore(dir)
			_, err := store.Init(domain.NewManifest("shop"))
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), domain.FilePerm))

			_, err = store.Load()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_SaveLayers_UnknownLayer(t *testing.T) {
	store := model.NewStore(t.TempDir())
	m := domain.NewModel(domain.NewManifest("shop"))

	err := store.SaveLayers(m, []string{"nope"})
	require.ErrorIs(t, err, domain.ErrLayerNotFound)
}

func TestStore_SaveLayers_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := model.NewStore(dir)
	_, err := store.Init(domain.NewManifest("shop"))
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
