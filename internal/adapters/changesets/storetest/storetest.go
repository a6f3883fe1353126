// Package storetest provides a conformance suite for ports.ChangesetStore implementations.
package storetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) ports.ChangesetStore

func snapshot() domain.Snapshot {
	return domain.Snapshot{
		CapturedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Layers:     map[string]string{"business": "00000000000000aa"},
		Digest:     "00000000000000ff",
	}
}

func change(seq int) domain.Change {
	typ, name := "service", "Orders"
	return domain.Change{
		Type:           domain.ChangeAdd,
		ElementID:      "business.service.orders",
		LayerName:      "business",
		SequenceNumber: seq,
		After:          &domain.ElementState{Type: &typ, Name: &name, Relationships: []domain.Relationship{}},
		Timestamp:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// Run exercises the ports.ChangesetStore contract.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) ports.ChangesetStore {
		t.Helper()
		store := newStore(t)
		t.Cleanup(func() { _ = store.Close() })
		return store
	}

	t.Run("CreateAndLoad", func(t *testing.T) {
		store := open(t)

		created, err := store.Create(t.Context(), "feature-x", "Feature X", "adds orders", snapshot())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, created.Status)
		assert.Empty(t, created.Changes)

		loaded, err := store.Load(t.Context(), "feature-x")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "Feature X", loaded.Name)
		assert.Equal(t, "adds orders", loaded.Description)
		assert.Equal(t, snapshot().Digest, loaded.BaseSnapshot.Digest)
		assert.Equal(t, snapshot().Layers, loaded.BaseSnapshot.Layers)
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		store := open(t)

		_, err := store.Create(t.Context(), "feature-x", "Feature X", "", snapshot())
		require.NoError(t, err)

		_, err = store.Create(t.Context(), "feature-x", "Feature X", "", snapshot())
		require.ErrorIs(t, err, domain.ErrChangesetAlreadyExists)
	})

	t.Run("LoadMissing", func(t *testing.T) {
		store := open(t)

		cs, err := store.Load(t.Context(), "nope")
		require.NoError(t, err)
		assert.Nil(t, cs)
	})

	t.Run("SaveReplacesChanges", func(t *testing.T) {
		store := open(t)

		cs, err := store.Create(t.Context(), "feature-x", "Feature X", "", snapshot())
		require.NoError(t, err)

		cs.Changes = append(cs.Changes, change(1), change(2))
		cs.Status = domain.StatusCommitted
		require.NoError(t, store.Save(t.Context(), cs))

		loaded, err := store.Load(t.Context(), "feature-x")
		require.NoError(t, err)
		require.Len(t, loaded.Changes, 2)
		assert.Equal(t, domain.StatusCommitted, loaded.Status)
		assert.Equal(t, 2, loaded.Changes[1].SequenceNumber)
		assert.Equal(t, "Orders", *loaded.Changes[0].After.Name)
		assert.Equal(t, "business.service.orders", loaded.Changes[0].ElementID)
	})

	t.Run("ListOrderedByCreation", func(t *testing.T) {
		store := open(t)

		for _, id := range []string{"b", "a", "c"} {
			_, err := store.Create(t.Context(), id, id, "", snapshot())
			require.NoError(t, err)
			time.Sleep(2 * time.Millisecond)
		}

		list, err := store.List(t.Context())
		require.NoError(t, err)
		ids := make([]string, 0, len(list))
		for _, cs := range list {
			ids = append(ids, cs.ID)
		}
		assert.Equal(t, []string{"b", "a", "c"}, ids)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		store := open(t)

		list, err := store.List(t.Context())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("ActivePointer", func(t *testing.T) {
		store := open(t)

		id, err := store.ActiveID(t.Context())
		require.NoError(t, err)
		assert.Empty(t, id)

		require.NoError(t, store.SetActiveID(t.Context(), "feature-x"))
		id, err = store.ActiveID(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "feature-x", id)

		require.NoError(t, store.ClearActiveID(t.Context()))
		id, err = store.ActiveID(t.Context())
		require.NoError(t, err)
		assert.Empty(t, id)

		require.NoError(t, store.ClearActiveID(t.Context()))
	})

	t.Run("DeleteClearsActive", func(t *testing.T) {
		store := open(t)

		_, err := store.Create(t.Context(), "feature-x", "Feature X", "", snapshot())
		require.NoError(t, err)
		_, err = store.Create(t.Context(), "feature-y", "Feature Y", "", snapshot())
		require.NoError(t, err)
		require.NoError(t, store.SetActiveID(t.Context(), "feature-x"))

		require.NoError(t, store.Delete(t.Context(), "feature-y"))
		id, err := store.ActiveID(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "feature-x", id)

		require.NoError(t, store.Delete(t.Context(), "feature-x"))
		cs, err := store.Load(t.Context(), "feature-x")
		require.NoError(t, err)
		assert.Nil(t, cs)

		id, err = store.ActiveID(t.Context())
		require.NoError(t, err)
		assert.Empty(t, id)

		require.NoError(t, store.Delete(t.Context(), "missing"))
	})
}
