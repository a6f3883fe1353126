package staging_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports/mocks"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/projection"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/snapshot"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/staging"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	store     *memStore
	models    *mocks.MockModelStore
	validator *mocks.MockModelValidator
	snapshots *snapshot.Manager
	projector *projection.Engine
	manager   *staging.Manager
	base      *domain.Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		store:     newMemStore(),
		models:    mocks.NewMockModelStore(ctrl),
		validator: mocks.NewMockModelValidator(ctrl),
		snapshots: snapshot.NewManager(),
	}
	f.projector = projection.NewEngine(f.store, nil)
	f.manager = staging.NewManager(f.store, f.models, f.snapshots, f.projector, f.validator)

	f.base = domain.NewModel(domain.Manifest{Name: "test", Layers: []string{"api", "business"}})
	api, err := f.base.Layer("api")
	require.NoError(t, err)
	require.NoError(t, api.Add(&domain.Element{ID: "api.endpoint.list-users", Type: "endpoint", Name: "List Users"}))
	api.MarkClean()
	return f
}

// expectPersist accepts any number of successful model writes.
func (f *fixture) expectPersist() {
	f.models.EXPECT().SaveDirtyLayers(gomock.Any()).Return(nil).AnyTimes()
	f.models.EXPECT().SaveManifest(gomock.Any()).Return(nil).AnyTimes()
}

func (f *fixture) expectValid() {
	f.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
}

func (f *fixture) digest(t *testing.T) string {
	t.Helper()
	snap, err := f.snapshots.Capture(t.Context(), f.base)
	require.NoError(t, err)
	return snap.Digest
}

func endpoint(id, name string) *domain.Element {
	return &domain.Element{ID: id, Type: "endpoint", Name: name}
}

func strPtr(s string) *string { return &s }

func hasElement(m *domain.Model, id string) bool {
	_, _, ok := m.FindElement(id)
	return ok
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	cs, err := f.manager.Create(t.Context(), f.base, "Add Payments", "payments api")
	require.NoError(t, err)
	assert.Equal(t, "add-payments", cs.ID)
	assert.Equal(t, "Add Payments", cs.Name)
	assert.Equal(t, domain.StatusDraft, cs.Status)
	assert.Equal(t, f.digest(t), cs.BaseSnapshot.Digest)
	assert.Len(t, cs.BaseSnapshot.Layers, 2)

	_, err = f.manager.Create(t.Context(), f.base, "add payments", "")
	require.ErrorIs(t, err, domain.ErrChangesetAlreadyExists)

	_, err = f.manager.Create(t.Context(), f.base, "???", "")
	require.ErrorIs(t, err, domain.ErrInvalidChangesetName)

	_, err = f.manager.Load(t.Context(), "nope")
	require.ErrorIs(t, err, domain.ErrChangesetNotFound)
}

func TestActivePointer(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.Create(t.Context(), f.base, "c2", "")
	require.NoError(t, err)

	require.NoError(t, f.manager.SetActive(t.Context(), "c1"))
	require.NoError(t, f.manager.SetActive(t.Context(), "c2"))
	active, err := f.manager.ActiveID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "c2", active, "activation replaces the pointer")

	require.ErrorIs(t, f.manager.SetActive(t.Context(), "missing"), domain.ErrChangesetNotFound)

	require.NoError(t, f.manager.Delete(t.Context(), "c2"))
	active, err = f.manager.ActiveID(t.Context())
	require.NoError(t, err)
	assert.Empty(t, active, "deleting the active changeset clears the pointer")
}

func TestStage_AssignsSequenceAndRefreshesPreview(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)

	first, err := f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.SequenceNumber)
	assert.Nil(t, first.Before)

	layer, err := f.manager.PreviewLayer(t.Context(), f.base, "c1", "api")
	require.NoError(t, err)
	assert.True(t, layer.Has("api.endpoint.e1"))

	second, err := f.manager.StageUpdate(t.Context(), f.base, "c1", "api.endpoint.e1", &domain.ElementState{Description: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, 2, second.SequenceNumber)
	require.NotNil(t, second.Before, "before reflects the staged view")
	assert.Equal(t, "E1", *second.Before.Name)

	layer, err = f.manager.PreviewLayer(t.Context(), f.base, "c1", "api")
	require.NoError(t, err)
	e, ok := layer.Get("api.endpoint.e1")
	require.True(t, ok)
	assert.Equal(t, "new", e.Description, "a stage invalidates the cached projection")

	assert.Positive(t, f.manager.CacheMetrics("c1").Invalidations)
}

func TestStage_RejectsImpossibleOperations(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)

	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.list-users", "Dup"))
	require.ErrorIs(t, err, domain.ErrElementAlreadyExists)

	_, err = f.manager.StageUpdate(t.Context(), f.base, "c1", "api.endpoint.missing", &domain.ElementState{})
	require.ErrorIs(t, err, domain.ErrElementNotFound)

	_, err = f.manager.StageDelete(t.Context(), f.base, "c1", "api.endpoint.missing")
	require.ErrorIs(t, err, domain.ErrElementNotFound)

	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("nowhere.endpoint.x", "X"))
	require.ErrorIs(t, err, domain.ErrLayerNotFound)

	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("bad", "X"))
	require.ErrorIs(t, err, domain.ErrInvalidElementID)

	_, err = f.manager.Stage(t.Context(), "c1", domain.Change{Type: "move", ElementID: "api.a.b", LayerName: "api"})
	require.ErrorIs(t, err, domain.ErrInvalidChangeType)

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Zero(t, cs.ChangeCount())
}

func TestUnstage(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)

	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)
	_, err = f.manager.StageUpdate(t.Context(), f.base, "c1", "api.endpoint.e1", &domain.ElementState{Description: strPtr("d")})
	require.NoError(t, err)
	_, err = f.manager.StageDelete(t.Context(), f.base, "c1", "api.endpoint.list-users")
	require.NoError(t, err)

	result, err := f.manager.Unstage(t.Context(), "c1", "api.endpoint.e1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Removed)

	noop, err := f.manager.Unstage(t.Context(), "c1", "api.endpoint.e1")
	require.NoError(t, err, "unstaging an element without changes is not an error")
	assert.Zero(t, noop.Removed)

	layer, err := f.manager.PreviewLayer(t.Context(), f.base, "c1", "api")
	require.NoError(t, err)
	assert.False(t, layer.Has("api.endpoint.e1"))
	assert.False(t, layer.Has("api.endpoint.list-users"), "other staged changes are kept")

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, cs.ChangeCount())
}

func TestDiscard(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	require.NoError(t, f.manager.SetActive(t.Context(), "c1"))
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)

	dropped, err := f.manager.Discard(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDiscarded, cs.Status)
	assert.Zero(t, cs.ChangeCount())

	active, err := f.manager.ActiveID(t.Context())
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e2", "E2"))
	require.ErrorIs(t, err, domain.ErrChangesetNotDraft)
	_, err = f.manager.Commit(t.Context(), f.base, "c1", staging.DefaultCommitOptions())
	require.ErrorIs(t, err, domain.ErrChangesetNotDraft)
}

func TestCommit_EndToEnd(t *testing.T) {
	f := newFixture(t)
	f.expectValid()
	f.models.EXPECT().SaveDirtyLayers(gomock.Any()).DoAndReturn(func(m *domain.Model) error {
		assert.Equal(t, []string{"api"}, m.DirtyLayers())
		return nil
	})
	f.models.EXPECT().SaveManifest(gomock.Any()).Return(nil)

	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)

	preview, err := f.manager.Preview(t.Context(), f.base, "c1")
	require.NoError(t, err)
	_, _, ok := preview.FindElement("api.endpoint.e1")
	require.True(t, ok)
	_, _, ok = f.base.FindElement("api.endpoint.e1")
	require.False(t, ok, "preview leaves the base untouched")

	result, err := f.manager.Commit(t.Context(), f.base, "c1", staging.DefaultCommitOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Committed)
	assert.False(t, result.DriftWarning)
	assert.Equal(t, []string{"api"}, result.Layers)
	assert.NotEmpty(t, result.HistoryID)

	_, _, ok = f.base.FindElement("api.endpoint.e1")
	assert.True(t, ok)

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCommitted, cs.Status)

	history := f.base.Manifest().History
	require.Len(t, history, 1)
	assert.Equal(t, domain.HistoryApply, history[0].Action)
	assert.Equal(t, "c1", history[0].ChangesetID)
}

func TestCommit_EmptyChangesetIsNoop(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)

	result, err := f.manager.Commit(t.Context(), f.base, "c1", staging.DefaultCommitOptions())
	require.NoError(t, err)
	assert.Zero(t, result.Committed)

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, cs.Status)
}

func TestCommit_AtomicForEveryFailingPosition(t *testing.T) {
	const total = 4

	for failAt := 1; failAt <= total; failAt++ {
		t.Run(fmt.Sprintf("fail at %d of %d", failAt, total), func(t *testing.T) {
			f := newFixture(t)
			before := f.digest(t)

			_, err := f.manager.Create(t.Context(), f.base, "c1", "")
			require.NoError(t, err)

			for i := 1; i <= total; i++ {
				change := domain.Change{
					Type:      domain.ChangeAdd,
					ElementID: fmt.Sprintf("api.endpoint.e%d", i),
					LayerName: "api",
					After:     &domain.ElementState{Name: strPtr(fmt.Sprintf("E%d", i))},
				}
				if i == failAt {
					change = domain.Change{
						Type:      domain.ChangeUpdate,
						ElementID: "api.endpoint.ghost",
						LayerName: "api",
						After:     &domain.ElementState{Name: strPtr("Ghost")},
					}
				}
				_, err := f.manager.Stage(t.Context(), "c1", change)
				require.NoError(t, err)
			}

			_, err = f.manager.Commit(t.Context(), f.base, "c1", staging.CommitOptions{Validate: false})

			var commitErr *domain.CommitError
			require.ErrorAs(t, err, &commitErr)
			assert.Zero(t, commitErr.Committed)
			assert.Equal(t, total, commitErr.Failed)
			assert.Equal(t, failAt, commitErr.Sequence)
			assert.Equal(t, "api.endpoint.ghost", commitErr.ElementID)
			assert.ErrorIs(t, err, domain.ErrElementNotFound)

			assert.Equal(t, before, f.digest(t), "base model is untouched")
			assert.Empty(t, f.base.Manifest().History)

			cs, err := f.manager.Load(t.Context(), "c1")
			require.NoError(t, err)
			assert.Equal(t, domain.StatusDraft, cs.Status)
		})
	}
}

func TestCommit_PersistenceFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.expectValid()
	diskErr := errors.New("disk full")

	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)
	before := f.digest(t)

	gomock.InOrder(
		f.models.EXPECT().SaveDirtyLayers(gomock.Any()).Return(diskErr),
		f.models.EXPECT().SaveLayers(gomock.Any(), []string{"api"}).DoAndReturn(func(m *domain.Model, _ []string) error {
			_, _, found := m.FindElement("api.endpoint.e1")
			assert.False(t, found, "rollback rewrites the pre-commit layers")
			return nil
		}),
		f.models.EXPECT().SaveManifest(gomock.Any()).Return(nil),
	)

	_, err = f.manager.Commit(t.Context(), f.base, "c1", staging.DefaultCommitOptions())

	var commitErr *domain.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, "c1", commitErr.ChangesetID)
	assert.Zero(t, commitErr.Committed)
	assert.Equal(t, 1, commitErr.Failed)
	require.NoError(t, commitErr.RollbackErr)
	assert.ErrorIs(t, err, diskErr)

	assert.Equal(t, before, f.digest(t))
	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, cs.Status)
}

func TestCommit_ChangesetSaveFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.expectValid()
	f.expectPersist()
	saveErr := errors.New("changeset disk full")

	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.StageUpdate(t.Context(), f.base, "c1", "api.endpoint.list-users", &domain.ElementState{Name: strPtr("v2")})
	require.NoError(t, err)
	require.NoError(t, f.manager.SetActive(t.Context(), "c1"))
	before := f.digest(t)

	f.models.EXPECT().SaveLayers(gomock.Any(), []string{"api"}).DoAndReturn(func(m *domain.Model, _ []string) error {
		e, _, found := m.FindElement("api.endpoint.list-users")
		require.True(t, found)
		assert.Equal(t, "List Users", e.Name, "rollback rewrites the pre-commit layers")
		return nil
	})
	f.store.failStatus, f.store.failErr = domain.StatusCommitted, saveErr

	result, err := f.manager.Commit(t.Context(), f.base, "c1", staging.DefaultCommitOptions())
	assert.Nil(t, result)

	var commitErr *domain.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, "c1", commitErr.ChangesetID)
	assert.Zero(t, commitErr.Committed)
	assert.Equal(t, 1, commitErr.Failed)
	require.NoError(t, commitErr.RollbackErr)
	assert.ErrorIs(t, err, saveErr)

	e, _, ok := f.base.FindElement("api.endpoint.list-users")
	require.True(t, ok)
	assert.Equal(t, "List Users", e.Name)
	assert.Equal(t, before, f.digest(t))
	assert.Empty(t, f.base.Manifest().History)

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, cs.Status)
	active, err := f.manager.ActiveID(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "c1", active)

	f.store.failStatus = ""
	committed, err := f.manager.Commit(t.Context(), f.base, "c1", staging.DefaultCommitOptions())
	require.NoError(t, err, "a failed commit leaves nothing to drift from")
	assert.Equal(t, 1, committed.Committed)
	require.Len(t, f.base.Manifest().History, 1)
}

func TestCommit_DriftGating(t *testing.T) {
	setup := func(t *testing.T) *fixture {
		t.Helper()
		f := newFixture(t)
		_, err := f.manager.Create(t.Context(), f.base, "c1", "")
		require.NoError(t, err)
		_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
		require.NoError(t, err)

		// Out of band edit to the base model.
		biz, err := f.base.Layer("business")
		require.NoError(t, err)
		require.NoError(t, biz.Add(&domain.Element{ID: "business.service.billing", Type: "service", Name: "Billing"}))
		return f
	}

	t.Run("Refused Without Force", func(t *testing.T) {
		f := setup(t)

		_, err := f.manager.Commit(t.Context(), f.base, "c1", staging.CommitOptions{Validate: true, Force: false})

		var driftErr *domain.DriftError
		require.ErrorAs(t, err, &driftErr)
		assert.Equal(t, []string{"business"}, driftErr.Report.LayerNames())

		cs, err := f.manager.Load(t.Context(), "c1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, cs.Status)
		_, _, ok := f.base.FindElement("api.endpoint.e1")
		assert.False(t, ok)
	})

	t.Run("Proceeds With Force", func(t *testing.T) {
		f := setup(t)
		f.expectValid()
		f.expectPersist()

		result, err := f.manager.Commit(t.Context(), f.base, "c1", staging.CommitOptions{Validate: true, Force: true})
		require.NoError(t, err)
		assert.True(t, result.DriftWarning)
		assert.True(t, result.Drift.HasDrift)
		assert.Equal(t, 1, result.Committed)

		_, _, ok := f.base.FindElement("business.service.billing")
		assert.True(t, ok, "the out of band edit survives the commit")
	})
}

func TestCommit_ValidationTakesPrecedenceOverForce(t *testing.T) {
	f := newFixture(t)
	issues := []domain.ValidationIssue{{Layer: "api", ElementID: "api.endpoint.e1", Message: "dangling relationship"}}
	f.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *domain.Model) ([]domain.ValidationIssue, error) {
		_, _, ok := m.FindElement("api.endpoint.e1")
		assert.True(t, ok, "the validator sees the merged model")
		return issues, nil
	})

	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)

	_, err = f.manager.Commit(t.Context(), f.base, "c1", staging.CommitOptions{Validate: true, Force: true})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, issues, validationErr.Issues)

	_, _, ok := f.base.FindElement("api.endpoint.e1")
	assert.False(t, ok)
}

func TestApplyAndRevert(t *testing.T) {
	f := newFixture(t)
	f.expectPersist()
	before := f.digest(t)

	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)
	_, err = f.manager.StageUpdate(t.Context(), f.base, "c1", "api.endpoint.list-users", &domain.ElementState{
		Description: strPtr("paginated"),
		Properties:  map[string]any{"method": "GET"},
	})
	require.NoError(t, err)
	_, err = f.manager.StageDelete(t.Context(), f.base, "c1", "api.endpoint.e1")
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1 again"))
	require.NoError(t, err)

	_, err = f.manager.Revert(t.Context(), f.base, "c1")
	require.ErrorIs(t, err, domain.ErrHistoryEntryNotFound)

	applied, err := f.manager.Apply(t.Context(), f.base, "c1")
	require.NoError(t, err)
	assert.Equal(t, 4, applied.Committed)
	assert.NotEqual(t, before, f.digest(t))

	e, _, ok := f.base.FindElement("api.endpoint.list-users")
	require.True(t, ok)
	assert.Equal(t, "GET", e.Properties["method"])

	reverted, err := f.manager.Revert(t.Context(), f.base, "c1")
	require.NoError(t, err)
	assert.Equal(t, 4, reverted.Committed)
	assert.Equal(t, before, f.digest(t), "revert restores the exact pre-apply content")

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReverted, cs.Status)

	history := f.base.Manifest().History
	require.Len(t, history, 2)
	assert.Equal(t, domain.HistoryRevert, history[1].Action)

	_, err = f.manager.Revert(t.Context(), f.base, "c1")
	require.ErrorIs(t, err, domain.ErrHistoryEntryNotFound)
}

func TestRevert_ChangesetSaveFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.expectPersist()
	saveErr := errors.New("changeset disk full")

	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)
	_, err = f.manager.Apply(t.Context(), f.base, "c1")
	require.NoError(t, err)
	applied := f.digest(t)

	f.models.EXPECT().SaveLayers(gomock.Any(), []string{"api"}).Return(nil)
	f.store.failStatus, f.store.failErr = domain.StatusReverted, saveErr

	_, err = f.manager.Revert(t.Context(), f.base, "c1")
	var commitErr *domain.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, 1, commitErr.Failed)
	assert.ErrorIs(t, err, saveErr)

	assert.Equal(t, applied, f.digest(t))
	assert.True(t, hasElement(f.base, "api.endpoint.e1"))
	require.Len(t, f.base.Manifest().History, 1)

	cs, err := f.manager.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCommitted, cs.Status)

	f.store.failStatus = ""
	_, err = f.manager.Revert(t.Context(), f.base, "c1")
	require.NoError(t, err)
	assert.False(t, hasElement(f.base, "api.endpoint.e1"))
}

func TestRevert_RequiresCommittedStatus(t *testing.T) {
	f := newFixture(t)
	f.expectPersist()

	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)
	_, err = f.manager.Apply(t.Context(), f.base, "c1")
	require.NoError(t, err)

	cs, err := f.store.Load(t.Context(), "c1")
	require.NoError(t, err)
	cs.Status = domain.StatusDraft
	require.NoError(t, f.store.Save(t.Context(), cs))

	_, err = f.manager.Revert(t.Context(), f.base, "c1")
	require.ErrorIs(t, err, domain.ErrChangesetNotCommitted)
	assert.True(t, hasElement(f.base, "api.endpoint.e1"))
}

func TestDiff(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)

	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)
	_, err = f.manager.StageUpdate(t.Context(), f.base, "c1", "api.endpoint.list-users", &domain.ElementState{Name: strPtr("All Users")})
	require.NoError(t, err)
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.tmp", "Tmp"))
	require.NoError(t, err)
	_, err = f.manager.StageDelete(t.Context(), f.base, "c1", "api.endpoint.tmp")
	require.NoError(t, err)

	diffs, err := f.manager.Diff(t.Context(), f.base, "c1")
	require.NoError(t, err)
	require.Len(t, diffs, 2, "changes that cancel out are omitted")

	assert.Equal(t, "api.endpoint.e1", diffs[0].ElementID)
	assert.Equal(t, staging.DiffAdded, diffs[0].Kind)
	assert.Nil(t, diffs[0].Before)

	assert.Equal(t, "api.endpoint.list-users", diffs[1].ElementID)
	assert.Equal(t, staging.DiffModified, diffs[1].Kind)
	assert.Equal(t, "List Users", diffs[1].Before.Name)
	assert.Equal(t, "All Users", diffs[1].After.Name)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Create(t.Context(), f.base, "c1", "")
	require.NoError(t, err)
	require.NoError(t, f.manager.SetActive(t.Context(), "c1"))
	_, err = f.manager.StageAdd(t.Context(), f.base, "c1", endpoint("api.endpoint.e1", "E1"))
	require.NoError(t, err)

	status, err := f.manager.Status(t.Context(), f.base, "c1")
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.False(t, status.Drift.HasDrift)
	assert.Equal(t, 1, status.Changeset.ChangeCount())
	assert.Equal(t, uint64(1), status.Metrics.Misses)
}

func TestCommit_ConcurrentChangesetsKeepBothResults(t *testing.T) {
	f := newFixture(t)
	f.expectPersist()

	ids := []string{"c1", "c2", "c3"}
	for i, id := range ids {
		_, err := f.manager.Create(t.Context(), f.base, id, "")
		require.NoError(t, err)
		_, err = f.manager.StageAdd(t.Context(), f.base, id, endpoint(fmt.Sprintf("api.endpoint.e%d", i), "E"))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Go(func() {
			_, err := f.manager.Commit(t.Context(), f.base, id, staging.CommitOptions{Force: true})
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	for i := range ids {
		_, _, ok := f.base.FindElement(fmt.Sprintf("api.endpoint.e%d", i))
		assert.True(t, ok)
	}
	assert.Len(t, f.base.Manifest().History, len(ids))
}
