package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/watcher"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_ReportsLayerFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	w, err := watcher.Factory{Logger: log, Window: 20 * time.Millisecond}.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context(), dir))

	batches := make(chan []ports.WatchEvent, 4)
	go func() {
		for batch := range w.Events() {
			batches <- batch
		}
		close(batches)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "business.yaml"), []byte("layer: business\n"), domain.FilePerm))

	select {
	case batch := <-batches:
		require.NotEmpty(t, batch)
		for _, event := range batch {
			assert.Equal(t, filepath.Join(dir, "business.yaml"), event.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no watch batch received")
	}

	require.NoError(t, w.Stop())

	select {
	case _, open := <-batches:
		for open {
			_, open = <-batches
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after Stop")
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := watcher.NewWatcher(nil, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	err = w.Start(t.Context(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, domain.ErrWatchFailed)
}
