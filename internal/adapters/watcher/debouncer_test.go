package watcher_test

import (
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/watcher"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

func write(path string) ports.WatchEvent {
	return ports.WatchEvent{Path: path, Operation: ports.OpWrite}
}

func TestDebouncer_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var batches [][]ports.WatchEvent
		d := watcher.NewDebouncer(100*time.Millisecond, func(batch []ports.WatchEvent) {
			batches = append(batches, batch)
		})

		d.Add(write("/model/business.yaml"))
		d.Add(write("/model/api.yaml"))
		d.Add(ports.WatchEvent{Path: "/model/business.yaml", Operation: ports.OpRemove})

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, batches, 1)
		assert.Equal(t, []ports.WatchEvent{
			write("/model/api.yaml"),
			{Path: "/model/business.yaml", Operation: ports.OpRemove},
		}, batches[0])
	})
}

func TestDebouncer_WindowRestarts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		d := watcher.NewDebouncer(100*time.Millisecond, func([]ports.WatchEvent) { calls.Add(1) })

		d.Add(write("/model/a.yaml"))
		time.Sleep(60 * time.Millisecond)
		d.Add(write("/model/b.yaml"))
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int32(0), calls.Load())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got []ports.WatchEvent
		d := watcher.NewDebouncer(time.Second, func(batch []ports.WatchEvent) { got = batch })

		d.Flush()
		assert.Nil(t, got)

		d.Add(write("/model/a.yaml"))
		d.Flush()
		assert.Equal(t, []ports.WatchEvent{write("/model/a.yaml")}, got)

		got = nil
		time.Sleep(2 * time.Second)
		synctest.Wait()
		assert.Nil(t, got)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		d := watcher.NewDebouncer(50*time.Millisecond, func([]ports.WatchEvent) { calls.Add(1) })

		d.Add(write("/model/a.yaml"))
		d.Stop()
		d.Add(write("/model/b.yaml"))

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int32(0), calls.Load())
	})
}
