package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"
	"unique"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

// Debouncer coalesces events per path and emits them as one batch once the
// window passes without new events. The latest operation for a path wins.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]ports.WatchOp
	timer    *time.Timer
	window   time.Duration
	callback func(batch []ports.WatchEvent)
	stopped  bool
}

// NewDebouncer creates a Debouncer calling callback with each batch, sorted by path.
func NewDebouncer(window time.Duration, callback func(batch []ports.WatchEvent)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]ports.WatchOp),
		window:   window,
		callback: callback,
	}
}

// Add records an event and restarts the window.
func (d *Debouncer) Add(event ports.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[unique.Make(event.Path)] = event.Operation

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Flush emits the pending batch immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	batch := d.drain()
	d.mu.Unlock()

	d.emit(batch)
}

// Stop cancels the window and drops pending events. Later Adds are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	batch := d.drain()
	d.mu.Unlock()

	d.emit(batch)
}

// drain must be called with mu held.
func (d *Debouncer) drain() []ports.WatchEvent {
	if len(d.pending) == 0 {
		return nil
	}

	batch := make([]ports.WatchEvent, 0, len(d.pending))
	for handle, op := range d.pending {
		batch = append(batch, ports.WatchEvent{Path: handle.Value(), Operation: op})
	}
	clear(d.pending)

	slices.SortFunc(batch, func(a, b ports.WatchEvent) int {
		return strings.Compare(a.Path, b.Path)
	})
	return batch
}

func (d *Debouncer) emit(batch []ports.WatchEvent) {
	if len(batch) > 0 && d.callback != nil {
		d.callback(batch)
	}
}
