// Package watcher reports debounced changes to the model directory using fsnotify.
package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// DefaultDebounceWindow is the quiet period before a batch is emitted.
const DefaultDebounceWindow = 100 * time.Millisecond

const batchChannelBuffer = 16

// Watcher implements ports.Watcher for the flat model directory.
// Only manifest and layer files are reported; temp files from atomic writes are ignored.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	logger    ports.Logger

	mu      sync.RWMutex
	batches chan []ports.WatchEvent
	done    chan struct{}
	closed  bool
	once    sync.Once
}

// NewWatcher creates a Watcher with the given debounce window.
func NewWatcher(logger ports.Logger, window time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(domain.ErrWatchFailed, err.Error())
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		batches:   make(chan []ports.WatchEvent, batchChannelBuffer),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(window, w.publish)
	return w, nil
}

// Start watches dir until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context, dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrWatchFailed, err.Error()), "path", dir)
	}

	go w.processEvents(ctx)
	return nil
}

// Stop closes the fsnotify watcher and ends the event stream.
func (w *Watcher) Stop() error {
	err := w.fsWatcher.Close()
	w.shutdown()
	if err != nil {
		return zerr.Wrap(domain.ErrWatchFailed, err.Error())
	}
	return nil
}

// Events yields debounced batches until the watcher stops.
func (w *Watcher) Events() iter.Seq[[]ports.WatchEvent] {
	return func(yield func([]ports.WatchEvent) bool) {
		for batch := range w.batches {
			if !yield(batch) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if watchEvent, keep := convertEvent(event); keep {
				w.debouncer.Add(watchEvent)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error(zerr.Wrap(err, "file system watch error"))
			}
		}
	}
}

// publish hands a batch to Events unless the watcher is shutting down.
func (w *Watcher) publish(batch []ports.WatchEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.batches <- batch:
	case <-w.done:
	}
}

func (w *Watcher) shutdown() {
	w.once.Do(func() {
		w.debouncer.Stop()
		close(w.done)

		w.mu.Lock()
		w.closed = true
		close(w.batches)
		w.mu.Unlock()
	})
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, domain.LayerFileExt) || strings.HasPrefix(name, ".") {
		return ports.WatchEvent{}, false
	}

	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}

	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
