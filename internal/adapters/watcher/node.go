package watcher

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/logger"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the watcher factory Graft node.
const NodeID graft.ID = "adapter.watcher_factory"

// Factory implements ports.WatcherFactory.
type Factory struct {
	Logger ports.Logger
	Window time.Duration
}

// NewWatcher creates an fsnotify backed watcher.
func (f Factory) NewWatcher() (ports.Watcher, error) {
	return NewWatcher(f.Logger, f.Window)
}

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WatcherFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return Factory{Logger: log, Window: DefaultDebounceWindow}, nil
		},
	})
}
