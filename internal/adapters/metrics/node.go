package metrics

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the cache observer Graft node.
const NodeID graft.ID = "adapter.metrics"

// ObserverNodeID provides the concrete Observer for callers that read the summary.
const ObserverNodeID graft.ID = "adapter.metrics_observer"

func init() {
	graft.Register(graft.Node[*Observer]{
		ID:        ObserverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Observer, error) {
			return NewObserver(), nil
		},
	})

	graft.Register(graft.Node[ports.CacheObserver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ObserverNodeID},
		Run: func(ctx context.Context) (ports.CacheObserver, error) {
			observer, err := graft.Dep[*Observer](ctx)
			if err != nil {
				return nil, err
			}
			return observer, nil
		},
	})
}
