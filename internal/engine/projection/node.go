package projection

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/changesets" //nolint:depguard // Wired in engine wiring
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/metrics"    //nolint:depguard // Wired in engine wiring
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the projection engine Graft node.
const NodeID graft.ID = "engine.projection"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			changesets.NodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			store, err := graft.Dep[ports.ChangesetStore](ctx)
			if err != nil {
				return nil, err
			}

			observer, err := graft.Dep[ports.CacheObserver](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(store, observer), nil
		},
	})
}
