package staging

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/changesets" //nolint:depguard // Wired in engine wiring
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/model"      //nolint:depguard // Wired in engine wiring
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/validation" //nolint:depguard // Wired in engine wiring
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/projection"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/snapshot"
)

// NodeID is the unique identifier for the staging manager Graft node.
const NodeID graft.ID = "engine.staging"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			changesets.NodeID,
			model.NodeID,
			snapshot.NodeID,
			projection.NodeID,
			validation.NodeID,
		},
		Run: func(ctx context.Context) (*Manager, error) {
			store, err := graft.Dep[ports.ChangesetStore](ctx)
			if err != nil {
				return nil, err
			}

			models, err := graft.Dep[ports.ModelStore](ctx)
			if err != nil {
				return nil, err
			}

			snapshots, err := graft.Dep[*snapshot.Manager](ctx)
			if err != nil {
				return nil, err
			}

			projector, err := graft.Dep[*projection.Engine](ctx)
			if err != nil {
				return nil, err
			}

			validator, err := graft.Dep[ports.ModelValidator](ctx)
			if err != nil {
				return nil, err
			}

			return NewManager(store, models, snapshots, projector, validator), nil
		},
	})
}
