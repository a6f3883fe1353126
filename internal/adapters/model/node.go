package model

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/config"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the model store Graft node.
const NodeID graft.ID = "adapter.model_store"

func init() {
	graft.Register(graft.Node[ports.ModelStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.WorkspaceNodeID},
		Run: func(ctx context.Context) (ports.ModelStore, error) {
			ws, err := graft.Dep[*domain.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(ws.ModelPath), nil
		},
	})
}
