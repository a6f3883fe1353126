package snapshot

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the snapshot manager Graft node.
const NodeID graft.ID = "engine.snapshot"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Manager, error) {
			return NewManager(), nil
		},
	})
}
