package validation

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the model validator Graft node.
const NodeID graft.ID = "adapter.validator"

func init() {
	graft.Register(graft.Node[ports.ModelValidator]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModelValidator, error) {
			return New(), nil
		},
	})
}
