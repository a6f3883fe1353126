package changesets

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/changesetdb"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/config"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/logger"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the changeset store Graft node.
const NodeID graft.ID = "adapter.changeset_store"

func init() {
	graft.Register(graft.Node[ports.ChangesetStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.WorkspaceNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ChangesetStore, error) {
			ws, err := graft.Dep[*domain.Workspace](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return Open(ws, log)
		},
	})
}

// Open returns the changeset store selected by the workspace backend.
func Open(ws *domain.Workspace, log ports.Logger) (ports.ChangesetStore, error) {
	switch ws.Backend {
	case domain.BackendFile, "":
		return NewStore(ws.ChangesetsPath), nil
	case domain.BackendBadger:
		return changesetdb.NewStore(changesetdb.Config{
			Path:       ws.ChangesetsPath,
			SyncWrites: true,
			Logger:     log,
		}), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidStorageBackend, "cannot open changeset store"), "backend", string(ws.Backend))
	}
}
