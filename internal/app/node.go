package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/changesets" //nolint:depguard // Wired in app layer
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/metrics"    //nolint:depguard // Wired in app layer
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/model"      //nolint:depguard // Wired in app layer
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/watcher"    //nolint:depguard // Wired in app layer
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/staging"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.WorkspaceNodeID,
			config.NodeID,
			model.NodeID,
			staging.NodeID,
			metrics.ObserverNodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			changesets.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	ws, err := graft.Dep[*domain.Workspace](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	models, err := graft.Dep[ports.ModelStore](ctx)
	if err != nil {
		return nil, err
	}

	mgr, err := graft.Dep[*staging.Manager](ctx)
	if err != nil {
		return nil, err
	}

	observer, err := graft.Dep[*metrics.Observer](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(ws, loader, models, mgr, observer, watchers, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ChangesetStore](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
		Close:  store.Close,
	}, nil
}
