package app

import "github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	// Close releases the changeset store.
	Close func() error
}
