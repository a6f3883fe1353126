// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/changesets"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/config"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/logger"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/metrics"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/model"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/validation"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/app"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/projection"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/snapshot"
	_ "github.com/tinkermonkey/documentation-robotics-sub001/internal/engine/staging"
)
