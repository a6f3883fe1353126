package ports

import "github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the workspace for the given working directory.
	// When no dr.yaml is found the defaults rooted at cwd are returned.
	Load(cwd string) (*domain.Workspace, error)

	// DiscoverRoot walks up from cwd to find the directory containing dr.yaml.
	DiscoverRoot(cwd string) (string, error)

	// WriteDefault writes a dr.yaml for a new project under root.
	WriteDefault(root, name string) (*domain.Workspace, error)
}
