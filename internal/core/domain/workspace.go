package domain

import "path/filepath"

// StorageBackend selects the changeset storage implementation.
type StorageBackend string

const (
	// BackendFile stores one JSON file per changeset.
	BackendFile StorageBackend = "file"
	// BackendBadger stores changesets in an embedded badger database.
	BackendBadger StorageBackend = "badger"
)

// Workspace is the resolved project configuration with absolute paths.
type Workspace struct {
	// Root is the directory containing dr.yaml, or the working directory when there is none.
	Root string
	// Name is the project name recorded in the manifest on init.
	Name string
	// ConfigPath is the absolute path of dr.yaml. Empty when the file does not exist.
	ConfigPath     string
	ModelPath      string
	Backend        StorageBackend
	ChangesetsPath string
	// ValidateOnCommit is the default of the commit --validate flag.
	ValidateOnCommit bool
}

// DefaultWorkspace returns the configuration used when no dr.yaml exists under root.
func DefaultWorkspace(root string) *Workspace {
	return &Workspace{
		Root:             root,
		Name:             filepath.Base(root),
		ModelPath:        filepath.Join(root, DefaultModelPath()),
		Backend:          BackendFile,
		ChangesetsPath:   filepath.Join(root, DefaultChangesetsPath()),
		ValidateOnCommit: true,
	}
}

// Initialized reports whether the workspace has a config file.
func (w *Workspace) Initialized() bool {
	return w.ConfigPath != ""
}
