package domain

import "path/filepath"

const (
	// DrDirName is the name of the internal workspace directory.
	DrDirName = ".dr"

	// ModelDirName is the name of the model directory inside the workspace directory.
	ModelDirName = "model"

	// ChangesetsDirName is the name of the changeset storage directory.
	ChangesetsDirName = "changesets"

	// ChangesetsDBName is the name of the badger changeset database directory.
	ChangesetsDBName = "changesets.db"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "dr.yaml"

	// ManifestFileName is the name of the model manifest file.
	ManifestFileName = "manifest.yaml"

	// LayerFileExt is the extension used for layer files.
	LayerFileExt = ".yaml"

	// ActivePointerFileName is the name of the file holding the active changeset id.
	ActivePointerFileName = "active"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultModelPath returns the default model directory relative to the project root.
// It joins .dr and model.
func DefaultModelPath() string {
	return filepath.Join(DrDirName, ModelDirName)
}

// DefaultChangesetsPath returns the default changeset directory relative to the project root.
// It joins .dr and changesets.
func DefaultChangesetsPath() string {
	return filepath.Join(DrDirName, ChangesetsDirName)
}

// DefaultChangesetsDBPath returns the default badger database path relative to the project root.
func DefaultChangesetsDBPath() string {
	return filepath.Join(DrDirName, ChangesetsDBName)
}

// LayerFileName returns the file name used to persist the named layer.
func LayerFileName(layer string) string {
	return layer + LayerFileExt
}
