package domain

import "go.trai.ch/zerr"

var (
	// ErrChangesetNotFound is returned when a changeset id does not resolve to a stored changeset.
	ErrChangesetNotFound = zerr.New("changeset not found")

	// ErrChangesetAlreadyExists is returned when creating a changeset whose id is already taken.
	ErrChangesetAlreadyExists = zerr.New("changeset already exists")

	// ErrChangesetNotDraft is returned when a staging operation targets a terminated changeset.
	ErrChangesetNotDraft = zerr.New("changeset is not in draft status")

	// ErrChangesetNotCommitted is returned when reverting a changeset that is not committed.
	ErrChangesetNotCommitted = zerr.New("changeset is not committed")

	// ErrInvalidChangesetName is returned when a changeset name produces an empty id.
	ErrInvalidChangesetName = zerr.New("changeset name must contain at least one alphanumeric character")

	// ErrNoActiveChangeset is returned when an operation requires an active changeset and none is set.
	ErrNoActiveChangeset = zerr.New("no active changeset")

	// ErrElementNotFound is returned when an element id is absent from the model or projection.
	ErrElementNotFound = zerr.New("element not found")

	// ErrElementAlreadyExists is returned when adding an element whose id is already present.
	ErrElementAlreadyExists = zerr.New("element already exists")

	// ErrInvalidElementID is returned when an element id is not qualified by its layer.
	ErrInvalidElementID = zerr.New("invalid element id, expected format: <layer>.<type>.<name>")

	// ErrNothingToUpdate is returned when an element update carries no field.
	ErrNothingToUpdate = zerr.New("nothing to update, pass at least one field")

	// ErrInvalidKeyValue is returned when a flag value is not in key=value or type:target form.
	ErrInvalidKeyValue = zerr.New("invalid flag value")

	// ErrLayerNotFound is returned when a layer is not part of the model.
	ErrLayerNotFound = zerr.New("layer not found")

	// ErrInvalidChangeType is returned when a change carries an unknown type.
	ErrInvalidChangeType = zerr.New("invalid change type, expected 'add', 'update' or 'delete'")

	// ErrMissingChangePayload is returned when an add or update change has no after state.
	ErrMissingChangePayload = zerr.New("change has no after state")

	// ErrDriftDetected is matched by DriftError.
	ErrDriftDetected = zerr.New("base model has drifted since the changeset was created")

	// ErrValidationFailed is matched by ValidationError.
	ErrValidationFailed = zerr.New("merged model failed validation")

	// ErrCommitFailed is matched by CommitError.
	ErrCommitFailed = zerr.New("commit failed")

	// ErrSnapshotFailed is matched by SnapshotError.
	ErrSnapshotFailed = zerr.New("failed to fingerprint model")

	// ErrHistoryEntryNotFound is returned when reverting a changeset that has no apply entry in the history.
	ErrHistoryEntryNotFound = zerr.New("no applied history entry for changeset")

	// ErrModelNotInitialized is returned when the model directory has no manifest.
	ErrModelNotInitialized = zerr.New("model not initialized, run 'dr init' first")

	// ErrModelAlreadyInitialized is returned by init when the model directory already has a manifest.
	ErrModelAlreadyInitialized = zerr.New("model already initialized")

	// ErrModelReadFailed is returned when a manifest or layer file cannot be read.
	ErrModelReadFailed = zerr.New("failed to read model file")

	// ErrModelParseFailed is returned when a manifest or layer file cannot be parsed.
	ErrModelParseFailed = zerr.New("failed to parse model file")

	// ErrModelWriteFailed is returned when a manifest or layer file cannot be written.
	ErrModelWriteFailed = zerr.New("failed to write model file")

	// ErrStoreCreateFailed is returned when the changeset store location cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create changeset store")

	// ErrStoreReadFailed is returned when a changeset record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read changeset")

	// ErrStoreWriteFailed is returned when a changeset record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write changeset")

	// ErrStoreMarshalFailed is returned when a changeset cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal changeset")

	// ErrStoreUnmarshalFailed is returned when a changeset cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal changeset")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidStorageBackend is returned when the configured changeset backend is unknown.
	ErrInvalidStorageBackend = zerr.New("invalid changeset backend, expected 'file' or 'badger'")

	// ErrWatchFailed is returned when the model directory cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch model directory")
)
