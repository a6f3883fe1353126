package ports

import (
	"context"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
)

// ChangesetStore defines the interface for persisting changesets.
//
//go:generate mockgen -source=changeset_store.go -destination=mocks/mock_changeset_store.go -package=mocks
type ChangesetStore interface {
	ActivePointer

	// Create persists a new empty draft changeset.
	// Returns domain.ErrChangesetAlreadyExists if the id is taken.
	Create(ctx context.Context, id, name, description string, snapshot domain.Snapshot) (*domain.Changeset, error)

	// Load retrieves a changeset by id.
	// Returns nil, nil if not found.
	Load(ctx context.Context, id string) (*domain.Changeset, error)

	// Save replaces the stored changeset.
	Save(ctx context.Context, cs *domain.Changeset) error

	// List returns every stored changeset ordered by creation time.
	List(ctx context.Context) ([]*domain.Changeset, error)

	// Delete removes a changeset. Deleting a missing changeset is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases the underlying resources.
	Close() error
}

// ActivePointer tracks the workspace scoped active changeset.
type ActivePointer interface {
	// ActiveID returns the active changeset id, or "" when none is active.
	ActiveID(ctx context.Context) (string, error)

	// SetActiveID replaces the active changeset.
	SetActiveID(ctx context.Context, id string) error

	// ClearActiveID unsets the active changeset.
	ClearActiveID(ctx context.Context) error
}
