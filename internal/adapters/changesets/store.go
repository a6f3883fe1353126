// Package changesets stores changesets as JSON files, one per changeset.
package changesets

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"go.trai.ch/zerr"
)

const fileExt = ".json"

// Store implements ports.ChangesetStore with a directory of JSON files and an
// active pointer file.
type Store struct {
	dir string
	now func() time.Time
	mu  sync.RWMutex
}

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir), now: time.Now}
}

// Create persists a new empty draft changeset.
func (s *Store) Create(
	_ context.Context, id, name, description string, snapshot domain.Snapshot,
) (*domain.Changeset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(id)); err == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrChangesetAlreadyExists, "cannot create changeset"), "changeset_id", id)
	}

	cs := domain.NewChangeset(id, name, description, snapshot.Clone(), s.now().UTC())
	if err := s.write(cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// Load reads a changeset. It returns nil, nil when the file does not exist.
func (s *Store) Load(_ context.Context, id string) (*domain.Changeset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(s.path(id))
}

// Save replaces the stored changeset.
func (s *Store) Save(_ context.Context, cs *domain.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(cs)
}

// List returns every stored changeset ordered by creation time, then id.
func (s *Store) List(_ context.Context) ([]*domain.Changeset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.dir)
	}

	var out []*domain.Changeset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		cs, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if cs != nil {
			out = append(out, cs)
		}
	}

	sortChangesets(out)
	return out, nil
}

// Delete removes a changeset file and clears the active pointer when it named that changeset.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "changeset_id", id)
	}

	active, err := s.readActive()
	if err != nil {
		return err
	}
	if active == id {
		return s.clearActive()
	}
	return nil
}

// Close is a no-op for the file store.
func (s *Store) Close() error {
	return nil
}

// ActiveID returns the active changeset id, or "" when none is set.
func (s *Store) ActiveID(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readActive()
}

// SetActiveID writes the active pointer file.
func (s *Store) SetActiveID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFileAtomic(s.activePath(), []byte(id+"\n"))
}

// ClearActiveID removes the active pointer file.
func (s *Store) ClearActiveID(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clearActive()
}

func (s *Store) clearActive() error {
	if err := os.Remove(s.activePath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.activePath())
	}
	return nil
}

func (s *Store) readActive() (string, error) {
	//nolint:gosec // path is built from the configured changesets directory
	data, err := os.ReadFile(s.activePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.activePath())
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) read(path string) (*domain.Changeset, error) {
	//nolint:gosec // path is built from the configured changesets directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", path)
	}

	var cs domain.Changeset
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreUnmarshalFailed, err.Error()), "path", path)
	}
	return &cs, nil
}

func (s *Store) write(cs *domain.Changeset) error {
	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreMarshalFailed, err.Error()), "changeset_id", cs.ID)
	}
	return writeFileAtomic(s.path(cs.ID), data)
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

func (s *Store) activePath() string {
	return filepath.Join(s.dir, domain.ActivePointerFileName)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", path)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	if err := errors.Join(writeErr, tmp.Close()); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", path)
	}
	return nil
}

func sortChangesets(list []*domain.Changeset) {
	slices.SortFunc(list, func(a, b *domain.Changeset) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
