package staging_test

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ChangesetStore = (*memStore)(nil)

// memStore is an in-memory ChangesetStore that hands out copies like the real backends do.
type memStore struct {
	mu     sync.Mutex
	sets   map[string]*domain.Changeset
	active string
	saves  int
	// failStatus makes Save fail with failErr for changesets in that status.
	failStatus domain.ChangesetStatus
	failErr    error
}

func newMemStore() *memStore {
	return &memStore{sets: make(map[string]*domain.Changeset)}
}

func (s *memStore) Create(_ context.Context, id, name, description string, snap domain.Snapshot) (*domain.Changeset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[id]; ok {
		return nil, zerr.Wrap(domain.ErrChangesetAlreadyExists, "memstore")
	}
	cs := domain.NewChangeset(id, name, description, snap, time.Now().UTC())
	s.sets[id] = cs.Clone()
	return cs, nil
}

func (s *memStore) Load(_ context.Context, id string) (*domain.Changeset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.sets[id]
	if !ok {
		return nil, nil
	}
	return cs.Clone(), nil
}

func (s *memStore) Save(_ context.Context, cs *domain.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStatus != "" && cs.Status == s.failStatus {
		return s.failErr
	}
	s.saves++
	s.sets[cs.ID] = cs.Clone()
	return nil
}

func (s *memStore) List(_ context.Context) ([]*domain.Changeset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Changeset, 0, len(s.sets))
	for _, cs := range s.sets {
		out = append(out, cs.Clone())
	}
	slices.SortFunc(out, func(a, b *domain.Changeset) int {
		return cmp.Or(a.Created.Compare(b.Created), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, id)
	return nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) ActiveID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, nil
}

func (s *memStore) SetActiveID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	return nil
}

func (s *memStore) ClearActiveID(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = ""
	return nil
}
