// Package changesetdb stores changesets in an embedded badger database.
package changesetdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	changesetPrefix = "changeset/"
	activeKey       = "meta/active"
)

// Config configures the database.
type Config struct {
	Path       string
	InMemory   bool
	SyncWrites bool
	// Logger receives badger's warnings and errors. Nil silences badger.
	Logger ports.Logger
}

// InMemoryConfig returns a configuration for a throwaway in-memory database.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store implements ports.ChangesetStore on badger. The database is opened on first use.
type Store struct {
	cfg Config
	now func() time.Time

	mu     sync.Mutex
	db     *badger.DB
	closed bool
}

// NewStore creates a Store. No files are touched until the first operation.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg, now: time.Now}
}

func (s *Store) open() (*badger.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, zerr.Wrap(domain.ErrStoreReadFailed, "changeset database is closed")
	}
	if s.db != nil {
		return s.db, nil
	}

	var opts badger.Options
	if s.cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if s.cfg.Path == "" {
			return nil, zerr.Wrap(domain.ErrStoreCreateFailed, "database path is required")
		}
		if err := os.MkdirAll(s.cfg.Path, domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "path", s.cfg.Path)
		}
		opts = badger.DefaultOptions(s.cfg.Path)
	}

	opts = opts.WithSyncWrites(s.cfg.SyncWrites).WithNumVersionsToKeep(1)
	if s.cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: s.cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "path", s.cfg.Path)
	}
	s.db = db
	return db, nil
}

// Create persists a new empty draft changeset.
func (s *Store) Create(
	_ context.Context, id, name, description string, snapshot domain.Snapshot,
) (*domain.Changeset, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	cs := domain.NewChangeset(id, name, description, snapshot.Clone(), s.now().UTC())
	data, err := encode(cs)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(txn *badger.Txn) error {
		key := changesetKey(id)
		if _, getErr := txn.Get(key); getErr == nil {
			return zerr.With(zerr.Wrap(domain.ErrChangesetAlreadyExists, "cannot create changeset"), "changeset_id", id)
		} else if !errors.Is(getErr, badger.ErrKeyNotFound) {
			return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, getErr.Error()), "changeset_id", id)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, wrapWrite(err, id)
	}
	return cs, nil
}

// Load reads a changeset. It returns nil, nil when the key does not exist.
func (s *Store) Load(_ context.Context, id string) (*domain.Changeset, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	var cs *domain.Changeset
	err = db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(changesetKey(id))
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			return nil
		}
		if getErr != nil {
			return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, getErr.Error()), "changeset_id", id)
		}
		return item.Value(func(val []byte) error {
			decoded, decodeErr := decode(val)
			cs = decoded
			return decodeErr
		})
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// Save replaces the stored changeset.
func (s *Store) Save(_ context.Context, cs *domain.Changeset) error {
	db, err := s.open()
	if err != nil {
		return err
	}

	data, err := encode(cs)
	if err != nil {
		return err
	}

	if err := db.Update(func(txn *badger.Txn) error {
		return txn.Set(changesetKey(cs.ID), data)
	}); err != nil {
		return wrapWrite(err, cs.ID)
	}
	return nil
}

// List returns every stored changeset ordered by creation time, then id.
func (s *Store) List(_ context.Context) ([]*domain.Changeset, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	var out []*domain.Changeset
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(changesetPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				cs, decodeErr := decode(val)
				if decodeErr != nil {
					return decodeErr
				}
				out = append(out, cs)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b *domain.Changeset) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Delete removes a changeset and clears the active pointer when it named that changeset.
func (s *Store) Delete(_ context.Context, id string) error {
	db, err := s.open()
	if err != nil {
		return err
	}

	err = db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(changesetKey(id)); err != nil {
			return err
		}
		item, getErr := txn.Get([]byte(activeKey))
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		active, copyErr := item.ValueCopy(nil)
		if copyErr != nil {
			return copyErr
		}
		if string(active) == id {
			return txn.Delete([]byte(activeKey))
		}
		return nil
	})
	if err != nil {
		return wrapWrite(err, id)
	}
	return nil
}

// ActiveID returns the active changeset id, or "" when none is set.
func (s *Store) ActiveID(_ context.Context) (string, error) {
	db, err := s.open()
	if err != nil {
		return "", err
	}

	var id string
	err = db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get([]byte(activeKey))
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		val, copyErr := item.ValueCopy(nil)
		id = string(val)
		return copyErr
	})
	if err != nil {
		return "", zerr.Wrap(domain.ErrStoreReadFailed, err.Error())
	}
	return id, nil
}

// SetActiveID replaces the active pointer.
func (s *Store) SetActiveID(_ context.Context, id string) error {
	db, err := s.open()
	if err != nil {
		return err
	}

	if err := db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(activeKey), []byte(id))
	}); err != nil {
		return wrapWrite(err, id)
	}
	return nil
}

// ClearActiveID removes the active pointer.
func (s *Store) ClearActiveID(_ context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}

	if err := db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(activeKey))
	}); err != nil {
		return zerr.Wrap(domain.ErrStoreWriteFailed, err.Error())
	}
	return nil
}

// Close closes the database if it was opened. Later operations fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return zerr.Wrap(err, "failed to close changeset database")
	}
	return nil
}

func changesetKey(id string) []byte {
	return []byte(changesetPrefix + id)
}

func encode(cs *domain.Changeset) ([]byte, error) {
	data, err := json.Marshal(cs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreMarshalFailed, err.Error()), "changeset_id", cs.ID)
	}
	return data, nil
}

func decode(val []byte) (*domain.Changeset, error) {
	var cs domain.Changeset
	if err := json.Unmarshal(val, &cs); err != nil {
		return nil, zerr.Wrap(domain.ErrStoreUnmarshalFailed, err.Error())
	}
	return &cs, nil
}

// wrapWrite keeps domain errors raised inside a transaction and wraps badger's own.
func wrapWrite(err error, id string) error {
	if errors.Is(err, domain.ErrChangesetAlreadyExists) || errors.Is(err, domain.ErrStoreReadFailed) {
		return err
	}
	return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "changeset_id", id)
}

// badgerLogger forwards badger's warnings and errors to ports.Logger.
type badgerLogger struct {
	logger ports.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(zerr.New("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn("badger: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(string, ...any) {}

func (l *badgerLogger) Debugf(string, ...any) {}
