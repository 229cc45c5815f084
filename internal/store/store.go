package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"league-mirror/internal/domain"
)

// Persistence is the disk side of the store: a snapshot writer and loader.
type Persistence interface {
	WriteSnapshot(resource domain.Resource, raw json.RawMessage) error
	Load(resource domain.Resource) (json.RawMessage, error)
}

type slot struct {
	raw       json.RawMessage
	updatedAt time.Time
}

// ResourceStore keeps the four mirrored snapshots in memory with disk
// mirrors. Each snapshot is replaced wholesale; committed values are never
// mutated in place.
type ResourceStore struct {
	mu          sync.RWMutex
	slots       map[domain.Resource]slot
	persistence Persistence
	now         func() time.Time
}

// New constructs an empty ResourceStore. Persistence may be nil for
// memory-only operation (tests).
func New(persistence Persistence) *ResourceStore {
	return &ResourceStore{
		slots:       make(map[domain.Resource]slot),
		persistence: persistence,
		now:         time.Now,
	}
}

// Load returns the committed snapshot for a resource, its commit time, and
// whether one exists. The returned bytes must not be modified.
func (s *ResourceStore) Load(resource domain.Resource) (json.RawMessage, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.slots[resource]
	return sl.raw, sl.updatedAt, ok
}

// Commit replaces the in-memory snapshot, then mirrors it to disk. A disk
// failure is returned but the memory commit stands: memory and disk may
// diverge until the next successful commit.
func (s *ResourceStore) Commit(resource domain.Resource, raw json.RawMessage) error {
	if !resource.Valid() {
		return fmt.Errorf("unknown resource %q", resource)
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty snapshot for %s", resource)
	}

	s.mu.Lock()
	s.slots[resource] = slot{raw: raw, updatedAt: s.now()}
	s.mu.Unlock()

	if s.persistence == nil {
		return nil
	}
	if err := s.persistence.WriteSnapshot(resource, raw); err != nil {
		return fmt.Errorf("persist %s: %w", resource, err)
	}
	return nil
}

// LoadFromDisk seeds the in-memory slot from the persisted copy. It reports
// whether a copy existed; a missing file is not an error.
func (s *ResourceStore) LoadFromDisk(resource domain.Resource) (bool, error) {
	if s.persistence == nil {
		return false, nil
	}

	raw, err := s.persistence.Load(resource)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	s.mu.Lock()
	s.slots[resource] = slot{raw: raw, updatedAt: s.now()}
	s.mu.Unlock()
	return true, nil
}
