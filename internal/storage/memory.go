// internal/storage/memory.go
package storage

import (
	"sync"

	"github.com/SunWolf77/SUPT-Dashboard/internal/data"
)

// SnapshotStore keeps the most recent refresh snapshots in memory, oldest
// first. It is the only state carried across refresh cycles and is lost on
// restart.
type SnapshotStore struct {
	mu       sync.RWMutex
	buffer   []*data.Snapshot
	capacity int
}

func NewSnapshotStore(capacity int) *SnapshotStore {
	return &SnapshotStore{
		buffer:   make([]*data.Snapshot, 0, capacity),
		capacity: capacity,
	}
}

func (s *SnapshotStore) Add(snap *data.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buffer) >= s.capacity {
		s.buffer = s.buffer[1:]
	}
	s.buffer = append(s.buffer, snap)
}

// Latest returns the newest snapshot, or nil when no cycle has completed yet.
func (s *SnapshotStore) Latest() *data.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.buffer) == 0 {
		return nil
	}
	return s.buffer[len(s.buffer)-1]
}

// Recent returns up to count of the newest snapshots, oldest first.
// A non-positive or oversized count returns everything.
func (s *SnapshotStore) Recent(count int) []*data.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > len(s.buffer) {
		count = len(s.buffer)
	}
	result := make([]*data.Snapshot, count)
	copy(result, s.buffer[len(s.buffer)-count:])
	return result
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffer)
}
