package store

import (
	"errors"
	"sync"
	"time"

	"github.com/mrnez/weewx-ecowitt-API/internal/record"
)

var (
	// ErrNotFound is returned when no archived record matches.
	ErrNotFound = errors.New("no archived records")
)

// MemoryStore is a concurrency-safe in-memory history of archive-record
// snapshots, one per interval, with optional retention limits.
type MemoryStore struct {
	mu sync.RWMutex

	snapshots []record.Snapshot

	// retention configuration
	maxHistory int           // max number of snapshots
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends one interval's snapshot and enforces retention.
func (s *MemoryStore) Save(snap record.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, snap)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.snapshots) > s.maxHistory {
		over := len(s.snapshots) - s.maxHistory
		s.snapshots = s.snapshots[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.snapshots); i++ {
			if !s.snapshots[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.snapshots = s.snapshots[i:]
		}
	}
}

// Latest returns the most recent snapshot.
func (s *MemoryStore) Latest() (record.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return record.Snapshot{}, ErrNotFound
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

// Range returns all snapshots between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]record.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []record.Snapshot
	for _, snap := range s.snapshots {
		if !snap.Timestamp.Before(from) && !snap.Timestamp.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
