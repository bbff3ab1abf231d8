package service

import (
	"sync"
	"time"
)

// recentSet is a small in-process TTL set collapsing duplicate
// regeneration dispatches for the same identifier. It exists to cut
// duplicate work for a non-idempotent queue consumer; it is owned per
// process and correctness of the client response never depends on it.
type recentSet struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
}

func newRecentSet(ttl time.Duration) *recentSet {
	return &recentSet{
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

// mark records id at time now. It returns true if the id was not seen
// within the TTL window, i.e. the caller should dispatch. Expired
// entries are pruned lazily on insert.
func (s *recentSet) mark(id string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seen, ok := s.entries[id]; ok && now.Sub(seen) < s.ttl {
		return false
	}

	s.prune(now)
	s.entries[id] = now
	return true
}

func (s *recentSet) prune(now time.Time) {
	for id, seen := range s.entries {
		if now.Sub(seen) >= s.ttl {
			delete(s.entries, id)
		}
	}
}
