package service

import (
	"testing"
	"time"
)

func TestRecentSet_Mark(t *testing.T) {
	base := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	s := newRecentSet(30 * time.Second)

	if !s.mark("a", base) {
		t.Fatal("first mark should allow dispatch")
	}
	if s.mark("a", base.Add(10*time.Second)) {
		t.Error("mark within TTL should suppress")
	}
	if !s.mark("b", base.Add(10*time.Second)) {
		t.Error("different id should not be suppressed")
	}
	if !s.mark("a", base.Add(31*time.Second)) {
		t.Error("mark after TTL should allow dispatch again")
	}
}

func TestRecentSet_PrunesExpiredEntries(t *testing.T) {
	base := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	s := newRecentSet(time.Second)

	for _, id := range []string{"a", "b", "c"} {
		s.mark(id, base)
	}
	s.mark("d", base.Add(2*time.Second))

	if len(s.entries) != 1 {
		t.Errorf("entries = %d, want 1 after pruning", len(s.entries))
	}
}
