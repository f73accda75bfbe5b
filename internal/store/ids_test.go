package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_StableLength(t *testing.T) {
	id, err := newRandomID("task")
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("expected task prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "task-")
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected id suffix len %d, got %d (%q)", want, got, suffix)
	}
}

func TestNextTaskID_NeverReusesSeedOrIssuedIDs(t *testing.T) {
	s := NewSeeded()
	seen := map[string]bool{"1": true, "2": true, "3": true}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < 200; i++ {
		id := s.nextTaskID()
		if seen[id] {
			t.Fatalf("id %q issued twice", id)
		}
		seen[id] = true
	}
}
