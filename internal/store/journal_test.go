package store

import (
	"context"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(context.Background())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	ts := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	a, err := j.Append(ctx, ts, EventTaskCreate, "task-1", map[string]any{"name": "A"})
	if err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if a.ID == "" || !a.TS.Equal(ts) {
		t.Fatalf("unexpected event: %+v", a)
	}
	if _, err := j.Append(ctx, ts, EventTaskUpdate, "task-1", map[string]any{"progress": 10}); err != nil {
		t.Fatalf("append 2: %v", err)
	}
	if _, err := j.Append(ctx, ts, EventProjectUpdate, "project", map[string]any{"title": "T"}); err != nil {
		t.Fatalf("append 3: %v", err)
	}

	n, err := j.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 events, got %d (%v)", n, err)
	}

	tail, err := j.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(tail) != 2 || tail[0].Type != EventTaskUpdate || tail[1].Type != EventProjectUpdate {
		t.Fatalf("expected last two events oldest first, got %+v", tail)
	}

	byEntity, err := j.ForEntity(ctx, "task-1")
	if err != nil {
		t.Fatalf("for entity: %v", err)
	}
	if len(byEntity) != 2 || byEntity[0].ID != a.ID {
		t.Fatalf("unexpected entity events: %+v", byEntity)
	}
	payload, ok := byEntity[1].Payload.(map[string]any)
	if !ok || payload["progress"] != float64(10) {
		t.Fatalf("unexpected payload: %#v", byEntity[1].Payload)
	}
}

func TestJournal_RejectsMissingType(t *testing.T) {
	j := openTestJournal(t)
	if _, err := j.Append(context.Background(), time.Now(), "  ", "x", nil); err == nil {
		t.Fatalf("expected error for empty type")
	}
}
