package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"ganttboard/internal/model"
	"ganttboard/internal/mutate"
	"ganttboard/internal/timeline"
)

func fixedClock(s string) func() time.Time {
	d, _ := model.ParseDate(s)
	return func() time.Time { return d.Add(10 * time.Hour) }
}

func newTestStore(t *testing.T) *ProjectStore {
	t.Helper()
	j, err := OpenJournal(context.Background())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return NewSeeded(WithJournal(j), WithClock(fixedClock("2026-10-18")))
}

func TestSeed_DurationsMatchDates(t *testing.T) {
	d := DefaultProjectData()
	if d.Title != "Website Redesign" || len(d.Tasks) != 3 {
		t.Fatalf("unexpected seed: %+v", d)
	}
	for _, tk := range d.Tasks {
		s, _ := model.ParseDate(tk.StartDate)
		e, _ := model.ParseDate(tk.EndDate)
		if got := model.DaysBetween(s, e); got != tk.Duration {
			t.Fatalf("task %s: duration %d, dates say %d", tk.ID, tk.Duration, got)
		}
	}
}

func TestSnapshot_IsIndependent(t *testing.T) {
	s := NewSeeded()
	snap := s.Snapshot()
	snap.Tasks[0].Name = "changed"
	snap.Tasks = append(snap.Tasks, model.Task{ID: "x"})

	again := s.Snapshot()
	if again.Tasks[0].Name == "changed" || len(again.Tasks) != 3 {
		t.Fatalf("snapshot mutation leaked into store: %+v", again.Tasks)
	}
}

func TestCreateTask(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	tk, err := s.CreateTask("Design", 5, "2024-06-01")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk.EndDate != "2024-06-06" || tk.Duration != 5 || tk.Progress != 0 || tk.Name != "Design" {
		t.Fatalf("unexpected task: %+v", tk)
	}
	for _, old := range before.Tasks {
		if old.ID == tk.ID {
			t.Fatalf("new id %q collides with existing task", tk.ID)
		}
	}

	after := s.Snapshot()
	if len(after.Tasks) != len(before.Tasks)+1 || after.Tasks[len(after.Tasks)-1].ID != tk.ID {
		t.Fatalf("expected task appended at the end; got %v", TaskIDs(after.Tasks))
	}

	evs, err := s.TaskEvents(context.Background(), tk.ID)
	if err != nil || len(evs) != 1 || evs[0].Type != EventTaskCreate {
		t.Fatalf("expected one create event, got %+v (%v)", evs, err)
	}
}

func TestCreateTask_RejectsNegativeDuration(t *testing.T) {
	s := NewSeeded()
	_, err := s.CreateTask("Bad", -1, "2024-06-01")
	var ir mutate.InvalidRangeError
	if !errors.As(err, &ir) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	if len(s.Snapshot().Tasks) != 3 {
		t.Fatalf("rejected create must not append")
	}
}

func TestUpdateTask_UnknownIDLeavesProjectUntouched(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	_, err := s.UpdateTask("nonexistent-id", model.TaskPatch{Name: model.Ptr("X")})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("project changed after update of unknown task")
	}
	if n, _ := s.journal.Count(context.Background()); n != 0 {
		t.Fatalf("expected no journal entries, got %d", n)
	}
}

func TestUpdateTask_PreservesIDsAndOrder(t *testing.T) {
	s := newTestStore(t)
	before := TaskIDs(s.Snapshot().Tasks)

	res, err := s.UpdateTask("2", model.TaskPatch{
		Name:     model.Ptr("Visual Design"),
		Progress: model.Ptr(150),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !res.Changed || res.Task.Progress != 100 || res.Task.Name != "Visual Design" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := TaskIDs(s.Snapshot().Tasks); !reflect.DeepEqual(got, before) {
		t.Fatalf("expected order %v, got %v", before, got)
	}

	// The returned task is a copy.
	res.Task.Name = "mutated"
	if tk, _ := s.Task("2"); tk.Name != "Visual Design" {
		t.Fatalf("result task aliases store state")
	}
}

func TestUpdateTask_DatesRecomputeDuration(t *testing.T) {
	s := NewSeeded()
	res, err := s.UpdateTask("1", model.TaskPatch{EndDate: model.Ptr("2024-04-11"), Duration: model.Ptr(1)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Task.Duration != 10 {
		t.Fatalf("expected duration from dates (10), got %d", res.Task.Duration)
	}

	_, err = s.UpdateTask("1", model.TaskPatch{EndDate: model.Ptr("2024-03-01")})
	var ir mutate.InvalidRangeError
	if !errors.As(err, &ir) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	if tk, _ := s.Task("1"); tk.EndDate != "2024-04-11" {
		t.Fatalf("rejected update must not apply; end=%s", tk.EndDate)
	}
}

func TestUpdateTask_NoopDoesNotNotify(t *testing.T) {
	s := NewSeeded()
	ch, cancel := s.Subscribe()
	defer cancel()

	res, err := s.UpdateTask("1", model.TaskPatch{Name: model.Ptr("Research & Planning")})
	if err != nil || res.Changed {
		t.Fatalf("expected unchanged result, got %+v (%v)", res, err)
	}
	select {
	case <-ch:
		t.Fatalf("no-op update must not notify")
	default:
	}
}

func TestUpdateProjectData(t *testing.T) {
	s := newTestStore(t)
	res, err := s.UpdateProjectData(model.ProjectPatch{Title: model.Ptr("Apollo"), Company: model.Ptr("Tech Corp")})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if !res.Changed || len(res.EventPayload) != 1 {
		t.Fatalf("expected only title in payload, got %+v", res.EventPayload)
	}
	snap := s.Snapshot()
	if snap.Title != "Apollo" || snap.Company != "Tech Corp" || snap.ProjectLead != "John Smith" || len(snap.Tasks) != 3 {
		t.Fatalf("unexpected project: %+v", snap)
	}
}

func TestReorderTasks(t *testing.T) {
	s := newTestStore(t)
	res, err := s.ReorderTasks(0, 2)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if !res.Changed || res.Task.ID != "1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := TaskIDs(s.Snapshot().Tasks); !reflect.DeepEqual(got, []string{"2", "3", "1"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if _, err := s.ReorderTasks(2, 0); err != nil {
		t.Fatalf("reorder back: %v", err)
	}
	if got := TaskIDs(s.Snapshot().Tasks); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("inverse reorder did not restore order: %v", got)
	}

	if _, err := s.ReorderTasks(0, 9); err == nil {
		t.Fatalf("expected out of range error")
	}
	if got := TaskIDs(s.Snapshot().Tasks); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("rejected reorder changed order: %v", got)
	}
}

func TestSetTaskToToday(t *testing.T) {
	s := NewSeeded(WithClock(fixedClock("2026-10-18")))
	res, err := s.SetTaskToToday("2")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if res.Task.StartDate != "2026-10-18" || res.Task.EndDate != "2026-10-31" || res.Task.Duration != 13 {
		t.Fatalf("unexpected task: %+v", res.Task)
	}
	if _, err := s.SetTaskToToday("missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetTaskToToday_UsesDurationCurrentAtApply(t *testing.T) {
	var s *ProjectStore
	var armed bool
	base := fixedClock("2026-10-18")
	s = NewSeeded(WithClock(func() time.Time {
		if armed {
			armed = false
			// An edit that lands after the caller asked for "today".
			if _, err := s.UpdateTask("2", model.TaskPatch{Duration: model.Ptr(3)}); err != nil {
				t.Errorf("concurrent update: %v", err)
			}
		}
		return base()
	}))
	armed = true
	res, err := s.SetTaskToToday("2")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if res.Task.Duration != 3 || res.Task.StartDate != "2026-10-18" || res.Task.EndDate != "2026-10-21" {
		t.Fatalf("edit lost: %+v", res.Task)
	}
}

func TestLongSpansKeepDatesAndDuration(t *testing.T) {
	s := newTestStore(t)
	res, err := s.UpdateTask("1", model.TaskPatch{EndDate: model.Ptr("2500-04-01")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Task.Duration != 173855 {
		t.Fatalf("expected duration 173855, got %d", res.Task.Duration)
	}

	data := s.Snapshot()
	tk, _ := s.Task("2")
	rng := timeline.ComputeRange(data.Tasks, s.Today())
	for _, px := range []float64{1e9, 1e12, -1e12} {
		for _, edge := range []timeline.Edge{timeline.EdgeStart, timeline.EdgeEnd} {
			p, ok := timeline.Resize(tk, rng, edge, px, 420)
			if !ok {
				continue
			}
			if _, err := s.ApplyResize("2", p); err != nil {
				t.Fatalf("px=%v edge=%s: %v", px, edge, err)
			}
			got, _ := s.Task("2")
			st, ok1 := model.ParseDate(got.StartDate)
			en, ok2 := model.ParseDate(got.EndDate)
			if !ok1 || !ok2 || en.Before(st) || got.Duration != model.DaysBetween(st, en) {
				t.Fatalf("px=%v edge=%s: corrupted task %+v", px, edge, got)
			}
			tk = got
		}
	}
}

func TestApplyResize_JournalsResizeEvent(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ApplyResize("3", model.TaskPatch{EndDate: model.Ptr("2024-05-02"), Duration: model.Ptr(10)}); err != nil {
		t.Fatalf("resize: %v", err)
	}
	evs, err := s.Events(context.Background(), 10)
	if err != nil || len(evs) != 1 || evs[0].Type != EventTaskResize || evs[0].EntityID != "3" {
		t.Fatalf("unexpected events %+v (%v)", evs, err)
	}
}

func TestSubscribe_NotifiedAfterMutation(t *testing.T) {
	s := NewSeeded()
	ch, cancel := s.Subscribe()

	if _, err := s.CreateTask("QA", 2, "2024-05-13"); err != nil {
		t.Fatalf("create: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected notification")
	}

	cancel()
	cancel()
	if n := s.hub.count(); n != 0 {
		t.Fatalf("expected no subscribers after cancel, got %d", n)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewSeeded()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.UpdateTask("1", model.TaskPatch{Progress: model.Ptr(i)})
			_, _ = s.CreateTask("t", 1, "2024-04-01")
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	if n := len(s.Snapshot().Tasks); n != 23 {
		t.Fatalf("expected 23 tasks, got %d", n)
	}
}
