package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"ganttboard/internal/model"
	"ganttboard/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func fixedClock(s string) func() time.Time {
	d, _ := model.ParseDate(s)
	return func() time.Time { return d.Add(9 * time.Hour) }
}

func newTestModel(t *testing.T) (appModel, *store.ProjectStore) {
	t.Helper()
	j, err := store.OpenJournal(context.Background())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	st := store.NewSeeded(store.WithJournal(j), store.WithClock(fixedClock("2024-04-10")))
	m := newAppModel(st, Options{Glyphs: "ascii"})
	t.Cleanup(m.unsubscribe)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, st
}

func send(m appModel, msgs ...tea.Msg) appModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(appModel)
	}
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m appModel, s string) appModel {
	for _, r := range s {
		m = send(m, keys(string(r)))
	}
	return m
}

func mustTask(t *testing.T, st *store.ProjectStore, id string) model.Task {
	t.Helper()
	tk, ok := st.Task(id)
	if !ok {
		t.Fatalf("task %s missing", id)
	}
	return tk
}

func TestBoardView_ShowsProjectAndTasks(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"Website Redesign", "Tech Corp", "Research & Planning", "Design Phase", "3 tasks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, out)
		}
	}
}

func TestProgressKeysClamp(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("+"), keys("+"), keys("+"))
	if got := mustTask(t, st, "1").Progress; got != 100 {
		t.Fatalf("expected progress clamped to 100, got %d", got)
	}
	send(m, keys("-"))
	if got := mustTask(t, st, "1").Progress; got != 90 {
		t.Fatalf("expected 90 after decrement, got %d", got)
	}
}

func TestReorderKeys(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("J"))
	if got := store.TaskIDs(st.Snapshot().Tasks); strings.Join(got, ",") != "2,1,3" {
		t.Fatalf("unexpected order %v", got)
	}
	if tk, _, _ := m.selectedTask(); tk.ID != "1" {
		t.Fatalf("expected cursor to follow the moved task, got %q", tk.ID)
	}

	// Moving past the top is a no-op.
	m = send(m, keys("K"), keys("K"))
	if got := store.TaskIDs(st.Snapshot().Tasks); strings.Join(got, ",") != "1,2,3" {
		t.Fatalf("unexpected order %v", got)
	}
	if m.flash != "" {
		t.Fatalf("unexpected flash %q", m.flash)
	}
}

func TestTodayKey(t *testing.T) {
	m, st := newTestModel(t)
	send(m, tea.KeyMsg{Type: tea.KeyDown}, keys("t"))
	tk := mustTask(t, st, "2")
	if tk.StartDate != "2024-04-10" || tk.EndDate != "2024-04-23" || tk.Duration != 13 {
		t.Fatalf("unexpected task after today: %+v", tk)
	}
}

func TestResize_EndEdgeCommit(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("]"))
	if m.mode != modeResize {
		t.Fatalf("expected resize mode")
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBoard {
		t.Fatalf("expected board mode after enter")
	}
	tk := mustTask(t, st, "1")
	if tk.EndDate != "2024-04-09" || tk.Duration != 8 {
		t.Fatalf("unexpected task after resize: %+v", tk)
	}
	evs, _ := st.TaskEvents(context.Background(), "1")
	if len(evs) != 2 || evs[0].Type != store.EventTaskResize {
		t.Fatalf("expected two resize events, got %+v", evs)
	}
}

func TestResize_EscRestores(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("["))
	m = send(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if tk := mustTask(t, st, "1"); tk.StartDate != "2024-03-30" || tk.Duration != 8 {
		t.Fatalf("expected live resize, got %+v", tk)
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	tk := mustTask(t, st, "1")
	if tk.StartDate != "2024-04-01" || tk.EndDate != "2024-04-07" || tk.Duration != 6 {
		t.Fatalf("expected original dates after esc, got %+v", tk)
	}
	if m.mode != modeBoard {
		t.Fatalf("expected board mode after esc")
	}
}

func TestResize_StartCannotPassEnd(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("["))
	for i := 0; i < 10; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	tk := mustTask(t, st, "1")
	if tk.StartDate != "2024-04-06" || tk.Duration != 1 {
		t.Fatalf("expected start to stop one day before end, got %+v", tk)
	}
	if m.flash == "" {
		t.Fatalf("expected a flash message for the rejected move")
	}
}

func TestCreateForm(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("n"))
	if m.mode != modeForm || m.form == nil || m.form.kind != formCreate {
		t.Fatalf("expected create form")
	}

	// Duration missing: the form stays open.
	m = typeText(m, "QA")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeForm || m.form.err == "" {
		t.Fatalf("expected validation error, mode=%v", m.mode)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "5")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBoard {
		t.Fatalf("expected form closed, err=%q", m.form.err)
	}

	tasks := st.Snapshot().Tasks
	last := tasks[len(tasks)-1]
	if len(tasks) != 4 || last.Name != "QA" || last.StartDate != "2024-04-10" || last.EndDate != "2024-04-15" {
		t.Fatalf("unexpected created task: %+v", last)
	}
	if tk, _, _ := m.selectedTask(); tk.ID != last.ID {
		t.Fatalf("expected new task selected")
	}
}

func TestTaskForm_InvalidRangeKeepsFormOpen(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("e"))
	if m.form == nil || m.form.kind != formTask {
		t.Fatalf("expected task form")
	}
	// Focus the end date field and replace its value.
	for i := 0; i < 4; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m.form.fields[m.form.focus].input.SetValue("2024-03-01")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeForm || !strings.Contains(m.form.err, "invalid range") {
		t.Fatalf("expected invalid range error, got %q", m.form.err)
	}
	if tk := mustTask(t, st, "1"); tk.EndDate != "2024-04-07" {
		t.Fatalf("rejected edit applied: %+v", tk)
	}

	m.form.fields[m.form.focus].input.SetValue("2024-04-11")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if tk := mustTask(t, st, "1"); tk.EndDate != "2024-04-11" || tk.Duration != 10 {
		t.Fatalf("unexpected task: %+v", tk)
	}
}

func TestProjectForm_OnlyChangedFields(t *testing.T) {
	m, st := newTestModel(t)
	m = send(m, keys("p"))
	m.form.fields[0].input.SetValue("Apollo")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	snap := st.Snapshot()
	if snap.Title != "Apollo" || snap.Company != "Tech Corp" {
		t.Fatalf("unexpected project: %+v", snap)
	}
	evs, _ := st.Events(context.Background(), 5)
	if len(evs) != 1 || evs[0].Type != store.EventProjectUpdate {
		t.Fatalf("unexpected events: %+v", evs)
	}
}

func TestStoreChangeRefreshesView(t *testing.T) {
	m, st := newTestModel(t)
	if _, err := st.UpdateTask("3", model.TaskPatch{Name: model.Ptr("Build")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	msg := waitForChange(m.changes)()
	if _, ok := msg.(storeChangedMsg); !ok {
		t.Fatalf("expected storeChangedMsg, got %T", msg)
	}
	m = send(m, msg)
	if !strings.Contains(m.View(), "Build") {
		t.Fatalf("expected refreshed view")
	}
}

func TestReportView(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(m, keys("r"))
	if m.mode != modeReport {
		t.Fatalf("expected report mode")
	}
	if !strings.Contains(m.View(), "Report: Website Redesign") {
		t.Fatalf("unexpected report view:\n%s", m.View())
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBoard {
		t.Fatalf("expected board after esc")
	}
}
