package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"ganttboard/internal/model"
	"ganttboard/internal/mutate"
	"ganttboard/internal/timeline"

	"github.com/sirupsen/logrus"
)

// Event types recorded in the journal.
const (
	EventProjectUpdate = "project.update"
	EventTaskCreate    = "task.create"
	EventTaskUpdate    = "task.update"
	EventTaskReorder   = "task.reorder"
	EventTaskResize    = "task.resize"
	EventTaskToday     = "task.today"
)

// ProjectStore is the single owner of the session's ProjectData. Every read and write
// goes through it; subscribers are told about every successful change.
type ProjectStore struct {
	mu     sync.Mutex
	data   model.ProjectData
	issued map[string]bool
	seq    int

	now     func() time.Time
	log     logrus.FieldLogger
	journal *Journal
	hub     *hub
}

type Option func(*ProjectStore)

// WithClock overrides time.Now (used for "today" and journal timestamps).
func WithClock(now func() time.Time) Option {
	return func(s *ProjectStore) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *ProjectStore) {
		if l != nil {
			s.log = l
		}
	}
}

func WithJournal(j *Journal) Option {
	return func(s *ProjectStore) { s.journal = j }
}

func New(data model.ProjectData, opts ...Option) *ProjectStore {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &ProjectStore{
		data:   data.Clone(),
		issued: map[string]bool{},
		now:    time.Now,
		log:    discard,
		hub:    newHub(),
	}
	for _, t := range s.data.Tasks {
		s.issued[t.ID] = true
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSeeded returns a store holding DefaultProjectData.
func NewSeeded(opts ...Option) *ProjectStore {
	return New(DefaultProjectData(), opts...)
}

func (s *ProjectStore) Snapshot() model.ProjectData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *ProjectStore) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _, ok := s.data.FindTask(strings.TrimSpace(id))
	return t, ok
}

// Today is the store clock's current calendar date.
func (s *ProjectStore) Today() time.Time {
	return model.DateOnly(s.now())
}

// Subscribe returns a channel that receives a signal after every successful mutation.
// Signals coalesce: a slow reader sees at least one signal after the latest change.
func (s *ProjectStore) Subscribe() (<-chan struct{}, func()) {
	return s.hub.subscribe()
}

func (s *ProjectStore) UpdateProjectData(patch model.ProjectPatch) (mutate.ProjectResult, error) {
	s.mu.Lock()
	res := mutate.ApplyProjectPatch(&s.data, patch)
	if res.Changed {
		s.record(EventProjectUpdate, "project", res.EventPayload)
	}
	s.mu.Unlock()

	if res.Changed {
		s.log.WithField("fields", keys(res.EventPayload)).Debug("project updated")
		s.hub.broadcast()
	}
	return res, nil
}

// UpdateTask merges patch into the task with id. A missing id is reported as
// mutate.NotFoundError and leaves the project untouched.
func (s *ProjectStore) UpdateTask(id string, patch model.TaskPatch) (mutate.Result, error) {
	return s.applyTask(EventTaskUpdate, id, fixedPatch(patch))
}

// ApplyResize applies a patch produced by timeline.Resize or timeline.Resizer.
func (s *ProjectStore) ApplyResize(id string, patch model.TaskPatch) (mutate.Result, error) {
	return s.applyTask(EventTaskResize, id, fixedPatch(patch))
}

// SetTaskToToday moves a task to start today, keeping its duration. The patch is
// built from the task as it is under the lock, so a concurrent edit is not lost.
func (s *ProjectStore) SetTaskToToday(id string) (mutate.Result, error) {
	today := s.Today()
	return s.applyTask(EventTaskToday, id, func(t model.Task) model.TaskPatch {
		return timeline.SetToToday(t, today)
	})
}

func fixedPatch(p model.TaskPatch) func(model.Task) model.TaskPatch {
	return func(model.Task) model.TaskPatch { return p }
}

// applyTask applies the patch that patchFor builds from the current task.
// patchFor runs with s.mu held.
func (s *ProjectStore) applyTask(evType, id string, patchFor func(model.Task) model.TaskPatch) (mutate.Result, error) {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	_, idx, ok := s.data.FindTask(id)
	if !ok {
		s.mu.Unlock()
		s.log.WithField("task", id).Debug("update for unknown task ignored")
		return mutate.Result{}, mutate.NotFoundError{Kind: "task", ID: id}
	}
	patch := patchFor(s.data.Tasks[idx])
	res, err := mutate.ApplyTaskPatch(&s.data.Tasks[idx], patch)
	if err != nil {
		s.mu.Unlock()
		s.log.WithError(err).WithField("task", id).Debug("task change rejected")
		return mutate.Result{}, err
	}
	if res.Changed {
		s.record(evType, id, res.EventPayload)
	}
	// Hand back a copy; the pointer into s.data must not escape the lock.
	cp := s.data.Tasks[idx]
	res.Task = &cp
	s.mu.Unlock()

	if res.Changed {
		s.log.WithFields(logrus.Fields{"task": id, "event": evType}).Debug("task updated")
		s.hub.broadcast()
	}
	return res, nil
}

// CreateTask appends a new task. Required-field checks (non-empty name, positive
// duration, non-empty date) belong to the caller; the store only refuses a negative
// duration because it would end before it starts.
func (s *ProjectStore) CreateTask(name string, durationDays int, startDate string) (model.Task, error) {
	s.mu.Lock()
	t, err := mutate.NewTask(s.nextTaskID(), name, durationDays, startDate)
	if err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}
	s.data.Tasks = append(s.data.Tasks, t)
	s.record(EventTaskCreate, t.ID, t)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"task": t.ID, "name": t.Name}).Info("task created")
	s.hub.broadcast()
	return t, nil
}

// ReorderTasks moves the task at from to position to. Out-of-range indices are
// rejected with mutate.IndexOutOfRangeError.
func (s *ProjectStore) ReorderTasks(from, to int) (mutate.Result, error) {
	s.mu.Lock()
	next, err := MoveTask(s.data.Tasks, from, to)
	if err != nil {
		s.mu.Unlock()
		return mutate.Result{}, err
	}
	if from == to {
		s.mu.Unlock()
		return mutate.Result{}, nil
	}
	s.data.Tasks = next
	moved := next[to]
	payload := map[string]any{"from": from, "to": to, "order": TaskIDs(next)}
	s.record(EventTaskReorder, moved.ID, payload)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"task": moved.ID, "from": from, "to": to}).Debug("tasks reordered")
	s.hub.broadcast()
	return mutate.Result{Task: &moved, Changed: true, EventPayload: payload}, nil
}

// Events returns the last limit journal entries, oldest first.
func (s *ProjectStore) Events(ctx context.Context, limit int) ([]model.Event, error) {
	if s.journal == nil {
		return []model.Event{}, nil
	}
	return s.journal.Tail(ctx, limit)
}

// TaskEvents returns the journal entries for one task, oldest first.
func (s *ProjectStore) TaskEvents(ctx context.Context, id string) ([]model.Event, error) {
	if s.journal == nil {
		return []model.Event{}, nil
	}
	return s.journal.ForEntity(ctx, id)
}

// record must be called with s.mu held so journal order matches mutation order.
func (s *ProjectStore) record(typ, entityID string, payload any) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Append(context.Background(), s.now(), typ, entityID, payload); err != nil {
		s.log.WithError(err).WithField("event", typ).Warn("journal append failed")
	}
}

// IsNotFound reports whether err is a missing-task error.
func IsNotFound(err error) bool {
	var nf mutate.NotFoundError
	return errors.As(err, &nf)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
