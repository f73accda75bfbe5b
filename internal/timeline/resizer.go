package timeline

import "ganttboard/internal/model"

type ResizeState int

const (
	Idle ResizeState = iota
	Resizing
)

func (s ResizeState) String() string {
	if s == Resizing {
		return "resizing"
	}
	return "idle"
}

// Resizer tracks one pointer's drag of a bar edge.
//
//	Idle --Begin--> Resizing(task, edge) --Move--> Resizing --End/Cancel--> Idle
//
// Move recomputes on every call so the caller can apply the patch for live feedback.
type Resizer struct {
	state  ResizeState
	taskID string
	edge   Edge

	origStart    string
	origEnd      string
	origDuration int
}

func (r *Resizer) State() ResizeState { return r.state }

func (r *Resizer) Target() (taskID string, edge Edge, ok bool) {
	if r.state != Resizing {
		return "", "", false
	}
	return r.taskID, r.edge, true
}

// Begin starts a drag on t's edge. A Begin while already resizing replaces the drag.
func (r *Resizer) Begin(t model.Task, edge Edge) {
	r.state = Resizing
	r.taskID = t.ID
	r.edge = edge
	r.origStart = t.StartDate
	r.origEnd = t.EndDate
	r.origDuration = t.Duration
}

// Move returns the patch for the current pointer position. ok is false when idle, when
// t is not the task being resized, or when the position is invalid.
func (r *Resizer) Move(t model.Task, rng Range, pointerPx, timelinePx float64) (model.TaskPatch, bool) {
	if r.state != Resizing || t.ID != r.taskID {
		return model.TaskPatch{}, false
	}
	return Resize(t, rng, r.edge, pointerPx, timelinePx)
}

// MoveToDay is Move in day-column units.
func (r *Resizer) MoveToDay(t model.Task, rng Range, dayIndex int) (model.TaskPatch, bool) {
	if r.state != Resizing || t.ID != r.taskID {
		return model.TaskPatch{}, false
	}
	return ResizeToDay(t, rng, r.edge, dayIndex)
}

// End finishes the drag, keeping whatever the last Move applied.
func (r *Resizer) End() {
	*r = Resizer{}
}

// Cancel finishes the drag and returns the patch that restores the dates captured by
// Begin. ok is false when there was no drag in progress.
func (r *Resizer) Cancel() (taskID string, patch model.TaskPatch, ok bool) {
	if r.state != Resizing {
		return "", model.TaskPatch{}, false
	}
	taskID = r.taskID
	patch = model.TaskPatch{
		StartDate: model.Ptr(r.origStart),
		EndDate:   model.Ptr(r.origEnd),
		Duration:  model.Ptr(r.origDuration),
	}
	*r = Resizer{}
	return taskID, patch, true
}
