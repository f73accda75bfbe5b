package mutate

import (
	"strings"

	"ganttboard/internal/model"
)

type Result struct {
	Task         *model.Task
	Changed      bool
	EventPayload map[string]any
}

// ApplyTaskPatch merges patch into t. It is the only code path that writes task fields,
// so duration always agrees with the dates when both parse.
//
// The patch is atomic: on error t is left untouched.
func ApplyTaskPatch(t *model.Task, patch model.TaskPatch) (Result, error) {
	if t == nil || patch.IsEmpty() {
		return Result{Task: t}, nil
	}

	next := *t
	payload := map[string]any{}

	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.AssignedTo != nil {
		next.AssignedTo = *patch.AssignedTo
	}
	if patch.Progress != nil {
		next.Progress = model.ClampProgress(*patch.Progress)
	}

	datesTouched := patch.StartDate != nil || patch.EndDate != nil
	if patch.StartDate != nil {
		next.StartDate = strings.TrimSpace(*patch.StartDate)
	}
	if patch.EndDate != nil {
		next.EndDate = strings.TrimSpace(*patch.EndDate)
	}

	start, startOK := model.ParseDate(next.StartDate)
	end, endOK := model.ParseDate(next.EndDate)

	switch {
	case datesTouched && startOK && endOK:
		d := model.DaysBetween(start, end)
		if d < 0 {
			return Result{}, InvalidRangeError{StartDate: next.StartDate, EndDate: next.EndDate}
		}
		next.Duration = d
	case datesTouched:
		// One side does not parse; keep what the caller said and let the view flag it.
		if patch.Duration != nil {
			next.Duration = *patch.Duration
		}
	case patch.Duration != nil:
		if *patch.Duration < 0 {
			return Result{}, InvalidRangeError{StartDate: next.StartDate, Duration: *patch.Duration}
		}
		next.Duration = *patch.Duration
		if startOK {
			next.EndDate = model.FormatDate(model.AddDays(start, next.Duration))
		}
	}

	if next.Name != t.Name {
		payload["name"] = next.Name
	}
	if next.AssignedTo != t.AssignedTo {
		payload["assignedTo"] = next.AssignedTo
	}
	if next.Progress != t.Progress {
		payload["progress"] = next.Progress
	}
	if next.StartDate != t.StartDate {
		payload["startDate"] = next.StartDate
	}
	if next.EndDate != t.EndDate {
		payload["endDate"] = next.EndDate
	}
	if next.Duration != t.Duration {
		payload["duration"] = next.Duration
	}
	if len(payload) == 0 {
		return Result{Task: t}, nil
	}

	*t = next
	return Result{Task: t, Changed: true, EventPayload: payload}, nil
}

// NewTask builds a task starting on startDate and lasting durationDays.
// An unparseable start is kept verbatim as both dates.
func NewTask(id, name string, durationDays int, startDate string) (model.Task, error) {
	if durationDays < 0 {
		return model.Task{}, InvalidRangeError{StartDate: startDate, Duration: durationDays}
	}
	startDate = strings.TrimSpace(startDate)
	end, ok := model.AddDaysString(startDate, durationDays)
	if !ok {
		end = startDate
	}
	return model.Task{
		ID:        id,
		Name:      name,
		Progress:  0,
		StartDate: startDate,
		EndDate:   end,
		Duration:  durationDays,
	}, nil
}
