package timeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ganttboard/internal/model"
)

type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

func ParseEdge(s string) (Edge, error) {
	switch Edge(strings.ToLower(strings.TrimSpace(s))) {
	case EdgeStart:
		return EdgeStart, nil
	case EdgeEnd:
		return EdgeEnd, nil
	default:
		return "", fmt.Errorf("invalid edge: %q (expected start|end)", s)
	}
}

// DayIndexAt maps a pointer offset within a timeline of timelinePx pixels to the
// nearest day column, clamped to the columns of r. Non-finite input returns ok=false.
func DayIndexAt(r Range, pointerPx, timelinePx float64) (int, bool) {
	n := r.DayCount()
	if n <= 0 || !finite(pointerPx) || !finite(timelinePx) || timelinePx <= 0 {
		return 0, false
	}
	dayColumnPx := timelinePx / float64(n)
	idx := math.Round(pointerPx / dayColumnPx)
	if idx < 0 {
		return 0, true
	}
	if idx > float64(n-1) {
		return n - 1, true
	}
	return int(idx), true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Resize translates a pointer position into a new start or end date for t.
//
// The start edge only moves to a date strictly before the current end, and the end edge
// only to a date strictly after the current start. Anything else returns ok=false and
// the drag has no effect until the pointer reaches a valid position.
func Resize(t model.Task, r Range, edge Edge, pointerPx, timelinePx float64) (model.TaskPatch, bool) {
	idx, ok := DayIndexAt(r, pointerPx, timelinePx)
	if !ok {
		return model.TaskPatch{}, false
	}
	return ResizeToDay(t, r, edge, idx)
}

// ResizeToDay is Resize for callers that already work in day columns (the TUI).
func ResizeToDay(t model.Task, r Range, edge Edge, dayIndex int) (model.TaskPatch, bool) {
	candidate := model.AddDays(r.Start, dayIndex)
	// Dates outside years 0000-9999 would be stored but never parse again.
	if back, ok := model.ParseDate(model.FormatDate(candidate)); !ok || !back.Equal(candidate) {
		return model.TaskPatch{}, false
	}
	switch edge {
	case EdgeStart:
		end, ok := model.ParseDate(t.EndDate)
		if !ok || !candidate.Before(end) {
			return model.TaskPatch{}, false
		}
		return model.TaskPatch{
			StartDate: model.Ptr(model.FormatDate(candidate)),
			Duration:  model.Ptr(model.DaysBetween(candidate, end)),
		}, true
	case EdgeEnd:
		start, ok := model.ParseDate(t.StartDate)
		if !ok || !candidate.After(start) {
			return model.TaskPatch{}, false
		}
		return model.TaskPatch{
			EndDate:  model.Ptr(model.FormatDate(candidate)),
			Duration: model.Ptr(model.DaysBetween(start, candidate)),
		}, true
	default:
		return model.TaskPatch{}, false
	}
}

// SetToToday starts t today and keeps its duration.
func SetToToday(t model.Task, today time.Time) model.TaskPatch {
	d := model.DateOnly(today)
	dur := t.Duration
	if dur < 0 {
		dur = 0
	}
	return model.TaskPatch{
		StartDate: model.Ptr(model.FormatDate(d)),
		EndDate:   model.Ptr(model.FormatDate(model.AddDays(d, dur))),
		Duration:  model.Ptr(dur),
	}
}
