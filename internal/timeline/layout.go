// Package timeline derives Gantt geometry from a task list. It holds no state of its
// own; everything is recomputed from the current ProjectData.
package timeline

import (
	"time"

	"ganttboard/internal/model"
)

// Range is the inclusive span of calendar days the timeline shows.
type Range struct {
	Start time.Time
	End   time.Time
}

// DayCount is the number of grid columns, End-Start+1.
func (r Range) DayCount() int {
	return model.DaysBetween(r.Start, r.End) + 1
}

// Days enumerates every calendar day from Start to End inclusive.
func (r Range) Days() []time.Time {
	n := r.DayCount()
	if n <= 0 {
		return []time.Time{}
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.AddDays(r.Start, i))
	}
	return out
}

// ComputeRange spans the earliest start to the latest end across tasks with parseable
// dates. With nothing to span it falls back to the single day today.
func ComputeRange(tasks []model.Task, today time.Time) Range {
	var (
		start, end time.Time
		found      bool
	)
	for _, t := range tasks {
		s, ok1 := model.ParseDate(t.StartDate)
		e, ok2 := model.ParseDate(t.EndDate)
		if !ok1 || !ok2 {
			continue
		}
		if !found || s.Before(start) {
			start = s
		}
		if !found || e.After(end) {
			end = e
		}
		found = true
	}
	if !found {
		d := model.DateOnly(today)
		return Range{Start: d, End: d}
	}
	if end.Before(start) {
		end = start
	}
	return Range{Start: start, End: end}
}

// Bar is one task's horizontal placement. Offset and Width are fractions of the whole
// range; Progress is a fraction of the bar's own width.
type Bar struct {
	TaskID          string  `json:"taskId" yaml:"taskId"`
	StartOffsetDays int     `json:"startOffsetDays" yaml:"startOffsetDays"`
	DurationDays    int     `json:"durationDays" yaml:"durationDays"`
	Offset          float64 `json:"offset" yaml:"offset"`
	Width           float64 `json:"width" yaml:"width"`
	Progress        float64 `json:"progress" yaml:"progress"`
}

// BarFor computes t's geometry within r. ok is false when t's dates do not parse.
//
// Width counts days inclusively so a task starting and ending on the same day still
// gets one column.
func BarFor(t model.Task, r Range) (Bar, bool) {
	s, ok1 := model.ParseDate(t.StartDate)
	e, ok2 := model.ParseDate(t.EndDate)
	if !ok1 || !ok2 {
		return Bar{TaskID: t.ID}, false
	}
	n := float64(r.DayCount())
	if n <= 0 {
		return Bar{TaskID: t.ID}, false
	}
	offset := model.DaysBetween(r.Start, s)
	dur := model.DaysBetween(s, e)
	return Bar{
		TaskID:          t.ID,
		StartOffsetDays: offset,
		DurationDays:    dur,
		Offset:          float64(offset) / n,
		Width:           float64(dur+1) / n,
		Progress:        float64(model.ClampProgress(t.Progress)) / 100,
	}, true
}

// Row pairs a task with its bar, in display order.
type Row struct {
	Index int        `json:"index" yaml:"index"`
	Task  model.Task `json:"task" yaml:"task"`
	Bar   Bar        `json:"bar" yaml:"bar"`
	OK    bool       `json:"ok" yaml:"ok"`
}

type Layout struct {
	Range    Range       `json:"-" yaml:"-"`
	Start    string      `json:"start" yaml:"start"`
	End      string      `json:"end" yaml:"end"`
	DayCount int         `json:"dayCount" yaml:"dayCount"`
	Days     []time.Time `json:"-" yaml:"-"`
	Rows     []Row       `json:"rows" yaml:"rows"`
}

// Compute derives the full timeline for tasks.
func Compute(tasks []model.Task, today time.Time) Layout {
	r := ComputeRange(tasks, today)
	l := Layout{
		Range:    r,
		Start:    model.FormatDate(r.Start),
		End:      model.FormatDate(r.End),
		DayCount: r.DayCount(),
		Days:     r.Days(),
		Rows:     make([]Row, 0, len(tasks)),
	}
	for i, t := range tasks {
		b, ok := BarFor(t, r)
		l.Rows = append(l.Rows, Row{Index: i, Task: t, Bar: b, OK: ok})
	}
	return l
}
