package timeline

import (
	"math"
	"testing"

	"ganttboard/internal/model"
	"ganttboard/internal/mutate"
)

func weekRange(t *testing.T) Range {
	return Range{Start: date(t, "2024-04-01"), End: date(t, "2024-04-07")}
}

func TestResize_StartEdge(t *testing.T) {
	tk := model.Task{ID: "a", StartDate: "2024-04-01", EndDate: "2024-04-05", Duration: 4}
	// 700px over 7 days => 100px per column; 210px rounds to column 2.
	p, ok := Resize(tk, weekRange(t), EdgeStart, 210, 700)
	if !ok {
		t.Fatalf("expected valid resize")
	}
	if *p.StartDate != "2024-04-03" || *p.Duration != 2 || p.EndDate != nil {
		t.Fatalf("unexpected patch: start=%v duration=%v end=%v", *p.StartDate, *p.Duration, p.EndDate)
	}
}

func TestResize_EndEdge(t *testing.T) {
	tk := model.Task{ID: "a", StartDate: "2024-04-02", EndDate: "2024-04-03", Duration: 1}
	p, ok := Resize(tk, weekRange(t), EdgeEnd, 560, 700)
	if !ok {
		t.Fatalf("expected valid resize")
	}
	if *p.EndDate != "2024-04-07" || *p.Duration != 5 {
		t.Fatalf("unexpected patch: end=%v duration=%v", *p.EndDate, *p.Duration)
	}
}

func TestResize_RejectsCrossingTheOtherEdge(t *testing.T) {
	tk := model.Task{ID: "a", StartDate: "2024-04-03", EndDate: "2024-04-05", Duration: 2}
	r := weekRange(t)

	if _, ok := Resize(tk, r, EdgeStart, 400, 700); ok {
		t.Fatalf("start edge onto end date must be rejected")
	}
	if _, ok := Resize(tk, r, EdgeEnd, 200, 700); ok {
		t.Fatalf("end edge onto start date must be rejected")
	}
	if _, ok := Resize(tk, r, EdgeEnd, 100, 0); ok {
		t.Fatalf("zero-width timeline must be rejected")
	}
}

func TestResize_NeverProducesNegativeDuration(t *testing.T) {
	r := weekRange(t)
	pointers := []float64{-1e12, -1e9, 1e9, 1e12, math.MaxFloat64, -math.MaxFloat64}
	for px := -5000.0; px <= 5000; px += 37 {
		pointers = append(pointers, px)
	}
	for _, edge := range []Edge{EdgeStart, EdgeEnd} {
		for _, px := range pointers {
			tk := model.Task{ID: "a", StartDate: "2024-04-03", EndDate: "2024-04-05", Duration: 2}
			p, ok := Resize(tk, r, edge, px, 700)
			if !ok {
				continue
			}
			if _, err := mutate.ApplyTaskPatch(&tk, p); err != nil {
				t.Fatalf("edge=%s px=%v: apply failed: %v", edge, px, err)
			}
			s, ok1 := model.ParseDate(tk.StartDate)
			e, ok2 := model.ParseDate(tk.EndDate)
			if !ok1 || !ok2 {
				t.Fatalf("edge=%s px=%v: dates no longer parse: %+v", edge, px, tk)
			}
			if e.Before(s) || tk.Duration < 0 || tk.Duration != model.DaysBetween(s, e) {
				t.Fatalf("edge=%s px=%v: start no longer before end: %+v", edge, px, tk)
			}
			if s.Before(r.Start) || e.After(r.End) {
				t.Fatalf("edge=%s px=%v: dragged outside the timeline: %+v", edge, px, tk)
			}
		}
	}
}

func TestResize_RejectsNonFinitePointer(t *testing.T) {
	tk := model.Task{ID: "a", StartDate: "2024-04-03", EndDate: "2024-04-05", Duration: 2}
	r := weekRange(t)
	for _, px := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, edge := range []Edge{EdgeStart, EdgeEnd} {
			if p, ok := Resize(tk, r, edge, px, 700); ok {
				t.Fatalf("edge=%s px=%v: expected rejection, got %+v", edge, px, p)
			}
		}
	}
	if _, ok := Resize(tk, r, EdgeEnd, 300, math.Inf(1)); ok {
		t.Fatalf("infinite timeline width must be rejected")
	}
}

func TestDayIndexAt_ClampsToColumns(t *testing.T) {
	r := weekRange(t)
	tests := []struct {
		px   float64
		want int
	}{
		{-1e12, 0},
		{-40, 0},
		{0, 0},
		{349, 3},
		{700, 6},
		{1e9, 6},
	}
	for _, tt := range tests {
		got, ok := DayIndexAt(r, tt.px, 700)
		if !ok || got != tt.want {
			t.Fatalf("DayIndexAt(px=%v): expected %d, got %d ok=%v", tt.px, tt.want, got, ok)
		}
	}
}

func TestResizeToDay_RejectsDatesThatDoNotRoundTrip(t *testing.T) {
	tk := model.Task{ID: "a", StartDate: "2024-04-03", EndDate: "2024-04-05", Duration: 2}
	r := weekRange(t)
	if p, ok := ResizeToDay(tk, r, EdgeEnd, 4_000_000); ok {
		t.Fatalf("end past year 9999 must be rejected, got %+v", p)
	}
	if p, ok := ResizeToDay(tk, r, EdgeStart, -1_000_000); ok {
		t.Fatalf("start before year 0 must be rejected, got %+v", p)
	}
	// Past the current range is still fine.
	p, ok := ResizeToDay(tk, r, EdgeEnd, 10)
	if !ok || *p.EndDate != "2024-04-11" || *p.Duration != 8 {
		t.Fatalf("unexpected patch: %+v ok=%v", p, ok)
	}
}

func TestSetToToday_PreservesDuration(t *testing.T) {
	tk := model.Task{ID: "a", StartDate: "2024-04-01", EndDate: "2024-04-07", Duration: 6}
	p := SetToToday(tk, date(t, "2026-10-18"))
	if *p.StartDate != "2026-10-18" || *p.EndDate != "2026-10-24" || *p.Duration != 6 {
		t.Fatalf("unexpected patch: %v %v %v", *p.StartDate, *p.EndDate, *p.Duration)
	}
}

func TestParseEdge(t *testing.T) {
	if e, err := ParseEdge(" END "); err != nil || e != EdgeEnd {
		t.Fatalf("expected end; got %v %v", e, err)
	}
	if _, err := ParseEdge("middle"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResizer_StateMachine(t *testing.T) {
	var rz Resizer
	tk := model.Task{ID: "a", StartDate: "2024-04-02", EndDate: "2024-04-04", Duration: 2}
	r := weekRange(t)

	if _, ok := rz.Move(tk, r, 600, 700); ok {
		t.Fatalf("move while idle must do nothing")
	}

	rz.Begin(tk, EdgeEnd)
	if rz.State() != Resizing {
		t.Fatalf("expected resizing")
	}
	if id, edge, ok := rz.Target(); !ok || id != "a" || edge != EdgeEnd {
		t.Fatalf("unexpected target %q %q %v", id, edge, ok)
	}

	// Live feedback: each move is applied immediately.
	p, ok := rz.Move(tk, r, 600, 700)
	if !ok {
		t.Fatalf("expected valid move")
	}
	if _, err := mutate.ApplyTaskPatch(&tk, p); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tk.EndDate != "2024-04-07" || tk.Duration != 5 {
		t.Fatalf("unexpected task after move: %+v", tk)
	}

	if _, ok := rz.Move(model.Task{ID: "other"}, r, 600, 700); ok {
		t.Fatalf("move for a different task must be ignored")
	}

	id, restore, ok := rz.Cancel()
	if !ok || id != "a" {
		t.Fatalf("expected cancel to report task a")
	}
	if rz.State() != Idle {
		t.Fatalf("expected idle after cancel")
	}
	if _, err := mutate.ApplyTaskPatch(&tk, restore); err != nil {
		t.Fatalf("apply restore: %v", err)
	}
	if tk.EndDate != "2024-04-04" || tk.Duration != 2 {
		t.Fatalf("expected original dates restored; got %+v", tk)
	}

	rz.Begin(tk, EdgeStart)
	rz.End()
	if rz.State() != Idle {
		t.Fatalf("expected idle after end")
	}
	if _, _, ok := rz.Cancel(); ok {
		t.Fatalf("cancel while idle must report ok=false")
	}
}
