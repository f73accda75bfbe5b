package web

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"ganttboard/internal/model"
	"ganttboard/internal/timeline"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

type pageVM struct {
	ClientID string
	Signals  string
	Main     mainVM
}

type mainVM struct {
	Project   model.ProjectData
	StartText string
	Summary   string
	Days      []dayVM
	Rows      []rowVM
	Activity  []activityVM
}

type dayVM struct {
	Label   string
	Title   string
	Span    int
	Weekend bool
	Today   bool
}

// maxDayHeaders caps the header cells; longer ranges get one cell per group of days.
const maxDayHeaders = 120

func dayHeaders(days []time.Time, today time.Time) []dayVM {
	if len(days) <= maxDayHeaders {
		out := make([]dayVM, 0, len(days))
		for _, d := range days {
			out = append(out, dayVM{
				Label:   d.Format("02"),
				Title:   d.Format("Mon Jan 2"),
				Span:    1,
				Weekend: d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
				Today:   d.Equal(today),
			})
		}
		return out
	}
	step := (len(days) + maxDayHeaders - 1) / maxDayHeaders
	out := make([]dayVM, 0, maxDayHeaders)
	for i := 0; i < len(days); i += step {
		j := min(i+step, len(days))
		first, last := days[i], days[j-1]
		out = append(out, dayVM{
			Label: first.Format("Jan 2006"),
			Title: first.Format("Jan 2, 2006") + " to " + last.Format("Jan 2, 2006"),
			Span:  j - i,
			Today: !today.Before(first) && !today.After(last),
		})
	}
	return out
}

type rowVM struct {
	Index    int
	Number   int
	Task     model.Task
	Last     bool
	Start    string
	End      string
	Days     string
	HasBar   bool
	BarStyle template.CSS
	Done     template.CSS
}

type activityVM struct {
	Type   string
	Entity string
	When   string
}

type reportVM struct {
	Title string
	Body  template.HTML
}

func (s *Server) mainVM(ctx context.Context) mainVM {
	data := s.store.Snapshot()
	today := s.store.Today()
	layout := timeline.Compute(data.Tasks, today)

	vm := mainVM{
		Project:   data,
		StartText: model.DisplayDate(data.StartDate),
		Summary: fmt.Sprintf("%s, %s to %s (%s)",
			english.Plural(len(data.Tasks), "task", ""),
			model.DisplayDate(layout.Start),
			model.DisplayDate(layout.End),
			english.Plural(layout.DayCount, "day", ""),
		),
		Rows: make([]rowVM, 0, len(layout.Rows)),
	}
	vm.Days = dayHeaders(layout.Days, today)
	for _, row := range layout.Rows {
		vm.Rows = append(vm.Rows, newRowVM(row, len(layout.Rows)))
	}
	for _, ev := range s.recentActivity(ctx) {
		vm.Activity = append(vm.Activity, activityVM{
			Type:   ev.Type,
			Entity: ev.EntityID,
			When:   humanize.Time(ev.TS),
		})
	}
	return vm
}

func newRowVM(row timeline.Row, n int) rowVM {
	vm := rowVM{
		Index:  row.Index,
		Number: row.Index + 1,
		Task:   row.Task,
		Last:   row.Index == n-1,
		Start:  model.DisplayDate(row.Task.StartDate),
		End:    model.DisplayDate(row.Task.EndDate),
		Days:   english.Plural(row.Task.Duration, "day", ""),
		HasBar: row.OK,
	}
	if row.OK {
		vm.BarStyle = template.CSS(fmt.Sprintf("left: %.4f%%; width: %.4f%%", row.Bar.Offset*100, row.Bar.Width*100))
		vm.Done = template.CSS(fmt.Sprintf("width: %.1f%%", row.Bar.Progress*100))
	}
	return vm
}
