package publish

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"ganttboard/internal/model"
	"ganttboard/internal/timeline"

	"github.com/dustin/go-humanize/english"
)

const maxTimelineColumns = 60

type RenderOptions struct {
	// TimelineColumns is the width of the ASCII chart; 0 means one column per day,
	// capped at 60.
	TimelineColumns int
	// Activity, when non-empty, is listed newest last.
	Activity []model.Event
}

// RenderProjectMarkdown renders the project header, the task table and an ASCII
// timeline built from layout.
func RenderProjectMarkdown(data model.ProjectData, layout timeline.Layout, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = "Untitled project"
	}
	writeLn("# " + title)
	writeLn("")

	writeLn("## Meta")
	writeLn("")
	if strings.TrimSpace(data.Company) != "" {
		writeLn("- Company: " + strings.TrimSpace(data.Company))
	}
	if strings.TrimSpace(data.ProjectLead) != "" {
		writeLn("- Project lead: " + strings.TrimSpace(data.ProjectLead))
	}
	writeLn("- Start date: " + model.DisplayDate(data.StartDate))
	writeLn("- Tasks: " + english.Plural(len(data.Tasks), "task", ""))
	writeLn("- Timeline: " + model.DisplayDate(layout.Start) + " to " + model.DisplayDate(layout.End) +
		" (" + english.Plural(layout.DayCount, "day", "") + ")")
	writeLn("")

	writeLn("## Tasks")
	writeLn("")
	if len(data.Tasks) == 0 {
		writeLn("(none)")
	} else {
		writeLn("| # | Task | Assigned to | Progress | Start | End | Duration |")
		writeLn("|---|------|-------------|----------|-------|-----|----------|")
		for i, t := range data.Tasks {
			fmt.Fprintf(&buf, "| %d | %s | %s | %d%% | %s | %s | %s |\n",
				i+1,
				cell(t.Name),
				cell(t.AssignedTo),
				model.ClampProgress(t.Progress),
				model.DisplayDate(t.StartDate),
				model.DisplayDate(t.EndDate),
				english.Plural(t.Duration, "day", ""),
			)
		}
	}

	if len(layout.Rows) > 0 {
		writeLn("")
		writeLn("## Timeline")
		writeLn("")
		writeLn("```")
		writeTimeline(&buf, layout, opt.TimelineColumns)
		writeLn("```")
	}

	if len(opt.Activity) > 0 {
		writeLn("")
		writeLn("## Activity")
		writeLn("")
		for _, ev := range opt.Activity {
			fmt.Fprintf(&buf, "- %s %s %s\n", ev.TS.UTC().Format(time.RFC3339), ev.Type, ev.EntityID)
		}
	}

	return buf.String()
}

// ChartRow is one task's ASCII bar: '#' for completed days, '=' for remaining, '.'
// outside the bar, '?' across the row when the dates do not parse.
func ChartRow(row timeline.Row, columns int) string {
	if columns <= 0 {
		return ""
	}
	if !row.OK {
		return strings.Repeat("?", columns)
	}
	cells := []byte(strings.Repeat(".", columns))
	from := int(math.Floor(row.Bar.Offset * float64(columns)))
	width := int(math.Round(row.Bar.Width * float64(columns)))
	if width < 1 {
		width = 1
	}
	if from >= columns {
		from = columns - 1
	}
	to := from + width
	if to > columns {
		to = columns
	}
	done := from + int(math.Round(row.Bar.Progress*float64(to-from)))
	for i := from; i < to; i++ {
		if i < done {
			cells[i] = '#'
		} else {
			cells[i] = '='
		}
	}
	return string(cells)
}

func writeTimeline(buf *bytes.Buffer, layout timeline.Layout, columns int) {
	if columns <= 0 {
		columns = layout.DayCount
		if columns > maxTimelineColumns {
			columns = maxTimelineColumns
		}
	}
	labelWidth := 0
	for _, r := range layout.Rows {
		if n := len([]rune(r.Task.Name)); n > labelWidth {
			labelWidth = n
		}
	}
	if labelWidth > 24 {
		labelWidth = 24
	}
	for _, r := range layout.Rows {
		fmt.Fprintf(buf, "%-*s |%s| %3d%%\n", labelWidth, truncate(r.Task.Name, labelWidth), ChartRow(r, columns), model.ClampProgress(r.Task.Progress))
	}
	fmt.Fprintf(buf, "%-*s  %s .. %s\n", labelWidth, "", layout.Start, layout.End)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "~"
}

func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
