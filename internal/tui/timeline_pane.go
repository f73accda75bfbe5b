package tui

import (
	"strings"

	"ganttboard/internal/model"
	"ganttboard/internal/publish"
	"ganttboard/internal/timeline"

	"github.com/charmbracelet/lipgloss"
)

// renderTimelineHeader labels the first and last day of the range.
func renderTimelineHeader(layout timeline.Layout, width int) string {
	if width <= 0 {
		return ""
	}
	left := model.DisplayDate(layout.Start)
	right := model.DisplayDate(layout.End)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return fitLine(left, width)
	}
	return styleMuted().Render(left + strings.Repeat(" ", gap) + right)
}

// renderTimelineRow draws one bar across width columns. handle, when set, marks the edge
// being resized.
func renderTimelineRow(row timeline.Row, width int, selected bool, handle timeline.Edge) string {
	if width <= 0 {
		return ""
	}
	if !row.OK {
		return styleError().Render(fitLine(model.InvalidDate, width))
	}

	cells := publish.ChartRow(row, width)
	first := strings.IndexFunc(cells, func(r rune) bool { return r != '.' })
	last := strings.LastIndexFunc(cells, func(r rune) bool { return r != '.' })

	done := lipgloss.NewStyle().Foreground(colorBarDone)
	remain := lipgloss.NewStyle().Foreground(colorBarRemain)
	empty := styleMuted()
	if selected {
		done = done.Bold(true)
		remain = remain.Bold(true)
	}
	handleStyle := lipgloss.NewStyle().Foreground(colorBarHandle).Bold(true)

	var b strings.Builder
	// Runs of the same cell kind render under one style to keep escape codes short.
	runStart := 0
	flush := func(end int) {
		if end <= runStart {
			return
		}
		n := end - runStart
		switch cells[runStart] {
		case '#':
			b.WriteString(done.Render(strings.Repeat(glyphBarDone(), n)))
		case '=':
			b.WriteString(remain.Render(strings.Repeat(glyphBarRemain(), n)))
		default:
			b.WriteString(empty.Render(strings.Repeat(glyphEmpty(), n)))
		}
	}
	handleAt := -1
	switch handle {
	case timeline.EdgeStart:
		handleAt = first
	case timeline.EdgeEnd:
		handleAt = last
	}
	for i := 0; i < len(cells); i++ {
		if i == handleAt {
			flush(i)
			b.WriteString(handleStyle.Render(glyphHandle()))
			runStart = i + 1
			continue
		}
		if i > runStart && cells[i] != cells[runStart] {
			flush(i)
			runStart = i
		}
	}
	flush(len(cells))
	return b.String()
}
