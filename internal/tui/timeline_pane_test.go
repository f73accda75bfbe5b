package tui

import (
	"strings"
	"testing"
	"time"

	"ganttboard/internal/model"
	"ganttboard/internal/timeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestRenderTimelineRow_ASCII(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	tasks := []model.Task{
		{ID: "a", StartDate: "2024-04-01", EndDate: "2024-04-04", Duration: 3, Progress: 50},
		{ID: "b", StartDate: "2024-04-05", EndDate: "2024-04-08", Duration: 3},
		{ID: "c", StartDate: "nope", EndDate: "2024-04-08"},
	}
	l := timeline.Compute(tasks, time.Time{})

	cases := []struct {
		name   string
		row    int
		handle timeline.Edge
		want   string
	}{
		{name: "half done", row: 0, want: "##==...."},
		{name: "end handle", row: 1, handle: timeline.EdgeEnd, want: "....===|"},
		{name: "start handle", row: 0, handle: timeline.EdgeStart, want: "|#==...."},
		{name: "invalid", row: 2, want: "Invalid…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := renderTimelineRow(l.Rows[tc.row], 8, false, tc.handle)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizePane(t *testing.T) {
	got := normalizePane("abcdef\nx", 4, 3)
	want := strings.Join([]string{"abc…", "x   ", "    "}, "\n")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseGlyphs(t *testing.T) {
	if parseGlyphs(" ASCII ") != glyphSetASCII || parseGlyphs("fancy") != glyphSetUnicode {
		t.Fatalf("unexpected glyph parsing")
	}
}
