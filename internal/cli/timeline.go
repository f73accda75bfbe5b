package cli

import (
	"errors"

	"ganttboard/internal/timeline"

	"github.com/spf13/cobra"
)

type timelineOut struct {
	Start       string           `json:"start" yaml:"start"`
	End         string           `json:"end" yaml:"end"`
	DayCount    int              `json:"dayCount" yaml:"dayCount"`
	WidthPx     float64          `json:"widthPx,omitempty" yaml:"widthPx,omitempty"`
	DayColumnPx float64          `json:"dayColumnPx,omitempty" yaml:"dayColumnPx,omitempty"`
	Rows        []timelineRowOut `json:"rows" yaml:"rows"`
}

type timelineRowOut struct {
	Index int    `json:"index" yaml:"index"`
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	// OK is false when the task dates do not parse; the bar fields are then zero.
	OK  bool         `json:"ok" yaml:"ok"`
	Bar timeline.Bar `json:"bar" yaml:"bar"`

	LeftPx     float64 `json:"leftPx,omitempty" yaml:"leftPx,omitempty"`
	BarPx      float64 `json:"barPx,omitempty" yaml:"barPx,omitempty"`
	ProgressPx float64 `json:"progressPx,omitempty" yaml:"progressPx,omitempty"`
}

func timelineView(l timeline.Layout, widthPx float64) timelineOut {
	out := timelineOut{
		Start:    l.Start,
		End:      l.End,
		DayCount: l.DayCount,
		Rows:     make([]timelineRowOut, 0, len(l.Rows)),
	}
	if widthPx > 0 && l.DayCount > 0 {
		out.WidthPx = widthPx
		out.DayColumnPx = widthPx / float64(l.DayCount)
	}
	for _, r := range l.Rows {
		row := timelineRowOut{Index: r.Index, ID: r.Task.ID, Name: r.Task.Name, OK: r.OK, Bar: r.Bar}
		if r.OK && widthPx > 0 {
			row.LeftPx = r.Bar.Offset * widthPx
			row.BarPx = r.Bar.Width * widthPx
			row.ProgressPx = r.Bar.Progress * row.BarPx
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func newTimelineCmd(app *App) *cobra.Command {
	var width float64

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the computed timeline layout (range and per-task bars)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 0 {
				return writeErr(cmd, errors.New("--width must be >= 0"))
			}
			st, done, err := app.newStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			l := timeline.Compute(st.Snapshot().Tasks, st.Today())
			return writeOut(cmd, app, map[string]any{"data": timelineView(l, width)})
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "Timeline width in pixels; adds pixel geometry per bar")
	return cmd
}
