package cli

import (
	"errors"
	"fmt"
	"strings"

	"ganttboard/internal/publish"
	"ganttboard/internal/timeline"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var render bool
	var toDir string
	var overwrite bool
	var columns int
	var wrap int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the project as Markdown (meta, task table, ASCII timeline)",
		Example: strings.TrimSpace(`
# Raw markdown to stdout
ganttboard report

# Styled for the terminal
ganttboard report --render

# Write <dir>/<title-slug>.md
ganttboard report --to ./out --overwrite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if columns < 0 {
				return writeErr(cmd, errors.New("--columns must be >= 0"))
			}
			st, done, err := app.newStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			data := st.Snapshot()
			layout := timeline.Compute(data.Tasks, st.Today())
			opts := publish.RenderOptions{TimelineColumns: columns}
			md := publish.RenderProjectMarkdown(data, layout, opts)

			if strings.TrimSpace(toDir) != "" {
				res, err := publish.WriteReport(md, data.Title, toDir, publish.WriteOptions{
					Overwrite:     overwrite,
					RenderOptions: opts,
				})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			if render {
				out, err := renderTerminalMarkdown(md, wrap)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render the markdown with terminal styling")
	cmd.Flags().StringVar(&toDir, "to", "", "Write the report into this directory instead of stdout")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing report file")
	cmd.Flags().IntVar(&columns, "columns", 0, "Timeline chart width in characters (0: one per day, max 60)")
	cmd.Flags().IntVar(&wrap, "wrap", 100, "Word wrap width for --render")
	return cmd
}

func renderTerminalMarkdown(md string, wrap int) (string, error) {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		// A fixed style keeps glamour from querying the terminal background.
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

