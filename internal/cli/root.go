// Package cli wires the ganttboard commands: the interactive board (default), the web
// and web-terminal servers, and scriptable report/timeline/seed/docs output.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"ganttboard/internal/config"
	"ganttboard/internal/format"
	"ganttboard/internal/logging"
	"ganttboard/internal/model"
	"ganttboard/internal/store"
	"ganttboard/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Format     string
	Pretty     bool
	Today      string
	LogLevel   string
	ConfigPath string

	cfg      config.Config
	log      *logrus.Logger
	closeLog func() error
	today    time.Time
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "ganttboard",
		Short:        "Single-project Gantt board for the terminal and the browser",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  ganttboard

  # Serve the board in a browser
  ganttboard web --open

  # Scriptable output
  ganttboard timeline --today 2024-04-10 --width 840
  ganttboard report --to ./out
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.init(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Today, "today", envOr("GANTTBOARD_TODAY", ""), "Fixed current date (YYYY-MM-DD) for deterministic output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("GANTTBOARD_CONFIG", ""), "Path to config.yaml (default: $GANTTBOARD_CONFIG_DIR/config.yaml or ~/.ganttboard/config.yaml)")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newTimelineCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init loads config and applies flags on top: flag > env > config file > default.
func (app *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		app.Format = cfg.Output.Format
	}
	if !flags.Changed("pretty") {
		app.Pretty = cfg.Output.Pretty
	}
	if !flags.Changed("log-level") {
		app.LogLevel = cfg.Log.Level
	}
	if !format.Valid(app.Format) {
		return fmt.Errorf("unsupported --format %q (expected json|yaml)", app.Format)
	}

	if s := strings.TrimSpace(app.Today); s != "" {
		d, ok := model.ParseDate(s)
		if !ok {
			return fmt.Errorf("invalid --today %q (expected YYYY-MM-DD)", s)
		}
		app.today = d
	}

	// The board owns the terminal; its logs go to log.file or nowhere.
	fallback := cmd.ErrOrStderr()
	if isFullscreen(cmd) {
		fallback = nil
	}
	log, closeLog, err := logging.New(logging.Options{
		Level:    app.LogLevel,
		File:     cfg.Log.File,
		Fallback: fallback,
		JSON:     cfg.Log.JSON,
	})
	if err != nil {
		return err
	}
	app.log = log
	app.closeLog = closeLog
	return nil
}

func (app *App) close() error {
	if app.closeLog == nil {
		return nil
	}
	return app.closeLog()
}

func isFullscreen(cmd *cobra.Command) bool {
	return cmd == cmd.Root() || cmd.Name() == "tui"
}

// clock returns the store clock: the fixed --today date or time.Now.
func (app *App) clock() func() time.Time {
	if app.today.IsZero() {
		return time.Now
	}
	d := app.today
	return func() time.Time { return d }
}

// newStore starts a fresh seeded session with its own in-memory journal.
func (app *App) newStore(ctx context.Context) (*store.ProjectStore, func(), error) {
	j, err := store.OpenJournal(ctx)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open journal: %w", err)
	}
	st := store.NewSeeded(
		store.WithJournal(j),
		store.WithLogger(app.log),
		store.WithClock(app.clock()),
	)
	return st, func() { _ = j.Close() }, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, done, err := app.newStore(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer done()
	return tui.Run(st, tui.Options{
		Logger: app.log.WithField("component", "tui"),
		Glyphs: app.cfg.TUI.Glyphs,
	})
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal board (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
