// Package tui is the terminal front end: a task list with a Gantt timeline beside it,
// edited through the shared project store.
package tui

import (
	"ganttboard/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Logger logrus.FieldLogger
	// Glyphs selects the bar character set: "unicode" (default) or "ascii".
	Glyphs string
	// NoAltScreen keeps output in the main terminal buffer.
	NoAltScreen bool
}

// Run starts the interactive board and blocks until the user quits.
func Run(st *store.ProjectStore, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(st, opts)
	defer m.unsubscribe()

	var popts []tea.ProgramOption
	if !opts.NoAltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(m, popts...).Run()
	return err
}
