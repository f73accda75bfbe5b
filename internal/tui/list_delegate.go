package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// compactItemDelegate draws one task per line so the list stays aligned with the
// timeline rows next to it.
type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	meta     lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		meta: styleMuted(),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(taskItem)
	if !ok {
		fmt.Fprint(w, fitLine(fmt.Sprint(item), contentW))
		return
	}

	title := it.Title()
	meta := it.Description()
	// Metadata goes right-aligned when there is room; otherwise the title wins.
	gap := contentW - xansi.StringWidth(title) - xansi.StringWidth(meta) - 1
	line := title
	if gap >= 1 {
		line = title + strings.Repeat(" ", gap+1) + meta
	}
	line = fitLine(line, contentW)

	if index == m.Index() {
		fmt.Fprint(w, d.selected.Render(line))
		return
	}
	fmt.Fprint(w, d.normal.Render(line))
}
