package tui

import (
	"fmt"

	"ganttboard/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type taskItem struct {
	task model.Task
	pos  int
}

func (i taskItem) FilterValue() string { return i.task.Name }

func (i taskItem) Title() string {
	name := i.task.Name
	if name == "" {
		name = "(untitled)"
	}
	return fmt.Sprintf("%2d. %s", i.pos+1, name)
}

func (i taskItem) Description() string {
	who := i.task.AssignedTo
	if who == "" {
		who = "unassigned"
	}
	return fmt.Sprintf("%s · %d%%", who, model.ClampProgress(i.task.Progress))
}

func taskItems(tasks []model.Task) []list.Item {
	items := make([]list.Item, 0, len(tasks))
	for i, t := range tasks {
		items = append(items, taskItem{task: t, pos: i})
	}
	return items
}

func newList(items []list.Item) list.Model {
	l := list.New(items, newCompactItemDelegate(), 0, 0)
	l.Title = "Tasks"
	// The app renders its own header and help footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Row order carries meaning here; filtering would hide the reorder targets.
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.Quit.SetKeys("q")
	return l
}
