package tui

import (
	"context"
	"fmt"
	"strings"

	"ganttboard/internal/logging"
	"ganttboard/internal/model"
	"ganttboard/internal/publish"
	"ganttboard/internal/store"
	"ganttboard/internal/timeline"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/sirupsen/logrus"
)

type viewMode int

const (
	modeBoard viewMode = iota
	modeForm
	modeResize
	modeReport
)

// storeChangedMsg arrives whenever the project store reports a successful change.
type storeChangedMsg struct{}

const (
	headerLines   = 3
	reportEvents  = 12
	minListWidth  = 24
	maxListWidth  = 48
	defaultWidth  = 80
	defaultHeight = 24
)

type appModel struct {
	st          *store.ProjectStore
	log         logrus.FieldLogger
	changes     <-chan struct{}
	unsubscribe func()

	width  int
	height int

	data   model.ProjectData
	layout timeline.Layout

	list       list.Model
	keys       keyMap
	resizeKeys resizeKeyMap
	help       help.Model
	progress   progress.Model
	report     viewport.Model

	mode    viewMode
	form    *editForm
	resizer timeline.Resizer
	flash   string
}

func newAppModel(st *store.ProjectStore, opts Options) appModel {
	setGlyphs(parseGlyphs(opts.Glyphs))

	log := opts.Logger
	if log == nil {
		// stderr belongs to the terminal UI.
		log = logging.Discard()
	}
	ch, cancel := st.Subscribe()

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(20))
	if glyphs() == glyphSetASCII {
		bar = progress.New(progress.WithFillCharacters('#', '.'), progress.WithoutPercentage(), progress.WithWidth(20))
	}

	m := appModel{
		st:          st,
		log:         log,
		changes:     ch,
		unsubscribe: cancel,
		width:       defaultWidth,
		height:      defaultHeight,
		list:        newList(nil),
		keys:        newKeyMap(),
		resizeKeys:  newResizeKeyMap(),
		help:        help.New(),
		progress:    bar,
		report:      viewport.New(defaultWidth, defaultHeight-2),
	}
	m.refresh()
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange blocks on the store subscription; Update re-arms it after each message.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// refresh re-reads the store and keeps the cursor on the same task when it still exists.
func (m *appModel) refresh() {
	prevID := ""
	prevIdx := m.list.Index()
	if t, _, ok := m.selectedTask(); ok {
		prevID = t.ID
	}

	m.data = m.st.Snapshot()
	m.layout = timeline.Compute(m.data.Tasks, m.st.Today())
	_ = m.list.SetItems(taskItems(m.data.Tasks))

	idx := prevIdx
	if _, i, ok := m.data.FindTask(prevID); ok {
		idx = i
	}
	if idx >= len(m.data.Tasks) {
		idx = len(m.data.Tasks) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	if m.mode == modeReport {
		m.renderReport()
	}
}

func (m *appModel) resize() {
	listW := m.width * 2 / 5
	if listW < minListWidth {
		listW = minListWidth
	}
	if listW > maxListWidth {
		listW = maxListWidth
	}
	idx := m.list.Index()
	m.list.SetSize(listW, m.bodyHeight()-1)
	if idx >= 0 && idx < len(m.data.Tasks) {
		m.list.Select(idx)
	}
	m.help.Width = m.width
	m.report.Width = m.width
	m.report.Height = max(1, m.height-2)
	if m.mode == modeReport {
		m.renderReport()
	}
}

func (m appModel) bodyHeight() int {
	// header, detail line, flash line, help line
	h := m.height - headerLines - 3
	if h < 3 {
		h = 3
	}
	return h
}

func (m appModel) selectedTask() (model.Task, int, bool) {
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.data.Tasks) {
		return model.Task{}, -1, false
	}
	return m.data.Tasks[idx], idx, true
}

// apply records the outcome of a store call: errors go to the flash line, and the view
// is refreshed either way.
func (m *appModel) apply(op string, err error) {
	if err != nil {
		m.flash = err.Error()
		m.log.WithError(err).WithField("op", op).Debug("tui action rejected")
	} else {
		m.flash = ""
	}
	m.refresh()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case storeChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeResize:
			return m.updateResize(msg)
		case modeReport:
			return m.updateReport(msg)
		default:
			return m.updateBoard(msg)
		}
	}
	return m, nil
}

func (m appModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, idx, ok := m.selectedTask()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.New):
		m.openForm(newCreateForm(m.st.Today()))
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Project):
		m.openForm(newProjectForm(m.data))
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Report):
		m.mode = modeReport
		m.renderReport()
		m.report.GotoTop()
		return m, nil
	}

	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		m.openForm(newTaskForm(task))
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Today):
		_, err := m.st.SetTaskToToday(task.ID)
		m.apply("today", err)
		return m, nil
	case key.Matches(msg, m.keys.More):
		_, err := m.st.UpdateTask(task.ID, model.TaskPatch{Progress: model.Ptr(task.Progress + 10)})
		m.apply("progress", err)
		return m, nil
	case key.Matches(msg, m.keys.Less):
		_, err := m.st.UpdateTask(task.ID, model.TaskPatch{Progress: model.Ptr(task.Progress - 10)})
		m.apply("progress", err)
		return m, nil
	case key.Matches(msg, m.keys.MoveUp):
		return m.moveTask(idx, idx-1), nil
	case key.Matches(msg, m.keys.MoveDown):
		return m.moveTask(idx, idx+1), nil
	case key.Matches(msg, m.keys.ResizeBeg):
		return m.beginResize(task, timeline.EdgeStart), nil
	case key.Matches(msg, m.keys.ResizeEnd):
		return m.beginResize(task, timeline.EdgeEnd), nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) moveTask(from, to int) appModel {
	if to < 0 || to >= len(m.data.Tasks) {
		return m
	}
	_, err := m.st.ReorderTasks(from, to)
	m.apply("reorder", err)
	if err == nil {
		m.list.Select(to)
	}
	return m
}

func (m *appModel) openForm(f *editForm) {
	m.form = f
	m.mode = modeForm
	m.flash = ""
}

func (m *appModel) closeForm() {
	m.form = nil
	m.mode = modeBoard
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if err := m.submitForm(); err != nil {
			m.form.err = err.Error()
			m.log.WithError(err).Debug("tui form rejected")
			return m, nil
		}
		m.closeForm()
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m *appModel) submitForm() error {
	f := m.form
	switch f.kind {
	case formProject:
		patch := f.projectPatch()
		if patch.IsEmpty() {
			return nil
		}
		_, err := m.st.UpdateProjectData(patch)
		if err == nil {
			m.refresh()
		}
		return err
	case formTask:
		patch, err := f.taskPatch()
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}
		if _, err := m.st.UpdateTask(f.taskID, patch); err != nil {
			return err
		}
		m.refresh()
		return nil
	case formCreate:
		name, days, start, err := f.newTask()
		if err != nil {
			return err
		}
		if _, err := m.st.CreateTask(name, days, start); err != nil {
			return err
		}
		m.refresh()
		m.list.Select(len(m.data.Tasks) - 1)
		return nil
	}
	return nil
}

func (m appModel) beginResize(t model.Task, edge timeline.Edge) appModel {
	if _, ok := timeline.BarFor(t, m.layout.Range); !ok {
		m.flash = "Invalid date: fix the task dates before resizing"
		return m
	}
	m.resizer.Begin(t, edge)
	m.mode = modeResize
	m.flash = ""
	return m
}

// edgeDay is the day column the resized edge currently sits on.
func (m appModel) edgeDay(t model.Task, edge timeline.Edge) (int, bool) {
	s := t.StartDate
	if edge == timeline.EdgeEnd {
		s = t.EndDate
	}
	d, ok := model.ParseDate(s)
	if !ok {
		return 0, false
	}
	return model.DaysBetween(m.layout.Range.Start, d), true
}

func (m appModel) updateResize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, edge, ok := m.resizer.Target()
	if !ok {
		m.mode = modeBoard
		return m, nil
	}

	switch {
	case key.Matches(msg, m.resizeKeys.Left), key.Matches(msg, m.resizeKeys.Right):
		t, _, found := m.data.FindTask(id)
		if !found {
			m.resizer.End()
			m.mode = modeBoard
			return m, nil
		}
		day, ok := m.edgeDay(t, edge)
		if !ok {
			return m, nil
		}
		if key.Matches(msg, m.resizeKeys.Left) {
			day--
		} else {
			day++
		}
		patch, ok := m.resizer.MoveToDay(t, m.layout.Range, day)
		if !ok {
			m.flash = "start must stay before end"
			return m, nil
		}
		_, err := m.st.ApplyResize(id, patch)
		m.apply("resize", err)
		return m, nil
	case key.Matches(msg, m.resizeKeys.Commit):
		m.resizer.End()
		m.mode = modeBoard
		m.flash = ""
		return m, nil
	case key.Matches(msg, m.resizeKeys.Cancel), msg.String() == "ctrl+c":
		if tid, patch, ok := m.resizer.Cancel(); ok {
			_, err := m.st.ApplyResize(tid, patch)
			m.apply("resize.cancel", err)
		}
		m.mode = modeBoard
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "r":
		m.mode = modeBoard
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

func (m *appModel) renderReport() {
	events, err := m.st.Events(context.Background(), reportEvents)
	if err != nil {
		m.log.WithError(err).Warn("tui: read activity")
	}
	md := publish.RenderProjectMarkdown(m.data, m.layout, publish.RenderOptions{
		TimelineColumns: max(10, m.width-24),
		Activity:        events,
	})
	m.report.SetContent(renderMarkdown(md, m.width-2))
}

func (m appModel) View() string {
	switch m.mode {
	case modeForm:
		if m.form != nil {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.view(m.width))
		}
	case modeReport:
		title := lipgloss.NewStyle().Bold(true).Render("Report: " + m.data.Title)
		return title + "\n" + m.report.View() + "\n" + styleMuted().Render("↑/↓ scroll · esc close")
	}
	return m.boardView()
}

func (m appModel) boardView() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	bodyH := m.bodyHeight()
	listW := m.list.Width()
	tlW := m.width - listW - 1
	if tlW < 10 {
		tlW = 10
	}

	left := styleMuted().Render("Tasks") + "\n" + m.list.View()
	right := m.timelineView(tlW, bodyH)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, listW, bodyH),
		" ",
		normalizePane(right, tlW, bodyH),
	))
	b.WriteString("\n")

	b.WriteString(fitLine(m.detailView(), m.width))
	b.WriteString("\n")
	if m.flash != "" {
		b.WriteString(styleError().Render(fitLine(m.flash, m.width)))
	}
	b.WriteString("\n")
	if m.mode == modeResize {
		b.WriteString(m.help.View(m.resizeKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(m.data.Title)
	if m.data.Company != "" {
		title += styleMuted().Render(" · " + m.data.Company)
	}
	meta := fmt.Sprintf("Lead: %s · Starts %s · %s, %s %s %s (%s)",
		orDash(m.data.ProjectLead),
		model.DisplayDate(m.data.StartDate),
		english.Plural(len(m.data.Tasks), "task", ""),
		model.DisplayDate(m.layout.Start),
		glyphArrow(),
		model.DisplayDate(m.layout.End),
		english.Plural(m.layout.DayCount, "day", ""),
	)
	rule := lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(strings.Repeat(glyphHRule(), max(1, m.width)))
	return fitLine(title, m.width) + "\n" + styleMuted().Render(fitLine(meta, m.width)) + "\n" + rule
}

func (m appModel) timelineView(width, height int) string {
	lines := []string{renderTimelineHeader(m.layout, width)}
	from, to := m.list.Paginator.GetSliceBounds(len(m.layout.Rows))
	resizeID, resizeEdge, resizing := m.resizer.Target()
	for i := from; i < to && len(lines) < height; i++ {
		row := m.layout.Rows[i]
		var handle timeline.Edge
		if resizing && row.Task.ID == resizeID {
			handle = resizeEdge
		}
		lines = append(lines, renderTimelineRow(row, width, i == m.list.Index(), handle))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) detailView() string {
	t, _, ok := m.selectedTask()
	if !ok {
		return styleMuted().Render("No tasks. Press n to add one.")
	}
	prefix := glyphSelected() + " "
	if id, edge, resizing := m.resizer.Target(); resizing && id == t.ID {
		prefix = fmt.Sprintf("Resizing %s edge: ", edge)
	}
	return fmt.Sprintf("%s%s  %s %s %s  %s  %s",
		prefix,
		t.Name,
		model.DisplayDate(t.StartDate),
		glyphArrow(),
		model.DisplayDate(t.EndDate),
		english.Plural(t.Duration, "day", ""),
		m.progress.ViewAs(float64(model.ClampProgress(t.Progress))/100),
	)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
