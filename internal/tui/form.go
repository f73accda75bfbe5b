package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ganttboard/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formKind int

const (
	formProject formKind = iota
	formTask
	formCreate
)

var errIncompleteTask = errors.New("name, positive duration and start date are required")

type formField struct {
	key   string
	label string
	orig  string
	input textinput.Model
}

// editForm is the modal used for project details, task edits and new tasks. Fields are
// edited locally and only reach the store on submit.
type editForm struct {
	kind   formKind
	title  string
	taskID string
	fields []formField
	focus  int
	err    string
}

func newFormField(key, label, value, placeholder string) formField {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.SetValue(value)
	in.CursorEnd()
	return formField{key: key, label: label, orig: value, input: in}
}

func newProjectForm(p model.ProjectData) *editForm {
	f := &editForm{
		kind:  formProject,
		title: "Project details",
		fields: []formField{
			newFormField("title", "Title", p.Title, "Project title"),
			newFormField("company", "Company", p.Company, "Company"),
			newFormField("projectLead", "Project lead", p.ProjectLead, "Lead"),
			newFormField("startDate", "Start date", p.StartDate, "YYYY-MM-DD"),
		},
	}
	f.setFocus(0)
	return f
}

func newTaskForm(t model.Task) *editForm {
	f := &editForm{
		kind:   formTask,
		title:  "Edit task",
		taskID: t.ID,
		fields: []formField{
			newFormField("name", "Name", t.Name, "Task name"),
			newFormField("assignedTo", "Assigned to", t.AssignedTo, "Assignee"),
			newFormField("progress", "Progress %", strconv.Itoa(t.Progress), "0-100"),
			newFormField("startDate", "Start date", t.StartDate, "YYYY-MM-DD"),
			newFormField("endDate", "End date", t.EndDate, "YYYY-MM-DD"),
			newFormField("duration", "Duration", strconv.Itoa(t.Duration), "days"),
		},
	}
	f.setFocus(0)
	return f
}

func newCreateForm(today time.Time) *editForm {
	f := &editForm{
		kind:  formCreate,
		title: "New task",
		fields: []formField{
			newFormField("name", "Name", "", "Task name"),
			newFormField("duration", "Duration", "", "days"),
			newFormField("startDate", "Start date", model.FormatDate(today), "YYYY-MM-DD"),
		},
	}
	f.setFocus(0)
	return f
}

func (f *editForm) setFocus(i int) {
	n := len(f.fields)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n
	for j := range f.fields {
		if j == i {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	f.focus = i
}

func (f *editForm) field(key string) (formField, bool) {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl, true
		}
	}
	return formField{}, false
}

func (f *editForm) value(key string) string {
	fl, _ := f.field(key)
	return fl.input.Value()
}

// changed reports the field's value when it differs from what the form opened with.
func (f *editForm) changed(key string) (string, bool) {
	fl, ok := f.field(key)
	if !ok {
		return "", false
	}
	v := fl.input.Value()
	return v, v != fl.orig
}

// update handles navigation and forwards everything else to the focused input.
func (f *editForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	f.err = ""
	return cmd
}

func (f *editForm) projectPatch() model.ProjectPatch {
	var p model.ProjectPatch
	if v, ok := f.changed("title"); ok {
		p.Title = model.Ptr(v)
	}
	if v, ok := f.changed("company"); ok {
		p.Company = model.Ptr(v)
	}
	if v, ok := f.changed("projectLead"); ok {
		p.ProjectLead = model.Ptr(v)
	}
	if v, ok := f.changed("startDate"); ok {
		p.StartDate = model.Ptr(strings.TrimSpace(v))
	}
	return p
}

func (f *editForm) taskPatch() (model.TaskPatch, error) {
	var p model.TaskPatch
	if v, ok := f.changed("name"); ok {
		p.Name = model.Ptr(v)
	}
	if v, ok := f.changed("assignedTo"); ok {
		p.AssignedTo = model.Ptr(v)
	}
	if v, ok := f.changed("startDate"); ok {
		p.StartDate = model.Ptr(strings.TrimSpace(v))
	}
	if v, ok := f.changed("endDate"); ok {
		p.EndDate = model.Ptr(strings.TrimSpace(v))
	}
	for _, key := range []string{"progress", "duration"} {
		v, ok := f.changed(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return model.TaskPatch{}, fmt.Errorf("invalid %s: %q", key, v)
		}
		if key == "progress" {
			p.Progress = model.Ptr(n)
		} else {
			p.Duration = model.Ptr(n)
		}
	}
	return p, nil
}

func (f *editForm) newTask() (name string, days int, start string, err error) {
	name = strings.TrimSpace(f.value("name"))
	start = strings.TrimSpace(f.value("startDate"))
	days, convErr := strconv.Atoi(strings.TrimSpace(f.value("duration")))
	if name == "" || start == "" || convErr != nil || days <= 0 {
		return "", 0, "", errIncompleteTask
	}
	return name, days, start, nil
}

func (f *editForm) view(width int) string {
	bodyW := width - 6
	if bodyW > 60 {
		bodyW = 60
	}
	if bodyW < 20 {
		bodyW = 20
	}
	labelW := 0
	for _, fl := range f.fields {
		if w := lipgloss.Width(fl.label); w > labelW {
			labelW = w
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(f.title))
	b.WriteString("\n\n")
	for i, fl := range f.fields {
		label := lipgloss.NewStyle().Width(labelW + 2).Render(fl.label)
		if i == f.focus {
			label = lipgloss.NewStyle().Width(labelW + 2).Bold(true).Foreground(colorAccent).Render(fl.label)
		}
		b.WriteString(label)
		b.WriteString(renderInputLine(bodyW-labelW-2, fl.input.View()))
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styleError().Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("tab next · enter save · esc cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Background(colorSurfaceBg).
		Foreground(colorSurfaceFg).
		Padding(1, 2).
		Render(b.String())
}
