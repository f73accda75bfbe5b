package model

import "time"

type Task struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	AssignedTo string `json:"assignedTo" yaml:"assignedTo"`
	Progress   int    `json:"progress" yaml:"progress"`

	// StartDate and EndDate are calendar dates (YYYY-MM-DD). They are stored as given;
	// an unparseable value is kept and rendered as "Invalid date".
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`

	// Duration is EndDate-StartDate in days. It is stored alongside the dates and kept
	// consistent by internal/mutate.
	Duration int `json:"duration" yaml:"duration"`
}

type ProjectData struct {
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company" yaml:"company"`
	ProjectLead string `json:"projectLead" yaml:"projectLead"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	Tasks       []Task `json:"tasks" yaml:"tasks"`
}

// Clone returns a deep copy so callers can hold a snapshot while the store keeps mutating.
func (p ProjectData) Clone() ProjectData {
	out := p
	out.Tasks = append([]Task(nil), p.Tasks...)
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	return out
}

func (p ProjectData) FindTask(id string) (Task, int, bool) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return p.Tasks[i], i, true
		}
	}
	return Task{}, -1, false
}

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Name       *string `json:"name,omitempty"`
	AssignedTo *string `json:"assignedTo,omitempty"`
	Progress   *int    `json:"progress,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
	Duration   *int    `json:"duration,omitempty"`
}

func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.AssignedTo == nil && p.Progress == nil &&
		p.StartDate == nil && p.EndDate == nil && p.Duration == nil
}

// ProjectPatch is a partial project metadata update. Nil fields are left untouched.
type ProjectPatch struct {
	Title       *string `json:"title,omitempty"`
	Company     *string `json:"company,omitempty"`
	ProjectLead *string `json:"projectLead,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Company == nil && p.ProjectLead == nil && p.StartDate == nil
}

// Event is one entry of the session activity journal.
type Event struct {
	ID       string    `json:"id" yaml:"id"`
	TS       time.Time `json:"ts" yaml:"ts"`
	Type     string    `json:"type" yaml:"type"`
	EntityID string    `json:"entityId" yaml:"entityId"`
	Payload  any       `json:"payload" yaml:"payload"`
}

func Ptr[T any](v T) *T { return &v }
