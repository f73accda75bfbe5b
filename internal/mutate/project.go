package mutate

import "ganttboard/internal/model"

type ProjectResult struct {
	Changed      bool
	EventPayload map[string]any
}

// ApplyProjectPatch merges metadata fields into p. Free-text and date fields are
// accepted as given; date validation is a view concern.
func ApplyProjectPatch(p *model.ProjectData, patch model.ProjectPatch) ProjectResult {
	if p == nil {
		return ProjectResult{}
	}
	payload := map[string]any{}
	set := func(key string, dst *string, v *string) {
		if v == nil || *dst == *v {
			return
		}
		*dst = *v
		payload[key] = *v
	}
	set("title", &p.Title, patch.Title)
	set("company", &p.Company, patch.Company)
	set("projectLead", &p.ProjectLead, patch.ProjectLead)
	set("startDate", &p.StartDate, patch.StartDate)

	if len(payload) == 0 {
		return ProjectResult{}
	}
	return ProjectResult{Changed: true, EventPayload: payload}
}
