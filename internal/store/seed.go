package store

import "ganttboard/internal/model"

// DefaultProjectData is the fixed project every session starts from.
func DefaultProjectData() model.ProjectData {
	return model.ProjectData{
		Title:       "Website Redesign",
		Company:     "Tech Corp",
		ProjectLead: "John Smith",
		StartDate:   "2024-04-01",
		Tasks: []model.Task{
			{
				ID:         "1",
				Name:       "Research & Planning",
				AssignedTo: "Alice Johnson",
				Progress:   75,
				StartDate:  "2024-04-01",
				EndDate:    "2024-04-07",
				Duration:   6,
			},
			{
				ID:         "2",
				Name:       "Design Phase",
				AssignedTo: "Bob Wilson",
				Progress:   50,
				StartDate:  "2024-04-08",
				EndDate:    "2024-04-21",
				Duration:   13,
			},
			{
				ID:         "3",
				Name:       "Development",
				AssignedTo: "Charlie Brown",
				Progress:   25,
				StartDate:  "2024-04-22",
				EndDate:    "2024-05-12",
				Duration:   20,
			},
		},
	}
}
