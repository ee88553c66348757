package ui

import "taskmanager/app/models"

// Form is the draft of a new task.
type Form struct {
	Title       string
	Description string
	Priority    models.Priority
}

// NewForm returns an empty form with the default priority.
func NewForm() Form {
	return Form{Priority: models.DefaultPriority}
}

// Reset clears the draft back to its defaults.
func (f *Form) Reset() {
	*f = NewForm()
}

// Input converts the draft to a create request.
func (f Form) Input() models.CreateTaskInput {
	return models.CreateTaskInput{
		Title:       f.Title,
		Description: f.Description,
		Priority:    f.Priority,
	}
}
