package models

import "time"

// Priority is a display-only grouping attribute of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

// Priorities lists the known levels from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsKnown reports whether p is one of low, medium or high.
func (p Priority) IsKnown() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a task owned by a single user.
type Task struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Priority    Priority  `json:"priority" bson:"priority"`
	Completed   bool      `json:"completed" bson:"completed"`
	UserID      string    `json:"user" bson:"user"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CreateTaskInput is the body of POST /api/tasks.
type CreateTaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// UpdateTaskInput is the body of PUT /api/tasks/{taskID}. Nil fields are
// left unchanged.
type UpdateTaskInput struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u UpdateTaskInput) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil && u.Completed == nil
}

// Apply copies the provided fields onto t.
func (u UpdateTaskInput) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
}
