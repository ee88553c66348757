// Package store defines the persistence contract shared by every backend.
//
// Implementations must scope every task read and write to the owner id they
// are given: a task owned by someone else is reported exactly like a task
// that does not exist.
package store

import (
	"context"

	"taskmanager/app/models"
)

// UserStore persists registered accounts.
type UserStore interface {
	// CreateUser inserts u. A taken email yields a DuplicateEmail error.
	CreateUser(ctx context.Context, u *models.User) error
	// GetUserByEmail returns a NotFound error for unknown emails.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	// ListTasks returns userID's tasks, newest first.
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) error
	GetTask(ctx context.Context, userID, id string) (*models.Task, error)
	// UpdateTask overwrites the mutable fields of the task matching both
	// t.ID and t.UserID.
	UpdateTask(ctx context.Context, t *models.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
}

// Store is a complete backend.
type Store interface {
	UserStore
	TaskStore
	Close(ctx context.Context) error
}
