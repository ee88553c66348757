package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "taskmanager/app/errors"
	"taskmanager/app/models"
	"taskmanager/app/store"
)

// TaskOptions configures TaskService.
type TaskOptions struct {
	// StrictPriority rejects priorities other than low, medium and high.
	StrictPriority bool
	Timeout        time.Duration
	Now            func() time.Time
}

// TaskService handles task-related operations for a verified user.
type TaskService struct {
	tasks   store.TaskStore
	users   store.UserStore
	strict  bool
	timeout time.Duration
	now     func() time.Time
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(tasks store.TaskStore, users store.UserStore, opts TaskOptions) *TaskService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TaskService{
		tasks:   tasks,
		users:   users,
		strict:  opts.StrictPriority,
		timeout: opts.Timeout,
		now:     opts.Now,
	}
}

// GetTasks retrieves the caller's tasks, newest first.
func (s *TaskService) GetTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.tasks.ListTasks(ctx, userID)
}

// GetTaskByID retrieves a single task owned by the caller.
func (s *TaskService) GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.tasks.GetTask(ctx, userID, taskID)
}

// CreateTask adds a new task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID string, in models.CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.NewRequiredFieldError("title")
	}
	priority, err := s.checkPriority(in.Priority)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("user no longer exists", err)
		}
		return nil, err
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies the provided fields to a task owned by userID and
// returns the result. An empty update returns the task unchanged.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, in models.UpdateTaskInput) (*models.Task, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.NewRequiredFieldError("title")
		}
		in.Title = &title
	}
	if in.Priority != nil {
		priority, err := s.checkPriority(*in.Priority)
		if err != nil {
			return nil, err
		}
		in.Priority = &priority
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	task, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if in.IsEmpty() {
		return task, nil
	}

	in.Apply(task)
	task.UpdatedAt = s.now().UTC()
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask deletes a task owned by userID.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.tasks.DeleteTask(ctx, userID, taskID)
}

// checkPriority fills in the default and, in strict mode, rejects unknown
// levels. Lax mode stores whatever the client sent.
func (s *TaskService) checkPriority(p models.Priority) (models.Priority, error) {
	p = models.Priority(strings.ToLower(strings.TrimSpace(string(p))))
	if p == "" {
		return models.DefaultPriority, nil
	}
	if s.strict && !p.IsKnown() {
		return "", apperrors.NewValidationError("priority must be one of low, medium, high", nil).
			WithContext("field", "priority").
			WithContext("value", string(p))
	}
	return p, nil
}
