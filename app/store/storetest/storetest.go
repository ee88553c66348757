// Package storetest holds the behaviour every store.Store backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskmanager/app/errors"
	"taskmanager/app/models"
	"taskmanager/app/store"
)

// Factory returns an empty store; it registers its own cleanup on t.
type Factory func(t *testing.T) store.Store

// Run exercises the whole store contract against fresh stores from newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAndGetUser", func(t *testing.T) { testCreateAndGetUser(t, newStore(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("UnknownUser", func(t *testing.T) { testUnknownUser(t, newStore(t)) })
	t.Run("TaskLifecycle", func(t *testing.T) { testTaskLifecycle(t, newStore(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListNewestFirst(t, newStore(t)) })
	t.Run("OwnerIsolation", func(t *testing.T) { testOwnerIsolation(t, newStore(t)) })
}

// NewUser builds a user with a fresh id.
func NewUser(name, email string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$notarealhash",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewTask builds a task for userID with a fresh id.
func NewTask(userID, title string, createdAt time.Time) *models.Task {
	createdAt = createdAt.UTC().Truncate(time.Millisecond)
	return &models.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  models.DefaultPriority,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func testCreateAndGetUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("Ann", "ann@x.com")
	require.NoError(t, s.CreateUser(ctx, u))

	byEmail, err := s.GetUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "Ann", byEmail.Name)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", byID.Email)
}

func testDuplicateEmail(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, NewUser("Ann", "ann@x.com")))

	err := s.CreateUser(ctx, NewUser("Other Ann", "ann@x.com"))
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDuplicateEmail), err)
}

func testUnknownUser(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "nobody@x.com")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), err)

	_, err = s.GetUserByID(ctx, uuid.NewString())
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), err)
}

func testTaskLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("Ann", "ann@x.com")
	require.NoError(t, s.CreateUser(ctx, u))

	task := NewTask(u.ID, "Buy milk", time.Now())
	task.Priority = models.PriorityHigh
	task.Description = "2 litres"
	require.NoError(t, s.CreateTask(ctx, task))

	got, err := s.GetTask(ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2 litres", got.Description)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.False(t, got.Completed)
	assert.Equal(t, u.ID, got.UserID)

	got.Completed = true
	got.UpdatedAt = got.UpdatedAt.Add(time.Second)
	require.NoError(t, s.UpdateTask(ctx, got))

	tasks, err := s.ListTasks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	require.NoError(t, s.DeleteTask(ctx, u.ID, task.ID))

	tasks, err = s.ListTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	err = s.DeleteTask(ctx, u.ID, task.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), err)

	err = s.UpdateTask(ctx, got)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), err)
}

func testListNewestFirst(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("Ann", "ann@x.com")
	require.NoError(t, s.CreateUser(ctx, u))

	base := time.Now()
	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateTask(ctx, NewTask(u.ID, title, base.Add(time.Duration(i)*time.Second))))
	}

	tasks, err := s.ListTasks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func testOwnerIsolation(t *testing.T, s store.Store) {
	ctx := context.Background()
	ann := NewUser("Ann", "ann@x.com")
	bob := NewUser("Bob", "bob@x.com")
	require.NoError(t, s.CreateUser(ctx, ann))
	require.NoError(t, s.CreateUser(ctx, bob))

	task := NewTask(ann.ID, "Ann's secret", time.Now())
	require.NoError(t, s.CreateTask(ctx, task))

	bobTasks, err := s.ListTasks(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobTasks)

	_, err = s.GetTask(ctx, bob.ID, task.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), err)

	hijack := *task
	hijack.UserID = bob.ID
	hijack.Completed = true
	err = s.UpdateTask(ctx, &hijack)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), err)

	err = s.DeleteTask(ctx, bob.ID, task.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), err)

	annTasks, err := s.ListTasks(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, annTasks, 1)
	assert.False(t, annTasks[0].Completed)
}
