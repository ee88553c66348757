package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_IsKnown(t *testing.T) {
	for _, p := range Priorities {
		assert.True(t, p.IsKnown(), p)
	}
	assert.False(t, Priority("urgent").IsKnown())
	assert.False(t, Priority("").IsKnown())
}

func TestUpdateTaskInput_Apply(t *testing.T) {
	task := Task{Title: "Buy milk", Priority: PriorityHigh}

	var in UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"completed":true}`), &in))
	assert.False(t, in.IsEmpty())

	in.Apply(&task)
	assert.True(t, task.Completed)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, PriorityHigh, task.Priority)
}

func TestUpdateTaskInput_IsEmpty(t *testing.T) {
	var in UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(`{}`), &in))
	assert.True(t, in.IsEmpty())
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	u := User{ID: "1", Name: "Ann", Email: "ann@x.com", PasswordHash: "$2a$10$hash"}

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.Equal(t, PublicUser{ID: "1", Name: "Ann", Email: "ann@x.com"}, u.Public())
}
