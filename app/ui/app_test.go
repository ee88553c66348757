package ui

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/app/apitest"
	"taskmanager/app/client"
	"taskmanager/app/models"
)

func setupApp(t *testing.T, opts apitest.Options) (*App, *SessionStore, *client.Client) {
	srv := apitest.NewServer(t, opts)
	c, err := client.New(client.Options{BaseURL: srv.URL})
	require.NoError(t, err)

	sessions := NewSessionStore(t.TempDir())
	app, err := NewApp(sessions, c, nil)
	require.NoError(t, err)
	return app, sessions, c
}

func loggedInDashboard(t *testing.T, app *App) *Dashboard {
	require.True(t, app.Register(context.Background(), "Ann", "ann@x.com", "pw").OK())
	d, err := app.Dashboard()
	require.NoError(t, err)
	require.True(t, d.Load(context.Background()).OK())
	return d
}

func TestApp_LoggedOut(t *testing.T) {
	app, _, _ := setupApp(t, apitest.Options{})

	assert.False(t, app.LoggedIn())
	_, err := app.Dashboard()
	assert.ErrorIs(t, err, ErrLoggedOut)
	assert.ErrorIs(t, app.Whoami(context.Background()).Err, ErrLoggedOut)
}

func TestApp_SessionLifecycle(t *testing.T) {
	app, sessions, c := setupApp(t, apitest.Options{})
	ctx := context.Background()

	res := app.Register(ctx, "Ann", "ann@x.com", "pw")
	require.True(t, res.OK(), res.Err)
	assert.Equal(t, ActionRegister, res.Action)
	assert.Equal(t, "Ann", app.Session().User.Name)

	restored, err := NewApp(sessions, c, nil)
	require.NoError(t, err)
	require.True(t, restored.LoggedIn())
	assert.Equal(t, app.Session().Token, restored.Session().Token)

	assert.True(t, restored.Whoami(ctx).OK())
	assert.Equal(t, "ann@x.com", restored.Session().User.Email)

	assert.True(t, restored.Logout().OK())
	assert.False(t, restored.LoggedIn())
	assert.True(t, restored.Logout().OK())

	res = restored.Login(ctx, "ann@x.com", "wrong")
	assert.True(t, client.IsUnauthorized(res.Err), res.Err)
	assert.False(t, restored.LoggedIn())

	res = restored.Login(ctx, "ann@x.com", "pw")
	require.True(t, res.OK(), res.Err)
	assert.True(t, restored.LoggedIn())
}

func TestDashboard_IncrementalUpdates(t *testing.T) {
	app, _, c := setupApp(t, apitest.Options{})
	ctx := context.Background()
	d := loggedInDashboard(t, app)
	assert.Empty(t, d.Tasks)
	assert.Equal(t, "Ann", d.User().Name)

	d.Form.Title = "Buy milk"
	d.Form.Priority = models.PriorityHigh
	require.True(t, d.Submit(ctx).OK())
	assert.Equal(t, NewForm(), d.Form)

	d.Form.Title = "Walk dog"
	require.True(t, d.Submit(ctx).OK())

	require.Len(t, d.Tasks, 2)
	assert.Equal(t, "Walk dog", d.Tasks[0].Title)
	assert.Equal(t, models.PriorityMedium, d.Tasks[0].Priority)

	milk := d.Tasks[1]
	require.True(t, d.Toggle(ctx, milk.ID).OK())
	assert.True(t, d.Tasks[1].Completed)

	require.True(t, d.Delete(ctx, d.Tasks[0].ID).OK())
	require.Len(t, d.Tasks, 1)

	// Local state matches the server without a reload.
	server, err := c.ListTasks(ctx, app.Session().Token)
	require.NoError(t, err)
	require.Len(t, server, 1)
	assert.Equal(t, d.Tasks[0].ID, server[0].ID)
	assert.True(t, server[0].Completed)
}

func TestDashboard_FailureKeepsState(t *testing.T) {
	app, _, _ := setupApp(t, apitest.Options{})
	ctx := context.Background()
	d := loggedInDashboard(t, app)

	d.Form.Title = "   "
	d.Form.Description = "keep me"
	res := d.Submit(ctx)
	require.False(t, res.OK())
	assert.Equal(t, ActionCreate, res.Action)
	assert.Equal(t, "keep me", d.Form.Description)
	assert.Empty(t, d.Tasks)

	res = d.Toggle(ctx, "missing")
	assert.Error(t, res.Err)

	res = d.Delete(ctx, "missing")
	assert.True(t, client.IsNotFound(res.Err), res.Err)
	assert.True(t, app.LoggedIn())
}

func TestDashboard_ExpiredTokenEndsSession(t *testing.T) {
	start := time.Now()
	var skew atomic.Int64
	clock := func() time.Time { return start.Add(time.Duration(skew.Load())) }
	app, sessions, _ := setupApp(t, apitest.Options{TokenTTL: time.Minute, Now: clock})
	d := loggedInDashboard(t, app)

	skew.Store(int64(2 * time.Minute))
	res := d.Refresh(context.Background())

	require.True(t, client.IsUnauthorized(res.Err), res.Err)
	assert.False(t, app.LoggedIn())
	saved, err := sessions.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)

	assert.ErrorIs(t, d.Load(context.Background()).Err, ErrLoggedOut)
}

func TestDashboard_Resolve(t *testing.T) {
	d := &Dashboard{Tasks: []*models.Task{
		{ID: "abc123", Title: "one"},
		{ID: "abd456", Title: "two"},
	}}

	task, err := d.Resolve("2")
	require.NoError(t, err)
	assert.Equal(t, "two", task.Title)

	task, err = d.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "one", task.Title)

	task, err = d.Resolve("abd456")
	require.NoError(t, err)
	assert.Equal(t, "two", task.Title)

	_, err = d.Resolve("ab")
	assert.ErrorContains(t, err, "ambiguous")
	_, err = d.Resolve("3")
	assert.ErrorContains(t, err, "out of range")
	_, err = d.Resolve("zzz")
	assert.ErrorContains(t, err, "not found")
	_, err = d.Resolve("")
	assert.Error(t, err)
}
