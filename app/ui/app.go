// Package ui holds the client-side session, dashboard state and views of
// the task manager.
package ui

import (
	"context"
	"errors"
	"log/slog"

	"taskmanager/app/client"
	"taskmanager/app/logging"
	"taskmanager/app/models"
)

// ErrLoggedOut is returned when an action needs a session and there is none.
var ErrLoggedOut = errors.New("not logged in")

// API is the part of the HTTP client the UI drives.
type API interface {
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.PublicUser, error)
	ListTasks(ctx context.Context, token string) ([]*models.Task, error)
	CreateTask(ctx context.Context, token string, in models.CreateTaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, token, id string, in models.UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, token, id string) error
}

var _ API = (*client.Client)(nil)

// App is the root of the UI. It owns the session and switches between the
// logged-out and logged-in states.
type App struct {
	sessions *SessionStore
	api      API
	logger   *slog.Logger
	session  *Session
}

// NewApp restores any saved session from sessions.
func NewApp(sessions *SessionStore, api API, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	sess, err := sessions.Load()
	if err != nil {
		return nil, err
	}
	return &App{sessions: sessions, api: api, logger: logger, session: sess}, nil
}

// Session returns the current session, or nil when logged out.
func (a *App) Session() *Session {
	return a.session
}

// LoggedIn reports whether a session is active.
func (a *App) LoggedIn() bool {
	return a.session != nil
}

// Login authenticates and starts a session.
func (a *App) Login(ctx context.Context, email, password string) Result {
	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		return Result{Action: ActionLogin, Err: err}
	}
	return a.start(ActionLogin, resp)
}

// Register creates an account and starts a session for it.
func (a *App) Register(ctx context.Context, name, email, password string) Result {
	resp, err := a.api.Register(ctx, name, email, password)
	if err != nil {
		return Result{Action: ActionRegister, Err: err}
	}
	return a.start(ActionRegister, resp)
}

// Logout ends the session. Logging out twice is not an error.
func (a *App) Logout() Result {
	a.session = nil
	return Result{Action: ActionLogout, Err: a.sessions.Clear()}
}

// Whoami refreshes the cached profile from the server.
func (a *App) Whoami(ctx context.Context) Result {
	if a.session == nil {
		return Result{Action: ActionWhoami, Err: ErrLoggedOut}
	}
	user, err := a.api.Me(ctx, a.session.Token)
	if err != nil {
		return a.fail(ActionWhoami, err)
	}
	a.session.User = *user
	return Result{Action: ActionWhoami, Err: a.sessions.Save(a.session)}
}

// Dashboard returns the logged-in view. Call Load on it to fetch tasks.
func (a *App) Dashboard() (*Dashboard, error) {
	if a.session == nil {
		return nil, ErrLoggedOut
	}
	return &Dashboard{app: a, Tasks: []*models.Task{}, Form: NewForm()}, nil
}

func (a *App) start(action Action, resp *models.AuthResponse) Result {
	sess := &Session{Token: resp.Token, User: resp.User}
	if err := a.sessions.Save(sess); err != nil {
		return Result{Action: action, Err: err}
	}
	a.session = sess
	a.logger.Debug("session started", "user", resp.User.ID)
	return Result{Action: action}
}

// fail wraps err in a Result. A 401 from the server means the token is no
// longer accepted, so the session ends.
func (a *App) fail(action Action, err error) Result {
	if client.IsUnauthorized(err) && a.session != nil {
		a.logger.Debug("session rejected by server", "action", action)
		a.session = nil
		if clearErr := a.sessions.Clear(); clearErr != nil {
			a.logger.Warn("could not remove session file", "error", clearErr)
		}
	}
	return Result{Action: action, Err: err}
}

func (a *App) token() (string, error) {
	if a.session == nil {
		return "", ErrLoggedOut
	}
	return a.session.Token, nil
}
