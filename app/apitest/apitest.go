// Package apitest starts the full HTTP API on an in-memory SQLite store for
// tests of the API and its clients.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/app/controllers"
	"taskmanager/app/logging"
	"taskmanager/app/routes"
	"taskmanager/app/services"
	"taskmanager/app/store/sqlstore"
)

// Secret signs the tokens issued by servers started here.
const Secret = "apitest-secret"

// Options tunes the server under test.
type Options struct {
	TokenTTL       time.Duration
	StrictPriority bool
	Now            func() time.Time
}

// Server is a running API with direct access to its services.
type Server struct {
	*httptest.Server
	Auth  *services.AuthService
	Tasks *services.TaskService
	Store *sqlstore.Store
}

// NewServer starts an API server that is shut down when the test ends.
func NewServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.TokenTTL == 0 {
		opts.TokenTTL = time.Hour
	}

	st, err := sqlstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)

	authService := services.NewAuthService(st, services.AuthOptions{
		Secret:     Secret,
		TokenTTL:   opts.TokenTTL,
		BcryptCost: bcrypt.MinCost,
		Now:        opts.Now,
	})
	taskService := services.NewTaskService(st, st, services.TaskOptions{
		StrictPriority: opts.StrictPriority,
		Now:            opts.Now,
	})

	logger := logging.Discard()
	handler := routes.NewHandler(
		controllers.NewAuthController(authService, logger),
		controllers.NewTaskController(taskService, logger),
		authService,
		logger,
	)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		st.Close(context.Background())
	})
	return &Server{Server: srv, Auth: authService, Tasks: taskService, Store: st}
}
