package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/app/apitest"
	"taskmanager/app/models"
	"taskmanager/app/render"
	"taskmanager/app/routes"
)

type apiCall struct {
	t     *testing.T
	base  string
	token string
}

func (c apiCall) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if s, ok := body.(string); ok {
		r = strings.NewReader(s)
	} else if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("x-auth-token", c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func register(t *testing.T, api apiCall, name, email string) models.AuthResponse {
	t.Helper()
	resp := api.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{Name: name, Email: email, Password: "pw"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.AuthResponse](t, resp)
}

func TestHealth(t *testing.T) {
	srv := apitest.NewServer(t, apitest.Options{})
	resp := apiCall{t: t, base: srv.URL}.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, routes.HealthMessage, string(body))
}

func TestTaskScenario(t *testing.T) {
	srv := apitest.NewServer(t, apitest.Options{})
	api := apiCall{t: t, base: srv.URL}

	auth := register(t, api, "Ann", "ann@x.com")
	assert.Equal(t, "Ann", auth.User.Name)
	api.token = auth.Token

	resp := api.do(http.MethodPost, "/api/tasks", models.CreateTaskInput{Title: "Buy milk", Priority: models.PriorityHigh})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[models.Task](t, resp)
	assert.False(t, task.Completed)
	assert.Equal(t, auth.User.ID, task.UserID)

	resp = api.do(http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[models.Task](t, resp).Completed)

	resp = api.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := decode[[]models.Task](t, resp)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, "Buy milk", tasks[0].Title)

	resp = api.do(http.MethodDelete, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[render.MessageBody](t, resp).Message)

	resp = api.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]models.Task](t, resp))

	resp = api.do(http.MethodDelete, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[render.ErrorBody](t, resp).Code)
}

func TestAuthErrors(t *testing.T) {
	srv := apitest.NewServer(t, apitest.Options{})
	api := apiCall{t: t, base: srv.URL}
	register(t, api, "Ann", "ann@x.com")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "duplicate email",
			method:     http.MethodPost,
			path:       "/api/auth/register",
			body:       models.RegisterRequest{Name: "Ann", Email: "ANN@x.com", Password: "pw"},
			wantStatus: http.StatusConflict,
			wantCode:   "DUPLICATE_EMAIL",
		},
		{
			name:       "missing name",
			method:     http.MethodPost,
			path:       "/api/auth/register",
			body:       models.RegisterRequest{Email: "bob@x.com", Password: "pw"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "wrong password",
			method:     http.MethodPost,
			path:       "/api/auth/login",
			body:       models.LoginRequest{Email: "ann@x.com", Password: "nope"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "malformed json",
			method:     http.MethodPost,
			path:       "/api/auth/login",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "no token",
			method:     http.MethodGet,
			path:       "/api/tasks",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "garbage token",
			method:     http.MethodGet,
			path:       "/api/auth/me",
			token:      "garbage",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := apiCall{t: t, base: srv.URL, token: tt.token}.do(tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode[render.ErrorBody](t, resp)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestNoTokenMessage(t *testing.T) {
	srv := apitest.NewServer(t, apitest.Options{})
	resp := apiCall{t: t, base: srv.URL}.do(http.MethodPost, "/api/tasks", models.CreateTaskInput{Title: "x"})

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "no token, authorization denied", decode[render.ErrorBody](t, resp).Message)
}

func TestMe(t *testing.T) {
	srv := apitest.NewServer(t, apitest.Options{})
	api := apiCall{t: t, base: srv.URL}
	auth := register(t, api, "Ann", "ann@x.com")
	api.token = auth.Token

	resp := api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, auth.User, decode[models.PublicUser](t, resp))
}

func TestOwnerIsolation(t *testing.T) {
	srv := apitest.NewServer(t, apitest.Options{})
	ann := apiCall{t: t, base: srv.URL}
	ann.token = register(t, ann, "Ann", "ann@x.com").Token
	bob := apiCall{t: t, base: srv.URL}
	bob.token = register(t, bob, "Bob", "bob@x.com").Token

	resp := ann.do(http.MethodPost, "/api/tasks", models.CreateTaskInput{Title: "Ann only"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[models.Task](t, resp)

	resp = bob.do(http.MethodGet, "/api/tasks", nil)
	assert.Empty(t, decode[[]models.Task](t, resp))

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp = bob.do(method, "/api/tasks/"+task.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, method)
	}
	resp = bob.do(http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"completed": true})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := apitest.NewServer(t, apitest.Options{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "x-auth-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
