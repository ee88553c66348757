package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/app/logging"
	"taskmanager/app/middleware"
	"taskmanager/app/models"
	"taskmanager/app/render"
	"taskmanager/app/services"
	"taskmanager/app/store/sqlstore"
	"taskmanager/app/store/storetest"
)

func setupTaskController(t *testing.T) (*TaskController, string) {
	st, err := sqlstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close(context.Background()) })

	user := storetest.NewUser("Ann", "ann@x.com")
	require.NoError(t, st.CreateUser(context.Background(), user))

	return NewTaskController(services.NewTaskService(st, st, services.TaskOptions{}), logging.Discard()), user.ID
}

func authed(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestTaskController_CreateAndGet(t *testing.T) {
	c, userID := setupTaskController(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"Buy milk","priority":"high"}`))
	c.CreateTask(rec, authed(req, userID))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var created models.Task
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, models.PriorityHigh, created.Priority)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/tasks/"+created.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"taskID": created.ID})
	c.GetTaskByID(rec, authed(req, userID))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Task
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)
}

func TestTaskController_UpdatePartial(t *testing.T) {
	c, userID := setupTaskController(t)

	rec := httptest.NewRecorder()
	c.CreateTask(rec, authed(httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"Buy milk","description":"2 litres"}`)), userID))
	var created models.Task
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+created.ID, strings.NewReader(`{"completed":true}`))
	req = mux.SetURLVars(req, map[string]string{"taskID": created.ID})
	c.UpdateTask(rec, authed(req, userID))

	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Task
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "2 litres", updated.Description)
}

func TestTaskController_MissingTask(t *testing.T) {
	c, userID := setupTaskController(t)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/tasks/nope", nil), map[string]string{"taskID": "nope"})
	c.DeleteTask(rec, authed(req, userID))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body render.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	c, userID := setupTaskController(t)
	huge := `{"title":"` + strings.Repeat("a", MaxBodyBytes) + `"}`

	rec := httptest.NewRecorder()
	c.CreateTask(rec, authed(httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(huge)), userID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
