package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"taskmanager/app/middleware"
	"taskmanager/app/models"
	"taskmanager/app/render"
	"taskmanager/app/services"
)

// TaskController handles HTTP requests for the caller's tasks.
type TaskController struct {
	Service *services.TaskService
	Logger  *slog.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService, logger *slog.Logger) *TaskController {
	return &TaskController{Service: service, Logger: logger}
}

// GetTasks handles GET /api/tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.GetTasks(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	render.JSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /api/tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}

	task, err := c.Service.CreateTask(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	render.JSON(w, http.StatusCreated, task)
}

// GetTaskByID handles GET /api/tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	task, err := c.Service.GetTaskByID(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["taskID"])
	if err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	render.JSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /api/tasks/{taskID}. Only fields present in the
// body are changed.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateTaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}

	task, err := c.Service.UpdateTask(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["taskID"], in)
	if err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	render.JSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteTask(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["taskID"]); err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	render.JSON(w, http.StatusOK, render.MessageBody{Message: "Task removed"})
}
