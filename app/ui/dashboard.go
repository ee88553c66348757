package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"taskmanager/app/models"
)

// Dashboard is the logged-in task list with its create form. Tasks are
// kept newest first, matching the server's order.
type Dashboard struct {
	app   *App
	Tasks []*models.Task
	Form  Form
}

// User returns the profile of the logged-in user.
func (d *Dashboard) User() models.PublicUser {
	if d.app.session == nil {
		return models.PublicUser{}
	}
	return d.app.session.User
}

// Load fetches the task list from the server.
func (d *Dashboard) Load(ctx context.Context) Result {
	token, err := d.app.token()
	if err != nil {
		return Result{Action: ActionLoad, Err: err}
	}
	tasks, err := d.app.api.ListTasks(ctx, token)
	if err != nil {
		return d.app.fail(ActionLoad, err)
	}
	d.Tasks = tasks
	return Result{Action: ActionLoad}
}

// Refresh reloads the task list.
func (d *Dashboard) Refresh(ctx context.Context) Result {
	return d.Load(ctx)
}

// Submit creates a task from the form. On success the task is put at the
// top of the list and the form is reset; on failure the draft is kept.
func (d *Dashboard) Submit(ctx context.Context) Result {
	token, err := d.app.token()
	if err != nil {
		return Result{Action: ActionCreate, Err: err}
	}
	task, err := d.app.api.CreateTask(ctx, token, d.Form.Input())
	if err != nil {
		return d.app.fail(ActionCreate, err)
	}
	d.Tasks = append([]*models.Task{task}, d.Tasks...)
	d.Form.Reset()
	return Result{Action: ActionCreate}
}

// Toggle flips the completion of the task with the given id.
func (d *Dashboard) Toggle(ctx context.Context, id string) Result {
	i := d.index(id)
	if i < 0 {
		return Result{Action: ActionToggle, Err: fmt.Errorf("task not found: %s", id)}
	}
	token, err := d.app.token()
	if err != nil {
		return Result{Action: ActionToggle, Err: err}
	}

	completed := !d.Tasks[i].Completed
	task, err := d.app.api.UpdateTask(ctx, token, id, models.UpdateTaskInput{Completed: &completed})
	if err != nil {
		return d.app.fail(ActionToggle, err)
	}
	d.Tasks[i] = task
	return Result{Action: ActionToggle}
}

// Delete removes the task with the given id.
func (d *Dashboard) Delete(ctx context.Context, id string) Result {
	token, err := d.app.token()
	if err != nil {
		return Result{Action: ActionDelete, Err: err}
	}
	if err := d.app.api.DeleteTask(ctx, token, id); err != nil {
		return d.app.fail(ActionDelete, err)
	}
	if i := d.index(id); i >= 0 {
		d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
	}
	return Result{Action: ActionDelete}
}

// Resolve finds a task by its 1-based position in the list, its id, or a
// unique id prefix.
func (d *Dashboard) Resolve(ref string) (*models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("task reference required")
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(d.Tasks) {
			return nil, fmt.Errorf("task number out of range: %d", n)
		}
		return d.Tasks[n-1], nil
	}

	var match *models.Task
	for _, t := range d.Tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous task reference: %s", ref)
			}
			match = t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("task not found: %s", ref)
	}
	return match, nil
}

func (d *Dashboard) index(id string) int {
	for i, t := range d.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
