package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"taskmanager/app/client"
	"taskmanager/app/models"
)

const (
	// Separator is drawn under the dashboard header.
	Separator = "------------"

	EmptyTitle = "No tasks yet"
	EmptyHint  = "Create your first task to get started!"
)

// RenderHeader writes the greeting line.
func RenderHeader(w io.Writer, user models.PublicUser) {
	fmt.Fprintf(w, "Welcome back, %s!\n", user.Name)
}

// RenderTask writes one task line.
// Format: "{N:>4}  [x] {TITLE}  ({PRIORITY})", then the description indented.
func RenderTask(w io.Writer, num int, task *models.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", num, mark, normalizeTitle(task.Title), task.Priority)
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintf(w, "          %s\n", oneLine(desc))
	}
}

// RenderTasks writes the task list, or the empty state.
func RenderTasks(w io.Writer, tasks []*models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyTitle)
		fmt.Fprintln(w, EmptyHint)
		return
	}
	for i, t := range tasks {
		RenderTask(w, i+1, t)
	}
}

// RenderDashboard writes the header, the list and a completion summary.
func RenderDashboard(w io.Writer, d *Dashboard) {
	RenderHeader(w, d.User())
	fmt.Fprintln(w, Separator)
	RenderTasks(w, d.Tasks)
	if len(d.Tasks) == 0 {
		return
	}

	done := 0
	for _, t := range d.Tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "%d tasks, %d completed\n", len(d.Tasks), done)
}

// RenderResult writes a confirmation for a successful action or an error
// line for a failed one. It reports whether the action succeeded.
func RenderResult(w, errOut io.Writer, r Result) bool {
	if r.Err != nil {
		fmt.Fprintf(errOut, "error: %s\n", ErrorMessage(r.Err))
		return false
	}
	if msg := successMessages[r.Action]; msg != "" {
		fmt.Fprintln(w, msg)
	}
	return true
}

// ErrorMessage turns an action error into the text shown to the user.
func ErrorMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, ErrLoggedOut):
		return "not logged in, run 'taskctl login' first"
	case client.IsUnauthorized(err) && errors.As(err, &apiErr) && apiErr.Code == "UNAUTHORIZED":
		return apiErr.Message + ", please log in again"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	}
	return err.Error()
}

var successMessages = map[Action]string{
	ActionLogin:    "Logged in.",
	ActionRegister: "Account created.",
	ActionLogout:   "Logged out.",
	ActionCreate:   "Task created.",
	ActionToggle:   "Task updated.",
	ActionDelete:   "Task removed.",
}

func normalizeTitle(title string) string {
	title = oneLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
