package sqlstore

import (
	"taskmanager/app/models"
)

// Scanner is implemented by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows is the subset of *sql.Rows used for multi-row scans
type Rows interface {
	Scanner
	Next() bool
	Err() error
}

const (
	userColumns = `id, name, email, password_hash, created_at`
	taskColumns = `id, title, description, priority, completed, user_id, created_at, updated_at`
)

// ScanUser scans one row of userColumns
func ScanUser(s Scanner) (*models.User, error) {
	var u models.User
	var createdAt string
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	t, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

// ScanTask scans one row of taskColumns
func ScanTask(s Scanner) (*models.Task, error) {
	var t models.Task
	var priority, createdAt, updatedAt string
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &priority, &t.Completed, &t.UserID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Priority = models.Priority(priority)

	var err error
	if t.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ScanTasks scans every remaining row into tasks
func ScanTasks(rows Rows) ([]*models.Task, error) {
	tasks := []*models.Task{}
	for rows.Next() {
		t, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
