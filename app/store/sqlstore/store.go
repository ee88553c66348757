// Package sqlstore implements store.Store on database/sql for SQLite and
// MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "taskmanager/app/errors"
	"taskmanager/app/models"
	"taskmanager/app/store"
)

// Store is a store.Store backed by a relational database.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

var _ store.Store = (*Store)(nil)

// Open connects with the given dialect and creates the schema if needed.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", err)
	}
	if dialect.singleConn {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("ping database", err)
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("run migrations", err)
	}
	return s, nil
}

// OpenSQLite opens a SQLite database file, or an in-memory one for ":memory:".
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	return Open(ctx, SQLite, path)
}

// OpenMySQL opens a MySQL database from a go-sql-driver DSN.
func OpenMySQL(ctx context.Context, dsn string) (*Store, error) {
	return Open(ctx, MySQL, dsn)
}

func (s *Store) migrate(ctx context.Context) error {
	for _, ddl := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("%s schema: %w", s.dialect.Name, err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// CreateUser inserts a user, translating the email unique index violation
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, FormatTimeForDB(u.CreatedAt))
	if err != nil {
		if s.dialect.isDuplicate(err) {
			return apperrors.NewDuplicateEmailError(u.Email)
		}
		return HandleDatabaseError("insert user", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return QuerySingle(ctx, s.db, query, ScanUser, "user", email, email)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return QuerySingle(ctx, s.db, query, ScanUser, "user", id, id)
}

// ListTasks retrieves the tasks owned by userID, newest first
func (s *Store) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY created_at DESC`
	return QueryMultiple(ctx, s.db, query, ScanTasks, "tasks", userID)
}

// CreateTask inserts a new task
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, string(t.Priority), t.Completed, t.UserID,
		FormatTimeForDB(t.CreatedAt), FormatTimeForDB(t.UpdatedAt))
	if err != nil {
		return HandleDatabaseError("insert task", err)
	}
	return nil
}

// GetTask retrieves a task owned by userID
func (s *Store) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	return QuerySingle(ctx, s.db, query, ScanTask, "task", id, id, userID)
}

// UpdateTask updates an existing task owned by t.UserID
func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	query := `
	UPDATE tasks
	SET title = ?, description = ?, priority = ?, completed = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`

	return ExecuteWithRowsAffected(ctx, s.db, query, "task", t.ID,
		t.Title, t.Description, string(t.Priority), t.Completed, FormatTimeForDB(t.UpdatedAt),
		t.ID, t.UserID)
}

// DeleteTask deletes a task owned by userID
func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	query := `DELETE FROM tasks WHERE id = ? AND user_id = ?`
	return ExecuteWithRowsAffected(ctx, s.db, query, "task", id, id, userID)
}
