package sqlstore

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures what differs between the supported SQL databases.
type Dialect struct {
	Name   string
	Driver string
	Schema []string

	// isDuplicate reports a unique index violation.
	isDuplicate func(err error) bool
	// singleConn pins the pool to one connection.
	singleConn bool
}

// SQLite stores everything in a single file, or in memory for ":memory:".
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite",
	Schema: []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority    TEXT NOT NULL,
			completed   INTEGER NOT NULL DEFAULT 0,
			user_id     TEXT NOT NULL REFERENCES users(id),
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, created_at)`,
	},
	isDuplicate: func(err error) bool {
		var sqliteErr *sqlite.Error
		return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	},
	// every new connection to ":memory:" would see an empty database
	singleConn: true,
}

// MySQL expects a DSN in go-sql-driver format.
var MySQL = Dialect{
	Name:   "mysql",
	Driver: "mysql",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(36) PRIMARY KEY,
			name          VARCHAR(255) NOT NULL,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at    VARCHAR(40) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id          VARCHAR(36) PRIMARY KEY,
			title       VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			priority    VARCHAR(20) NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			user_id     VARCHAR(36) NOT NULL,
			created_at  VARCHAR(40) NOT NULL,
			updated_at  VARCHAR(40) NOT NULL,
			INDEX idx_tasks_user (user_id, created_at),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
	},
	isDuplicate: func(err error) bool {
		var mysqlErr *mysql.MySQLError
		return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
	},
}

// DialectByName returns the dialect for "sqlite" or "mysql".
func DialectByName(name string) (Dialect, bool) {
	switch name {
	case SQLite.Name:
		return SQLite, true
	case MySQL.Name:
		return MySQL, true
	}
	return Dialect{}, false
}
