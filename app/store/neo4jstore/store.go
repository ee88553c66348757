// Package neo4jstore implements store.Store on Neo4j. Users and tasks are
// nodes; ownership is the (:User)-[:OWNS]->(:Task) relationship.
package neo4jstore

import (
	"context"
	"errors"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "taskmanager/app/errors"
	"taskmanager/app/models"
	"taskmanager/app/store"
)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

// Store is a store.Store backed by a Neo4j driver.
type Store struct {
	driver neo4j.DriverWithContext
}

var _ store.Store = (*Store)(nil)

// New takes ownership of driver and creates the uniqueness constraints.
func New(ctx context.Context, driver neo4j.DriverWithContext) (*Store, error) {
	s := &Store{driver: driver}
	if err := s.ensureConstraints(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("create constraints", err)
	}
	return s, nil
}

func (s *Store) ensureConstraints(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, cypher := range []string{
		"CREATE CONSTRAINT user_email IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
		"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT task_id IF NOT EXISTS FOR (t:Task) REQUIRE t.id IS UNIQUE",
	} {
		res, err := session.Run(ctx, cypher, nil)
		if err != nil {
			return err
		}
		if _, err := res.Consume(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// CreateUser adds a User node.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"CREATE (u:User {id: $id, name: $name, email: $email, passwordHash: $passwordHash, createdAt: $createdAt})",
			map[string]any{
				"id":           u.ID,
				"name":         u.Name,
				"email":        u.Email,
				"passwordHash": u.PasswordHash,
				"createdAt":    u.CreatedAt,
			},
		)
		return nil, err
	})
	if err != nil {
		if isConstraintViolation(err) {
			return apperrors.NewDuplicateEmailError(u.Email)
		}
		return apperrors.NewDatabaseError("create user", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "MATCH (u:User {email: $key}) RETURN u {.*} AS user", email)
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "MATCH (u:User {id: $key}) RETURN u {.*} AS user", id)
}

func (s *Store) findUser(ctx context.Context, cypher, key string) (*models.User, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"key": key})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return nil, res.Err()
		}
		props, _ := res.Record().Get("user")
		return userFromProps(props), nil
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("find user", err)
	}

	u, _ := result.(*models.User)
	if u == nil {
		return nil, apperrors.NewNotFoundError("user", key)
	}
	return u, nil
}

// ListTasks retrieves the tasks owned by userID, newest first.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (u:User {id: $userID})-[:OWNS]->(t:Task) "+
				"RETURN t {.*, user: u.id} AS task "+
				"ORDER BY t.createdAt DESC",
			map[string]any{"userID": userID},
		)
		if err != nil {
			return nil, err
		}

		tasks := []*models.Task{}
		for res.Next(ctx) {
			props, _ := res.Record().Get("task")
			tasks = append(tasks, taskFromProps(props))
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("list tasks", err)
	}

	return result.([]*models.Task), nil
}

// CreateTask adds a Task node owned by t.UserID. A missing owner yields a
// NotFound error for the user.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (u:User {id: $userID}) "+
				"CREATE (u)-[:OWNS]->(t:Task {id: $id, title: $title, description: $description, "+
				"priority: $priority, completed: $completed, createdAt: $createdAt, updatedAt: $updatedAt}) "+
				"RETURN t.id AS id",
			map[string]any{
				"userID":      t.UserID,
				"id":          t.ID,
				"title":       t.Title,
				"description": t.Description,
				"priority":    string(t.Priority),
				"completed":   t.Completed,
				"createdAt":   t.CreatedAt,
				"updatedAt":   t.UpdatedAt,
			},
		)
		if err != nil {
			return false, err
		}
		return res.Next(ctx), res.Err()
	})
	if err != nil {
		return apperrors.NewDatabaseError("create task", err)
	}
	if ok, _ := created.(bool); !ok {
		return apperrors.NewNotFoundError("user", t.UserID)
	}
	return nil
}

// GetTask retrieves a task owned by userID.
func (s *Store) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (u:User {id: $userID})-[:OWNS]->(t:Task {id: $id}) "+
				"RETURN t {.*, user: u.id} AS task",
			map[string]any{"userID": userID, "id": id},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return nil, res.Err()
		}
		props, _ := res.Record().Get("task")
		return taskFromProps(props), nil
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("get task", err)
	}

	task, _ := result.(*models.Task)
	if task == nil {
		return nil, apperrors.NewNotFoundError("task", id)
	}
	return task, nil
}

// UpdateTask overwrites the mutable fields of a task owned by t.UserID.
func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	matched, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (:User {id: $userID})-[:OWNS]->(t:Task {id: $id}) "+
				"SET t.title = $title, t.description = $description, t.priority = $priority, "+
				"t.completed = $completed, t.updatedAt = $updatedAt "+
				"RETURN t.id AS id",
			map[string]any{
				"userID":      t.UserID,
				"id":          t.ID,
				"title":       t.Title,
				"description": t.Description,
				"priority":    string(t.Priority),
				"completed":   t.Completed,
				"updatedAt":   t.UpdatedAt,
			},
		)
		if err != nil {
			return false, err
		}
		return res.Next(ctx), res.Err()
	})
	if err != nil {
		return apperrors.NewDatabaseError("update task", err)
	}
	if ok, _ := matched.(bool); !ok {
		return apperrors.NewNotFoundError("task", t.ID)
	}
	return nil
}

// DeleteTask deletes a task owned by userID and its relationships.
func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (:User {id: $userID})-[:OWNS]->(t:Task {id: $id}) "+
				"DETACH DELETE t",
			map[string]any{"userID": userID, "id": id},
		)
		if err != nil {
			return 0, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return 0, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return apperrors.NewDatabaseError("delete task", err)
	}
	if n, _ := deleted.(int); n == 0 {
		return apperrors.NewNotFoundError("task", id)
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return errors.As(err, &neoErr) && neoErr.Code == constraintViolation
}

func userFromProps(v any) *models.User {
	props, _ := v.(map[string]any)
	return &models.User{
		ID:           stringProp(props, "id"),
		Name:         stringProp(props, "name"),
		Email:        stringProp(props, "email"),
		PasswordHash: stringProp(props, "passwordHash"),
		CreatedAt:    timeProp(props, "createdAt"),
	}
}

func taskFromProps(v any) *models.Task {
	props, _ := v.(map[string]any)
	completed, _ := props["completed"].(bool)
	return &models.Task{
		ID:          stringProp(props, "id"),
		Title:       stringProp(props, "title"),
		Description: stringProp(props, "description"),
		Priority:    models.Priority(stringProp(props, "priority")),
		Completed:   completed,
		UserID:      stringProp(props, "user"),
		CreatedAt:   timeProp(props, "createdAt"),
		UpdatedAt:   timeProp(props, "updatedAt"),
	}
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func timeProp(props map[string]any, key string) time.Time {
	t, _ := props[key].(time.Time)
	return t
}
