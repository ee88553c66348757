// Package mongostore implements store.Store on MongoDB with two collections,
// users and tasks.
package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "taskmanager/app/errors"
	"taskmanager/app/models"
	"taskmanager/app/store"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

// Store is a store.Store backed by a MongoDB database.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// New uses database dbName of client and makes sure the indexes exist.
// The store owns client from here on and disconnects it on Close.
func New(ctx context.Context, client *mongo.Client, dbName string) (*Store, error) {
	db := client.Database(dbName)
	s := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		tasks:  db.Collection(tasksCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("create indexes", err)
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewDuplicateEmailError(u.Email)
		}
		return apperrors.NewDatabaseError("insert user", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email}, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id}, id)
}

func (s *Store) findUser(ctx context.Context, filter bson.M, identifier string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("user", identifier)
		}
		return nil, apperrors.NewDatabaseError("find user", err)
	}
	return &u, nil
}

func (s *Store) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.tasks.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find tasks", err)
	}

	tasks := []*models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, apperrors.NewDatabaseError("decode tasks", err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if _, err := s.tasks.InsertOne(ctx, t); err != nil {
		return apperrors.NewDatabaseError("insert task", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	var t models.Task
	err := s.tasks.FindOne(ctx, ownedBy(userID, id)).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("task", id)
		}
		return nil, apperrors.NewDatabaseError("find task", err)
	}
	return &t, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	update := bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"completed":   t.Completed,
		"updatedAt":   t.UpdatedAt,
	}}
	res, err := s.tasks.UpdateOne(ctx, ownedBy(t.UserID, t.ID), update)
	if err != nil {
		return apperrors.NewDatabaseError("update task", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NewNotFoundError("task", t.ID)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	res, err := s.tasks.DeleteOne(ctx, ownedBy(userID, id))
	if err != nil {
		return apperrors.NewDatabaseError("delete task", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NewNotFoundError("task", id)
	}
	return nil
}

// ownedBy matches a task by id only when userID owns it.
func ownedBy(userID, id string) bson.M {
	return bson.M{"_id": id, "user": userID}
}
