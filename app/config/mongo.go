package config

import (
	"context"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultMongoDatabase is used when MONGODB_URI names no database.
const DefaultMongoDatabase = "taskmanager"

// InitMongo connects to MongoDB, pings the primary, and returns the client
// together with the database named in the URI path.
func InitMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, string, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, "", err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, "", err
	}
	return client, MongoDatabaseName(cfg.URI), nil
}

// MongoDatabaseName extracts the database from a mongodb:// URI.
func MongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return DefaultMongoDatabase
}
