package database

import (
	"context"
	"fmt"
	"time"

	"github.com/friendsnet/backend/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Client is the global Mongo client, set by Initialize
var Client *mongo.Client

var db *mongo.Database

// Initialize connects to MongoDB and verifies the connection
func Initialize(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}

	Client = client
	db = client.Database(dbName)

	logger.Log.Info("MongoDB connected",
		zap.String("database", dbName),
	)

	return nil
}

// Close disconnects the client gracefully
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

// DB returns the configured database handle
func DB() *mongo.Database {
	return db
}

// Posts returns the posts collection
func Posts() *mongo.Collection {
	return db.Collection("posts")
}

// Users returns the users collection
func Users() *mongo.Collection {
	return db.Collection("users")
}

// EnsureIndexes creates the indexes the feed queries lean on
func EnsureIndexes(ctx context.Context) error {
	_, err := Posts().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}

	_, err = Users().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	return nil
}
