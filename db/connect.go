package db

import (
	"context"

	"github.com/utpal74/ai-task-scheduler/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	logger := logger.FromCtx(ctx)

	if mongoURI == "" {
		return nil, &configError{"MONGO_URI environment variable is not set"}
	}

	clientOptions := options.Client().ApplyURI(mongoURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, &connectionError{err}
	}

	logger.Info("pinging mongo db")
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, &pingError{err}
	}
	logger.Info("mongo db ping successful")
	return client, nil
}

type configError struct {
	message string
}

func (e *configError) Error() string {
	return e.message
}

type connectionError struct {
	err error
}

func (e *connectionError) Error() string {
	return "Failed to connect to MongoDB: " + e.err.Error()
}

func (e *connectionError) Unwrap() error { return e.err }

type pingError struct {
	err error
}

func (e *pingError) Error() string {
	return "Failed to ping MongoDB: " + e.err.Error()
}

func (e *pingError) Unwrap() error { return e.err }
