package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// UserStore persists one Google credential per identity.
type UserStore interface {
	FindByIdentity(ctx context.Context, googleID string) (*model.User, error)
	// FindAny returns the earliest created user.
	FindAny(ctx context.Context) (*model.User, error)
	Upsert(ctx context.Context, googleID, refreshToken, email, name string) (*model.User, error)
}

type TaskStore interface {
	// Create assigns ID and CreatedAt on the passed task.
	Create(ctx context.Context, task *model.Task) error
	SetCalendarEventID(ctx context.Context, taskID, eventID string) error
	// List returns all tasks in ascending creation order.
	List(ctx context.Context) ([]model.Task, error)
}

// Store bundles both repositories with the lifecycle of their connection.
type Store interface {
	UserStore
	TaskStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects the driver selected in cfg.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "mongo":
		client, err := Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(ctx, client, cfg.MongoDatabase, logger)
	case "postgres":
		pool, err := ConnectPostgres(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, logger), nil
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
