package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utpal74/ai-task-scheduler/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoStore keeps users and tasks in two collections of one database.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
	logger *zap.Logger
}

type taskDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description"`
	Tags            string             `bson:"tags"`
	DueDate         *time.Time         `bson:"due_date,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UserGoogleID    string             `bson:"user_google_id"`
	CalendarEventID string             `bson:"calendar_event_id,omitempty"`
}

func (d taskDoc) toModel() model.Task {
	return model.Task{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Description:     d.Description,
		Tags:            d.Tags,
		DueDate:         d.DueDate,
		CreatedAt:       d.CreatedAt,
		UserGoogleID:    d.UserGoogleID,
		CalendarEventID: d.CalendarEventID,
	}
}

func NewMongoStore(ctx context.Context, client *mongo.Client, database string, logger *zap.Logger) (*MongoStore, error) {
	db := client.Database(database)
	s := &MongoStore{
		client: client,
		users:  db.Collection("users"),
		tasks:  db.Collection("tasks"),
		logger: logger,
	}

	_, err := s.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_google_id", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) FindByIdentity(ctx context.Context, googleID string) (*model.User, error) {
	var user model.User
	err := s.users.FindOne(ctx, bson.M{"_id": googleID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to find user", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) FindAny(ctx context.Context) (*model.User, error) {
	var user model.User
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	err := s.users.FindOne(ctx, bson.M{}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to find any user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) Upsert(ctx context.Context, googleID, refreshToken, email, name string) (*model.User, error) {
	now := time.Now().UTC()
	set := bson.M{"email": email, "name": name, "updated_at": now}
	if refreshToken != "" {
		set["refresh_token"] = refreshToken
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var user model.User
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": googleID}, update, opts).Decode(&user); err != nil {
		s.logger.Error("Failed to upsert user", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("User upserted", zap.String("google_id", googleID), zap.Bool("has_credential", user.HasCredential()))
	return &user, nil
}

func (s *MongoStore) Create(ctx context.Context, task *model.Task) error {
	doc := taskDoc{
		ID:           primitive.NewObjectID(),
		Title:        task.Title,
		Description:  task.Description,
		Tags:         task.Tags,
		DueDate:      task.DueDate,
		CreatedAt:    time.Now().UTC(),
		UserGoogleID: task.UserGoogleID,
	}
	if _, err := s.tasks.InsertOne(ctx, doc); err != nil {
		s.logger.Error("Failed to insert task", zap.String("user_google_id", task.UserGoogleID), zap.Error(err))
		return err
	}

	task.ID = doc.ID.Hex()
	task.CreatedAt = doc.CreatedAt
	s.logger.Info("Task inserted", zap.String("task_id", task.ID))
	return nil
}

func (s *MongoStore) SetCalendarEventID(ctx context.Context, taskID, eventID string) error {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return fmt.Errorf("invalid task id %q: %w", taskID, err)
	}

	result, err := s.tasks.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.D{{Key: "$set", Value: bson.D{{Key: "calendar_event_id", Value: eventID}}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.tasks.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := make([]model.Task, 0)
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		tasks = append(tasks, doc.toModel())
	}
	return tasks, cur.Err()
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
