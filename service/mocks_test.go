package service

import (
	"context"
	"errors"

	"github.com/utpal74/ai-task-scheduler/ai"
	"github.com/utpal74/ai-task-scheduler/calendar"
	"github.com/utpal74/ai-task-scheduler/model"
)

var (
	ErrMockAI       = errors.New("model overloaded")
	ErrMockCalendar = errors.New("calendar unavailable")
	ErrMockStore    = errors.New("disk full")
)

// MockGenerator implements ai.Generator for testing
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, profile ai.Profile) (string, error)
	Prompts      []string
	Profiles     []ai.Profile
}

func (m *MockGenerator) GenerateText(ctx context.Context, prompt string, profile ai.Profile) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.Profiles = append(m.Profiles, profile)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, profile)
	}
	return "1. Do the thing", nil
}

// MockGateway implements calendar.Gateway for testing
type MockGateway struct {
	CreateFunc func(ctx context.Context, ownerID string, in calendar.EventInput) (*model.Event, error)
	ListFunc   func(ctx context.Context, ownerID string) ([]model.Event, error)
	Created    []calendar.EventInput
}

func (m *MockGateway) CreateEvent(ctx context.Context, ownerID string, in calendar.EventInput) (*model.Event, error) {
	m.Created = append(m.Created, in)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, in)
	}
	return &model.Event{ID: "evt-1"}, nil
}

func (m *MockGateway) ListTodaysEvents(ctx context.Context, ownerID string) ([]model.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

// MockTaskStore implements db.TaskStore with injectable failures
type MockTaskStore struct {
	CreateFunc func(ctx context.Context, task *model.Task) error
	SetFunc    func(ctx context.Context, taskID, eventID string) error
	Creates    int
}

func (m *MockTaskStore) Create(ctx context.Context, task *model.Task) error {
	m.Creates++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	task.ID = "task-1"
	return nil
}

func (m *MockTaskStore) SetCalendarEventID(ctx context.Context, taskID, eventID string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, taskID, eventID)
	}
	return nil
}

func (m *MockTaskStore) List(context.Context) ([]model.Task, error) {
	return nil, ErrMockStore
}
