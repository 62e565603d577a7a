package db

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/utpal74/ai-task-scheduler/model"
)

// MemoryStore is a process-local Store used for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users []*model.User
	tasks []*model.Task
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: func() time.Time { return time.Now().UTC() }}
}

func (s *MemoryStore) FindByIdentity(_ context.Context, googleID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindAny(context.Context) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.users) == 0 {
		return nil, ErrNotFound
	}
	cp := *s.users[0]
	return &cp, nil
}

func (s *MemoryStore) Upsert(_ context.Context, googleID, refreshToken, email, name string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, u := range s.users {
		if u.GoogleID != googleID {
			continue
		}
		u.Email, u.Name, u.UpdatedAt = email, name, now
		if refreshToken != "" {
			u.RefreshToken = refreshToken
		}
		cp := *u
		return &cp, nil
	}

	u := &model.User{
		GoogleID:     googleID,
		Name:         name,
		Email:        email,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users = append(s.users, u)
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) Create(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = xid.New().String()
	task.CreatedAt = s.now()
	cp := *task
	s.tasks = append(s.tasks, &cp)
	return nil
}

func (s *MemoryStore) SetCalendarEventID(_ context.Context, taskID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID == taskID {
			t.CalendarEventID = eventID
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) List(context.Context) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
