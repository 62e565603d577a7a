package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/utpal74/ai-task-scheduler/ai"
	"github.com/utpal74/ai-task-scheduler/calendar"
	"github.com/utpal74/ai-task-scheduler/common"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/model"
)

func newStore(t *testing.T) *db.MemoryStore {
	t.Helper()
	s := db.NewMemoryStore()
	s.Upsert(context.Background(), "g-1", "refresh", "a@example.com", "Ann")
	return s
}

func outcome(outcomes []Outcome, step string) Outcome {
	for _, o := range outcomes {
		if o.Step == step {
			return o
		}
	}
	return Outcome{}
}

func TestSubmitLinksCalendarEvent(t *testing.T) {
	store := newStore(t)
	gen := &MockGenerator{}
	cal := &MockGateway{}
	svc := NewTaskService(NewOwnerResolver(store, false), store, gen, cal)

	res, err := svc.Submit(context.Background(), "g-1", model.TaskInput{Title: "Write report", DueDate: "2025-01-10"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Task.ID == "" || res.Task.UserGoogleID != "g-1" {
		t.Errorf("task not persisted with owner: %+v", res.Task)
	}
	if res.Task.CalendarEventID != "evt-1" {
		t.Errorf("calendarEventId = %q", res.Task.CalendarEventID)
	}
	if res.Plan != "1. Do the thing" {
		t.Errorf("plan = %q", res.Plan)
	}
	if Degraded(res.Outcomes) {
		t.Errorf("unexpected degraded outcomes %+v", res.Outcomes)
	}

	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if len(cal.Created) != 1 || !cal.Created[0].Start.Equal(want) || cal.Created[0].Duration != time.Hour {
		t.Errorf("unexpected event input %+v", cal.Created)
	}
	if gen.Profiles[0] != ai.ProfilePlanning {
		t.Errorf("profile = %s", gen.Profiles[0])
	}

	stored, _ := store.List(context.Background())
	if len(stored) != 1 || stored[0].CalendarEventID != "evt-1" {
		t.Errorf("event id not persisted: %+v", stored)
	}
}

func TestSubmitCalendarFailureStillSucceeds(t *testing.T) {
	store := newStore(t)
	cal := &MockGateway{CreateFunc: func(context.Context, string, calendar.EventInput) (*model.Event, error) {
		return nil, ErrMockCalendar
	}}
	svc := NewTaskService(NewOwnerResolver(store, false), store, &MockGenerator{}, cal)

	res, err := svc.Submit(context.Background(), "g-1", model.TaskInput{Title: "t"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Task.ID == "" || res.Task.CalendarEventID != "" {
		t.Errorf("unexpected task %+v", res.Task)
	}
	o := outcome(res.Outcomes, StepCalendar)
	if o.Status != StatusFailed || !strings.Contains(o.Error, "calendar unavailable") {
		t.Errorf("calendar outcome = %+v", o)
	}
	if !Degraded(res.Outcomes) {
		t.Error("expected degraded result")
	}
}

func TestSubmitAIFailureSkipsCalendar(t *testing.T) {
	store := newStore(t)
	gen := &MockGenerator{GenerateFunc: func(context.Context, string, ai.Profile) (string, error) {
		return "", ErrMockAI
	}}
	cal := &MockGateway{}
	svc := NewTaskService(NewOwnerResolver(store, false), store, gen, cal)

	res, err := svc.Submit(context.Background(), "g-1", model.TaskInput{Title: "t"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(cal.Created) != 0 {
		t.Error("calendar must not be called after a planning failure")
	}
	if outcome(res.Outcomes, StepPlan).Status != StatusFailed || outcome(res.Outcomes, StepCalendar).Status != StatusSkipped {
		t.Errorf("outcomes = %+v", res.Outcomes)
	}
}

func TestSubmitLinkFailureIsReported(t *testing.T) {
	store := newStore(t)
	tasks := &MockTaskStore{SetFunc: func(context.Context, string, string) error { return ErrMockStore }}
	svc := NewTaskService(NewOwnerResolver(store, false), tasks, &MockGenerator{}, &MockGateway{})

	res, err := svc.Submit(context.Background(), "g-1", model.TaskInput{Title: "t"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Task.CalendarEventID != "" {
		t.Error("unpersisted event id must not be reported")
	}
	if outcome(res.Outcomes, StepCalendar).Status != StatusFailed {
		t.Errorf("outcomes = %+v", res.Outcomes)
	}
}

func TestSubmitWithoutOwner(t *testing.T) {
	tests := []struct {
		name         string
		seed         bool
		identity     string
		singleTenant bool
	}{
		{"no header and no stored user", false, "", true},
		{"no header outside single-tenant mode", true, "", false},
		{"unknown identity", true, "g-404", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := db.NewMemoryStore()
			if tt.seed {
				users.Upsert(context.Background(), "g-1", "r", "", "")
			}
			tasks := &MockTaskStore{}
			svc := NewTaskService(NewOwnerResolver(users, tt.singleTenant), tasks, &MockGenerator{}, &MockGateway{})

			_, err := svc.Submit(context.Background(), tt.identity, model.TaskInput{Title: "t"})
			if !errors.Is(err, common.ErrAuthResolution) {
				t.Fatalf("error = %v, want ErrAuthResolution", err)
			}
			if tasks.Creates != 0 {
				t.Error("no task may be persisted without an owner")
			}
		})
	}
}

func TestSubmitSingleTenantFallback(t *testing.T) {
	store := newStore(t)
	svc := NewTaskService(NewOwnerResolver(store, true), store, &MockGenerator{}, &MockGateway{})

	res, err := svc.Submit(context.Background(), "", model.TaskInput{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Task.UserGoogleID != "g-1" {
		t.Errorf("owner = %q", res.Task.UserGoogleID)
	}
}

func TestSubmitPersistenceFailure(t *testing.T) {
	store := newStore(t)
	tasks := &MockTaskStore{CreateFunc: func(context.Context, *model.Task) error { return ErrMockStore }}
	gen := &MockGenerator{}
	svc := NewTaskService(NewOwnerResolver(store, false), tasks, gen, &MockGateway{})

	_, err := svc.Submit(context.Background(), "g-1", model.TaskInput{Title: "t"})
	if !errors.Is(err, common.ErrPersistence) {
		t.Fatalf("error = %v, want ErrPersistence", err)
	}
	if len(gen.Prompts) != 0 {
		t.Error("planner must not run when persistence fails")
	}
}

func TestSubmitInvalidDueDate(t *testing.T) {
	store := newStore(t)
	svc := NewTaskService(NewOwnerResolver(store, false), store, &MockGenerator{}, &MockGateway{})

	_, err := svc.Submit(context.Background(), "g-1", model.TaskInput{Title: "t", DueDate: "someday"})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	if tasks, _ := store.List(context.Background()); len(tasks) != 0 {
		t.Error("invalid input must not be persisted")
	}
}

func TestPlanningPromptIncludesOnlyPresentFields(t *testing.T) {
	bare := PlanningPrompt(&model.Task{Title: "Clean garage"})
	for _, absent := range []string{"Details:", "Tags:", "due by"} {
		if strings.Contains(bare, absent) {
			t.Errorf("bare prompt should not mention %q: %s", absent, bare)
		}
	}

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	tags, _ := model.NormalizeTags(json.RawMessage(`["home","weekend"]`))
	full := PlanningPrompt(&model.Task{Title: "Clean garage", Description: "sort tools", Tags: tags, DueDate: &due})
	for _, want := range []string{`"Clean garage"`, "Details: sort tools.", `Tags: [["home","weekend"]].`, "due by Fri Jan 10 2025", "actionable steps"} {
		if !strings.Contains(full, want) {
			t.Errorf("prompt missing %q: %s", want, full)
		}
	}
}
