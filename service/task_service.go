package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/utpal74/ai-task-scheduler/ai"
	"github.com/utpal74/ai-task-scheduler/calendar"
	"github.com/utpal74/ai-task-scheduler/common"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/logger"
	"github.com/utpal74/ai-task-scheduler/metrics"
	"github.com/utpal74/ai-task-scheduler/model"
	"go.uber.org/zap"
)

// TaskResult is the persisted task plus what happened to the follow-up steps.
// Plan is advisory text and is not stored.
type TaskResult struct {
	Task     *model.Task
	Plan     string
	Outcomes []Outcome
}

type TaskService struct {
	owners   *OwnerResolver
	tasks    db.TaskStore
	planner  ai.Generator
	calendar calendar.Gateway
}

func NewTaskService(owners *OwnerResolver, tasks db.TaskStore, planner ai.Generator, cal calendar.Gateway) *TaskService {
	return &TaskService{owners: owners, tasks: tasks, planner: planner, calendar: cal}
}

// Submit persists a task for the acting user, then asks the planner for a
// step breakdown and creates a calendar event. Only owner resolution and
// persistence errors are returned; the later steps are reported as Outcomes.
func (s *TaskService) Submit(ctx context.Context, identity string, in model.TaskInput) (*TaskResult, error) {
	log := logger.FromCtx(ctx)

	owner, err := s.owners.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	task, err := in.NewTask(owner.GoogleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	metrics.IncrementTasksCreated()
	log = log.With(zap.String("task_id", task.ID), zap.String("google_id", owner.GoogleID))

	result := &TaskResult{Task: task}

	plan, err := s.planner.GenerateText(ctx, PlanningPrompt(task), ai.ProfilePlanning)
	if err != nil {
		log.Error("AI scheduling failed", zap.Error(err))
		result.Outcomes = record(result.Outcomes, StepPlan, StatusFailed, err)
		result.Outcomes = record(result.Outcomes, StepCalendar, StatusSkipped, nil)
		return result, nil
	}
	log.Info("AI plan for task", zap.String("plan", plan))
	result.Plan = plan
	result.Outcomes = record(result.Outcomes, StepPlan, StatusOK, nil)

	event, err := s.calendar.CreateEvent(ctx, owner.GoogleID, calendar.EventInput{
		Title:       task.Title,
		Description: task.Description,
		Start:       task.DueDate,
		Duration:    calendar.DefaultDuration,
	})
	if err != nil {
		log.Error("Calendar sync failed", zap.Error(err))
		result.Outcomes = record(result.Outcomes, StepCalendar, StatusFailed, err)
		return result, nil
	}
	if event == nil || event.ID == "" {
		result.Outcomes = record(result.Outcomes, StepCalendar, StatusFailed, fmt.Errorf("%w: no event id returned", common.ErrCalendarGateway))
		return result, nil
	}

	if err := s.tasks.SetCalendarEventID(ctx, task.ID, event.ID); err != nil {
		log.Error("Failed to link calendar event", zap.String("event_id", event.ID), zap.Error(err))
		result.Outcomes = record(result.Outcomes, StepCalendar, StatusFailed, err)
		return result, nil
	}
	task.CalendarEventID = event.ID
	result.Outcomes = record(result.Outcomes, StepCalendar, StatusOK, nil)
	return result, nil
}

// List returns every task in creation order.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return tasks, nil
}

// PlanningPrompt asks the model to split a task into scheduled steps.
// Optional fields are only mentioned when present.
func PlanningPrompt(t *model.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI scheduling assistant. I have a task: %q.", t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, " Details: %s.", t.Description)
	}
	if t.Tags != "" {
		fmt.Fprintf(&b, " Tags: [%s].", t.Tags)
	}
	if t.DueDate != nil {
		fmt.Fprintf(&b, " It is due by %s.", t.DueDate.Format("Mon Jan 02 2006"))
	}
	b.WriteString(" Divide into actionable steps and suggest a date/time schedule for each before the deadline. Return a concise list.")
	return b.String()
}
