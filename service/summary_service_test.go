package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/utpal74/ai-task-scheduler/ai"
	"github.com/utpal74/ai-task-scheduler/model"
)

func TestBuildDailySummaryEmptyDay(t *testing.T) {
	gen := &MockGenerator{GenerateFunc: func(context.Context, string, ai.Profile) (string, error) {
		return "  Enjoy your free day!  ", nil
	}}
	svc := NewSummaryService(&MockGateway{}, gen, time.UTC)

	res := svc.BuildDailySummary(context.Background(), "")
	if res.Degraded || res.Summary != "Enjoy your free day!" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(gen.Prompts) != 1 || gen.Prompts[0] != EmptyDayPrompt {
		t.Errorf("prompt = %q, want the empty-day prompt", gen.Prompts)
	}
	if gen.Profiles[0] != ai.ProfileSummary {
		t.Errorf("profile = %s", gen.Profiles[0])
	}
}

func TestBuildDailySummaryEnumeratesEvents(t *testing.T) {
	cal := &MockGateway{ListFunc: func(context.Context, string) ([]model.Event, error) {
		return []model.Event{
			{Summary: "Standup", Start: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)},
			{Summary: "Holiday", AllDay: true},
		}, nil
	}}
	gen := &MockGenerator{}
	svc := NewSummaryService(cal, gen, time.UTC)

	res := svc.BuildDailySummary(context.Background(), "g-1")
	if res.Degraded || res.Events != 2 {
		t.Errorf("unexpected result %+v", res)
	}

	prompt := gen.Prompts[0]
	for _, want := range []string{"Today’s schedule:\n", "- 09:00 Standup\n", "- All day Holiday\n", "friendly tone"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildDailySummaryCalendarFailureFallsBack(t *testing.T) {
	cal := &MockGateway{ListFunc: func(context.Context, string) ([]model.Event, error) {
		return nil, ErrMockCalendar
	}}
	gen := &MockGenerator{}
	svc := NewSummaryService(cal, gen, time.UTC)

	res := svc.BuildDailySummary(context.Background(), "")
	if res.Summary != FallbackSummary || !res.Degraded || !errors.Is(res.Err, ErrMockCalendar) {
		t.Errorf("unexpected result %+v", res)
	}
	if len(gen.Prompts) != 0 {
		t.Error("model must not be called when the calendar failed")
	}
}

func TestBuildDailySummaryAIFailureFallsBack(t *testing.T) {
	gen := &MockGenerator{GenerateFunc: func(context.Context, string, ai.Profile) (string, error) {
		return "", ErrMockAI
	}}
	svc := NewSummaryService(&MockGateway{}, gen, time.UTC)

	if res := svc.BuildDailySummary(context.Background(), ""); res.Summary != FallbackSummary || !res.Degraded {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSummaryPromptUnknownStartIsNotAllDay(t *testing.T) {
	events := []model.Event{
		{Summary: "Broken"},
		{Summary: "Holiday", AllDay: true},
	}

	got := SummaryPrompt(events, time.UTC)
	if !strings.Contains(got, "- Broken\n") || strings.Contains(got, "All day Broken") {
		t.Errorf("prompt = %q", got)
	}
	if !strings.Contains(got, "- All day Holiday\n") {
		t.Errorf("prompt = %q", got)
	}
}

func TestSummaryPromptUsesLocalTime(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	events := []model.Event{{Summary: "Review", Start: time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)}}

	if got := SummaryPrompt(events, loc); !strings.Contains(got, "- 10:30 Review") {
		t.Errorf("prompt = %q", got)
	}
}
