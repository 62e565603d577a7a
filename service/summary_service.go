package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/utpal74/ai-task-scheduler/ai"
	"github.com/utpal74/ai-task-scheduler/calendar"
	"github.com/utpal74/ai-task-scheduler/logger"
	"github.com/utpal74/ai-task-scheduler/model"
	"go.uber.org/zap"
)

const (
	FallbackSummary = "Unable to generate summary."
	EmptyDayPrompt  = "There are no scheduled events or tasks for today."
)

// SummaryResult carries the summary text. Degraded is set when the text is
// the fallback because the calendar or the model failed.
type SummaryResult struct {
	Summary  string
	Events   int
	Degraded bool
	Err      error
}

type SummaryService struct {
	calendar calendar.Gateway
	planner  ai.Generator
	location *time.Location
}

func NewSummaryService(cal calendar.Gateway, planner ai.Generator, loc *time.Location) *SummaryService {
	return &SummaryService{calendar: cal, planner: planner, location: loc}
}

// BuildDailySummary never fails: any error yields FallbackSummary.
func (s *SummaryService) BuildDailySummary(ctx context.Context, identity string) SummaryResult {
	log := logger.FromCtx(ctx)

	events, err := s.calendar.ListTodaysEvents(ctx, identity)
	if err != nil {
		log.Error("AI summary failed", zap.String("step", "calendar"), zap.Error(err))
		return SummaryResult{Summary: FallbackSummary, Degraded: true, Err: err}
	}

	text, err := s.planner.GenerateText(ctx, SummaryPrompt(events, s.location), ai.ProfileSummary)
	if err != nil {
		log.Error("AI summary failed", zap.String("step", "ai"), zap.Error(err))
		return SummaryResult{Summary: FallbackSummary, Events: len(events), Degraded: true, Err: err}
	}

	log.Info("Daily summary generated", zap.Int("events", len(events)))
	return SummaryResult{Summary: strings.TrimSpace(text), Events: len(events)}
}

// SummaryPrompt lists the day's events with their local start time.
func SummaryPrompt(events []model.Event, loc *time.Location) string {
	if len(events) == 0 {
		return EmptyDayPrompt
	}

	var b strings.Builder
	b.WriteString("Today’s schedule:\n")
	for _, ev := range events {
		switch {
		case ev.AllDay:
			fmt.Fprintf(&b, "- All day %s\n", ev.Summary)
		case ev.Start.IsZero():
			// timed event whose start could not be read
			fmt.Fprintf(&b, "- %s\n", ev.Summary)
		default:
			fmt.Fprintf(&b, "- %s %s\n", ev.Start.In(loc).Format("15:04"), ev.Summary)
		}
	}
	b.WriteString("\nProvide a brief summary in a friendly tone.")
	return b.String()
}
