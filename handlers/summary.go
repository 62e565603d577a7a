package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utpal74/ai-task-scheduler/notify"
	"github.com/utpal74/ai-task-scheduler/service"
)

type SummaryBuilder interface {
	BuildDailySummary(ctx context.Context, identity string) service.SummaryResult
}

type Broadcaster interface {
	Broadcast(ctx context.Context, text string) []notify.Delivery
}

type SummaryHandler struct {
	summaries SummaryBuilder
	notifier  Broadcaster
}

func NewSummaryHandler(summaries SummaryBuilder, notifier Broadcaster) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, notifier: notifier}
}

// GetSummaryHandler always answers 200: a degraded summary carries the
// fallback text and failed channels are listed but do not fail the request.
func (handler *SummaryHandler) GetSummaryHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), submitTimeout)
	defer cancel()

	result := handler.summaries.BuildDailySummary(ctx, c.GetHeader(IdentityHeader))
	deliveries := handler.notifier.Broadcast(ctx, result.Summary)

	c.JSON(http.StatusOK, gin.H{
		"summary":       result.Summary,
		"degraded":      result.Degraded,
		"notifications": deliveries,
	})
}
