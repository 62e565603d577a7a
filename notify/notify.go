package notify

import (
	"context"
	"time"

	"github.com/utpal74/ai-task-scheduler/metrics"
	"go.uber.org/zap"
)

const summarySubject = "Daily Schedule Summary"

// Channel delivers a text message to one destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, subject, text string) error
}

// Delivery is the result of one channel attempt.
type Delivery struct {
	Channel string `json:"channel"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Dispatcher fans a message out to every configured channel, one after the
// other. A failing channel never prevents the remaining ones from running.
type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger}
}

func (d *Dispatcher) Channels() int { return len(d.channels) }

// Broadcast sends the summary text and reports one Delivery per channel.
func (d *Dispatcher) Broadcast(ctx context.Context, text string) []Delivery {
	deliveries := make([]Delivery, 0, len(d.channels))
	for _, ch := range d.channels {
		start := time.Now()
		err := ch.Send(ctx, summarySubject, text)
		metrics.ObserveExternalCall(ch.Name(), "send", err, start)

		if err != nil {
			d.logger.Error("Notification failed", zap.String("channel", ch.Name()), zap.Error(err))
			metrics.RecordSideEffect("notify_"+ch.Name(), "failed")
			deliveries = append(deliveries, Delivery{Channel: ch.Name(), Status: "failed", Error: err.Error()})
			continue
		}
		d.logger.Info("Notification sent", zap.String("channel", ch.Name()))
		metrics.RecordSideEffect("notify_"+ch.Name(), "ok")
		deliveries = append(deliveries, Delivery{Channel: ch.Name(), Status: "ok"})
	}
	return deliveries
}
