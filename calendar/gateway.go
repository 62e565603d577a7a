package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utpal74/ai-task-scheduler/common"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/metrics"
	"github.com/utpal74/ai-task-scheduler/model"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	primaryCalendar = "primary"
	DefaultDuration = time.Hour
)

// EventInput describes the event created for a task. A nil Start means now.
type EventInput struct {
	Title       string
	Description string
	Start       *time.Time
	Duration    time.Duration
}

type Gateway interface {
	CreateEvent(ctx context.Context, ownerID string, in EventInput) (*model.Event, error)
	ListTodaysEvents(ctx context.Context, ownerID string) ([]model.Event, error)
}

// GoogleGateway talks to Google Calendar on behalf of stored users. Every call
// builds its own OAuth client from the user's refresh token, so no credential
// state is shared between requests.
type GoogleGateway struct {
	users        db.UserStore
	oauth        *oauth2.Config
	location     *time.Location
	singleTenant bool
	logger       *zap.Logger
	now          func() time.Time
	opts         []option.ClientOption
}

type Option func(*GoogleGateway)

// WithClientOptions appends options to every calendar service, e.g. a test endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(g *GoogleGateway) { g.opts = append(g.opts, opts...) }
}

// WithClock overrides the time source used for defaults and the day window.
func WithClock(now func() time.Time) Option {
	return func(g *GoogleGateway) { g.now = now }
}

func NewGoogleGateway(users db.UserStore, oauth *oauth2.Config, loc *time.Location, singleTenant bool, logger *zap.Logger, opts ...Option) *GoogleGateway {
	g := &GoogleGateway{
		users:        users,
		oauth:        oauth,
		location:     loc,
		singleTenant: singleTenant,
		logger:       logger,
		now:          time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// resolveCredential finds the user whose calendar is used. An empty ownerID
// falls back to the first stored user only in single-tenant mode.
func (g *GoogleGateway) resolveCredential(ctx context.Context, ownerID string) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch {
	case ownerID != "":
		user, err = g.users.FindByIdentity(ctx, ownerID)
	case g.singleTenant:
		user, err = g.users.FindAny(ctx)
	default:
		return nil, fmt.Errorf("%w: no owner identity given", common.ErrCredential)
	}

	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %q not found", common.ErrCredential, ownerID)
	}
	if err != nil {
		return nil, err
	}
	if !user.HasCredential() {
		return nil, fmt.Errorf("%w: %s", common.ErrCredential, user.GoogleID)
	}
	return user, nil
}

func (g *GoogleGateway) service(ctx context.Context, user *model.User) (*gcal.Service, error) {
	client := g.oauth.Client(ctx, &oauth2.Token{RefreshToken: user.RefreshToken})
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, g.opts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", common.ErrCalendarGateway, err)
	}
	return svc, nil
}

func (g *GoogleGateway) CreateEvent(ctx context.Context, ownerID string, in EventInput) (*model.Event, error) {
	user, err := g.resolveCredential(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	svc, err := g.service(ctx, user)
	if err != nil {
		return nil, err
	}

	start := g.now().UTC()
	if in.Start != nil {
		start = in.Start.UTC()
	}
	duration := in.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	end := start.Add(duration)

	event := &gcal.Event{
		Summary:     in.Title,
		Description: in.Description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
	}

	began := time.Now()
	created, err := svc.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	metrics.ObserveExternalCall("google_calendar", "events.insert", err, began)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create event: %v", common.ErrCalendarGateway, err)
	}

	g.logger.Info("Calendar event created",
		zap.String("google_id", user.GoogleID),
		zap.String("event_id", created.Id),
	)
	ev, err := toModel(created, g.location)
	if err != nil {
		g.logger.Warn("Unreadable event time", zap.String("event_id", created.Id), zap.Error(err))
	}
	return ev, nil
}

// DayBounds returns [start of day, start of next day) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (g *GoogleGateway) ListTodaysEvents(ctx context.Context, ownerID string) ([]model.Event, error) {
	user, err := g.resolveCredential(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	svc, err := g.service(ctx, user)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := DayBounds(g.now(), g.location)

	began := time.Now()
	resp, err := svc.Events.List(primaryCalendar).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	metrics.ObserveExternalCall("google_calendar", "events.list", err, began)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list events: %v", common.ErrCalendarGateway, err)
	}

	events := make([]model.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, err := toModel(item, g.location)
		if err != nil {
			g.logger.Warn("Unreadable event time", zap.String("event_id", item.Id), zap.Error(err))
		}
		events = append(events, *ev)
	}
	return events, nil
}

func toModel(item *gcal.Event, loc *time.Location) (*model.Event, error) {
	ev := &model.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Status:      item.Status,
		HTMLLink:    item.HtmlLink,
	}
	var startErr, endErr error
	ev.Start, ev.AllDay, startErr = parseEventTime(item.Start, loc)
	ev.End, _, endErr = parseEventTime(item.End, loc)
	return ev, errors.Join(startErr, endErr)
}

const zonelessDateTime = "2006-01-02T15:04:05"

// parseEventTime reads either a timed or an all-day boundary. Timed values
// without an offset are read in loc.
func parseEventTime(edt *gcal.EventDateTime, loc *time.Location) (time.Time, bool, error) {
	if edt == nil {
		return time.Time{}, false, nil
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err == nil {
			return t, false, nil
		}
		if t, zerr := time.ParseInLocation(zonelessDateTime, edt.DateTime, loc); zerr == nil {
			return t, false, nil
		}
		return time.Time{}, false, fmt.Errorf("invalid event time %q: %w", edt.DateTime, err)
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", edt.Date, loc)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid event date %q: %w", edt.Date, err)
		}
		return t, true, nil
	}
	return time.Time{}, false, nil
}
