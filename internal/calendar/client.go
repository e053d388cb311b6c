package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
)

const (
	// PrimaryCalendarID addresses the authenticated user's primary calendar.
	PrimaryCalendarID = "primary"

	// EventDuration is the fixed length of an inserted event.
	EventDuration = time.Hour

	// DefaultApplicationName is sent as the user agent.
	DefaultApplicationName = "gsamples-calendar-getting-started"
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	now     func() time.Time
	logger  logging.Logger
	metrics *instrumentation.Metrics

	appName    string
	clientOpts []option.ClientOption
}

// Option configures a Client.
type Option func(*Client)

// WithClock replaces time.Now as the source of event start times.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithApplicationName overrides the user agent.
func WithApplicationName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.appName = name
		}
	}
}

// WithClientOptions appends options for the generated service, such as a
// custom endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// NewClient creates a Calendar client that sends requests through httpClient,
// which must already carry the user's credential.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, errors.New("http client cannot be nil")
	}

	c := &Client{
		now:     time.Now,
		logger:  logging.DefaultLogger(),
		appName: DefaultApplicationName,
	}
	for _, opt := range opts {
		opt(c)
	}

	svcOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.clientOpts...)

	svc, err := calendar.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	// option.WithUserAgent has no effect on a caller supplied http.Client.
	svc.UserAgent = c.appName
	c.svc = svc

	return c, nil
}

// NewEvent builds an event starting at start and lasting EventDuration.
// Start is truncated to whole seconds, the precision of RFC 3339 on the wire.
func NewEvent(input EventInput, start time.Time) *calendar.Event {
	start = start.Truncate(time.Second)
	end := start.Add(EventDuration)

	return &calendar.Event{
		Summary:  input.Summary,
		Location: input.Location,
		Start:    &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:      &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
}

// InsertEvent inserts a one-hour event starting now into the primary calendar.
func (c *Client) InsertEvent(ctx context.Context, input EventInput) (*EventSummary, error) {
	event := NewEvent(input, c.now())

	var created *calendar.Event
	err := instrumentation.ObserveGoogleAPI(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationInsert,
		func(ctx context.Context) error {
			var err error
			created, err = c.svc.Events.Insert(PrimaryCalendarID, event).Context(ctx).Do()
			return err
		})
	if err != nil {
		return nil, google.WrapAPIError(instrumentation.ServiceCalendar, instrumentation.OperationInsert, err)
	}

	summary := toEventSummary(created)
	c.logger.Info("Inserted calendar event",
		logging.Service(instrumentation.ServiceCalendar),
		logging.Operation(instrumentation.OperationInsert),
		"event_id", summary.ID,
	)
	return &summary, nil
}
