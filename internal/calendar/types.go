package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput represents the caller-supplied fields of a new event
type EventInput struct {
	Summary  string
	Location string
}

// EventSummary represents an event as returned by the API
type EventSummary struct {
	ID       string
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
	HTMLLink string
	Status   string
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:       event.Id,
		Summary:  event.Summary,
		Location: event.Location,
		HTMLLink: event.HtmlLink,
		Status:   event.Status,
	}
	if event.Start != nil {
		summary.Start = parseDateTime(event.Start.DateTime)
	}
	if event.End != nil {
		summary.End = parseDateTime(event.End.DateTime)
	}
	return summary
}

func parseDateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
