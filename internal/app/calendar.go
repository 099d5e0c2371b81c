package app

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarEvent is the payload written to a bay's calendar for a confirmed
// booking. One event per booking; requester metadata goes into the
// summary/description.
type CalendarEvent struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// CalendarAPI is the external calendar surface the engines depend on.
// The Google Calendar implementation is the production backend; tests
// inject fakes.
type CalendarAPI interface {
	// QueryBusy returns the busy intervals of one calendar between from and to.
	QueryBusy(ctx context.Context, calendarID string, from, to time.Time) ([]BusyInterval, error)
	// InsertEvent writes a booking event and returns the created event ID.
	// A successful insert is the booking commit.
	InsertEvent(ctx context.Context, calendarID string, ev CalendarEvent) (string, error)
}

// GoogleCalendar implements CalendarAPI against the Google Calendar v3 API
// using service-account credentials.
type GoogleCalendar struct {
	srv *calendar.Service
	loc *time.Location
}

// NewGoogleCalendar builds a Calendar client from a service-account key
// (JSON bytes). loc is the business timezone; busy intervals are returned
// in it.
func NewGoogleCalendar(ctx context.Context, credentialsJSON []byte, loc *time.Location) (*GoogleCalendar, error) {
	srv, err := calendar.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &GoogleCalendar{srv: srv, loc: loc}, nil
}

func (g *GoogleCalendar) QueryBusy(ctx context.Context, calendarID string, from, to time.Time) ([]BusyInterval, error) {
	req := &calendar.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}
	resp, err := g.srv.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query for %s: %w", calendarID, err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, nil
	}
	var busy []BusyInterval
	for _, p := range cal.Busy {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", p.Start, err)
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", p.End, err)
		}
		busy = append(busy, BusyInterval{Start: start.In(g.loc), End: end.In(g.loc)})
	}
	return busy, nil
}

func (g *GoogleCalendar) InsertEvent(ctx context.Context, calendarID string, ev CalendarEvent) (string, error) {
	event := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}
	created, err := g.srv.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event into %s: %w", calendarID, err)
	}
	return created.Id, nil
}
