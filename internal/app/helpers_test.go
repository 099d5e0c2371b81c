package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func bangkok(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type insertedEvent struct {
	CalendarID string
	Event      CalendarEvent
}

// fakeCalendar is an in-memory CalendarAPI. Inserted events become busy
// intervals for subsequent queries, mirroring the calendar-as-lock behavior
// of the real provider.
type fakeCalendar struct {
	mu        sync.Mutex
	busy      map[string][]BusyInterval
	errs      map[string]error
	insertErr error
	inserted  []insertedEvent
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{
		busy: map[string][]BusyInterval{},
		errs: map[string]error{},
	}
}

func (f *fakeCalendar) QueryBusy(_ context.Context, calendarID string, _, _ time.Time) ([]BusyInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[calendarID]; err != nil {
		return nil, err
	}
	out := append([]BusyInterval(nil), f.busy[calendarID]...)
	for _, ev := range f.inserted {
		if ev.CalendarID == calendarID {
			out = append(out, BusyInterval{Start: ev.Event.Start, End: ev.Event.End})
		}
	}
	return out, nil
}

func (f *fakeCalendar) InsertEvent(_ context.Context, calendarID string, ev CalendarEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, insertedEvent{CalendarID: calendarID, Event: ev})
	return fmt.Sprintf("evt-%d", len(f.inserted)), nil
}

func (f *fakeCalendar) insertedEvents() []insertedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]insertedEvent(nil), f.inserted...)
}

func hours(n int) time.Duration { return time.Duration(n) * time.Hour }

// at builds an instant on a date from an HH:mm wall time in loc.
func at(t *testing.T, loc *time.Location, dateStr, hhmm string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, dateStr+"T"+hhmm, loc)
	if err != nil {
		t.Fatalf("parse %s %s: %v", dateStr, hhmm, err)
	}
	return ts
}

func interval(t *testing.T, loc *time.Location, dateStr, from, to string) BusyInterval {
	t.Helper()
	return BusyInterval{Start: at(t, loc, dateStr, from), End: at(t, loc, dateStr, to)}
}

type testAppOpts struct {
	bays        []Bay
	clock       Clock
	policy      FailurePolicy
	openingHour int
	closingHour int
	maxDuration int
	cacheTTL    time.Duration
}

func newTestApp(t *testing.T, cal CalendarAPI, opts testAppOpts) *App {
	t.Helper()
	loc := bangkok(t)

	if opts.bays == nil {
		opts.bays = []Bay{
			{Name: "Bay 1", CalendarID: "cal-1"},
			{Name: "Bay 2", CalendarID: "cal-2"},
			{Name: "Bay 3", CalendarID: "cal-3"},
		}
	}
	if opts.clock == nil {
		// A date far from any test fixture, so same-day cutoff logic
		// stays inert unless a test sets its own clock.
		opts.clock = fixedClock{t: at(t, loc, "2030-01-01", "09:00")}
	}
	if opts.policy == "" {
		opts.policy = FailOpen
	}
	if opts.openingHour == 0 {
		opts.openingHour = 10
	}
	if opts.closingHour == 0 {
		opts.closingHour = 23
	}
	if opts.maxDuration == 0 {
		opts.maxDuration = 5
	}
	if opts.cacheTTL == 0 {
		opts.cacheTTL = 10 * time.Minute
	}

	ag := NewBusyAggregator(cal, opts.bays, loc, opts.policy, time.Second)
	engine := NewAvailabilityEngine(ag, opts.clock, loc, opts.bays,
		opts.openingHour, opts.closingHour, opts.maxDuration, 30*time.Minute)

	return &App{
		Bays:        opts.bays,
		Loc:         loc,
		Calendar:    cal,
		Aggregator:  ag,
		Engine:      engine,
		Cache:       NewSlotCache(opts.cacheTTL),
		Clock:       opts.clock,
		MaxDuration: opts.maxDuration,
	}
}
