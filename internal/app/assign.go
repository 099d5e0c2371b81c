package app

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoAvailability marks the normal "no bay free for that interval"
// outcome. Callers surface it as a booking conflict, not a server error.
var ErrNoAvailability = errors.New("no bay available for the requested interval")

// AssignBay finds the first configured bay with no busy interval overlapping
// [start, start+duration). Busy intervals are re-fetched from the calendars;
// the slot cache is never consulted here, staleness could double-book.
func (a *App) AssignBay(ctx context.Context, dateStr, startTime string, duration int) (*Assignment, error) {
	start, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, dateStr+"T"+startTime, a.Loc)
	if err != nil {
		return nil, fmt.Errorf("invalid booking time %s %s: %w", dateStr, startTime, err)
	}
	end := start.Add(time.Duration(duration) * time.Hour)
	want := BusyInterval{Start: start, End: end}

	busy, err := a.Aggregator.BusyTimes(ctx, dateStr)
	if err != nil {
		return nil, err
	}

	for _, bay := range a.Bays {
		free := true
		for _, iv := range busy[bay.Name] {
			if iv.Overlaps(want) {
				free = false
				break
			}
		}
		if free {
			return &Assignment{Bay: bay, Start: start, End: end}, nil
		}
	}
	return nil, ErrNoAvailability
}

// eventFor builds the calendar event payload for an assignment.
func eventFor(req BookingRequest, asg *Assignment) CalendarEvent {
	return CalendarEvent{
		Summary: fmt.Sprintf("%s (%s) (%d) - %s",
			req.UserName, req.PhoneNumber, req.NumberOfPeople, asg.Bay.Name),
		Description: fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nPeople: %d",
			req.UserName, req.Email, req.PhoneNumber, req.NumberOfPeople),
		Start: asg.Start,
		End:   asg.End,
	}
}
