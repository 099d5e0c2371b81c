package app

import (
	"context"
	"fmt"
	"log"
)

// CreateBooking assigns a bay and commits the booking by writing the
// calendar event. The event insert is the lock: once it succeeds the
// interval is busy for every subsequent computation that re-queries the
// calendar. An insert failure fails the whole booking; there is no partial
// booking state. Side effects after the commit (history row, customer
// upsert, notifications) never roll the booking back.
func (a *App) CreateBooking(ctx context.Context, req BookingRequest) (*BookingConfirmation, error) {
	a.bookMu.Lock()
	asg, err := a.AssignBay(ctx, req.Date, req.StartTime, req.Duration)
	if err != nil {
		a.bookMu.Unlock()
		return nil, err
	}

	eventID, err := a.Calendar.InsertEvent(ctx, asg.Bay.CalendarID, eventFor(req, asg))
	a.bookMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("commit booking to calendar: %w", err)
	}

	conf := &BookingConfirmation{
		Bay:       asg.Bay.Name,
		Date:      req.Date,
		StartTime: asg.Start.Format(TimeLayout),
		Duration:  req.Duration,
		EventID:   eventID,
	}

	if a.Bookings != nil {
		rec := &BookingRecord{
			UserID:          req.UserID,
			UserName:        req.UserName,
			Email:           req.Email,
			PhoneNumber:     req.PhoneNumber,
			Bay:             asg.Bay.Name,
			Date:            req.Date,
			StartTime:       conf.StartTime,
			Duration:        req.Duration,
			NumberOfPeople:  req.NumberOfPeople,
			LoginMethod:     req.LoginMethod,
			CalendarEventID: eventID,
		}
		if err := a.Bookings.Insert(ctx, rec); err != nil {
			log.Printf("booking %s committed but history insert failed: %v", eventID, err)
		}
	}

	if a.Customers != nil {
		err := a.Customers.Upsert(ctx, Customer{
			UserID:      req.UserID,
			Name:        req.UserName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			LoginSource: req.LoginMethod,
		})
		if err != nil {
			log.Printf("booking %s committed but customer upsert failed: %v", eventID, err)
		}
	}

	if a.Notifier != nil {
		a.Notifier.BookingCreated(ctx, req, conf, asg)
	}

	log.Printf("booking created for user %s at %s %s for %dh on %s",
		req.UserID, req.Date, conf.StartTime, req.Duration, asg.Bay.Name)
	return conf, nil
}
