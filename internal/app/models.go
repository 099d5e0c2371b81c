package app

import "time"

// DateLayout is the wire format for booking dates ('YYYY-MM-DD').
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for start times ('HH:mm').
const TimeLayout = "15:04"

// Bay is one physical hitting bay, mapped 1:1 to a Google Calendar.
// The set of bays is static configuration; slice order is the assignment order.
type Bay struct {
	Name       string `json:"name"`
	CalendarID string `json:"-"`
}

// AvailableSlot is a client-facing bookable start time. MaxDuration is the
// largest whole-hour duration for which at least one bay is free from
// StartTime onward.
type AvailableSlot struct {
	StartTime   string `json:"startTime"`
	MaxDuration int    `json:"maxDuration"`
}

// BookingRequest is a validated booking submission.
type BookingRequest struct {
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"startTime" binding:"required"`
	Duration       int    `json:"duration" binding:"required"`
	UserID         string `json:"userId" binding:"required"`
	UserName       string `json:"userName" binding:"required"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber" binding:"required"`
	NumberOfPeople int    `json:"numberOfPeople" binding:"required"`
	LoginMethod    string `json:"loginMethod" binding:"required"`
}

// Assignment binds a booking request to one specific free bay.
type Assignment struct {
	Bay   Bay
	Start time.Time
	End   time.Time
}

// BookingConfirmation is returned to the client after the calendar event
// has been written.
type BookingConfirmation struct {
	Bay       string `json:"bay"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
	EventID   string `json:"-"`
}

// BookingRecord is the persisted history row for a confirmed booking.
type BookingRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	Email           string    `json:"email,omitempty"`
	PhoneNumber     string    `json:"phone_number"`
	Bay             string    `json:"bay"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	Duration        int       `json:"duration"`
	NumberOfPeople  int       `json:"number_of_people"`
	LoginMethod     string    `json:"login_method,omitempty"`
	CalendarEventID string    `json:"-"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// Customer is the CRM row kept in the customer sheet.
type Customer struct {
	UserID      string
	Name        string
	Email       string
	PhoneNumber string
	LoginSource string
}
