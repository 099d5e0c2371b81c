package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/david2928/lengolf-booking/internal/config"
)

// App wires the availability engine, the assignment path and their
// collaborators. Handlers hang off it.
type App struct {
	Bays       []Bay
	Loc        *time.Location
	Calendar   CalendarAPI
	Aggregator *BusyAggregator
	Engine     *AvailabilityEngine
	Cache      *SlotCache
	Clock      Clock

	// Optional collaborators; booking succeeds without them, their
	// failures are logged only.
	Bookings  *BookingRepo
	Customers CustomerStore
	Notifier  *Notifier

	MaxDuration int

	// Serializes booking attempts in this process so the availability
	// re-check of one attempt always sees the calendar write of the
	// previous one. The calendars themselves are never locked.
	bookMu sync.Mutex
}

// New assembles the application from configuration and a calendar backend.
func New(cfg *config.Config, cal CalendarAPI, clock Clock) (*App, error) {
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return nil, err
	}

	bays := make([]Bay, 0, len(cfg.Bays))
	for _, b := range cfg.Bays {
		bays = append(bays, Bay{Name: b.Name, CalendarID: b.CalendarID})
	}

	if clock == nil {
		clock = NewSystemClock(loc)
	}

	ag := NewBusyAggregator(cal, bays, loc, FailurePolicy(cfg.Booking.BusyFailurePolicy), cfg.CalendarTimeout())
	engine := NewAvailabilityEngine(ag, clock, loc, bays,
		cfg.Booking.OpeningHour, cfg.Booking.ClosingHour, cfg.Booking.MaxDurationHours,
		time.Duration(cfg.Booking.GraceMinutes)*time.Minute)

	return &App{
		Bays:        bays,
		Loc:         loc,
		Calendar:    cal,
		Aggregator:  ag,
		Engine:      engine,
		Cache:       NewSlotCache(cfg.CacheTTL()),
		Clock:       clock,
		MaxDuration: cfg.Booking.MaxDurationHours,
	}, nil
}

// GetAvailableSlots serves slots for a date through the cache. On a miss
// the availability engine runs synchronously and the result is cached.
func (a *App) GetAvailableSlots(ctx context.Context, dateStr string) ([]AvailableSlot, error) {
	if slots, ok := a.Cache.Get(dateStr); ok {
		return slots, nil
	}
	return a.RefreshSlots(ctx, dateStr)
}

// RefreshSlots recomputes the slots for a date and repopulates the cache.
func (a *App) RefreshSlots(ctx context.Context, dateStr string) ([]AvailableSlot, error) {
	slots, err := a.Engine.AvailableSlots(ctx, dateStr)
	if err != nil {
		return nil, err
	}
	a.Cache.Set(dateStr, slots)
	log.Printf("refreshed available slots cache for %s (%d slots)", dateStr, len(slots))
	return slots, nil
}
