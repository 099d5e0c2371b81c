package app

import (
	"context"
	"time"
)

// Clock supplies "now" in the business timezone. Injected so the
// availability engine can be tested without wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }

// NewSystemClock returns a Clock fixed to the business timezone.
func NewSystemClock(loc *time.Location) Clock { return systemClock{loc: loc} }

// AvailabilityEngine converts per-bay busy intervals into the ordered list
// of bookable (start time, max duration) slots for a date.
type AvailabilityEngine struct {
	aggregator  *BusyAggregator
	clock       Clock
	loc         *time.Location
	bays        []Bay
	openingHour int
	closingHour int
	maxDuration int
	grace       time.Duration
}

func NewAvailabilityEngine(ag *BusyAggregator, clock Clock, loc *time.Location, bays []Bay, openingHour, closingHour, maxDuration int, grace time.Duration) *AvailabilityEngine {
	return &AvailabilityEngine{
		aggregator:  ag,
		clock:       clock,
		loc:         loc,
		bays:        bays,
		openingHour: openingHour,
		closingHour: closingHour,
		maxDuration: maxDuration,
		grace:       grace,
	}
}

// AvailableSlots computes the bookable slots for a date, ascending by start
// time. Candidate starts step hourly from opening (or, for today, from the
// next whole hour at or after now plus the grace offset) until closing.
// For each start the duration probe runs 1..maxDuration and stops at the
// first infeasible duration.
func (e *AvailabilityEngine) AvailableSlots(ctx context.Context, dateStr string) ([]AvailableSlot, error) {
	day, err := time.ParseInLocation(DateLayout, dateStr, e.loc)
	if err != nil {
		return nil, err
	}

	busy, err := e.aggregator.BusyTimes(ctx, dateStr)
	if err != nil {
		return nil, err
	}

	opening := day.Add(time.Duration(e.openingHour) * time.Hour)
	closing := day.Add(time.Duration(e.closingHour) * time.Hour)

	earliest := opening
	now := e.clock.Now().In(e.loc)
	if now.Format(DateLayout) == dateStr {
		cutoff := nextHourBoundary(now.Add(e.grace))
		if cutoff.After(earliest) {
			earliest = cutoff
		}
	}
	if !earliest.Before(closing) {
		return []AvailableSlot{}, nil
	}

	slots := []AvailableSlot{}
	for start := earliest; start.Before(closing); start = start.Add(time.Hour) {
		maxSlot := 0
		for d := 1; d <= e.maxDuration; d++ {
			end := start.Add(time.Duration(d) * time.Hour)
			if end.After(closing) {
				break
			}
			if !e.anyBayFree(busy, BusyInterval{Start: start, End: end}) {
				break
			}
			maxSlot = d
		}
		if maxSlot >= 1 {
			slots = append(slots, AvailableSlot{
				StartTime:   start.Format(TimeLayout),
				MaxDuration: maxSlot,
			})
		}
	}
	return slots, nil
}

// anyBayFree reports whether at least one bay has no busy interval
// overlapping the requested range. Bays are checked in configured order.
func (e *AvailabilityEngine) anyBayFree(busy map[string][]BusyInterval, want BusyInterval) bool {
	for _, bay := range e.bays {
		free := true
		for _, iv := range busy[bay.Name] {
			if iv.Overlaps(want) {
				free = false
				break
			}
		}
		if free {
			return true
		}
	}
	return false
}

// nextHourBoundary rounds t up to the next whole hour; an exact hour is
// returned unchanged.
func nextHourBoundary(t time.Time) time.Time {
	onHour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	if onHour.Equal(t) {
		return t
	}
	return onHour.Add(time.Hour)
}
