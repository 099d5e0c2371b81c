package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// FailurePolicy decides what happens when one bay's busy query fails.
type FailurePolicy string

const (
	// FailOpen treats a failed bay as fully free. More bookable inventory,
	// at the risk of a conflict surfacing later at assignment time.
	FailOpen FailurePolicy = "fail-open"
	// FailClosed treats a failed bay as busy for the whole day.
	FailClosed FailurePolicy = "fail-closed"
	// FailAbort aborts the whole availability computation.
	FailAbort FailurePolicy = "abort"
)

// BusyAggregator fetches and normalizes busy intervals for every bay on a
// given business-day date. One calendar query per bay, issued concurrently.
type BusyAggregator struct {
	calendar CalendarAPI
	bays     []Bay
	loc      *time.Location
	policy   FailurePolicy
	timeout  time.Duration
}

func NewBusyAggregator(cal CalendarAPI, bays []Bay, loc *time.Location, policy FailurePolicy, timeout time.Duration) *BusyAggregator {
	return &BusyAggregator{calendar: cal, bays: bays, loc: loc, policy: policy, timeout: timeout}
}

// DayWindow returns the query window for a date: the full business day in
// the business timezone.
func (ag *BusyAggregator) DayWindow(dateStr string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, dateStr, ag.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return day, day.Add(24*time.Hour - time.Second), nil
}

// BusyTimes returns the busy intervals of every bay for the date, keyed by
// bay name. A bay whose query fails is handled per the configured policy;
// every absorbed failure is logged.
func (ag *BusyAggregator) BusyTimes(ctx context.Context, dateStr string) (map[string][]BusyInterval, error) {
	winStart, winEnd, err := ag.DayWindow(dateStr)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]BusyInterval, len(ag.bays))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, bay := range ag.bays {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, ag.timeout)
			defer cancel()

			busy, err := ag.calendar.QueryBusy(qctx, bay.CalendarID, winStart, winEnd)
			if err != nil {
				switch ag.policy {
				case FailAbort:
					return fmt.Errorf("busy query for bay %s: %w", bay.Name, err)
				case FailClosed:
					log.Printf("busy query failed for bay %s, treating as fully busy (%s): %v", bay.Name, ag.policy, err)
					busy = []BusyInterval{{Start: winStart, End: winEnd}}
				default:
					log.Printf("busy query failed for bay %s, treating as free (%s): %v", bay.Name, ag.policy, err)
					busy = nil
				}
			}

			mu.Lock()
			out[bay.Name] = busy
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
