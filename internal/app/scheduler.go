package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// RefreshScheduler proactively recomputes the slot cache for a rolling
// window of upcoming dates, keeping slot queries insulated from calendar
// latency. A cache miss during a scheduler outage degrades to synchronous
// computation, so the scheduler failing is never user-visible.
type RefreshScheduler struct {
	app      *App
	cron     *cron.Cron
	window   int
	interval time.Duration
}

func NewRefreshScheduler(a *App, windowDays int, interval time.Duration) *RefreshScheduler {
	return &RefreshScheduler{
		app:      a,
		cron:     cron.New(),
		window:   windowDays,
		interval: interval,
	}
}

// Start runs one refresh eagerly, then schedules the periodic job.
func (s *RefreshScheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		if err := s.RefreshWindow(context.Background()); err != nil {
			log.Printf("scheduled availability refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	go func() {
		if err := s.RefreshWindow(context.Background()); err != nil {
			log.Printf("initial availability refresh failed: %v", err)
		}
	}()

	s.cron.Start()
	log.Printf("availability refresh scheduler started (window %d days, every %s)", s.window, s.interval)
	return nil
}

// Stop halts the periodic job. In-flight refreshes run to completion.
func (s *RefreshScheduler) Stop() {
	s.cron.Stop()
}

// RefreshWindow recomputes and caches slots for the next window of dates,
// today included, concurrently across dates. One date failing does not stop
// the others; the first error is returned after all dates finish.
func (s *RefreshScheduler) RefreshWindow(ctx context.Context) error {
	today := s.app.Clock.Now().In(s.app.Loc)

	var g errgroup.Group
	for i := 0; i < s.window; i++ {
		dateStr := today.AddDate(0, 0, i).Format(DateLayout)
		g.Go(func() error {
			if _, err := s.app.RefreshSlots(ctx, dateStr); err != nil {
				return fmt.Errorf("refresh %s: %w", dateStr, err)
			}
			return nil
		})
	}
	return g.Wait()
}
