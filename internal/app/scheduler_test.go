package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshWindowPopulatesRollingDates(t *testing.T) {
	loc := bangkok(t)
	clock := fixedClock{t: at(t, loc, "2030-06-10", "09:00")}
	a := newTestApp(t, newFakeCalendar(), testAppOpts{clock: clock})

	s := NewRefreshScheduler(a, 5, time.Hour)
	require.NoError(t, s.RefreshWindow(context.Background()))

	for _, date := range []string{"2030-06-10", "2030-06-11", "2030-06-12", "2030-06-13", "2030-06-14"} {
		_, ok := a.Cache.Get(date)
		assert.True(t, ok, "expected cached slots for %s", date)
	}
	_, ok := a.Cache.Get("2030-06-15")
	assert.False(t, ok, "date outside the window must not be cached")
}

func TestRefreshWindowReportsFailures(t *testing.T) {
	loc := bangkok(t)
	cal := newFakeCalendar()
	cal.errs["cal-1"] = errors.New("upstream 503")
	clock := fixedClock{t: at(t, loc, "2030-06-10", "09:00")}
	a := newTestApp(t, cal, testAppOpts{clock: clock, policy: FailAbort})

	s := NewRefreshScheduler(a, 3, time.Hour)
	err := s.RefreshWindow(context.Background())
	require.Error(t, err)
}

func TestSchedulerRunsEagerlyOnStart(t *testing.T) {
	loc := bangkok(t)
	clock := fixedClock{t: at(t, loc, "2030-06-10", "09:00")}
	a := newTestApp(t, newFakeCalendar(), testAppOpts{clock: clock})

	s := NewRefreshScheduler(a, 2, time.Hour)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, ok := a.Cache.Get("2030-06-10")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}
