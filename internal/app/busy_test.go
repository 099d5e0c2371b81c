package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusyTimesFanOut(t *testing.T) {
	loc := bangkok(t)
	cal := newFakeCalendar()
	cal.busy["cal-1"] = []BusyInterval{interval(t, loc, testDate, "10:00", "11:00")}
	cal.busy["cal-3"] = []BusyInterval{
		interval(t, loc, testDate, "12:00", "13:00"),
		interval(t, loc, testDate, "18:00", "20:00"),
	}
	a := newTestApp(t, cal, testAppOpts{})

	busy, err := a.Aggregator.BusyTimes(context.Background(), testDate)
	require.NoError(t, err)

	require.Len(t, busy, 3)
	assert.Len(t, busy["Bay 1"], 1)
	assert.Empty(t, busy["Bay 2"])
	assert.Len(t, busy["Bay 3"], 2)
}

func TestBusyTimesFailOpen(t *testing.T) {
	loc := bangkok(t)
	cal := newFakeCalendar()
	cal.busy["cal-1"] = []BusyInterval{interval(t, loc, testDate, "10:00", "11:00")}
	cal.errs["cal-2"] = errors.New("upstream 503")
	a := newTestApp(t, cal, testAppOpts{policy: FailOpen})

	busy, err := a.Aggregator.BusyTimes(context.Background(), testDate)
	require.NoError(t, err)

	// The failed bay reads as fully free; the others are unaffected.
	assert.Empty(t, busy["Bay 2"])
	assert.Len(t, busy["Bay 1"], 1)
}

func TestBusyTimesFailClosed(t *testing.T) {
	cal := newFakeCalendar()
	cal.errs["cal-2"] = errors.New("upstream 503")
	a := newTestApp(t, cal, testAppOpts{policy: FailClosed})

	busy, err := a.Aggregator.BusyTimes(context.Background(), testDate)
	require.NoError(t, err)

	require.Len(t, busy["Bay 2"], 1)
	winStart, winEnd, err := a.Aggregator.DayWindow(testDate)
	require.NoError(t, err)
	assert.Equal(t, BusyInterval{Start: winStart, End: winEnd}, busy["Bay 2"][0])
}

func TestBusyTimesAbort(t *testing.T) {
	cal := newFakeCalendar()
	cal.errs["cal-2"] = errors.New("upstream 503")
	a := newTestApp(t, cal, testAppOpts{policy: FailAbort})

	_, err := a.Aggregator.BusyTimes(context.Background(), testDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bay 2")
}

func TestBusyTimesInvalidDate(t *testing.T) {
	a := newTestApp(t, newFakeCalendar(), testAppOpts{})
	_, err := a.Aggregator.BusyTimes(context.Background(), "15/06/2030")
	require.Error(t, err)
}

func TestDayWindowSpansBusinessDay(t *testing.T) {
	loc := bangkok(t)
	a := newTestApp(t, newFakeCalendar(), testAppOpts{})

	start, end, err := a.Aggregator.DayWindow(testDate)
	require.NoError(t, err)

	assert.Equal(t, at(t, loc, testDate, "00:00"), start)
	assert.Equal(t, at(t, loc, testDate, "00:00").Add(24*time.Hour-time.Second), end)
	assert.Equal(t, "Asia/Bangkok", start.Location().String())
}
