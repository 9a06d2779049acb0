package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

var (
	windowFrom = time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
	windowTo   = time.Date(2026, 4, 15, 18, 0, 0, 0, time.UTC)
)

func TestParseBusyPeriodsConvertsToLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	periods := []*calendar.TimePeriod{
		{Start: "2026-04-15T10:00:00Z", End: "2026-04-15T10:30:00Z"},
	}

	intervals := parseBusyPeriods(windowFrom, windowTo, loc, periods, zap.NewNop())

	require.Len(t, intervals, 1)
	require.Equal(t, loc, intervals[0].Start.Location())
	require.True(t, intervals[0].Start.Equal(time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)))
	require.True(t, intervals[0].End.Equal(time.Date(2026, 4, 15, 10, 30, 0, 0, time.UTC)))
}

func TestParseBusyPeriodsMalformedBlocksWholeWindow(t *testing.T) {
	periods := []*calendar.TimePeriod{
		{Start: "not-a-timestamp", End: "2026-04-15T10:30:00Z"},
	}

	intervals := parseBusyPeriods(windowFrom, windowTo, time.UTC, periods, zap.NewNop())

	// Нечитаемый период перекрывает всё окно запроса, а не исчезает
	require.Len(t, intervals, 1)
	require.True(t, intervals[0].Start.Equal(windowFrom))
	require.True(t, intervals[0].End.Equal(windowTo))
}

func TestParseBusyPeriodsMixedKeepsBoth(t *testing.T) {
	periods := []*calendar.TimePeriod{
		{Start: "2026-04-15T11:00:00Z", End: "2026-04-15T11:30:00Z"},
		{Start: "2026-04-15T12:00:00Z", End: "garbage"},
	}

	intervals := parseBusyPeriods(windowFrom, windowTo, time.UTC, periods, zap.NewNop())

	require.Len(t, intervals, 2)
	require.True(t, intervals[0].Start.Equal(time.Date(2026, 4, 15, 11, 0, 0, 0, time.UTC)))
	require.True(t, intervals[1].Start.Equal(windowFrom))
	require.True(t, intervals[1].End.Equal(windowTo))
}

func TestParseBusyPeriodsEmpty(t *testing.T) {
	intervals := parseBusyPeriods(windowFrom, windowTo, time.UTC, nil, zap.NewNop())
	require.Empty(t, intervals)
}
