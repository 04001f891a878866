package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localDay(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.Local)
}

func TestOccurrences_WeeklyUntilIsInclusive(t *testing.T) {
	ev := NormalizedEvent{
		UID:   "w@" + UIDDomain,
		Start: DateValue{Date: "2025-01-01", Time: "09:00"},
		RRule: "FREQ=WEEKLY;BYDAY=WE;UNTIL=20250115",
	}

	got, err := Occurrences(ev, localDay(2024, 12, 31, 0), localDay(2025, 2, 1, 0), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(localDay(2025, 1, 1, 9)))
	assert.True(t, got[2].Equal(localDay(2025, 1, 15, 9)))
}

func TestOccurrences_Limit(t *testing.T) {
	ev := NormalizedEvent{Start: DateValue{Date: "2025-01-01"}, RRule: "FREQ=DAILY"}

	got, err := Occurrences(ev, localDay(2025, 1, 1, 0), localDay(2025, 12, 31, 0), 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestOccurrences_SingleEvent(t *testing.T) {
	ev := NormalizedEvent{Start: DateValue{Date: "2025-03-10"}}

	got, err := Occurrences(ev, localDay(2025, 3, 1, 0), localDay(2025, 3, 31, 0), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = Occurrences(ev, localDay(2025, 4, 1, 0), localDay(2025, 4, 30, 0), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOccurrences_InvalidInput(t *testing.T) {
	_, err := Occurrences(NormalizedEvent{Start: DateValue{Date: "bogus"}}, time.Now(), time.Now(), 0)
	assert.Error(t, err)

	_, err = Occurrences(NormalizedEvent{Start: DateValue{Date: "2025-01-01"}, RRule: "FREQ=NEVER"}, time.Now(), time.Now(), 0)
	assert.Error(t, err)
}
