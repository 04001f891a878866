package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recurring(p Pattern, start string) CareEvent {
	return CareEvent{
		ID:          "ev-1",
		IsRecurring: true,
		Recurrence:  Recurrence{Pattern: p, StartDate: start},
	}
}

func TestRecurrenceRule_Patterns(t *testing.T) {
	// 2025-01-01 es miércoles
	cases := []struct {
		name string
		ev   CareEvent
		want string
	}{
		{"daily", recurring(PatternDaily, "2025-01-01"), "FREQ=DAILY"},
		{"weekly derives day from start", recurring(PatternWeekly, "2025-01-01"), "FREQ=WEEKLY;BYDAY=WE"},
		{"biweekly derives day from start", recurring(PatternBiweekly, "2025-01-01"), "FREQ=WEEKLY;INTERVAL=2;BYDAY=WE"},
		{"monthly uses start day", recurring(PatternMonthly, "2025-01-21"), "FREQ=MONTHLY;BYMONTHDAY=21"},
		{"yearly", recurring(PatternYearly, "2025-01-01"), "FREQ=YEARLY"},
		{"unknown pattern", recurring(Pattern("hourly"), "2025-01-01"), ""},
		{"no pattern", recurring("", "2025-01-01"), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecurrenceRule(tc.ev))
		})
	}
}

func TestRecurrenceRule_NotRecurring(t *testing.T) {
	ev := recurring(PatternDaily, "2025-01-01")
	ev.IsRecurring = false
	assert.Empty(t, RecurrenceRule(ev))
}

func TestRecurrenceRule_ExplicitDayOfWeekWins(t *testing.T) {
	ev := recurring(PatternWeekly, "2025-01-01")
	ev.Recurrence.DayOfWeek = "Friday"
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=FR", RecurrenceRule(ev))
}

func TestRecurrenceRule_UnknownDayNameFallsBackToStart(t *testing.T) {
	ev := recurring(PatternWeekly, "2025-01-01")
	ev.Recurrence.DayOfWeek = "someday"
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=WE", RecurrenceRule(ev))
}

func TestRecurrenceRule_WeeklyWithoutDerivableDay(t *testing.T) {
	ev := recurring(PatternWeekly, "not-a-date")
	assert.Equal(t, "FREQ=WEEKLY", RecurrenceRule(ev))
}

func TestRecurrenceRule_MonthlyUntilClamp(t *testing.T) {
	ev := recurring(PatternMonthly, "2025-01-03")
	ev.Recurrence.DayOfMonth = 15
	ev.Recurrence.EndDate = "2026-06-30"

	assert.Equal(t, "FREQ=MONTHLY;BYMONTHDAY=15;UNTIL=20260630", RecurrenceRule(ev))
}

func TestRecurrenceRule_PatternIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "FREQ=DAILY", RecurrenceRule(recurring(Pattern("Daily"), "2025-01-01")))
}

func TestWeekdayCode(t *testing.T) {
	code, ok := WeekdayCode("2025-03-09")
	assert.True(t, ok)
	assert.Equal(t, "SU", code)

	_, ok = WeekdayCode("")
	assert.False(t, ok)
}

func TestParsePatternAndWeekday(t *testing.T) {
	p, ok := ParsePattern(" BiWeekly ")
	assert.True(t, ok)
	assert.Equal(t, PatternBiweekly, p)

	_, ok = ParsePattern("hourly")
	assert.False(t, ok)

	assert.True(t, ValidWeekday("Friday"))
	assert.False(t, ValidWeekday("fri"))
}
