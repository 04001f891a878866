package calendar

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func buddyFeed() FeedData {
	return FeedData{
		Pets: []PetRef{{ID: "p1", Name: "Buddy"}},
		CareEvents: []CareEvent{{
			ID:      "c1",
			PetID:   "p1",
			PetName: "Buddy",
			Type:    EventTypeMedication,
			Title:   "Heartworm pill",
			Date:    "2025-03-10",
		}},
		Vaccinations: []VaccinationExpiry{{
			ID:             "v1",
			PetID:          "p1",
			PetName:        "Buddy",
			VaccineName:    "Rabies",
			ExpirationDate: "2025-04-01",
		}},
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	doc := Build(buddyFeed(), fixedNow)

	assert.Equal(t, 2, strings.Count(doc, "BEGIN:VEVENT"))

	first := strings.Index(doc, "SUMMARY:[Buddy] Heartworm pill")
	second := strings.Index(doc, "SUMMARY:[Buddy] Rabies Expires")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)

	assert.Contains(t, doc, "DTSTART;VALUE=DATE:20250310\r\n")
	assert.Contains(t, doc, "DTSTART;VALUE=DATE:20250401\r\n")
	assert.Less(t, strings.Index(doc, "DTSTART;VALUE=DATE:20250310"), second)
	assert.Contains(t, doc, "DTSTAMP:20250301T120000Z\r\n")
}

func TestBuild_HeaderAndCRLF(t *testing.T) {
	doc := Build(FeedData{Name: "Buddy, Milo; family"}, fixedNow)

	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:"+ProductID+"\r\n"))
	assert.Contains(t, doc, "CALSCALE:GREGORIAN\r\n")
	assert.Contains(t, doc, "METHOD:PUBLISH\r\n")
	assert.Contains(t, doc, `X-WR-CALNAME:Buddy\, Milo\; family`+"\r\n")
	assert.Contains(t, doc, "X-WR-CALDESC:")
	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))

	// ningún LF suelto
	assert.Equal(t, strings.Count(doc, "\n"), strings.Count(doc, "\r\n"))
}

func TestBuild_EmptyIsComplete(t *testing.T) {
	doc := Build(FeedData{}, fixedNow)

	assert.Contains(t, doc, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, doc, "X-WR-CALNAME:"+DefaultCalendarName+"\r\n")
	assert.NotContains(t, doc, "BEGIN:VEVENT")
	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))
}

func TestBuild_TimedVersusDateOnly(t *testing.T) {
	data := FeedData{CareEvents: []CareEvent{
		{ID: "t", PetName: "Buddy", Title: "Timed", Date: "2025-03-10", Time: "14:15"},
		{ID: "d", PetName: "Buddy", Title: "Dated", Date: "2025-03-11"},
	}}
	doc := Build(data, fixedNow)

	assert.Contains(t, doc, "DTSTART:20250310T141500\r\n")
	assert.NotContains(t, doc, "DTSTART;VALUE=DATE:20250310")
	assert.Contains(t, doc, "DTSTART;VALUE=DATE:20250311\r\n")
}

func TestBuild_LooseClockNeverBreaksDTSTART(t *testing.T) {
	data := FeedData{CareEvents: []CareEvent{
		{ID: "a", PetName: "Buddy", Title: "Pill", Date: "2025-03-10", Time: "9:30"},
		{ID: "b", PetName: "Buddy", Title: "Vet", Date: "2025-03-11", Time: "25:00"},
	}}
	doc := Build(data, fixedNow)

	assert.Contains(t, doc, "DTSTART:20250310T093000\r\n")
	assert.Contains(t, doc, "DTSTART;VALUE=DATE:20250311\r\n")
	assert.NotContains(t, doc, "T930")

	cal, err := ical.ParseCalendar(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)

	for _, ev := range Normalize(data) {
		starts, err := Occurrences(ev, time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local), 0)
		require.NoError(t, err)
		assert.Len(t, starts, 1)
	}
}

func TestBuild_EventProperties(t *testing.T) {
	data := FeedData{CareEvents: []CareEvent{{
		ID:          "r1",
		PetName:     "Buddy",
		Type:        EventTypeGrooming,
		Title:       "Trim, wash",
		Location:    "Main St; Suite 2",
		IsRecurring: true,
		Recurrence:  Recurrence{Pattern: PatternMonthly, DayOfMonth: 15, StartDate: "2025-01-15", EndDate: "2026-06-30"},
	}}}
	doc := Build(data, fixedNow)

	assert.Contains(t, doc, "UID:care-r1@"+UIDDomain+"\r\n")
	assert.Contains(t, doc, `SUMMARY:[Buddy] Trim\, wash`+"\r\n")
	assert.Contains(t, doc, `DESCRIPTION:Pet: Buddy\nType: Grooming`+"\r\n")
	assert.Contains(t, doc, `LOCATION:Main St\; Suite 2`+"\r\n")
	assert.Contains(t, doc, "RRULE:FREQ=MONTHLY;BYMONTHDAY=15;UNTIL=20260630\r\n")
	assert.Contains(t, doc, "CATEGORIES:Grooming,Buddy\r\n")
}

func TestRender_WithEnd(t *testing.T) {
	doc := Render("", []NormalizedEvent{{
		UID:     "x@" + UIDDomain,
		Summary: "s",
		Start:   DateValue{Date: "2025-01-01"},
		End:     &DateValue{Date: "2025-01-02"},
	}}, fixedNow)

	assert.Contains(t, doc, "DTEND;VALUE=DATE:20250102\r\n")
}

func TestBuild_ParsesWithStandardParser(t *testing.T) {
	data := buddyFeed()
	data.CareEvents = append(data.CareEvents, CareEvent{
		ID:          "c2",
		PetName:     "Buddy",
		Type:        EventTypeVetAppointment,
		Title:       "Checkup",
		Description: "Long visit " + strings.Repeat("with many details ", 10),
		Date:        "2025-03-12",
		Time:        "10:00",
	})

	cal, err := ical.ParseCalendar(strings.NewReader(Build(data, fixedNow)))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 3)

	summary := events[0].GetProperty(ical.ComponentPropertySummary)
	require.NotNil(t, summary)
	assert.Equal(t, "[Buddy] Heartworm pill", summary.Value)

	start := events[1].GetProperty(ical.ComponentPropertyDtStart)
	require.NotNil(t, start)
	assert.Equal(t, "20250401", start.Value)
	assert.Equal(t, []string{"DATE"}, start.ICalParameters["VALUE"])

	timed := events[2].GetProperty(ical.ComponentPropertyDtStart)
	require.NotNil(t, timed)
	assert.Equal(t, "20250312T100000", timed.Value)
	_, hasValue := timed.ICalParameters["VALUE"]
	assert.False(t, hasValue)

	uid := events[2].GetProperty(ical.ComponentPropertyUniqueId)
	require.NotNil(t, uid)
	assert.Equal(t, "care-c2@"+UIDDomain, uid.Value)
}
