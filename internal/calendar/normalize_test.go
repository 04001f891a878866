package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CareEvent(t *testing.T) {
	data := FeedData{
		CareEvents: []CareEvent{{
			ID:          "e1",
			PetName:     "Buddy",
			Type:        EventTypeVetAppointment,
			Title:       "Checkup",
			Description: "Annual exam",
			Notes:       "Bring records",
			Date:        "2025-03-10",
			Time:        "09:30",
			Location:    "Downtown Clinic",
		}},
	}

	out := Normalize(data)
	require.Len(t, out, 1)

	ev := out[0]
	assert.Equal(t, "care-e1@"+UIDDomain, ev.UID)
	assert.Equal(t, "[Buddy] Checkup", ev.Summary)
	assert.Equal(t, "Annual exam\nNotes: Bring records\nPet: Buddy\nType: Vet Appointment", ev.Description)
	assert.Equal(t, DateValue{Date: "2025-03-10", Time: "09:30:00"}, ev.Start)
	assert.Equal(t, "Downtown Clinic", ev.Location)
	assert.Empty(t, ev.RRule)
	assert.Equal(t, []string{"Vet Appointment", "Buddy"}, ev.Categories)
}

func TestNormalize_UnknownTypeUsesRawLabel(t *testing.T) {
	out := Normalize(FeedData{CareEvents: []CareEvent{{
		ID: "e1", PetName: "Milo", Type: "walk", Title: "Park", Date: "2025-03-10",
	}}})
	require.Len(t, out, 1)
	assert.Equal(t, "Pet: Milo\nType: walk", out[0].Description)
	assert.Equal(t, []string{"walk", "Milo"}, out[0].Categories)
}

func TestNormalize_RecurringUsesRecurrenceStart(t *testing.T) {
	out := Normalize(FeedData{CareEvents: []CareEvent{{
		ID:          "e2",
		PetName:     "Buddy",
		Type:        EventTypeMedication,
		Title:       "Pill",
		Date:        "2024-12-01",
		Time:        "08:00",
		IsRecurring: true,
		Recurrence:  Recurrence{Pattern: PatternWeekly, StartDate: "2025-01-01"},
	}}})
	require.Len(t, out, 1)
	assert.Equal(t, DateValue{Date: "2025-01-01", Time: "08:00:00"}, out[0].Start)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=WE", out[0].RRule)
}

func TestNormalize_RecurringWithoutStartIsDropped(t *testing.T) {
	out := Normalize(FeedData{CareEvents: []CareEvent{{
		ID:          "e3",
		Title:       "Pill",
		Date:        "2025-01-01",
		IsRecurring: true,
		Recurrence:  Recurrence{Pattern: PatternDaily},
	}}})
	assert.Empty(t, out)
}

func TestNormalize_ClockIsCanonicalized(t *testing.T) {
	out := Normalize(FeedData{CareEvents: []CareEvent{
		{ID: "a", PetName: "Buddy", Title: "Pill", Date: "2025-03-10", Time: "9:30"},
		{ID: "b", PetName: "Buddy", Title: "Walk", Date: "2025-03-10", Time: "9:5"},
		{ID: "c", PetName: "Buddy", Title: "Vet", Date: "2025-03-10", Time: "25:00"},
	}})
	require.Len(t, out, 3)

	assert.Equal(t, "09:30:00", out[0].Start.Time)
	assert.False(t, out[0].Start.AllDay())

	// hora ilegible: el evento queda como día completo
	assert.True(t, out[1].Start.AllDay())
	assert.True(t, out[2].Start.AllDay())
}

func TestNormalize_DropOnMissingDate(t *testing.T) {
	ev := CareEvent{ID: "e4", PetName: "Buddy", Type: EventTypeGrooming, Title: "Bath"}

	assert.Len(t, Normalize(FeedData{CareEvents: []CareEvent{ev}}), 0)

	ev.Date = "2025-05-05"
	assert.Len(t, Normalize(FeedData{CareEvents: []CareEvent{ev}}), 1)
}

func TestNormalize_Vaccination(t *testing.T) {
	out := Normalize(FeedData{Vaccinations: []VaccinationExpiry{
		{ID: "v1", PetName: "Buddy", VaccineName: "Rabies", ExpirationDate: "2025-04-01", Notes: "3-year"},
		{ID: "v2", PetName: "Buddy", VaccineName: "Lepto"},
	}})
	require.Len(t, out, 1)

	ev := out[0]
	assert.Equal(t, "vax-exp-v1@"+UIDDomain, ev.UID)
	assert.Equal(t, "[Buddy] Rabies Expires", ev.Summary)
	assert.Equal(t, "Vaccine expiring: Rabies\nPet: Buddy\nNotes: 3-year", ev.Description)
	assert.True(t, ev.Start.AllDay())
	assert.Equal(t, []string{"Vaccination", "Reminder", "Buddy"}, ev.Categories)
}

func TestNormalize_UIDsAreStable(t *testing.T) {
	data := FeedData{
		CareEvents:   []CareEvent{{ID: "a", Title: "x", Date: "2025-01-01"}},
		Vaccinations: []VaccinationExpiry{{ID: "b", ExpirationDate: "2025-01-02"}},
	}

	first := Normalize(data)
	second := Normalize(data)
	require.Len(t, first, 2)
	for i := range first {
		assert.Equal(t, first[i].UID, second[i].UID)
	}
	assert.Equal(t, "care-a@"+UIDDomain, first[0].UID)
	assert.Equal(t, "vax-exp-b@"+UIDDomain, first[1].UID)
}
