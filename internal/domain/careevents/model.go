package careevents

import (
	"time"

	"pet-care-records/internal/calendar"
)

// CareEvent es un evento de cuidado agendado (turno, baño, medicación...).
// Fechas y horas se guardan como texto local (YYYY-MM-DD / HH:MM) porque el
// feed las publica como horas flotantes.
type CareEvent struct {
	ID    string
	PetID string

	Type        calendar.EventType
	Title       string
	Description string

	Date string
	Time string

	IsRecurring bool
	Recurrence  calendar.Recurrence

	Location string
	Notes    string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToCalendar arma la fila que consume el feed.
func (e CareEvent) ToCalendar(petName string) calendar.CareEvent {
	return calendar.CareEvent{
		ID:          e.ID,
		PetID:       e.PetID,
		PetName:     petName,
		Type:        e.Type,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		IsRecurring: e.IsRecurring,
		Recurrence:  e.Recurrence,
		Location:    e.Location,
		Notes:       e.Notes,
	}
}
