// Package calendar convierte eventos de cuidado y vencimientos de vacunas en un
// feed iCalendar (RFC 5545) suscribible. Todo el paquete es puro: no hace I/O,
// no guarda estado y nunca falla por filas incompletas (se descartan).
package calendar

// EventType es el tipo de evento de cuidado tal como viene de storage.
type EventType string

const (
	EventTypeVetAppointment EventType = "vet_appointment"
	EventTypeGrooming       EventType = "grooming"
	EventTypeMedication     EventType = "medication"
	EventTypeVaccination    EventType = "vaccination"
)

// Pattern es el modelo simplificado de recurrencia que maneja la app.
type Pattern string

const (
	PatternDaily    Pattern = "daily"
	PatternWeekly   Pattern = "weekly"
	PatternBiweekly Pattern = "biweekly"
	PatternMonthly  Pattern = "monthly"
	PatternYearly   Pattern = "yearly"
)

// Recurrence agrupa los campos de recurrencia de un CareEvent.
// Fechas en formato YYYY-MM-DD; string vacío = ausente.
type Recurrence struct {
	Pattern    Pattern
	DayOfMonth int    // 0 = no definido
	DayOfWeek  string // "monday", "Tuesday", ... (opcional)
	StartDate  string
	EndDate    string
}

// CareEvent es la fila de evento de cuidado que consume el feed (solo lectura).
type CareEvent struct {
	ID      string
	PetID   string
	PetName string

	Type        EventType
	Title       string
	Description string

	Date string // YYYY-MM-DD
	Time string // HH:MM o HH:MM:SS

	IsRecurring bool
	Recurrence  Recurrence

	Location string
	Notes    string
}

// VaccinationExpiry es el vencimiento de una vacuna proyectado como recordatorio.
type VaccinationExpiry struct {
	ID             string
	PetID          string
	PetName        string
	VaccineName    string
	ExpirationDate string // YYYY-MM-DD
	Notes          string
}

// PetRef identifica una mascota accesible desde el feed.
type PetRef struct {
	ID   string
	Name string
}

// FeedData es el bundle que arma la capa de queries (scoping fuera de este paquete).
type FeedData struct {
	Name         string
	Pets         []PetRef
	CareEvents   []CareEvent
	Vaccinations []VaccinationExpiry
}

// DateValue es una fecha con hora opcional, en sus formas léxicas de origen.
type DateValue struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM[:SS]; vacío o inválido => valor solo-fecha (VALUE=DATE)
}

// AllDay indica si el valor debe emitirse como VALUE=DATE.
func (d DateValue) AllDay() bool {
	_, ok := ParseClock(d.Time)
	return !ok
}

// NormalizedEvent es la unidad canónica que consume el ensamblador.
type NormalizedEvent struct {
	UID         string
	Summary     string
	Description string
	Start       DateValue
	End         *DateValue
	Location    string
	RRule       string
	Categories  []string
}
