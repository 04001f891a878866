package calendar

import "strings"

const (
	// UIDDomain es el sufijo de namespace de todos los UID del feed.
	UIDDomain = "pet-care-records"

	careUIDPrefix       = "care-"
	vaccineExpUIDPrefix = "vax-exp-"
)

var eventTypeLabels = map[EventType]string{
	EventTypeVetAppointment: "Vet Appointment",
	EventTypeGrooming:       "Grooming",
	EventTypeMedication:     "Medication",
	EventTypeVaccination:    "Vaccination",
}

// TypeLabel devuelve la etiqueta visible del tipo; tipos desconocidos se muestran crudos.
func TypeLabel(t EventType) string {
	if l, ok := eventTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// CareUID y VaccinationExpiryUID son deterministas: misma fila => mismo UID,
// así los clientes de calendario deduplican entre refrescos.
func CareUID(id string) string {
	return careUIDPrefix + id + "@" + UIDDomain
}

func VaccinationExpiryUID(id string) string {
	return vaccineExpUIDPrefix + id + "@" + UIDDomain
}

// Normalize mapea las filas del bundle a eventos uniformes.
// Orden: eventos de cuidado (orden de entrada) y después vencimientos.
// Filas sin fecha utilizable se descartan en silencio.
func Normalize(data FeedData) []NormalizedEvent {
	out := make([]NormalizedEvent, 0, len(data.CareEvents)+len(data.Vaccinations))

	for _, ev := range data.CareEvents {
		if n, ok := normalizeCareEvent(ev); ok {
			out = append(out, n)
		}
	}
	for _, v := range data.Vaccinations {
		if n, ok := normalizeVaccination(v); ok {
			out = append(out, n)
		}
	}
	return out
}

func normalizeCareEvent(ev CareEvent) (NormalizedEvent, bool) {
	label := TypeLabel(ev.Type)

	var start DateValue
	var rrule string
	if ev.IsRecurring {
		if strings.TrimSpace(ev.Recurrence.StartDate) == "" {
			return NormalizedEvent{}, false
		}
		start = DateValue{Date: ev.Recurrence.StartDate, Time: normalizeClock(ev.Time)}
		rrule = RecurrenceRule(ev)
	} else {
		if strings.TrimSpace(ev.Date) == "" {
			return NormalizedEvent{}, false
		}
		start = DateValue{Date: ev.Date, Time: normalizeClock(ev.Time)}
	}

	lines := make([]string, 0, 4)
	if d := strings.TrimSpace(ev.Description); d != "" {
		lines = append(lines, d)
	}
	if n := strings.TrimSpace(ev.Notes); n != "" {
		lines = append(lines, "Notes: "+n)
	}
	lines = append(lines, "Pet: "+ev.PetName, "Type: "+label)

	return NormalizedEvent{
		UID:         CareUID(ev.ID),
		Summary:     "[" + ev.PetName + "] " + ev.Title,
		Description: strings.Join(lines, "\n"),
		Start:       start,
		Location:    strings.TrimSpace(ev.Location),
		RRule:       rrule,
		Categories:  []string{label, ev.PetName},
	}, true
}

func normalizeVaccination(v VaccinationExpiry) (NormalizedEvent, bool) {
	if strings.TrimSpace(v.ExpirationDate) == "" {
		return NormalizedEvent{}, false
	}

	lines := []string{
		"Vaccine expiring: " + v.VaccineName,
		"Pet: " + v.PetName,
	}
	if n := strings.TrimSpace(v.Notes); n != "" {
		lines = append(lines, "Notes: "+n)
	}

	return NormalizedEvent{
		UID:         VaccinationExpiryUID(v.ID),
		Summary:     "[" + v.PetName + "] " + v.VaccineName + " Expires",
		Description: strings.Join(lines, "\n"),
		// siempre todo el día, aunque existan horas en otros datos
		Start:      DateValue{Date: v.ExpirationDate},
		Categories: []string{"Vaccination", "Reminder", v.PetName},
	}, true
}
