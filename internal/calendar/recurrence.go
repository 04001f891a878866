package calendar

import (
	"strconv"
	"strings"
	"time"
)

var weekdayCodes = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// RecurrenceRule arma el valor de RRULE para un evento recurrente.
// Devuelve "" si el evento no es recurrente, no tiene patrón o el patrón es
// desconocido. Si falta información derivable, la regla sale más angosta
// (sin BYDAY / BYMONTHDAY), nunca un error.
func RecurrenceRule(ev CareEvent) string {
	if !ev.IsRecurring {
		return ""
	}
	rec := ev.Recurrence

	pattern, _ := ParsePattern(string(rec.Pattern))

	var parts []string
	switch pattern {
	case PatternDaily:
		parts = append(parts, "FREQ=DAILY")
	case PatternWeekly:
		parts = append(parts, "FREQ=WEEKLY")
		if day := byDay(rec); day != "" {
			parts = append(parts, "BYDAY="+day)
		}
	case PatternBiweekly:
		parts = append(parts, "FREQ=WEEKLY", "INTERVAL=2")
		if day := byDay(rec); day != "" {
			parts = append(parts, "BYDAY="+day)
		}
	case PatternMonthly:
		parts = append(parts, "FREQ=MONTHLY")
		if n := byMonthDay(rec); n > 0 {
			parts = append(parts, "BYMONTHDAY="+strconv.Itoa(n))
		}
	case PatternYearly:
		// mes/día quedan implícitos en DTSTART
		parts = append(parts, "FREQ=YEARLY")
	default:
		return ""
	}

	if end := strings.TrimSpace(rec.EndDate); end != "" {
		if until := FormatDate(end); until != "" {
			parts = append(parts, "UNTIL="+until)
		}
	}

	return strings.Join(parts, ";")
}

// byDay: día explícito si se reconoce; si no, el día de la semana de la fecha de inicio.
func byDay(rec Recurrence) string {
	if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(rec.DayOfWeek))]; ok {
		return weekdayCodes[wd]
	}
	start, ok := parseLocalDate(rec.StartDate)
	if !ok {
		return ""
	}
	return weekdayCodes[start.Weekday()]
}

func byMonthDay(rec Recurrence) int {
	if rec.DayOfMonth >= 1 && rec.DayOfMonth <= 31 {
		return rec.DayOfMonth
	}
	start, ok := parseLocalDate(rec.StartDate)
	if !ok {
		return 0
	}
	return start.Day()
}

// WeekdayCode devuelve la abreviatura RRULE (SU..SA) de una fecha YYYY-MM-DD.
func WeekdayCode(date string) (string, bool) {
	t, ok := parseLocalDate(date)
	if !ok {
		return "", false
	}
	return weekdayCodes[t.Weekday()], true
}

// parseLocalDate interpreta la fecha en la zona local del servidor.
func parseLocalDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParsePattern normaliza un patrón (case-insensitive) y dice si es conocido.
func ParsePattern(s string) (Pattern, bool) {
	p := Pattern(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PatternDaily, PatternWeekly, PatternBiweekly, PatternMonthly, PatternYearly:
		return p, true
	}
	return p, false
}

// ValidWeekday acepta nombres en inglés ("monday", "Friday").
func ValidWeekday(name string) bool {
	_, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
