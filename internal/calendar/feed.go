package calendar

import (
	"strings"
	"time"
)

const (
	ProductID = "-//Pet Care Records//Care Calendar//EN"

	DefaultCalendarName = "Pet Care Calendar"
	CalendarDescription = "Care events and vaccination reminders for your pets"

	// ContentType es el MIME con el que se sirve el documento.
	ContentType = "text/calendar; charset=utf-8"
)

// Build arma el documento VCALENDAR completo para el bundle.
// now se usa solo para DTSTAMP (no se persiste).
func Build(data FeedData, now time.Time) string {
	return Render(data.Name, Normalize(data), now)
}

// Render serializa eventos ya normalizados. Con lista vacía igual produce
// un documento sintácticamente completo.
func Render(name string, events []NormalizedEvent, now time.Time) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCalendarName
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ProductID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:" + EscapeText(name),
		"X-WR-CALDESC:" + EscapeText(CalendarDescription),
	}

	stamp := now.UTC().Format("20060102T150405Z")
	for _, ev := range events {
		lines = append(lines, eventLines(ev, stamp)...)
	}
	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(foldLine(l))
		b.WriteString(crlf)
	}
	return b.String()
}

func eventLines(ev NormalizedEvent, stamp string) []string {
	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + ev.UID,
		"DTSTAMP:" + stamp,
		dateProperty("DTSTART", ev.Start),
	}
	if ev.End != nil {
		lines = append(lines, dateProperty("DTEND", *ev.End))
	}
	lines = append(lines, "SUMMARY:"+EscapeText(ev.Summary))
	if ev.Description != "" {
		lines = append(lines, "DESCRIPTION:"+EscapeText(ev.Description))
	}
	if ev.Location != "" {
		lines = append(lines, "LOCATION:"+EscapeText(ev.Location))
	}
	if ev.RRule != "" {
		lines = append(lines, "RRULE:"+ev.RRule)
	}
	if len(ev.Categories) > 0 {
		lines = append(lines, "CATEGORIES:"+strings.Join(ev.Categories, ","))
	}
	return append(lines, "END:VEVENT")
}

// dateProperty: VALUE=DATE solo cuando no hay hora.
func dateProperty(name string, v DateValue) string {
	if v.AllDay() {
		return name + ";VALUE=DATE:" + FormatDate(v.Date)
	}
	return name + ":" + FormatDateTime(v.Date, v.Time)
}
