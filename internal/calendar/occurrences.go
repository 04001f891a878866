package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// In interpreta el valor como instante en loc. Sin hora => medianoche.
func (d DateValue) In(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if d.AllDay() {
		return time.ParseInLocation(dateLayout, strings.TrimSpace(d.Date), loc)
	}
	return time.ParseInLocation("20060102T150405", FormatDateTime(d.Date, d.Time), loc)
}

// Occurrences expande un evento normalizado a los inicios concretos dentro de
// [from, to]. limit <= 0 significa sin tope. Se usa para el preview de
// "próximos cuidados"; el feed en sí nunca expande.
func Occurrences(ev NormalizedEvent, from, to time.Time, limit int) ([]time.Time, error) {
	start, err := ev.Start.In(time.Local)
	if err != nil {
		return nil, fmt.Errorf("occurrences %s: invalid start: %w", ev.UID, err)
	}

	if ev.RRule == "" {
		if start.Before(from) || start.After(to) {
			return nil, nil
		}
		return []time.Time{start}, nil
	}

	opt, err := rrule.StrToROptionInLocation(ev.RRule, time.Local)
	if err != nil {
		return nil, fmt.Errorf("occurrences %s: parse rrule: %w", ev.UID, err)
	}
	opt.Dtstart = start
	// UNTIL solo-fecha es inclusivo: cubre todo ese día aunque el evento tenga hora.
	if !opt.Until.IsZero() && untilIsDateOnly(ev.RRule) {
		opt.Until = opt.Until.Add(24*time.Hour - time.Second)
	}

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("occurrences %s: build rrule: %w", ev.UID, err)
	}

	out := r.Between(from, to, true)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func untilIsDateOnly(rule string) bool {
	for _, part := range strings.Split(rule, ";") {
		if v, ok := strings.CutPrefix(strings.ToUpper(part), "UNTIL="); ok {
			return !strings.Contains(v, "T")
		}
	}
	return false
}
