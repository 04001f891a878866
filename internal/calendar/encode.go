package calendar

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	dateLayout = "2006-01-02"

	crlf         = "\r\n"
	maxLineOctet = 75
)

// El orden importa: la barra invertida va primero para no re-escapar
// las que introducen los reemplazos siguientes.
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// EscapeText escapa un valor TEXT según RFC 5545 §3.3.11.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// UnescapeText revierte EscapeText.
func UnescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FormatDate convierte YYYY-MM-DD a YYYYMMDD.
func FormatDate(date string) string {
	return strings.ReplaceAll(strings.TrimSpace(date), "-", "")
}

// FormatDateTime convierte fecha + hora opcional a YYYYMMDDTHHMMSS.
// Sin hora, o con una hora que no se puede interpretar, devuelve la fecha
// compacta; el llamador marca VALUE=DATE.
func FormatDateTime(date, clock string) string {
	d := FormatDate(date)
	t, ok := ParseClock(clock)
	if !ok {
		return d
	}
	return d + "T" + t.Format("150405")
}

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock interpreta HH:MM o HH:MM:SS. La hora puede venir sin cero a la
// izquierda ("9:30"); minutos y segundos siempre con dos dígitos.
func ParseClock(clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeClock devuelve la hora como HH:MM:SS, o "" si no es válida.
func normalizeClock(clock string) string {
	t, ok := ParseClock(clock)
	if !ok {
		return ""
	}
	return t.Format("15:04:05")
}

// foldLine parte líneas de más de 75 octetos (CRLF + espacio) sin cortar UTF-8.
func foldLine(line string) string {
	if len(line) <= maxLineOctet {
		return line
	}
	var b strings.Builder
	limit := maxLineOctet
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString(crlf)
		b.WriteByte(' ')
		line = line[cut:]
		// las líneas de continuación ya llevan el espacio inicial
		limit = maxLineOctet - 1
	}
	b.WriteString(line)
	return b.String()
}
