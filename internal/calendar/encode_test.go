package calendar

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\\b\;c\,d\ne`, EscapeText("a\\b;c,d\ne"))
	assert.Equal(t, `line1\nline2`, EscapeText("line1\r\nline2"))
	assert.Equal(t, "plain", EscapeText("plain"))
}

func TestEscapeText_BackslashNotDoubleEscaped(t *testing.T) {
	// "\;" de origen debe quedar como barra escapada + punto y coma escapado
	assert.Equal(t, `\\\;`, EscapeText(`\;`))
}

func TestEscapeText_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		`C:\pets\buddy`,
		"Rabies; booster, annual",
		"multi\nline\n\ntext",
		`tricky \n literal`,
		"mix \\; ,\n\\\\",
	}
	for _, in := range inputs {
		assert.Equal(t, in, UnescapeText(EscapeText(in)), "input %q", in)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "20250310", FormatDate("2025-03-10"))
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "20250310T093000", FormatDateTime("2025-03-10", "09:30"))
	assert.Equal(t, "20250310T093015", FormatDateTime("2025-03-10", "09:30:15"))
	assert.Equal(t, "20250310", FormatDateTime("2025-03-10", ""))

	// hora sin cero a la izquierda se normaliza a dos dígitos
	assert.Equal(t, "20250310T093000", FormatDateTime("2025-03-10", "9:30"))
	assert.Equal(t, "20250310T090501", FormatDateTime("2025-03-10", "9:05:01"))

	// ilegible o fuera de rango: solo fecha, nunca un timestamp roto
	assert.Equal(t, "20250310", FormatDateTime("2025-03-10", "9:5"))
	assert.Equal(t, "20250310", FormatDateTime("2025-03-10", "25:00"))
	assert.Equal(t, "20250310", FormatDateTime("2025-03-10", "0930"))
}

func TestParseClock(t *testing.T) {
	c, ok := ParseClock(" 07:45 ")
	assert.True(t, ok)
	assert.Equal(t, 7, c.Hour())
	assert.Equal(t, 45, c.Minute())

	for _, bad := range []string{"", "9:5", "25:00", "12:60", "noon"} {
		_, ok := ParseClock(bad)
		assert.False(t, ok, "clock %q", bad)
	}
}

func TestFoldLine(t *testing.T) {
	short := "SUMMARY:short"
	assert.Equal(t, short, foldLine(short))

	long := "DESCRIPTION:" + strings.Repeat("ñandú ", 40)
	folded := foldLine(long)

	for _, physical := range strings.Split(folded, crlf) {
		assert.LessOrEqual(t, len(physical), maxLineOctet)
		assert.True(t, utf8.ValidString(physical), "fold split a rune: %q", physical)
	}
	assert.Equal(t, long, strings.ReplaceAll(folded, crlf+" ", ""))
}
