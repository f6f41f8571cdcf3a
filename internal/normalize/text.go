package normalize

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Description trunca el texto libre de la fuente o arma una frase con
// segment + genre + venue.
func (t *Tables) Description(text, segment, genre, venue string) string {
	if text = collapseSpaces(text); text != "" {
		return Truncate(text, t.DescriptionMax)
	}

	segment = strings.ToLower(cleanSignal(segment))
	genre = strings.ToLower(cleanSignal(genre))
	venue = strings.TrimSpace(venue)

	switch {
	case genre != "" && segment != "" && genre != segment:
		return "A " + genre + " " + segment + " night at " + venue + "."
	case genre != "":
		return "A " + genre + " night at " + venue + "."
	case segment != "":
		return "A " + segment + " night at " + venue + "."
	default:
		return "A night out at " + venue + "."
	}
}

// Truncate corta a max runas en el último límite de palabra y agrega "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	cut := max - 3
	if cut < 1 {
		cut = 1
	}
	head := string(r[:cut])
	if i := strings.LastIndexFunc(head, unicode.IsSpace); i > 0 {
		head = head[:i]
	}
	return strings.TrimRightFunc(head, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "..."
}

// Slugify: minúsculas, espacios => guiones, sin caracteres no alfanuméricos.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// Clock extrae "HH:MM" de un horario o timestamp local de la fuente.
// La fecha y la zona se descartan.
func Clock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range clockLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format("15:04"), true
		}
	}
	return "", false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
