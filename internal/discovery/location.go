package discovery

import (
	"strings"
)

// Location es el texto de búsqueda ya partido; Lat/Lng solo si hubo geocoding.
type Location struct {
	Text  string
	City  string
	State string

	Lat       float64
	Lng       float64
	HasCoords bool
}

// ParseLocation: "San Francisco, CA" => City "San Francisco", State "CA".
// Sin coma todo el texto es la ciudad.
func ParseLocation(text string) Location {
	text = strings.Join(strings.Fields(text), " ")
	loc := Location{Text: text}

	parts := strings.Split(text, ",")
	loc.City = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		loc.State = strings.TrimSpace(parts[1])
	}
	return loc
}

func (l Location) WithCoords(lat, lng float64) Location {
	l.Lat, l.Lng, l.HasCoords = lat, lng, true
	return l
}
