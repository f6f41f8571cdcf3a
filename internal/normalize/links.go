package normalize

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"nightspark/internal/domain/events"
)

// Formatos de deep-link por marketplace.
const (
	ticketmasterSearchURL = "https://www.ticketmaster.com/search?q="
	stubhubURLFormat      = "https://www.stubhub.com/%s-tickets"
	seatgeekURLFormat     = "https://seatgeek.com/venues/%s/tickets"
	websiteURLFormat      = "https://www.%s.com"
)

// TicketLinks decide qué marketplaces tendría un venue y arma los URLs.
//   - listado de venue o restaurante: solo "website"
//   - venue grande (keyword o sports): ticketmaster + chance de stubhub/seatgeek
//   - venue de música (keyword o music): seatgeek + chance de stubhub
//   - resto: solo los links reales que traiga la fuente
//
// real son los URLs que trajo la fuente (clave = nombre de la fuente); se
// conservan salvo en listados de venue.
func (t *Tables) TicketLinks(rng *rand.Rand, venue string, cats []events.Category, venueListing bool, real map[string]string) map[string]string {
	out := make(map[string]string, 3)
	slug := Slugify(venue)

	if venueListing || isDining(cats) {
		if slug != "" {
			out[events.LinkWebsite] = fmt.Sprintf(websiteURLFormat, slug)
		}
		return out
	}

	for k, v := range real {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	if slug == "" {
		return out
	}

	name := strings.ToLower(venue)
	switch {
	case containsAny(name, t.MajorVenueKeywords) || hasAny(cats, events.CategorySports):
		setIfAbsent(out, events.LinkTicketmaster, ticketmasterSearchURL+slug)
		if rng.Float64() < t.MajorSecondaryChance {
			if rng.IntN(2) == 0 {
				setIfAbsent(out, events.LinkStubHub, fmt.Sprintf(stubhubURLFormat, slug))
			} else {
				setIfAbsent(out, events.LinkSeatGeek, fmt.Sprintf(seatgeekURLFormat, slug))
			}
		}
	case containsAny(name, t.MusicVenueKeywords) || hasAny(cats, events.CategoryMusic):
		setIfAbsent(out, events.LinkSeatGeek, fmt.Sprintf(seatgeekURLFormat, slug))
		if rng.Float64() < t.MusicSecondaryChance {
			setIfAbsent(out, events.LinkStubHub, fmt.Sprintf(stubhubURLFormat, slug))
		}
	}
	return out
}

func isDining(cats []events.Category) bool {
	return hasAny(cats, events.CategoryRestaurant, events.CategoryFastFood)
}

func hasAny(cats []events.Category, want ...events.Category) bool {
	return events.Event{Categories: cats}.HasCategory(want...)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func setIfAbsent(m map[string]string, k, v string) {
	if _, ok := m[k]; !ok {
		m[k] = v
	}
}
