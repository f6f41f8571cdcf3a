package ticketmaster

import (
	"fmt"
	"strings"

	"nightspark/internal/domain/events"
	"nightspark/internal/normalize"
)

func (a *Adapter) normalize(raw rawEvent) (events.Event, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return events.Event{}, fmt.Errorf("%w: missing id", normalize.ErrMalformed)
	}
	if len(raw.Embedded.Venues) == 0 {
		return events.Event{}, fmt.Errorf("%w: missing venue", normalize.ErrMalformed)
	}
	if raw.Dates.Start.TimeTBA {
		return events.Event{}, fmt.Errorf("%w: start time TBA", normalize.ErrMalformed)
	}
	start, ok := normalize.Clock(raw.Dates.Start.LocalTime)
	if !ok {
		return events.Event{}, fmt.Errorf("%w: bad localTime %q", normalize.ErrMalformed, raw.Dates.Start.LocalTime)
	}

	t := a.tables
	rng := normalize.Seeded(Name + ":" + raw.ID)
	venue := raw.Embedded.Venues[0]
	segment, genre, subGenre := classification(raw.Classifications)

	name := strings.TrimSpace(raw.Name)
	if len(raw.Embedded.Attractions) > 0 && strings.TrimSpace(raw.Embedded.Attractions[0].Name) != "" {
		name = strings.TrimSpace(raw.Embedded.Attractions[0].Name)
	}

	var end *string
	if raw.Dates.End != nil {
		if v, ok := normalize.Clock(raw.Dates.End.LocalTime); ok {
			end = &v
		}
	}

	cats := t.ClassificationCategories(segment, genre, subGenre)

	price := -1
	for _, pr := range raw.PriceRanges {
		if c := normalize.Cents(pr.Min); price < 0 || c < price {
			price = c
		}
	}
	if price < 0 {
		price = t.FallbackPrice(rng)
	}

	legal21 := raw.AgeRestrictions != nil && raw.AgeRestrictions.LegalAgeEnforced

	desc := raw.Info
	if strings.TrimSpace(desc) == "" {
		desc = raw.PleaseNote
	}

	e := events.Event{
		ID:             "tm-" + raw.ID,
		Name:           name,
		Venue:          venue.Name,
		Address:        strings.TrimSpace(venue.Address.Line1),
		City:           strings.TrimSpace(venue.City.Name),
		State:          strings.TrimSpace(venue.State.StateCode),
		StartTime:      start,
		EndTime:        end,
		Price:          price,
		AgeRequirement: t.Age(legal21, false, segment, genre, subGenre),
		Categories:     cats,
		ImageURL:       bestImage(raw.Images),
		Description:    t.Description(desc, segment, genre, venue.Name),
		Kind:           events.KindScheduledEvent,
	}

	real := map[string]string{}
	if u := strings.TrimSpace(raw.URL); u != "" {
		real[events.LinkTicketmaster] = u
	}
	e.TicketLinks = t.TicketLinks(rng, venue.Name, cats, false, real)

	return t.Finish(e, rng)
}

// classification usa la primaria si existe, si no la primera.
func classification(cs []rawClassification) (segment, genre, subGenre string) {
	if len(cs) == 0 {
		return "", "", ""
	}
	c := cs[0]
	for _, x := range cs {
		if x.Primary {
			c = x
			break
		}
	}
	return c.Segment.Name, c.Genre.Name, c.SubGenre.Name
}

// bestImage: la más ancha 16_9; si no hay, la más ancha.
func bestImage(imgs []rawImage) string {
	best, bestWide := rawImage{}, rawImage{}
	for _, img := range imgs {
		if img.URL == "" {
			continue
		}
		if best.URL == "" || img.Width > best.Width {
			best = img
		}
		if img.Ratio == "16_9" && (bestWide.URL == "" || img.Width > bestWide.Width) {
			bestWide = img
		}
	}
	if bestWide.URL != "" {
		return bestWide.URL
	}
	return best.URL
}
