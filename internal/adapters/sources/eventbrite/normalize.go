package eventbrite

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
	if raw.OnlineEvent || raw.Venue == nil || strings.TrimSpace(raw.Venue.Name) == "" {
		return events.Event{}, fmt.Errorf("%w: missing venue", normalize.ErrMalformed)
	}
	start, ok := normalize.Clock(raw.Start.Local)
	if !ok {
		return events.Event{}, fmt.Errorf("%w: bad start %q", normalize.ErrMalformed, raw.Start.Local)
	}

	t := a.tables
	rng := normalize.Seeded(Name + ":" + raw.ID)
	venue := raw.Venue

	var end *string
	if raw.End != nil {
		if v, ok := normalize.Clock(raw.End.Local); ok {
			end = &v
		}
	}

	category, subcategory, format := name(raw.Category), name(raw.Subcategory), name(raw.Format)
	cats := t.ClassificationCategories(category, subcategory, format)

	var price int
	switch {
	case raw.IsFree:
		price = 0
	case raw.TicketAvailability != nil && raw.TicketAvailability.MinimumTicketPrice != nil:
		price = raw.TicketAvailability.MinimumTicketPrice.Value
	default:
		price = t.FallbackPrice(rng)
	}

	desc := raw.Summary
	if strings.TrimSpace(desc) == "" {
		desc = raw.Description.Text
	}

	var image string
	if raw.Logo != nil {
		image = raw.Logo.URL
	}

	e := events.Event{
		ID:             "eb-" + raw.ID,
		Name:           raw.Name.Text,
		Venue:          venue.Name,
		Address:        strings.TrimSpace(venue.Address.Address1),
		City:           strings.TrimSpace(venue.Address.City),
		State:          strings.TrimSpace(venue.Address.Region),
		StartTime:      start,
		EndTime:        end,
		Price:          price,
		AgeRequirement: t.Age(false, false, category, subcategory, format),
		Categories:     cats,
		ImageURL:       image,
		Description:    t.Description(desc, category, subcategory, venue.Name),
		Kind:           events.KindScheduledEvent,
	}

	real := map[string]string{}
	if u := strings.TrimSpace(raw.URL); u != "" {
		real[events.LinkEventbrite] = u
	}
	e.TicketLinks = t.TicketLinks(rng, venue.Name, cats, false, real)

	return t.Finish(e, rng)
}

func name(c *rawCategory) string {
	if c == nil {
		return ""
	}
	return c.Name
}
