package places

import (
	"fmt"
	"strings"

	"nightspark/internal/domain/events"
	"nightspark/internal/normalize"
)

// normalize arma un listado de venue: name == venue, horario por tipo,
// sin links de marketplace. Las fotos de Places no se exponen (el URL lleva la key).
func (a *Adapter) normalize(raw rawPlace) (events.Event, error) {
	if strings.TrimSpace(raw.PlaceID) == "" {
		return events.Event{}, fmt.Errorf("%w: missing place_id", normalize.ErrMalformed)
	}
	if raw.BusinessStatus != "" && raw.BusinessStatus != "OPERATIONAL" {
		return events.Event{}, fmt.Errorf("%w: business status %s", normalize.ErrMalformed, raw.BusinessStatus)
	}

	t := a.tables
	rng := normalize.Seeded(Name + ":" + raw.PlaceID)
	name := strings.TrimSpace(raw.Name)

	cats := t.PlaceCategories(name, raw.Types)
	start, end := t.Schedule(raw.Types)

	level := 0
	if raw.PriceLevel != nil {
		level = *raw.PriceLevel
	}

	var summary string
	if raw.Rating > 0 && raw.UserRatingsTotal > 0 {
		summary = fmt.Sprintf("Rated %.1f by %d visitors.", raw.Rating, raw.UserRatingsTotal)
	}

	e := events.Event{
		ID:             "gp-" + raw.PlaceID,
		Name:           name,
		Venue:          name,
		Address:        strings.TrimSpace(raw.Vicinity),
		StartTime:      start,
		EndTime:        &end,
		Price:          t.PlacePrice(rng, raw.Types, level),
		AgeRequirement: t.PlaceAge(raw.Types),
		Categories:     cats,
		Description:    t.Description(summary, typeLabel(raw.Types), "", name),
		Kind:           events.KindVenueListing,
	}
	e.TicketLinks = t.TicketLinks(rng, name, cats, true, nil)

	return t.Finish(e, rng)
}

// typeLabel: primer tipo legible ("night_club" => "night club").
func typeLabel(types []string) string {
	for _, ty := range types {
		if ty == "point_of_interest" || ty == "establishment" {
			continue
		}
		return strings.ReplaceAll(ty, "_", " ")
	}
	return ""
}
