package normalize

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"nightspark/internal/domain/events"
	"nightspark/internal/platform/validation"
)

// ErrMalformed marca un registro que se descarta (no aborta el batch).
var ErrMalformed = errors.New("malformed record")

// Finish aplica los invariantes del Event canónico sobre lo que armó un adapter:
// vocabulario cerrado, precio >= 0, edad válida, imagen siempre presente,
// kind explícito y listados de venue sin links de marketplace.
func (t *Tables) Finish(e events.Event, rng *rand.Rand) (events.Event, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Venue = strings.TrimSpace(e.Venue)
	if e.Venue == "" {
		return events.Event{}, fmt.Errorf("%w: missing venue (id=%s)", ErrMalformed, e.ID)
	}
	if e.Name == "" {
		e.Name = e.Venue
	}
	if !validation.IsClock(e.StartTime) {
		return events.Event{}, fmt.Errorf("%w: bad startTime %q (id=%s)", ErrMalformed, e.StartTime, e.ID)
	}
	if e.EndTime != nil && !validation.IsClock(*e.EndTime) {
		e.EndTime = nil
	}

	cats := make([]events.Category, 0, len(e.Categories))
	for _, c := range e.Categories {
		if c.Valid() {
			cats = appendUnique(cats, c)
		}
	}
	e.Categories = cats

	if e.Price < 0 {
		e.Price = 0
	}
	if !e.AgeRequirement.Valid() {
		e.AgeRequirement = events.AgeAll
	}
	if strings.TrimSpace(e.ImageURL) == "" {
		e.ImageURL = t.Image(e.Categories)
	}
	if e.TicketLinks == nil {
		e.TicketLinks = map[string]string{}
	}

	if e.Kind == "" {
		e.Kind = events.KindScheduledEvent
	}
	if e.LooksLikeVenueListing() {
		e.Kind = events.KindVenueListing
	}
	if e.Kind == events.KindVenueListing {
		for k := range e.TicketLinks {
			if events.IsMarketplace(k) {
				delete(e.TicketLinks, k)
			}
		}
	}

	if e.MaxCapacity == nil {
		cur, capacity := Attendance(rng)
		e.CurrentAttendees = &cur
		e.MaxCapacity = &capacity
	}
	return e, nil
}
