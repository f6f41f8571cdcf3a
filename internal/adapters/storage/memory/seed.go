package memory

import (
	"time"

	"nightspark/internal/domain/events"
)

// SeedEvents es el set curado a mano que responde GET /api/events sin location.
func SeedEvents(now time.Time) []events.Event {
	end := func(s string) *string { return &s }
	seats := func(n int) *int { return &n }

	seed := []events.Event{
		{
			ID:             "seed-jazz-blue-room",
			Name:           "Late Night Jazz",
			Venue:          "The Blue Room",
			Address:        "412 Valencia St",
			City:           "San Francisco",
			State:          "CA",
			StartTime:      "21:30",
			EndTime:        end("23:45"),
			Price:          1800,
			AgeRequirement: events.Age21,
			Categories:     []events.Category{events.CategoryMusic, events.CategoryDrinks},
			TicketLinks:    map[string]string{events.LinkSeatGeek: "https://seatgeek.com/venues/the-blue-room/tickets"},
			ImageURL:       "https://images.unsplash.com/photo-1511192336575-5a79af67a629",
			Description:    "A jazz music night at The Blue Room.",
			MaxCapacity:    seats(180),
			Kind:           events.KindScheduledEvent,
		},
		{
			ID:             "seed-comedy-cellar",
			Name:           "Stand-Up Showcase",
			Venue:          "Punchline Cellar",
			Address:        "444 Battery St",
			City:           "San Francisco",
			State:          "CA",
			StartTime:      "20:00",
			Price:          2500,
			AgeRequirement: events.Age18,
			Categories:     []events.Category{events.CategoryEntertainment},
			TicketLinks:    map[string]string{},
			ImageURL:       "https://images.unsplash.com/photo-1527224857830-43a7acc85260",
			Description:    "A comedy night at Punchline Cellar.",
			MaxCapacity:    seats(120),
			Kind:           events.KindScheduledEvent,
		},
		{
			ID:             "seed-warriors-watch",
			Name:           "Warriors Watch Party",
			Venue:          "Chase Center",
			Address:        "1 Warriors Way",
			City:           "San Francisco",
			State:          "CA",
			StartTime:      "19:00",
			EndTime:        end("22:00"),
			Price:          4500,
			AgeRequirement: events.AgeAll,
			Categories:     []events.Category{events.CategorySports},
			TicketLinks:    map[string]string{events.LinkTicketmaster: "https://www.ticketmaster.com/search?q=chase-center"},
			ImageURL:       "https://images.unsplash.com/photo-1546519638-68e109498ffc",
			Description:    "A basketball game night at Chase Center.",
			MaxCapacity:    seats(500),
			Kind:           events.KindScheduledEvent,
		},
		{
			ID:             "seed-monarch",
			Name:           "Monarch",
			Venue:          "Monarch",
			Address:        "101 6th St",
			City:           "San Francisco",
			State:          "CA",
			StartTime:      "22:00",
			EndTime:        end("02:00"),
			Price:          2000,
			AgeRequirement: events.Age21,
			Categories:     []events.Category{events.CategoryDancing, events.CategoryDrinks},
			TicketLinks:    map[string]string{events.LinkWebsite: "https://www.monarch.com"},
			ImageURL:       "https://images.unsplash.com/photo-1566737236500-c8ac43014a67",
			Description:    "Night club in San Francisco.",
			MaxCapacity:    seats(350),
			Kind:           events.KindVenueListing,
		},
		{
			ID:             "seed-zuni",
			Name:           "Zuni Cafe",
			Venue:          "Zuni Cafe",
			Address:        "1658 Market St",
			City:           "San Francisco",
			State:          "CA",
			StartTime:      "17:00",
			EndTime:        end("22:00"),
			Price:          0,
			AgeRequirement: events.AgeAll,
			Categories:     []events.Category{events.CategoryRestaurant, events.CategoryDrinks},
			TicketLinks:    map[string]string{events.LinkWebsite: "https://www.zuni-cafe.com"},
			ImageURL:       "https://images.unsplash.com/photo-1414235077428-338989a2e8c0",
			Description:    "Restaurant in San Francisco.",
			MaxCapacity:    seats(90),
			Kind:           events.KindVenueListing,
		},
		{
			ID:             "seed-sfmoma-late",
			Name:           "Museum Late Night",
			Venue:          "SFMOMA",
			Address:        "151 3rd St",
			City:           "San Francisco",
			State:          "CA",
			StartTime:      "18:00",
			EndTime:        end("21:00"),
			Price:          2500,
			AgeRequirement: events.AgeAll,
			Categories:     []events.Category{events.CategoryArt},
			TicketLinks:    map[string]string{},
			ImageURL:       "https://images.unsplash.com/photo-1554907984-15263bfd63bd",
			Description:    "An art night at SFMOMA.",
			MaxCapacity:    seats(400),
			Kind:           events.KindScheduledEvent,
		},
	}
	for i := range seed {
		seed[i].CreatedAt = now
		seed[i].UpdatedAt = now
	}
	return seed
}
