package events

import "time"

// Event es el registro canónico que producen los adapters y consume todo lo demás.
// No se muta después de construido; los repos guardan copias.
type Event struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Venue   string `json:"venue"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`

	// "HH:MM" 24h, hora local, sin fecha ni zona.
	StartTime string  `json:"startTime"`
	EndTime   *string `json:"endTime"`

	// Centavos. 0 = gratis.
	Price          int            `json:"price"`
	AgeRequirement AgeRequirement `json:"ageRequirement"`

	Categories  []Category        `json:"categories"`
	TicketLinks map[string]string `json:"ticketLinks"`
	ImageURL    string            `json:"imageUrl"`
	Description string            `json:"description"`

	// Sintéticos cuando la fuente no trae asistencia real.
	CurrentAttendees *int `json:"currentAttendees,omitempty"`
	MaxCapacity      *int `json:"maxCapacity,omitempty"`

	Kind Kind `json:"kind"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsVenueListing usa el discriminador explícito.
func (e Event) IsVenueListing() bool {
	return e.Kind == KindVenueListing
}

// LooksLikeVenueListing es la señal de compatibilidad: name == venue y
// alguna categoría de comida/bebida/baile.
func (e Event) LooksLikeVenueListing() bool {
	if e.Name != e.Venue {
		return false
	}
	for _, c := range e.Categories {
		if venueCategories[c] {
			return true
		}
	}
	return false
}

// HasCategory devuelve true si e tiene alguna de cs.
func (e Event) HasCategory(cs ...Category) bool {
	for _, have := range e.Categories {
		for _, want := range cs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Clone copia slices/maps/punteros para que el caller no comparta estado.
func (e Event) Clone() Event {
	out := e
	if e.EndTime != nil {
		v := *e.EndTime
		out.EndTime = &v
	}
	if e.CurrentAttendees != nil {
		v := *e.CurrentAttendees
		out.CurrentAttendees = &v
	}
	if e.MaxCapacity != nil {
		v := *e.MaxCapacity
		out.MaxCapacity = &v
	}
	out.Categories = append(make([]Category, 0, len(e.Categories)), e.Categories...)
	out.TicketLinks = make(map[string]string, len(e.TicketLinks))
	for k, v := range e.TicketLinks {
		out.TicketLinks[k] = v
	}
	return out
}
