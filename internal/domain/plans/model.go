package plans

import (
	"time"

	"nightspark/internal/domain/events"
)

// Plan es la salida armada por un usuario: una lista de eventos (snapshots)
// para una fecha. Los amigos acceden vía shares.
type Plan struct {
	ID          string
	OwnerUserID string

	Name string
	Date string // YYYY-MM-DD opcional

	// Ordenados por startTime; un evento aparece como mucho una vez.
	Items []Item

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item guarda una copia del evento al momento de agregarlo; los resultados
// de agregación no se persisten, así que el plan no depende de la fuente.
type Item struct {
	Event   events.Event
	AddedAt time.Time
}

// HasEvent indica si el plan ya contiene eventID.
func (p Plan) HasEvent(eventID string) bool {
	for _, it := range p.Items {
		if it.Event.ID == eventID {
			return true
		}
	}
	return false
}

// Clone evita que subscribers y repos compartan slices.
func (p Plan) Clone() Plan {
	out := p
	out.Items = make([]Item, len(p.Items))
	for i, it := range p.Items {
		out.Items[i] = Item{Event: it.Event.Clone(), AddedAt: it.AddedAt}
	}
	return out
}
