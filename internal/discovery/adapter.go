package discovery

import (
	"context"

	"nightspark/internal/domain/events"
)

// Adapter consulta una fuente de eventos/venues y devuelve registros ya normalizados.
// Un adapter sin credencial se reporta !Enabled() y no se invoca.
type Adapter interface {
	Name() string
	Enabled() bool
	Search(ctx context.Context, loc Location) ([]events.Event, error)
}

// Geocoder resuelve texto libre a coordenadas.
type Geocoder interface {
	Geocode(ctx context.Context, loc Location) (Location, error)
}
