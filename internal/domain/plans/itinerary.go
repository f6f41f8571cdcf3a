package plans

import (
	"fmt"
	"strconv"
	"strings"
)

// Horario placeholder que muestra la app: duración fija por parada y
// traslado fijo entre paradas. No hay ruteo real.
const (
	StopMinutes   = 120
	TravelMinutes = 20

	minutesPerDay = 24 * 60
)

type Stop struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Venue   string `json:"venue"`

	Arrive string `json:"arrive"` // HH:MM
	Leave  string `json:"leave"`  // HH:MM

	// Minutos de traslado desde la parada anterior (0 en la primera).
	TravelMinutes int `json:"travel_minutes"`

	// Delayed: el traslado hace llegar después del startTime del evento.
	Delayed bool `json:"delayed"`
}

type Itinerary struct {
	PlanID       string `json:"plan_id"`
	Stops        []Stop `json:"stops"`
	TotalMinutes int    `json:"total_minutes"`
}

// BuildItinerary recorre los items en orden. Cada parada empieza en su
// startTime o, si no se llega, al terminar la anterior más el traslado.
func BuildItinerary(p Plan) Itinerary {
	it := Itinerary{PlanID: p.ID, Stops: make([]Stop, 0, len(p.Items))}

	var first, leave int
	for _, item := range p.Items {
		start, err := clockMinutes(item.Event.StartTime)
		if err != nil {
			continue
		}

		stop := Stop{
			EventID: item.Event.ID,
			Name:    item.Event.Name,
			Venue:   item.Event.Venue,
		}

		arrive := start
		if len(it.Stops) > 0 {
			stop.TravelMinutes = TravelMinutes
			if earliest := leave + TravelMinutes; earliest > arrive {
				arrive = earliest
				stop.Delayed = true
			}
		}
		if len(it.Stops) == 0 {
			first = arrive
		}
		leave = arrive + StopMinutes

		stop.Arrive = formatMinutes(arrive)
		stop.Leave = formatMinutes(leave)
		it.Stops = append(it.Stops, stop)
	}

	if len(it.Stops) > 0 {
		it.TotalMinutes = leave - first
	}
	return it
}

func clockMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	return h*60 + m, nil
}

// formatMinutes pasa de minutos desde el inicio del día a HH:MM (da la vuelta a medianoche).
func formatMinutes(m int) string {
	m %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
