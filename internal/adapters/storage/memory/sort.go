package memory

import (
	"sort"

	"nightspark/internal/domain/events"
)

func sortByID(in []events.Event) {
	sort.Slice(in, func(i, j int) bool { return in[i].ID < in[j].ID })
}
