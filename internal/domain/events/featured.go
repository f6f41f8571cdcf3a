package events

import "strings"

const (
	DefaultFeaturedLimit = 10
	MaxFeaturedLimit     = 50
)

// Featured ordena primero los eventos que matchean algún interés (estable) y pagina.
// page es 1-based.
func Featured(in []Event, interests []Category, page, limit int) ([]Event, bool) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxFeaturedLimit {
		limit = DefaultFeaturedLimit
	}

	ranked := make([]Event, 0, len(in))
	if len(interests) == 0 {
		ranked = append(ranked, in...)
	} else {
		rest := make([]Event, 0, len(in))
		for _, e := range in {
			if e.HasCategory(interests...) {
				ranked = append(ranked, e)
			} else {
				rest = append(rest, e)
			}
		}
		ranked = append(ranked, rest...)
	}

	start := (page - 1) * limit
	if start >= len(ranked) {
		return []Event{}, false
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end], end < len(ranked)
}

// ParseInterests acepta repetible o CSV; ignora tags fuera del vocabulario.
func ParseInterests(raw []string) []Category {
	out := make([]Category, 0)
	for _, r := range raw {
		for _, p := range strings.Split(r, ",") {
			c := Category(strings.ToLower(strings.TrimSpace(p)))
			if c.Valid() {
				out = append(out, c)
			}
		}
	}
	return out
}
