package events

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filter es la misma forma de filtro para el pipeline y para Storage.
// Precios en centavos, inclusivos.
type Filter struct {
	Categories     []Category
	AgeRequirement AgeRequirement
	MinPrice       *int
	MaxPrice       *int
}

// IsZero indica que el filtro no restringe nada.
func (f Filter) IsZero() bool {
	return len(f.Categories) == 0 && f.AgeRequirement == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Match: categorías any-match, edad exacta, precio dentro de [min, max].
func (f Filter) Match(e Event) bool {
	if len(f.Categories) > 0 && !e.HasCategory(f.Categories...) {
		return false
	}
	if f.AgeRequirement != "" && e.AgeRequirement != f.AgeRequirement {
		return false
	}
	if f.MinPrice != nil && e.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && e.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Apply filtra preservando el orden de entrada. Nunca devuelve nil.
func (f Filter) Apply(in []Event) []Event {
	out := make([]Event, 0, len(in))
	for _, e := range in {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// ParseFilter lee categories (repetible o CSV), ageRequirement, minPrice, maxPrice.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter

	for _, raw := range q["categories"] {
		for _, p := range strings.Split(raw, ",") {
			c := Category(strings.ToLower(strings.TrimSpace(p)))
			if c == "" {
				continue
			}
			if !c.Valid() {
				return Filter{}, errors.New("unknown category: " + string(c))
			}
			f.Categories = append(f.Categories, c)
		}
	}

	if v := strings.TrimSpace(q.Get("ageRequirement")); v != "" {
		a := AgeRequirement(v)
		if !a.Valid() {
			return Filter{}, errors.New("ageRequirement must be one of all, 18, 21")
		}
		f.AgeRequirement = a
	}

	var err error
	if f.MinPrice, err = parsePrice(q, "minPrice"); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = parsePrice(q, "maxPrice"); err != nil {
		return Filter{}, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return Filter{}, errors.New("minPrice must be <= maxPrice")
	}

	return f, nil
}

func parsePrice(q url.Values, key string) (*int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, errors.New(key + " must be a non-negative integer (cents)")
	}
	return &n, nil
}

// SortByStartTime ordena estable por "HH:MM" (lexicográfico, válido por el zero-padding).
func SortByStartTime(in []Event) {
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].StartTime < in[j].StartTime
	})
}
