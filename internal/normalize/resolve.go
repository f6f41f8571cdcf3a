package normalize

import (
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"unicode"

	"nightspark/internal/domain/events"
)

// ClassificationCategories matchea keywords contra segment/genre/subGenre/category
// de la fuente, por palabra completa ("Therapy" no matchea "rap").
// Sin match => fallback_categories.
func (t *Tables) ClassificationCategories(signals ...string) []events.Category {
	sig := signalWords(signals...)

	out := make([]events.Category, 0, 3)
	for _, rule := range t.ClassificationKeywords {
		if rule.matches(sig) {
			out = appendUnique(out, rule.Categories...)
		}
	}
	if len(out) == 0 {
		out = appendUnique(out, t.FallbackCategories...)
	}
	return out
}

// PlaceRule devuelve la regla de place_types que gana para un lugar: la
// primera de la tabla que aparezca en types. Todos los campos derivados del
// venue salen de esa regla.
func (t *Tables) PlaceRule(types []string) (PlaceTypeRule, bool) {
	for _, rule := range t.PlaceTypes {
		if slices.Contains(types, rule.Type) {
			return rule, true
		}
	}
	return PlaceTypeRule{}, false
}

// PlaceCategories: categorías de la regla ganadora. Las reglas "dining" se
// parten en restaurant/fastfood por marca.
func (t *Tables) PlaceCategories(name string, types []string) []events.Category {
	rule, ok := t.PlaceRule(types)
	if !ok {
		return []events.Category{}
	}
	if rule.Dining {
		if t.IsFastFood(name) {
			return []events.Category{events.CategoryFastFood, events.CategoryDrinks}
		}
		return []events.Category{events.CategoryRestaurant, events.CategoryDrinks}
	}
	return appendUnique(make([]events.Category, 0, len(rule.Categories)), rule.Categories...)
}

func (t *Tables) IsFastFood(name string) bool {
	n := strings.ToLower(name)
	for _, b := range t.FastFoodBrands {
		if b != "" && strings.Contains(n, b) {
			return true
		}
	}
	return false
}

// IsDiningPlace indica si la regla ganadora es de las que nunca cobran
// entrada (restaurantes y afines). Un bar que además es "restaurant" cobra.
func (t *Tables) IsDiningPlace(types []string) bool {
	rule, ok := t.PlaceRule(types)
	return ok && (rule.Dining || slices.Contains(t.FreePlaceTypes, rule.Type))
}

// PlacePrice devuelve centavos para un venue sin precio de la fuente.
// priceLevel 1-4 solo aplica si la regla ganadora es de price_level_types;
// 0 = sin señal.
func (t *Tables) PlacePrice(rng *rand.Rand, types []string, priceLevel int) int {
	rule, ok := t.PlaceRule(types)
	if !ok {
		return t.FallbackPrice(rng)
	}
	if rule.Dining || slices.Contains(t.FreePlaceTypes, rule.Type) {
		return 0
	}
	if r, ok := t.PriceRanges[rule.Type]; ok {
		return dollarsInRange(rng, r)
	}
	if priceLevel > 0 && slices.Contains(t.PriceLevelTypes, rule.Type) {
		if r, ok := t.PriceLevelRanges[priceLevel]; ok {
			return dollarsInRange(rng, r)
		}
	}
	return t.FallbackPrice(rng)
}

// FallbackPrice: free_chance de gratis, si no un monto del rango por defecto.
func (t *Tables) FallbackPrice(rng *rand.Rand) int {
	if rng.Float64() < t.DefaultPrice.FreeChance {
		return 0
	}
	return dollarsInRange(rng, t.DefaultPrice.Range)
}

// Cents convierte un monto en dólares de la fuente; negativo o NaN => 0.
func Cents(dollars float64) int {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) || dollars <= 0 {
		return 0
	}
	return int(math.Round(dollars * 100))
}

// Age: flags explícitos de la fuente primero; si no, la regla más estricta que
// matchee por palabra completa.
func (t *Tables) Age(legal21, legal18 bool, signals ...string) events.AgeRequirement {
	if legal21 {
		return events.Age21
	}
	if legal18 {
		return events.Age18
	}

	sig := signalWords(signals...)
	best := events.AgeAll
	for _, rule := range t.AgeRules {
		if matchesAny(sig, rule.words) {
			best = stricter(best, rule.Age)
		}
	}
	return best
}

// PlaceAge resuelve la edad de un venue por la regla ganadora.
func (t *Tables) PlaceAge(types []string) events.AgeRequirement {
	rule, ok := t.PlaceRule(types)
	if !ok {
		return events.AgeAll
	}
	if a, ok := t.PlaceTypeAges[rule.Type]; ok {
		return a
	}
	return events.AgeAll
}

// Schedule devuelve el horario por defecto ("HH:MM") de la regla ganadora.
func (t *Tables) Schedule(types []string) (start, end string) {
	if rule, ok := t.PlaceRule(types); ok {
		if s, ok := t.ScheduleDefaults[rule.Type]; ok {
			return s[0], s[1]
		}
	}
	return t.DefaultSchedule[0], t.DefaultSchedule[1]
}

// Image: stock de la primera categoría que tenga una, si no default_image.
func (t *Tables) Image(cats []events.Category) string {
	for _, c := range cats {
		if u := t.StockImages[c]; u != "" {
			return u
		}
	}
	return t.DefaultImage
}

func stricter(a, b events.AgeRequirement) events.AgeRequirement {
	rank := func(x events.AgeRequirement) int {
		switch x {
		case events.Age21:
			return 2
		case events.Age18:
			return 1
		}
		return 0
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func dollarsInRange(rng *rand.Rand, r []int) int {
	lo, hi := r[0], r[1]
	return (lo + rng.IntN(hi-lo+1)) * 100
}

// signalWords parte cada señal en palabras en minúsculas; las señales no se
// mezclan, así un keyword de dos palabras no cruza de genre a subGenre.
func signalWords(signals ...string) [][]string {
	out := make([][]string, 0, len(signals))
	for _, s := range signals {
		if w := words(cleanSignal(s)); len(w) > 0 {
			out = append(out, w)
		}
	}
	return out
}

// words: "Hip-Hop/Rap" => [hip hop rap].
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func (r KeywordRule) matches(signals [][]string) bool {
	for _, w := range signals {
		if !containsPhrase(w, r.words) {
			continue
		}
		if !slices.ContainsFunc(r.unless, func(u []string) bool { return containsPhrase(w, u) }) {
			return true
		}
	}
	return false
}

func matchesAny(signals [][]string, kw []string) bool {
	for _, w := range signals {
		if containsPhrase(w, kw) {
			return true
		}
	}
	return false
}

// containsPhrase: kw aparece como secuencia contigua de palabras. La última
// palabra acepta plural simple ("Concerts" matchea "concert").
func containsPhrase(w, kw []string) bool {
	if len(kw) == 0 || len(kw) > len(w) {
		return false
	}
	last := len(kw) - 1
	for i := 0; i+len(kw) <= len(w); i++ {
		match := true
		for j, k := range kw {
			if got := w[i+j]; got != k && !(j == last && got == k+"s") {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// cleanSignal descarta placeholders que algunas APIs mandan en vez de vacío.
func cleanSignal(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "undefined") || strings.EqualFold(s, "other") {
		return ""
	}
	return s
}

func appendUnique(dst []events.Category, src ...events.Category) []events.Category {
	for _, c := range src {
		if !slices.Contains(dst, c) {
			dst = append(dst, c)
		}
	}
	return dst
}
