// Package normalize convierte señales crudas de las fuentes (clasificaciones,
// tipos de lugar, price level, flags de edad) en los campos del Event canónico.
//
// Las heurísticas son datos (heuristics.yaml embebido); este paquete solo
// tiene las funciones que los resuelven.
package normalize

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"nightspark/internal/domain/events"
	"nightspark/internal/platform/validation"
)

//go:embed heuristics.yaml
var embeddedHeuristics []byte

type KeywordRule struct {
	Keyword    string            `yaml:"keyword"`
	Categories []events.Category `yaml:"categories"`
	// Unless: frases que anulan el match en la misma señal ("cross country").
	Unless []string `yaml:"unless"`

	words  []string
	unless [][]string
}

type PlaceTypeRule struct {
	Type       string            `yaml:"type"`
	Categories []events.Category `yaml:"categories"`
	Dining     bool              `yaml:"dining"`
}

type AgeRule struct {
	Keyword string                `yaml:"keyword"`
	Age     events.AgeRequirement `yaml:"age"`

	words []string
}

type DefaultPrice struct {
	FreeChance float64 `yaml:"free_chance"`
	Range      []int   `yaml:"range"`
}

// Tables son las tablas de heurísticas ya parseadas. Inmutables después de Load.
type Tables struct {
	ClassificationKeywords []KeywordRule                    `yaml:"classification_keywords"`
	FallbackCategories     []events.Category                `yaml:"fallback_categories"`
	PlaceTypes             []PlaceTypeRule                  `yaml:"place_types"`
	FastFoodBrands         []string                         `yaml:"fast_food_brands"`
	PriceRanges            map[string][]int                 `yaml:"price_ranges"`
	PriceLevelTypes        []string                         `yaml:"price_level_types"`
	PriceLevelRanges       map[int][]int                    `yaml:"price_level_ranges"`
	DefaultPrice           DefaultPrice                     `yaml:"default_price"`
	FreePlaceTypes         []string                         `yaml:"free_place_types"`
	AgeRules               []AgeRule                        `yaml:"age_rules"`
	PlaceTypeAges          map[string]events.AgeRequirement `yaml:"place_type_ages"`
	ScheduleDefaults       map[string][]string              `yaml:"schedule_defaults"`
	DefaultSchedule        []string                         `yaml:"default_schedule"`
	StockImages            map[events.Category]string       `yaml:"stock_images"`
	DefaultImage           string                           `yaml:"default_image"`
	MajorVenueKeywords     []string                         `yaml:"major_venue_keywords"`
	MusicVenueKeywords     []string                         `yaml:"music_venue_keywords"`
	MajorSecondaryChance   float64                          `yaml:"major_secondary_chance"`
	MusicSecondaryChance   float64                          `yaml:"music_secondary_chance"`
	DescriptionMax         int                              `yaml:"description_max"`
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default devuelve las tablas embebidas. Panic si el YAML embebido es inválido
// (es un bug de build, no de runtime).
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(embeddedHeuristics)
		if err != nil {
			panic(fmt.Sprintf("normalize: embedded heuristics: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// Load lee tablas desde path; path vacío => Default().
func Load(path string) (*Tables, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heuristics %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodifica y valida un YAML de heurísticas.
func Parse(raw []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse heuristics: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	t.lower()
	return &t, nil
}

func (t *Tables) validate() error {
	var errs []error

	checkCats := func(where string, cs []events.Category) {
		for _, c := range cs {
			if !c.Valid() {
				errs = append(errs, fmt.Errorf("%s: unknown category %q", where, c))
			}
		}
	}
	checkRange := func(where string, r []int) {
		if len(r) != 2 || r[0] < 0 || r[1] < r[0] {
			errs = append(errs, fmt.Errorf("%s: range must be [min, max] with 0 <= min <= max", where))
		}
	}
	checkClock := func(where string, s []string) {
		if len(s) != 2 || !validation.IsClock(s[0]) || !validation.IsClock(s[1]) {
			errs = append(errs, fmt.Errorf("%s: schedule must be [HH:MM, HH:MM]", where))
		}
	}
	checkChance := func(where string, p float64) {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s: chance must be within [0, 1]", where))
		}
	}

	for _, r := range t.ClassificationKeywords {
		checkCats("classification_keywords."+r.Keyword, r.Categories)
	}
	checkCats("fallback_categories", t.FallbackCategories)
	for _, r := range t.PlaceTypes {
		checkCats("place_types."+r.Type, r.Categories)
	}
	for k, r := range t.PriceRanges {
		checkRange("price_ranges."+k, r)
	}
	for k, r := range t.PriceLevelRanges {
		checkRange(fmt.Sprintf("price_level_ranges.%d", k), r)
	}
	checkRange("default_price.range", t.DefaultPrice.Range)
	checkChance("default_price.free_chance", t.DefaultPrice.FreeChance)
	checkChance("major_secondary_chance", t.MajorSecondaryChance)
	checkChance("music_secondary_chance", t.MusicSecondaryChance)
	for _, r := range t.AgeRules {
		if !r.Age.Valid() {
			errs = append(errs, fmt.Errorf("age_rules.%s: invalid age %q", r.Keyword, r.Age))
		}
	}
	for k, a := range t.PlaceTypeAges {
		if !a.Valid() {
			errs = append(errs, fmt.Errorf("place_type_ages.%s: invalid age %q", k, a))
		}
	}
	for k, s := range t.ScheduleDefaults {
		checkClock("schedule_defaults."+k, s)
	}
	checkClock("default_schedule", t.DefaultSchedule)
	for c := range t.StockImages {
		if !c.Valid() {
			errs = append(errs, fmt.Errorf("stock_images: unknown category %q", c))
		}
	}
	if strings.TrimSpace(t.DefaultImage) == "" {
		errs = append(errs, errors.New("default_image is required"))
	}
	if t.DescriptionMax <= 3 {
		errs = append(errs, errors.New("description_max must be > 3"))
	}

	return errors.Join(errs...)
}

// lower normaliza keywords para comparar en minúsculas y los parte en
// palabras una sola vez.
func (t *Tables) lower() {
	for i := range t.ClassificationKeywords {
		r := &t.ClassificationKeywords[i]
		r.Keyword = strings.ToLower(r.Keyword)
		r.words = words(r.Keyword)
		for _, u := range r.Unless {
			r.unless = append(r.unless, words(u))
		}
	}
	for i := range t.AgeRules {
		r := &t.AgeRules[i]
		r.Keyword = strings.ToLower(r.Keyword)
		r.words = words(r.Keyword)
	}
	lowerAll(t.FastFoodBrands)
	lowerAll(t.MajorVenueKeywords)
	lowerAll(t.MusicVenueKeywords)
}

func lowerAll(in []string) {
	for i := range in {
		in[i] = strings.ToLower(strings.TrimSpace(in[i]))
	}
}
