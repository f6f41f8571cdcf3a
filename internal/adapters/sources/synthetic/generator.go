// Package synthetic es el último tier de la cascada: genera venues y shows
// plausibles para una ciudad sin llamar a ninguna API, así la búsqueda nunca
// queda vacía en demos o sin credenciales.
package synthetic

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"nightspark/internal/discovery"
	"nightspark/internal/domain/events"
	"nightspark/internal/normalize"
	"nightspark/internal/platform/logger"
	"nightspark/internal/platform/metrics"
)

const Name = "synthetic"

//go:embed cities.yaml
var embeddedCities []byte

type venueTemplate struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Address string `yaml:"address"`

	// Show != "" => evento con horario.
	Show  string `yaml:"show"`
	Genre string `yaml:"genre"`
	Start string `yaml:"start"`
}

type cityTable struct {
	Aliases []string        `yaml:"aliases"`
	Venues  []venueTemplate `yaml:"venues"`
}

type catalog struct {
	Cities  map[string]cityTable `yaml:"cities"`
	Generic []venueTemplate      `yaml:"generic"`
}

type Generator struct {
	tables  *normalize.Tables
	log     logger.Logger
	cities  map[string][]venueTemplate // clave: ciudad o alias en minúsculas
	generic []venueTemplate
}

var _ discovery.Adapter = (*Generator)(nil)

func New(tables *normalize.Tables, log logger.Logger) (*Generator, error) {
	var c catalog
	if err := yaml.Unmarshal(embeddedCities, &c); err != nil {
		return nil, fmt.Errorf("synthetic: parse cities: %w", err)
	}
	if len(c.Generic) == 0 {
		return nil, errors.New("synthetic: generic templates required")
	}
	if tables == nil {
		tables = normalize.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	g := &Generator{
		tables:  tables,
		log:     log,
		cities:  make(map[string][]venueTemplate),
		generic: c.Generic,
	}
	for city, tbl := range c.Cities {
		g.cities[strings.ToLower(city)] = tbl.Venues
		for _, alias := range tbl.Aliases {
			g.cities[strings.ToLower(alias)] = tbl.Venues
		}
	}
	return g, nil
}

func (g *Generator) Name() string { return Name }

// Enabled: no necesita credencial.
func (g *Generator) Enabled() bool { return true }

// Known indica si la ciudad tiene venues curados.
func (g *Generator) Known(city string) bool {
	_, ok := g.cities[strings.ToLower(strings.TrimSpace(city))]
	return ok
}

func (g *Generator) Search(_ context.Context, loc discovery.Location) ([]events.Event, error) {
	city := strings.TrimSpace(loc.City)
	if city == "" {
		return nil, errors.New("synthetic: empty city")
	}

	templates, known := g.cities[strings.ToLower(city)]
	if !known {
		templates = g.generic
	}

	citySlug := normalize.Slugify(city)
	out := make([]events.Event, 0, len(templates))
	for _, tpl := range templates {
		e, err := g.build(tpl, city, loc.State, citySlug)
		if err != nil {
			metrics.SourceDropped.WithLabelValues(Name, "malformed").Inc()
			g.log.Warn("synthetic template dropped", map[string]any{"venue": tpl.Name, "error": err})
			continue
		}
		out = append(out, e)
	}

	g.log.Debug("synthetic venues generated", map[string]any{"city": city, "known": known, "events": len(out)})
	return out, nil
}

func (g *Generator) build(tpl venueTemplate, city, state, citySlug string) (events.Event, error) {
	t := g.tables
	venue := strings.ReplaceAll(tpl.Name, "{city}", city)
	address := strings.ReplaceAll(tpl.Address, "{city}", city)
	types := []string{tpl.Type}
	rng := normalize.Seeded(Name + ":" + citySlug + ":" + venue)

	e := events.Event{
		ID:      "syn-" + citySlug + "-" + normalize.Slugify(venue),
		Venue:   venue,
		Address: address,
		City:    city,
		State:   state,
	}

	if tpl.Show != "" {
		e.Name = tpl.Show
		e.StartTime = tpl.Start
		e.Categories = t.ClassificationCategories(tpl.Genre, tpl.Type)
		e.Price = t.PlacePrice(rng, types, 0)
		e.AgeRequirement = t.Age(false, false, tpl.Genre)
		e.Description = t.Description("", "", tpl.Genre, venue)
		e.Kind = events.KindScheduledEvent
		e.TicketLinks = t.TicketLinks(rng, venue, e.Categories, false, nil)
		return t.Finish(e, rng)
	}

	start, end := t.Schedule(types)
	e.Name = venue
	e.StartTime = start
	e.EndTime = &end
	e.Categories = t.PlaceCategories(venue, types)
	e.Price = t.PlacePrice(rng, types, 0)
	e.AgeRequirement = t.PlaceAge(types)
	e.Description = t.Description("", strings.ReplaceAll(tpl.Type, "_", " "), "", venue)
	e.Kind = events.KindVenueListing
	e.TicketLinks = t.TicketLinks(rng, venue, e.Categories, true, nil)
	return t.Finish(e, rng)
}
