package discovery

import (
	"context"
	"time"

	"nightspark/internal/domain/events"
	"nightspark/internal/platform/logger"
	"nightspark/internal/platform/metrics"
)

// Tiers de la cascada.
const (
	TierEvents    = "events"
	TierVenues    = "venues"
	TierSynthetic = "synthetic"
	TierEmpty     = "empty"
)

// Service arma la cascada estricta: eventos reales (Ticketmaster + Eventbrite),
// si no hay nada venues (Places), si no hay nada sintéticos. No mezcla tiers.
type Service struct {
	geocoder Geocoder // nil => sin GOOGLE_API_KEY, no se geocodifica

	primary   *Aggregator
	venues    *Aggregator
	synthetic *Aggregator

	log logger.Logger
}

type Tiers struct {
	Events    *Aggregator
	Venues    *Aggregator
	Synthetic *Aggregator
}

func NewService(log logger.Logger, geocoder Geocoder, tiers Tiers) *Service {
	if log == nil {
		log = logger.Nop()
	}
	empty := NewAggregator(log, AggregatorOptions{})
	s := &Service{
		geocoder:  geocoder,
		primary:   tiers.Events,
		venues:    tiers.Venues,
		synthetic: tiers.Synthetic,
		log:       log,
	}
	if s.primary == nil {
		s.primary = empty
	}
	if s.venues == nil {
		s.venues = empty
	}
	if s.synthetic == nil {
		s.synthetic = empty
	}
	return s
}

var _ events.Discoverer = (*Service)(nil)

// Discover nunca devuelve error: fallas de fuentes o de geocoding
// degradan al siguiente tier.
func (s *Service) Discover(ctx context.Context, text string) []events.Event {
	out, _ := s.DiscoverTier(ctx, text)
	return out
}

// DiscoverTier es Discover más el tier que respondió (para logs/tests).
func (s *Service) DiscoverTier(ctx context.Context, text string) ([]events.Event, string) {
	start := time.Now()
	loc := ParseLocation(text)
	log := s.log.With(map[string]any{"location": loc.Text})

	out, tier := s.cascade(ctx, loc, log)

	metrics.DiscoveryTier.WithLabelValues(tier).Inc()
	log.Info("discovery done", map[string]any{
		"tier":        tier,
		"events":      len(out),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, tier
}

func (s *Service) cascade(ctx context.Context, loc Location, log logger.Logger) ([]events.Event, string) {
	if s.geocoder != nil {
		geo, err := s.geocoder.Geocode(ctx, loc)
		if err != nil {
			// sin ubicación resuelta se abandona el camino real completo
			log.Warn("geocoding failed, using synthetic venues", map[string]any{"error": err})
			return s.final(ctx, loc)
		}
		loc = geo
	}

	if found := s.primary.Run(ctx, loc); len(found) > 0 {
		return found, TierEvents
	}
	if found := s.venues.Run(ctx, loc); len(found) > 0 {
		return found, TierVenues
	}
	return s.final(ctx, loc)
}

func (s *Service) final(ctx context.Context, loc Location) ([]events.Event, string) {
	if found := s.synthetic.Run(ctx, loc); len(found) > 0 {
		return found, TierSynthetic
	}
	return []events.Event{}, TierEmpty
}
