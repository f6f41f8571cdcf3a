package router

import (
	"fmt"

	"nightspark/internal/adapters/sources/eventbrite"
	"nightspark/internal/adapters/sources/places"
	"nightspark/internal/adapters/sources/synthetic"
	"nightspark/internal/adapters/sources/ticketmaster"
	"nightspark/internal/discovery"
	"nightspark/internal/normalize"
	"nightspark/internal/platform/config"
	"nightspark/internal/platform/httpclient"
	"nightspark/internal/platform/logger"
)

// NewDiscoverer arma la cascada: Ticketmaster + Eventbrite, luego Google
// Places, luego el generador sintético. Los adapters sin credencial quedan
// registrados pero se saltean; Places además geocodifica si hay GOOGLE_API_KEY.
func NewDiscoverer(cfg config.SourcesConfig, tables *normalize.Tables, log logger.Logger) (*discovery.Service, error) {
	if log == nil {
		log = logger.Nop()
	}
	if tables == nil {
		tables = normalize.Default()
	}

	httpOpts := httpclient.Options{
		Timeout:       cfg.Timeout,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
		MaxRetries:    cfg.MaxRetries,
	}
	aggOpts := discovery.AggregatorOptions{
		Parallel:       cfg.Parallel,
		AdapterTimeout: cfg.AdapterTimeout,
	}

	tm, err := ticketmaster.New(ticketmaster.Options{
		APIKey: cfg.TicketmasterAPIKey,
		HTTP:   httpOpts,
		Tables: tables,
		Log:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("ticketmaster adapter: %w", err)
	}

	eb, err := eventbrite.New(eventbrite.Options{
		Token:  cfg.EventbriteAPIKey,
		HTTP:   httpOpts,
		Tables: tables,
		Log:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("eventbrite adapter: %w", err)
	}

	pl, err := places.New(places.Options{
		APIKey: cfg.GoogleAPIKey,
		HTTP:   httpOpts,
		Tables: tables,
		Log:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("places adapter: %w", err)
	}

	syn, err := synthetic.New(tables, log)
	if err != nil {
		return nil, fmt.Errorf("synthetic generator: %w", err)
	}

	var geocoder discovery.Geocoder
	if pl.Enabled() {
		geocoder = pl
	}

	log.Info("sources configured", map[string]any{
		"ticketmaster": tm.Enabled(),
		"eventbrite":   eb.Enabled(),
		"places":       pl.Enabled(),
		"parallel":     cfg.Parallel,
	})

	return discovery.NewService(log, geocoder, discovery.Tiers{
		Events:    discovery.NewAggregator(log, aggOpts, tm, eb),
		Venues:    discovery.NewAggregator(log, aggOpts, pl),
		Synthetic: discovery.NewAggregator(log, aggOpts, syn),
	}), nil
}
