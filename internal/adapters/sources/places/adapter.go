// Package places lista venues cercanos con Google Places y resuelve
// ubicaciones con la Geocoding API (misma credencial).
package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"nightspark/internal/discovery"
	"nightspark/internal/domain/events"
	"nightspark/internal/normalize"
	"nightspark/internal/platform/httpclient"
	"nightspark/internal/platform/logger"
	"nightspark/internal/platform/metrics"
)

const (
	Name = "google_places"

	DefaultBaseURL = "https://maps.googleapis.com/maps/api"
	radiusMeters   = "5000"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// DefaultTypes son los tipos de lugar que se consultan, en orden.
var DefaultTypes = []string{"night_club", "bar", "restaurant", "museum", "movie_theater"}

var (
	ErrGeocodeNoResults = errors.New("places: location not found")
)

type Options struct {
	APIKey  string
	BaseURL string
	Types   []string

	HTTP   httpclient.Options
	Tables *normalize.Tables
	Log    logger.Logger
}

type Adapter struct {
	apiKey string
	types  []string
	client *httpclient.Client
	tables *normalize.Tables
	log    logger.Logger
}

var (
	_ discovery.Adapter  = (*Adapter)(nil)
	_ discovery.Geocoder = (*Adapter)(nil)
)

func New(opts Options) (*Adapter, error) {
	httpOpts := opts.HTTP
	httpOpts.Name = Name
	httpOpts.BaseURL = opts.BaseURL
	if httpOpts.BaseURL == "" {
		httpOpts.BaseURL = DefaultBaseURL
	}
	c, err := httpclient.NewWithOptions(httpOpts)
	if err != nil {
		return nil, fmt.Errorf("places client: %w", err)
	}

	a := &Adapter{
		apiKey: strings.TrimSpace(opts.APIKey),
		types:  opts.Types,
		client: c,
		tables: opts.Tables,
		log:    opts.Log,
	}
	if len(a.types) == 0 {
		a.types = DefaultTypes
	}
	if a.tables == nil {
		a.tables = normalize.Default()
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	return a, nil
}

func (a *Adapter) Name() string  { return Name }
func (a *Adapter) Enabled() bool { return a.apiKey != "" }

// Geocode completa Lat/Lng. City/State del texto se conservan; si faltan se
// toman de los address_components.
func (a *Adapter) Geocode(ctx context.Context, loc discovery.Location) (discovery.Location, error) {
	if strings.TrimSpace(loc.Text) == "" {
		return loc, fmt.Errorf("%w: empty location", ErrGeocodeNoResults)
	}

	q := url.Values{}
	q.Set("address", loc.Text)
	q.Set("key", a.apiKey)

	var resp geocodeResponse
	if err := a.client.GetJSON(ctx, "/geocode/json", q, nil, &resp); err != nil {
		return loc, fmt.Errorf("geocode: %w", err)
	}
	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return loc, fmt.Errorf("%w: %q", ErrGeocodeNoResults, loc.Text)
	default:
		return loc, fmt.Errorf("geocode: status %s: %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Results) == 0 {
		return loc, fmt.Errorf("%w: %q", ErrGeocodeNoResults, loc.Text)
	}

	res := resp.Results[0]
	for _, c := range res.AddressComponents {
		switch {
		case loc.City == "" && slices.Contains(c.Types, "locality"):
			loc.City = c.LongName
		case loc.State == "" && slices.Contains(c.Types, "administrative_area_level_1"):
			loc.State = c.ShortName
		}
	}
	return loc.WithCoords(res.Geometry.Location.Lat, res.Geometry.Location.Lng), nil
}

// Search consulta cada tipo y deduplica por place_id dentro de la respuesta.
// Falla solo si fallan todos los tipos.
func (a *Adapter) Search(ctx context.Context, loc discovery.Location) ([]events.Event, error) {
	if !loc.HasCoords {
		geo, err := a.Geocode(ctx, loc)
		if err != nil {
			return nil, err
		}
		loc = geo
	}

	seen := make(map[string]bool)
	out := make([]events.Event, 0)
	var errs []error

	for _, ty := range a.types {
		found, err := a.nearby(ctx, loc, ty)
		if err != nil {
			a.log.Warn("nearby search failed", map[string]any{"source": Name, "type": ty, "error": err})
			errs = append(errs, err)
			continue
		}
		for _, raw := range found {
			if seen[raw.PlaceID] {
				continue
			}
			seen[raw.PlaceID] = true

			e, err := a.normalize(raw)
			if err != nil {
				metrics.SourceDropped.WithLabelValues(Name, "malformed").Inc()
				a.log.Debug("record dropped", map[string]any{"source": Name, "id": raw.PlaceID, "error": err})
				continue
			}
			out = append(out, e)
		}
	}

	if len(errs) == len(a.types) {
		return nil, fmt.Errorf("places search: %w", errors.Join(errs...))
	}
	return out, nil
}

func (a *Adapter) nearby(ctx context.Context, loc discovery.Location, placeType string) ([]rawPlace, error) {
	q := url.Values{}
	q.Set("location", strconv.FormatFloat(loc.Lat, 'f', 6, 64)+","+strconv.FormatFloat(loc.Lng, 'f', 6, 64))
	q.Set("radius", radiusMeters)
	q.Set("type", placeType)
	q.Set("key", a.apiKey)

	var resp nearbyResponse
	if err := a.client.GetJSON(ctx, "/place/nearbysearch/json", q, nil, &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case statusOK, statusZeroResults:
		return resp.Results, nil
	default:
		return nil, fmt.Errorf("status %s: %s", resp.Status, resp.ErrorMessage)
	}
}
