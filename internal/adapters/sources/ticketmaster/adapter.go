// Package ticketmaster consulta la Discovery API v2 de Ticketmaster.
package ticketmaster

import (
	"context"
	"errors"
	"fmt"
	"net/url"
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
	Name = "ticketmaster"

	DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"
	defaultSize    = 50
	radiusMiles    = "25"
)

type Options struct {
	APIKey  string
	BaseURL string

	HTTP   httpclient.Options
	Tables *normalize.Tables
	Log    logger.Logger

	// Size es la cantidad de eventos pedidos (máx 200 en la API).
	Size int
}

type Adapter struct {
	apiKey string
	client *httpclient.Client
	tables *normalize.Tables
	log    logger.Logger
	size   int
}

var _ discovery.Adapter = (*Adapter)(nil)

func New(opts Options) (*Adapter, error) {
	httpOpts := opts.HTTP
	httpOpts.Name = Name
	httpOpts.BaseURL = opts.BaseURL
	if httpOpts.BaseURL == "" {
		httpOpts.BaseURL = DefaultBaseURL
	}
	c, err := httpclient.NewWithOptions(httpOpts)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster client: %w", err)
	}

	a := &Adapter{
		apiKey: strings.TrimSpace(opts.APIKey),
		client: c,
		tables: opts.Tables,
		log:    opts.Log,
		size:   opts.Size,
	}
	if a.tables == nil {
		a.tables = normalize.Default()
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	if a.size <= 0 || a.size > 200 {
		a.size = defaultSize
	}
	return a, nil
}

func (a *Adapter) Name() string  { return Name }
func (a *Adapter) Enabled() bool { return a.apiKey != "" }

func (a *Adapter) Search(ctx context.Context, loc discovery.Location) ([]events.Event, error) {
	q := url.Values{}
	q.Set("apikey", a.apiKey)
	q.Set("size", strconv.Itoa(a.size))
	q.Set("sort", "date,asc")
	if loc.HasCoords {
		q.Set("latlong", strconv.FormatFloat(loc.Lat, 'f', 6, 64)+","+strconv.FormatFloat(loc.Lng, 'f', 6, 64))
		q.Set("radius", radiusMiles)
		q.Set("unit", "miles")
	} else {
		if loc.City == "" {
			return nil, errors.New("ticketmaster: location without city or coordinates")
		}
		q.Set("city", loc.City)
		if len(loc.State) == 2 {
			q.Set("stateCode", strings.ToUpper(loc.State))
		}
	}

	var resp searchResponse
	if err := a.client.GetJSON(ctx, "/events.json", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("ticketmaster search: %w", err)
	}

	out := make([]events.Event, 0, len(resp.Embedded.Events))
	for _, raw := range resp.Embedded.Events {
		e, err := a.normalize(raw)
		if err != nil {
			metrics.SourceDropped.WithLabelValues(Name, "malformed").Inc()
			a.log.Debug("record dropped", map[string]any{"source": Name, "id": raw.ID, "error": err})
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
