// Package eventbrite consulta la API v3 de Eventbrite (token Bearer).
package eventbrite

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
	Name = "eventbrite"

	DefaultBaseURL = "https://www.eventbriteapi.com/v3"
	searchWithin   = "25mi"
)

type Options struct {
	Token   string
	BaseURL string

	HTTP   httpclient.Options
	Tables *normalize.Tables
	Log    logger.Logger
}

type Adapter struct {
	token  string
	client *httpclient.Client
	tables *normalize.Tables
	log    logger.Logger
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
		return nil, fmt.Errorf("eventbrite client: %w", err)
	}

	a := &Adapter{
		token:  strings.TrimSpace(opts.Token),
		client: c,
		tables: opts.Tables,
		log:    opts.Log,
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
func (a *Adapter) Enabled() bool { return a.token != "" }

func (a *Adapter) Search(ctx context.Context, loc discovery.Location) ([]events.Event, error) {
	q := url.Values{}
	q.Set("expand", "venue,category,subcategory,format,ticket_availability")
	q.Set("sort_by", "date")
	q.Set("location.within", searchWithin)
	switch {
	case loc.HasCoords:
		q.Set("location.latitude", strconv.FormatFloat(loc.Lat, 'f', 6, 64))
		q.Set("location.longitude", strconv.FormatFloat(loc.Lng, 'f', 6, 64))
	case loc.Text != "":
		q.Set("location.address", loc.Text)
	default:
		return nil, errors.New("eventbrite: empty location")
	}

	headers := map[string]string{"Authorization": "Bearer " + a.token}

	var resp searchResponse
	if err := a.client.GetJSON(ctx, "/events/search/", q, headers, &resp); err != nil {
		return nil, fmt.Errorf("eventbrite search: %w", err)
	}

	out := make([]events.Event, 0, len(resp.Events))
	for _, raw := range resp.Events {
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
