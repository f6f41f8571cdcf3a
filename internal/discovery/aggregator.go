package discovery

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"nightspark/internal/domain/events"
	"nightspark/internal/platform/logger"
	"nightspark/internal/platform/metrics"
)

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomePanic   = "panic"
	outcomeSkipped = "skipped"
)

type AggregatorOptions struct {
	// Parallel lanza todos los adapters a la vez (errgroup); por defecto uno por uno.
	Parallel bool
	// AdapterTimeout acota cada adapter; 0 = sin límite propio.
	AdapterTimeout time.Duration
}

// Aggregator invoca adapters, concatena en orden de registro y ordena por startTime.
// Un adapter que falla (error o panic) aporta cero eventos y no corta el resto.
type Aggregator struct {
	adapters []Adapter
	log      logger.Logger
	opts     AggregatorOptions
}

func NewAggregator(log logger.Logger, opts AggregatorOptions, adapters ...Adapter) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{adapters: adapters, log: log, opts: opts}
}

// Enabled indica si al menos un adapter tiene credencial.
func (a *Aggregator) Enabled() bool {
	for _, ad := range a.adapters {
		if ad.Enabled() {
			return true
		}
	}
	return false
}

func (a *Aggregator) Run(ctx context.Context, loc Location) []events.Event {
	results := make([][]events.Event, len(a.adapters))

	if a.opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, ad := range a.adapters {
			g.Go(func() error {
				results[i] = a.invoke(gctx, ad, loc)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, ad := range a.adapters {
			results[i] = a.invoke(ctx, ad, loc)
		}
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]events.Event, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}

	for i := range out {
		if out[i].City == "" {
			out[i].City = loc.City
		}
		if out[i].State == "" {
			out[i].State = loc.State
		}
	}

	events.SortByStartTime(out)
	return out
}

// invoke aísla un adapter: recupera panics, loguea errores, mide.
func (a *Aggregator) invoke(ctx context.Context, ad Adapter, loc Location) (out []events.Event) {
	name := ad.Name()
	log := a.log.With(map[string]any{"source": name})

	if !ad.Enabled() {
		metrics.SourceRequests.WithLabelValues(name, outcomeSkipped).Inc()
		log.Debug("adapter skipped: no credential", nil)
		return nil
	}

	if a.opts.AdapterTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.AdapterTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserveSource(name, outcomePanic, 0, time.Since(start))
			log.Error("adapter panicked", map[string]any{"panic": fmt.Sprint(r)})
			out = nil
		}
	}()

	found, err := ad.Search(ctx, loc)
	if err != nil {
		metrics.ObserveSource(name, outcomeError, 0, time.Since(start))
		log.Warn("adapter failed", map[string]any{"error": err, "location": loc.Text})
		return nil
	}

	metrics.ObserveSource(name, outcomeOK, len(found), time.Since(start))
	log.Debug("adapter ok", map[string]any{"events": len(found), "duration_ms": time.Since(start).Milliseconds()})
	return found
}
