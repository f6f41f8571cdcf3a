package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "nightspark/docs"
	mem "nightspark/internal/adapters/storage/memory"
	pg "nightspark/internal/adapters/storage/postgres"
	"nightspark/internal/domain/events"
	"nightspark/internal/domain/plans"
	"nightspark/internal/domain/shares"
	"nightspark/internal/middleware"
	"nightspark/internal/normalize"
	"nightspark/internal/platform/config"
	"nightspark/internal/platform/logger"
	"nightspark/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres (ya migrado; se siembra si está vacío).
	// Si no, in-memory con el mismo seed.
	DB *sql.DB

	Log    logger.Logger
	Server config.ServerConfig

	// Sources/Tables arman la cascada si Discoverer es nil.
	Sources    config.SourcesConfig
	Tables     *normalize.Tables
	Discoverer events.Discoverer

	// Broker de planes; el caller lo cierra en shutdown. nil => uno nuevo.
	Broker *plans.Broker
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	tables := opts.Tables
	if tables == nil {
		tables = normalize.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins(opts.Server.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID", "X-Request-Id"},
		MaxAge:         300,
	}))
	if opts.Server.RateLimitRequests > 0 {
		window := opts.Server.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(opts.Server.RateLimitRequests, window))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLogger(log.With(map[string]any{"component": "http"})))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		eventRepo events.Repository
		planRepo  plans.Repository
		shareRepo shares.Repository
	)
	if opts.DB != nil {
		eventRepo = pg.NewEventsRepo(opts.DB)
		planRepo = pg.NewPlansRepo(opts.DB)
		shareRepo = pg.NewSharesRepo(opts.DB)
	} else {
		eventRepo = mem.NewEventRepo(mem.SeedEvents(time.Now())...)
		planRepo = mem.NewPlanRepo()
		shareRepo = mem.NewShareRepo()
	}

	disc := opts.Discoverer
	if disc == nil {
		d, err := NewDiscoverer(opts.Sources, tables, log)
		if err != nil {
			return nil, err
		}
		disc = d
	}

	// Services por módulo
	eventsSvc := events.NewService(eventRepo, events.WithDefaultImage(tables.DefaultImage))
	if opts.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		n, err := eventsSvc.SeedIfEmpty(ctx, mem.SeedEvents(time.Now()))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("seed events: %w", err)
		}
		if n > 0 {
			log.Info("storage seeded", map[string]any{"events": n})
		}
	}
	plansSvc := plans.NewService(planRepo, opts.Broker)
	sharesSvc := shares.NewService(shareRepo)

	// Rutas por módulo
	events.RegisterRoutes(r, eventsSvc, disc)
	plans.RegisterRoutes(r, plansSvc, sharesSvc, eventsSvc, plans.StreamConfig{
		AllowedOrigins: opts.Server.CORSOrigins,
		Log:            log.With(map[string]any{"component": "plans_stream"}),
	})
	shares.RegisterRoutes(r, sharesSvc, plansSvc)

	return r, nil
}

func origins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}
