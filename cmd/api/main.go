// @title NightSpark API
// @version 1.0
// @description Eventos de la noche agregados desde Ticketmaster, Eventbrite y Google Places, con planes compartidos.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nightspark/internal/adapters/auth/jwtverifier"
	"nightspark/internal/adapters/auth/remote"
	"nightspark/internal/adapters/storage/postgres"
	"nightspark/internal/domain/plans"
	"nightspark/internal/normalize"
	"nightspark/internal/platform/config"
	"nightspark/internal/platform/logger"
	"nightspark/internal/ports/auth"
	"nightspark/internal/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nightspark: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	tables, err := normalize.Load(cfg.Sources.HeuristicsPath)
	if err != nil {
		return err
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		AuthVerifier: verifier,
		Log:          log,
		Server:       cfg.Server,
		Sources:      cfg.Sources,
		Tables:       tables,
		Broker:       plans.NewBroker(),
	}
	defer opts.Broker.Close()

	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = postgres.Migrate(migrateCtx, db)
		cancel()
		if err != nil {
			return err
		}
		opts.DB = db
		log.Info("using postgres storage", nil)
	} else {
		log.Info("using in-memory storage", nil)
	}

	h, err := router.NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "auth_mode": cfg.Auth.Mode})
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server", nil)
	}

	// los websockets de planes no terminan solos: cerrar el broker los corta
	opts.Broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server shutdown error", map[string]any{"error": err})
	}
	log.Info("server stopped", nil)
	return nil
}

// newVerifier devuelve nil en modo "none" (X-Debug-User-ID).
func newVerifier(cfg config.AuthConfig) (auth.AuthVerifier, error) {
	switch cfg.Mode {
	case "jwt":
		return jwtverifier.New(cfg.JWTSecret)
	case "remote":
		c, err := remote.NewClient(remote.Config{BaseURL: cfg.RemoteURL, APIKey: cfg.RemoteAPIKey})
		if err != nil {
			return nil, fmt.Errorf("remote auth: %w", err)
		}
		return remote.NewVerifier(c), nil
	default:
		return nil, nil
	}
}
