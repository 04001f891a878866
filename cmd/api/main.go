package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-care-records/internal/adapters/auth/remote"
	"pet-care-records/internal/adapters/changes/natsbus"
	pg "pet-care-records/internal/adapters/storage/postgres"
	"pet-care-records/internal/jobs"
	"pet-care-records/internal/platform/config"
	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/platform/metrics"
	"pet-care-records/internal/ports/auth"
	"pet-care-records/internal/ports/changes"
	"pet-care-records/internal/router"
)

// @title pet-care-records API
// @version 1.0
// @description Registros de cuidado de mascotas y feeds de calendario suscribibles.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer opened.Close()
		db = opened

		if cfg.AutoMigrate {
			applied, err := pg.Migrate(ctx, db)
			if err != nil {
				return err
			}
			log.Info("migrations applied", map[string]any{"applied": applied})
		}
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	var bus changes.Bus
	if cfg.NATSURL != "" {
		nb, err := natsbus.Connect(natsbus.Options{
			URL:           cfg.NATSURL,
			SubjectPrefix: cfg.NATSSubjectPrefix,
			Name:          cfg.AppName,
		})
		if err != nil {
			return err
		}
		bus = nb
	}

	var verifier auth.AuthVerifier
	if cfg.AuthVerifyURL != "" {
		v, err := remote.NewVerifier(remote.Config{VerifyURL: cfg.AuthVerifyURL, APIKey: cfg.AuthAPIKey})
		if err != nil {
			return err
		}
		verifier = v
	} else {
		log.Warn("AUTH_VERIFY_URL not set, dev mode (X-Debug-User-ID)", nil)
	}

	app := router.Build(router.Options{
		AuthVerifier:  verifier,
		DB:            db,
		Bus:           bus,
		Logger:        log,
		Metrics:       metrics.New(cfg.MetricsNamespace),
		PublicBaseURL: cfg.PublicBaseURL,
		TrustProxy:    cfg.TrustProxy,
	})
	defer func() { _ = app.Bus.Close() }()

	reminder := jobs.NewExpiryReminder(app.Vaccinations, app.Bus, log, cfg.ExpiryWindowDays)
	scheduler, err := jobs.Schedule(cfg.ExpiryCron, reminder)
	if err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	// Los streams SSE no terminan solos: al apagar se cancela el contexto base
	// de los requests para que Shutdown no espere hasta el timeout.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelRequests)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
