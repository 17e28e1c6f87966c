package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/burenvoorburen/helpdesk/internal/helpdesk/http"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/metrics"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/notify"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store/drivers/postgres"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store/drivers/sqlite"
	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application wires the help desk service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db   store.Store
	keys *SessionKeys
	sink notify.Sink

	requestService      *service.RequestService
	identityService     *service.IdentityService
	sessionService      *service.SessionService
	bootstrapService    *service.BootstrapService
	directoryService    *service.DirectoryService
	notificationService *service.NotificationService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "helpdesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.keys = keys

	sink, err := app.initSink()
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize notification sink: %w", err)
	}
	app.sink = sink

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.notificationService.Start()

	app.logger.Info("helpdesk starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"notify_sink", app.cfg.NotifySink,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.release()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server, stops the notifier and closes the sink and
// the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down helpdesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.release(); err != nil {
		return err
	}

	app.logger.Info("helpdesk stopped")
	return nil
}

// release stops the notifier and closes the sink and the store.
func (app *Application) release() error {
	app.notificationService.Stop()

	if err := app.sink.Close(); err != nil {
		app.logger.Error("error closing notification sink", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

func (app *Application) initDatabase() error {
	var db store.Store

	switch app.cfg.StoreDriver {
	case "postgres":
		if app.cfg.DatabaseURL == "" {
			return errors.New("HELPDESK_DATABASE_URL is required for the postgres store")
		}
		pg, err := postgres.NewStore(context.Background(), app.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db = pg
	case "sqlite", "":
		lite, err := sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile))
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db = lite
	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		metrics.SetDependencyHealth("database", false)
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	metrics.SetDependencyHealth("database", true)

	app.db = db
	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

func (app *Application) initSink() (notify.Sink, error) {
	switch app.cfg.NotifySink {
	case "expo":
		return notify.NewExpoSink(app.cfg.ExpoHost, app.cfg.ExpoAccessToken, app.logger), nil
	case "amqp":
		if app.cfg.AMQPURL == "" {
			return nil, errors.New("HELPDESK_AMQP_URL is required for the amqp sink")
		}
		sink, err := notify.NewAMQPSink(app.cfg.AMQPURL, app.cfg.AMQPExchange)
		metrics.SetDependencyHealth("amqp", err == nil)
		return sink, err
	case "log", "":
		return notify.LogSink{Logger: app.logger}, nil
	}
	return nil, fmt.Errorf("unknown notify sink %q", app.cfg.NotifySink)
}

func (app *Application) initServices() {
	app.requestService = &service.RequestService{Store: app.db}
	app.identityService = &service.IdentityService{Store: app.db}
	app.sessionService = &service.SessionService{
		Store:  app.db,
		Signer: app.keys.Signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
	app.directoryService = &service.DirectoryService{Store: app.db}

	app.notificationService = service.NewNotificationService(
		app.db,
		app.sink,
		app.logger,
		app.cfg.PollInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.CORSOrigins,
	)

	router.RequestService = app.requestService
	router.IdentityService = app.identityService
	router.SessionService = app.sessionService
	router.BootstrapService = app.bootstrapService
	router.DirectoryService = app.directoryService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
