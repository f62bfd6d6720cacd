package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"autocatalog/api"
	"autocatalog/config"
	"autocatalog/identity"
)

// App represents the catalog application with all its components.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	Storage  *StorageComponents
	Services *Services
	Identity *identity.Client

	APIServer *api.API

	shutdownCh chan struct{}
}

// NewApp creates a new application instance and initializes all components.
func NewApp(ctx context.Context) (*App, error) {
	app := &App{
		shutdownCh: make(chan struct{}),
	}

	logger, sugar, err := InitLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	app.Sugar = sugar

	sugar.Info("Vehicle catalog starting...")

	cfg, err := InitConfig(sugar)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	sqlite, err := InitSQLite(cfg, sugar)
	if err != nil {
		return nil, err
	}
	app.Storage = InitStorages(sqlite, sugar)
	app.Services = InitServices(app.Storage, sugar)

	if cfg.IdentityConfigured() {
		app.Identity = identity.NewClient(cfg, sugar)
		sugar.Info("Identity provider client initialized")
	} else {
		sugar.Warn("Identity provider not configured; register/authenticate endpoints disabled")
	}

	return app, nil
}

// Start brings up the API server. It returns once the listener has
// terminated with something other than a graceful shutdown.
func (a *App) Start(ctx context.Context) error {
	var identityProvider api.IdentityProvider
	if a.Identity != nil {
		identityProvider = a.Identity
	}

	a.APIServer = api.NewAPI(
		a.Services.Brands,
		a.Services.Categories,
		a.Services.Engines,
		a.Services.Models,
		a.Services.Cars,
		identityProvider,
		a.Config,
		a.Sugar,
	)

	addr := fmt.Sprintf("%s:%d", a.Config.API.Host, a.Config.API.Port)
	a.Sugar.Infof("API server listening on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := a.APIServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Surface immediate bind failures instead of reporting a started
	// server that is not listening.
	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-time.After(250 * time.Millisecond):
		return nil
	}
}

// WaitForShutdown blocks until a shutdown signal is received.
func (a *App) WaitForShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown() {
	a.Sugar.Info("Shutting down...")
	close(a.shutdownCh)

	if a.APIServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.APIServer.Stop(ctx); err != nil {
			a.Sugar.Errorf("API server shutdown error: %v", err)
		}
	}

	if a.Storage != nil && a.Storage.SQLite != nil {
		if err := a.Storage.SQLite.Close(); err != nil {
			a.Sugar.Errorf("SQLite close error: %v", err)
		}
	}

	a.Sugar.Info("Shutdown complete")
	_ = a.Logger.Sync()
}
