// Package server wires the pressroom server together: database, cache,
// services and the HTTP and gRPC health transports. It handles graceful
// shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/pressroom/internal/cache"
	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/dmitrijs2005/pressroom/internal/server/auth"
	"github.com/dmitrijs2005/pressroom/internal/server/config"
	"github.com/dmitrijs2005/pressroom/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pressroom/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/pressroom/internal/server/grpc"
	hs "github.com/dmitrijs2005/pressroom/internal/server/http"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	store    cache.Store
	registry *prometheus.Registry
	handler  http.Handler
}

// NewApp validates the configuration, connects to PostgreSQL, applies
// migrations when enabled and builds every component.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	if c.MigrateOnStart {
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		logger.Info(ctx, "Migrations applied")
	}

	app, err := newApp(c, db, rm, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	store, err := newCacheStore(c, logger)
	if err != nil {
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := cache.NewMetrics(registry)

	reader := cache.NewReader(store, c.CacheTTL, metrics, logger.With("module", "cache"))
	invalidator := cache.NewInvalidator(store, metrics, logger.With("module", "cache"))

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("hasher init error: %w", err)
	}
	issuer := auth.NewTokenIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	us := services.NewUserService(db, rm, hasher, logger)
	as := services.NewAuthService(us, hasher, issuer, logger)
	ars := services.NewArticleService(db, rm, reader, invalidator, logger)

	gin.SetMode(gin.ReleaseMode)
	h := &hs.Handler{Articles: ars, Users: us, Auth: as, Logger: logger.With("module", "http")}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		store:    store,
		registry: registry,
		handler:  hs.NewRouter(h, issuer, registry),
	}, nil
}

func newCacheStore(c *config.Config, logger logging.Logger) (cache.Store, error) {
	switch c.CacheBackend {
	case config.CacheBackendMemory:
		return cache.NewMemoryStore(c.CacheCapacity, c.CacheTTL), nil
	case config.CacheBackendBadger:
		return cache.OpenBadgerStore(c.CacheDir, logger.With("module", "badger"))
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewServer(app.config.EndpointAddrHTTP, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.db, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then releases the cache and the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "shutdown error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}

// Close releases the cache store and the database pool.
func (app *App) Close() error {
	return errors.Join(app.store.Close(), app.db.Close())
}
