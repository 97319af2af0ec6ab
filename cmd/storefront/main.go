package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/aurelia-labs/jewelstore/internal/app"
	"github.com/aurelia-labs/jewelstore/internal/catalog"
	"github.com/aurelia-labs/jewelstore/internal/config"
	orderstore "github.com/aurelia-labs/jewelstore/internal/order/store"
	"github.com/aurelia-labs/jewelstore/pkg/bootstrap"
	"github.com/aurelia-labs/jewelstore/pkg/config/configloader"
	"github.com/aurelia-labs/jewelstore/pkg/logger"
	"github.com/aurelia-labs/jewelstore/pkg/messaging"
	natspkg "github.com/aurelia-labs/jewelstore/pkg/nats"
	"golang.org/x/sync/errgroup"
)

const serviceName = "storefront"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application and starts the HTTP and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	slogger := slog.New(logger.NewContextHandler(bootstrap.NewLogger(cfg.Log.Level).Handler()))
	slog.SetDefault(slogger)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	slogger.Info("Catalog loaded", slog.Int("products", cat.Len()))

	orders, closeOrders, err := newOrderStore(ctx, cfg, slogger)
	if err != nil {
		return err
	}
	defer closeOrders()

	publisher, closePublisher, err := newPublisher(cfg, slogger)
	if err != nil {
		return err
	}
	defer closePublisher()

	deps := app.SetupDependencies(cat, orders, publisher, cfg, slogger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		slogger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		slogger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			slogger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			slogger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// loadCatalog builds the catalog from the configured seed file, falling back
// to the embedded seed.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.SeedFile != "" {
		return catalog.LoadFile(cfg.Catalog.SeedFile)
	}
	return catalog.Default()
}

// newOrderStore selects the configured order store: PostgreSQL when the
// database is enabled, in-memory otherwise.
func newOrderStore(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (orderstore.OrderStore, func(), error) {
	if !cfg.Database.Enabled {
		slogger.Info("Using in-memory order store")
		return orderstore.NewMemoryStore(), func() {}, nil
	}
	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	slogger.Info("Successfully connected to the database!")
	return orderstore.NewPgStore(dbPool), dbPool.Close, nil
}

// newPublisher selects the configured event publisher: NATS JetStream when
// enabled, the log otherwise.
func newPublisher(cfg *config.Config, slogger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		return messaging.NewLogPublisher(slogger), func() {}, nil
	}
	natsConn, err := natspkg.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create NATS connection: %w", err)
	}
	js, err := natspkg.NewJetStreamContext(natsConn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}
	return natspkg.NewNatsPublisher(js), natsConn.Close, nil
}
