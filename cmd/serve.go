package main

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/gts-marketplace-api/internal/api/rest"
	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/handlers"
	"github.com/CameronXie/gts-marketplace-api/internal/api/rest/middlewares"
	"github.com/CameronXie/gts-marketplace-api/internal/bootstrap"
	"github.com/CameronXie/gts-marketplace-api/internal/config"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

const (
	ReadHeaderTimeout = 5 * time.Second
	ShutdownTimeout   = 15 * time.Second
	StoreOpenTimeout  = 20 * time.Second
)

func newServeCommand(v *viper.Viper, logger *slog.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a config file (yaml, json, toml or env)")
	flags.Int("port", config.DefaultPort, "port to listen on")
	flags.String("store-driver", config.DefaultStoreDriver, "document store backend: firestore, mongo, sqlite, mysql, postgres or memory")
	flags.String("store-credentials-file", "", "service account key file for firestore")
	flags.String("store-uri", "", "connection string for mongo and the SQL backends")

	_ = v.BindPFlag("server.port", flags.Lookup("port"))
	_ = v.BindPFlag("store.driver", flags.Lookup("store-driver"))
	_ = v.BindPFlag("store.credentials_file", flags.Lookup("store-credentials-file"))
	_ = v.BindPFlag("store.uri", flags.Lookup("store-uri"))

	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("api_starting", "store_driver", cfg.Store.Driver)

	openCtx, cancel := context.WithTimeout(ctx, StoreOpenTimeout)
	store := bootstrap.OpenStore(openCtx, cfg.Store, logger)
	cancel()
	if store != nil {
		defer store.Close()
	}

	handler, err := newHandler(store, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("api_shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newHandler wires handlers, middlewares and metrics around store, which may be nil.
func newHandler(store docstore.Store, logger *slog.Logger) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := middlewares.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register_metrics: %w", err)
	}

	products := handlers.NewProductHandler(store, logger)
	orders := handlers.NewOrderHandler(store, logger)

	return rest.NewMuxWithHandlers(&rest.RouterConfig{
		ListProductsHandler: http.HandlerFunc(products.ListProducts),
		GetProductHandler:   http.HandlerFunc(products.GetProduct),
		CreateOrderHandler:  http.HandlerFunc(orders.CreateOrder),
		HealthHandler:       handlers.NewHealthHandler(store),
		MetricsHandler:      metrics.Handler(),
		Middlewares:         newMiddlewares(logger, metrics),
	}), nil
}

// newMiddlewares orders the chain outermost first. Recovery sits innermost so that
// a recovered panic is logged and counted with its 500 status.
func newMiddlewares(logger *slog.Logger, metrics *middlewares.Metrics) []middlewares.Middleware {
	return []middlewares.Middleware{
		middlewares.NewRequestLogger(logger),
		metrics,
		middlewares.NewRecovery(logger),
	}
}
