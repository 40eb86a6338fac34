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

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/live"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/offer"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/render"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := tracing.Init(tracing.Config{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publisher, closeBroker, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBroker()

	hub := live.NewHub(logger.Named("live"), cfg.CORSAllowOrigins)
	defer hub.Close()

	session := storefront.NewSession(ctx, storefront.Options{
		Catalog:   catalog.Default(),
		Offer:     offer.New(offer.Options{Discount: cfg.OfferDiscount, Seconds: cfg.OfferSeconds, Interval: cfg.OfferTick}),
		Publisher: publisher,
		Renderer:  render.NewRenderer(money.NewFormatter(cfg.CurrencyPrefix), hub),
		Live:      hub,
		Logger:    logger.Named("session"),
	})
	defer session.Close()
	session.LogStock()

	router := httpapi.NewRouter(httpapi.Deps{
		Handler:          httpapi.NewHandler(session, cfg.ServiceName),
		Live:             hub,
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}

// newPublisher connects to RabbitMQ when a URL is configured and falls back
// to logging checkout events otherwise.
func newPublisher(cfg config.Config, logger *zap.Logger) (events.Publisher, func(), error) {
	seq := events.NewMemorySequence()
	opts := events.PublisherOptions{Producer: cfg.ServiceName}

	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, checkout events are only logged")
		return events.NewLogPublisher(logger.Named("events"), seq, opts), func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	pub, err := events.NewRabbitPublisher(conn, seq, events.RabbitOptions{
		PublisherOptions: opts,
		PublishTimeout:   cfg.PublishTimeout,
	})
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("create cart publisher: %w", err)
	}

	closeFn := func() {
		if err := pub.Close(); err != nil {
			logger.Warn("publisher close error", zap.Error(err))
		}
		if err := conn.Close(); err != nil {
			logger.Warn("rabbitmq close error", zap.Error(err))
		}
	}
	return pub, closeFn, nil
}
