package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	storefrontserver "github.com/crafty-aquatics/storefront/go"
	checkoutobs "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/observability"
	checkoutworkflows "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/workflows"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	platformkafka "github.com/crafty-aquatics/storefront/internal/platform/kafka"
	platformobservability "github.com/crafty-aquatics/storefront/internal/platform/observability"
	"github.com/crafty-aquatics/storefront/internal/shared/events"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API and blocks until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET not set, signing tokens with the development secret")
	}

	storage, closeStorage := OpenStorage(ctx, cfg, logger)
	defer closeStorage()

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()

	services, err := BuildServices(cfg, storage, instruments, publisher)
	if err != nil {
		return err
	}
	if cfg.SeedDemoData {
		if err := services.Seed(ctx); err != nil {
			return err
		}
	}

	orchestrator, closeOrchestrator := selectOrchestrator(storage, services.Checkout, func() (client.Client, error) {
		return connectTemporalClient(cfg, instruments)
	}, logger)
	defer closeOrchestrator()
	orchestrator = checkoutobs.New(orchestrator,
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.orchestrator")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.orchestrator")),
	)

	handlers := storefrontserver.ApiHandleFunctions{
		Auth:        storefrontserver.NewAuthMiddleware(services.Users),
		HealthAPI:   storefrontserver.NewHealthAPI(storefrontserver.StorageStatus{Backend: storage.Backend, Degraded: storage.Degraded, Reason: storage.Reason}),
		CatalogAPI:  storefrontserver.NewCatalogAPI(services.Catalog),
		AuthAPI:     storefrontserver.NewAuthAPI(services.Users),
		CartAPI:     storefrontserver.NewCartAPI(services.Cart),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(orchestrator),
		OrderAPI:    storefrontserver.NewOrderAPI(services.Orders),
		AdminAPI:    storefrontserver.NewAdminAPI(services.Backoffice, services.Orders),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := storefrontserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr), slog.String("backend", storage.Backend))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down storefront API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// selectOrchestrator runs checkout through Temporal only when the worker can reach the same
// data as the API. Memory storage, chosen or fallen back to, lives in this process alone, so
// checkout then stays inline and connect is never called.
func selectOrchestrator(storage *Storage, steps checkoutports.Orchestrator, connect func() (client.Client, error), logger *slog.Logger) (checkoutports.Orchestrator, func()) {
	inline := checkoutworkflows.NewInlineCheckout(steps)
	if storage == nil || storage.Backend == BackendMemory || storage.Degraded {
		logger.Info("running checkout inline, storage is process-local")
		return inline, func() {}
	}
	temporalClient, err := connect()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("backend", storage.Backend))
	return checkoutworkflows.NewTemporalCheckout(temporalClient), temporalClient.Close
}

func buildPublisher(cfg Config, logger *slog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NoopPublisher, func() {}
	}
	publisher, err := platformkafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
	if err != nil {
		logger.Warn("kafka publisher unavailable, domain events are dropped", slog.String("error", err.Error()))
		return events.NoopPublisher, func() {}
	}
	logger.Info("publishing domain events to kafka", slog.Any("brokers", cfg.KafkaBrokers))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka publisher", slog.String("error", err.Error()))
		}
	}
}

// ConnectTemporal dials the configured Temporal frontend with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(component),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	return ConnectTemporal(cfg, instruments, "temporal-client")
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
