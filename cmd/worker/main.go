package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/worker"

	"github.com/crafty-aquatics/storefront/internal/app/api"
	platformobservability "github.com/crafty-aquatics/storefront/internal/platform/observability"
	checkoutactivities "github.com/crafty-aquatics/storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/crafty-aquatics/storefront/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	storage, closeStorage := api.OpenStorage(ctx, cfg, logger)
	defer closeStorage()
	switch {
	case storage.Degraded:
		logger.Warn("worker is using process-local memory; checkouts will not see the API's data", slog.String("reason", storage.Reason))
	case storage.Backend == api.BackendMemory:
		logger.Warn("worker configured with memory storage; the API runs checkout inline and sends it no workflows")
	}
	services, err := api.BuildServices(cfg, storage, instruments, nil)
	if err != nil {
		logger.Error("failed to wire services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.CheckoutTaskQueue, worker.Options{})
	checkoutworkflows.Register(w, checkoutactivities.NewActivities(services.Checkout))

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.CheckoutTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
