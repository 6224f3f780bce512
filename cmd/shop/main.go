package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/coffeeshop/internal/config"
	"github.com/joao-fontenele/coffeeshop/internal/dispatch"
	"github.com/joao-fontenele/coffeeshop/internal/httpx"
	"github.com/joao-fontenele/coffeeshop/internal/shop"
	"github.com/joao-fontenele/coffeeshop/internal/telemetry"
)

const (
	serviceName    = "coffee-shop"
	serviceVersion = "0.1.0"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	logger := telemetry.NewLogger(serviceName)

	cfg, err := config.LoadShop()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	httpClient := &http.Client{
		Timeout:   cfg.DispatchTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	defer httpClient.CloseIdleConnections()

	registry := shop.NewRegistry()

	dispatcher := dispatch.New(
		dispatch.NewBaristaClient(cfg.BaristaURL, httpClient),
		logger,
		dispatch.WithWorkers(cfg.DispatchWorkers),
		dispatch.WithQueueSize(cfg.DispatchQueueSize),
		dispatch.WithTimeout(cfg.DispatchTimeout),
		dispatch.WithStatusUpdater(registry),
	)
	dispatcher.Start()

	janitor := shop.NewJanitor(registry, cfg.OrderRetention, logger)
	if err := janitor.Start(); err != nil {
		logger.Error("failed to start order janitor", "error", err)
		os.Exit(1)
	}

	handler := shop.NewHandler(registry, dispatcher, cfg.BasePath, logger)

	router := httpx.NewRouter()
	router.Get("/health", httpx.HealthHandler(logger))
	router.Handle("/metrics", metricsHandler)
	httpx.Mount(router, cfg.BasePath, handler.Routes)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpx.Instrument(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting coffee shop", "port", cfg.Port, "base_path", cfg.BasePath, "barista_url", cfg.BaristaURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("dispatcher did not drain", "error", err)
	}
	janitor.Stop()
}
