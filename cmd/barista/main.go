package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joao-fontenele/coffeeshop/internal/barista"
	"github.com/joao-fontenele/coffeeshop/internal/config"
	"github.com/joao-fontenele/coffeeshop/internal/httpx"
	"github.com/joao-fontenele/coffeeshop/internal/messaging"
	"github.com/joao-fontenele/coffeeshop/internal/telemetry"
)

const (
	serviceName    = "barista"
	serviceVersion = "0.1.0"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	logger := telemetry.NewLogger(serviceName)
	cfg := config.LoadBarista()

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

	var (
		journal barista.Journal
		checks  []httpx.Check
	)
	if cfg.PostgresURL != "" {
		db, err := telemetry.OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		repo := barista.NewBrewRepository(db)
		journal = repo
		checks = append(checks, httpx.Check{Name: "database", Probe: repo.Ping})
	}

	var publisher barista.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.BrewTopic)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	service := barista.NewService(journal, publisher, logger)
	handler := barista.NewHandler(service, logger)

	router := httpx.NewRouter()
	router.Get("/health", httpx.HealthHandler(logger, checks...))
	router.Handle("/metrics", metricsHandler)
	httpx.Mount(router, cfg.BasePath, handler.Routes)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpx.Instrument(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting barista",
			"port", cfg.Port,
			"base_path", cfg.BasePath,
			"journal", journal != nil,
			"queue", publisher != nil,
		)
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
}
