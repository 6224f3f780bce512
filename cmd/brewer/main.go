package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joao-fontenele/coffeeshop/internal/barista"
	"github.com/joao-fontenele/coffeeshop/internal/config"
	"github.com/joao-fontenele/coffeeshop/internal/messaging"
	"github.com/joao-fontenele/coffeeshop/internal/telemetry"
	"github.com/joao-fontenele/coffeeshop/internal/worker"
)

const (
	serviceName    = "brewer"
	serviceVersion = "0.1.0"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := telemetry.NewLogger(serviceName)

	cfg, err := config.LoadBrewer()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	_, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	var finisher worker.Finisher
	if cfg.PostgresURL != "" {
		db, err := telemetry.OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		finisher = barista.NewBrewRepository(db)
	}

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, cfg.BrewTopic, cfg.Group, logger)
	defer func() { _ = consumer.Close() }()

	brewHandler := worker.NewBrewHandler(finisher, cfg.BrewDuration, logger)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting brewer", "brokers", cfg.KafkaBrokers, "topic", cfg.BrewTopic, "group", cfg.Group)

	if err := consumer.Consume(ctx, brewHandler.Handle); err != nil {
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
	logger.Info("consumer stopped")
}
