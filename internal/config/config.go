package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Shop struct {
	Port              string
	BasePath          string
	BaristaURL        string
	DispatchWorkers   int
	DispatchQueueSize int
	DispatchTimeout   time.Duration
	OrderRetention    time.Duration
}

type Barista struct {
	Port         string
	BasePath     string
	PostgresURL  string
	KafkaBrokers []string
	BrewTopic    string
}

type Brewer struct {
	PostgresURL  string
	KafkaBrokers []string
	BrewTopic    string
	Group        string
	BrewDuration time.Duration
}

func LoadShop() (Shop, error) {
	var errs []error
	cfg := Shop{
		Port:              getenv("PORT", "8080"),
		BasePath:          normalizeBasePath(getenv("BASE_PATH", "/coffee-shop")),
		BaristaURL:        strings.TrimRight(getenv("BARISTA_URL", "http://localhost:9081/barista"), "/"),
		DispatchWorkers:   getenvInt("DISPATCH_WORKERS", 1, &errs),
		DispatchQueueSize: getenvInt("DISPATCH_QUEUE_SIZE", 128, &errs),
		DispatchTimeout:   getenvDuration("DISPATCH_TIMEOUT", 5*time.Second, &errs),
		OrderRetention:    getenvDuration("ORDER_RETENTION", time.Hour, &errs),
	}

	if cfg.DispatchWorkers < 1 {
		errs = append(errs, fmt.Errorf("DISPATCH_WORKERS must be at least 1, got %d", cfg.DispatchWorkers))
	}
	if cfg.DispatchQueueSize < 0 {
		errs = append(errs, fmt.Errorf("DISPATCH_QUEUE_SIZE must not be negative, got %d", cfg.DispatchQueueSize))
	}
	if cfg.DispatchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("DISPATCH_TIMEOUT must be positive, got %s", cfg.DispatchTimeout))
	}

	return cfg, errors.Join(errs...)
}

func LoadBarista() Barista {
	return Barista{
		Port:         getenv("PORT", "9081"),
		BasePath:     normalizeBasePath(getenv("BASE_PATH", "/barista")),
		PostgresURL:  os.Getenv("POSTGRES_URL"),
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		BrewTopic:    getenv("BREW_TOPIC", "barista.brews"),
	}
}

func LoadBrewer() (Brewer, error) {
	var errs []error
	cfg := Brewer{
		PostgresURL:  os.Getenv("POSTGRES_URL"),
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		BrewTopic:    getenv("BREW_TOPIC", "barista.brews"),
		Group:        getenv("BREWER_GROUP", "brewer"),
		BrewDuration: getenvDuration("BREW_DURATION", 2*time.Second, &errs),
	}

	if len(cfg.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}

	return cfg, errors.Join(errs...)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int, errs *[]error) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return n
}

func getenvDuration(k string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath returns "" for the root and "/x" otherwise.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
