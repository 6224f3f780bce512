package dispatch

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/joao-fontenele/coffeeshop/internal/dispatch"

type metrics struct {
	attempts metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

func newMetrics() *metrics {
	meter := otel.Meter(instrumentationName)
	m := &metrics{}

	var err error
	if m.attempts, err = meter.Int64Counter("shop.dispatch.attempts",
		metric.WithDescription("Brew requests sent to the barista"),
	); err != nil {
		m.attempts = noop.Int64Counter{}
	}
	if m.failures, err = meter.Int64Counter("shop.dispatch.failures",
		metric.WithDescription("Orders that never reached the barista, by reason"),
	); err != nil {
		m.failures = noop.Int64Counter{}
	}
	if m.duration, err = meter.Float64Histogram("shop.dispatch.duration",
		metric.WithDescription("Duration of brew requests to the barista"),
		metric.WithUnit("s"),
	); err != nil {
		m.duration = noop.Float64Histogram{}
	}

	return m
}
