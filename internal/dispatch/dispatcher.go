// Package dispatch forwards accepted orders to the barista service without
// making the caller wait for the outcome.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

var tracer = otel.Tracer(instrumentationName)

// StatusUpdater records that the barista accepted an order.
type StatusUpdater interface {
	Advance(id string, to domain.OrderStatus) error
}

// Result describes the outcome of one order. Err is nil on success and a
// *Failure otherwise.
type Result struct {
	OrderID  string
	Type     domain.CoffeeType
	Duration time.Duration
	Err      error
}

type Option func(*Dispatcher)

func WithWorkers(n int) Option {
	return func(d *Dispatcher) { d.workers = n }
}

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) { d.queueSize = n }
}

func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

func WithStatusUpdater(u StatusUpdater) Option {
	return func(d *Dispatcher) { d.updater = u }
}

// WithResultHook registers fn to be called once per dispatched order, from
// the goroutine that settled it.
func WithResultHook(fn func(Result)) Option {
	return func(d *Dispatcher) { d.onResult = fn }
}

type job struct {
	ctx   context.Context
	order domain.CoffeeBrew
}

// Dispatcher owns a bounded queue drained by a fixed set of workers. With
// the default single worker, requests to the barista never overlap.
type Dispatcher struct {
	client   *BaristaClient
	logger   *slog.Logger
	metrics  *metrics
	updater  StatusUpdater
	onResult func(Result)

	workers   int
	queueSize int
	timeout   time.Duration

	mu        sync.RWMutex
	closed    bool
	jobs      chan job
	wg        sync.WaitGroup
	startOnce sync.Once
}

func New(client *BaristaClient, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client:    client,
		logger:    logger.With("component", "dispatcher"),
		metrics:   newMetrics(),
		workers:   1,
		queueSize: 128,
		timeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.workers < 1 {
		d.workers = 1
	}
	if d.queueSize < 0 {
		d.queueSize = 0
	}
	if d.timeout <= 0 {
		d.timeout = 5 * time.Second
	}
	d.jobs = make(chan job, d.queueSize)

	return d
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for range d.workers {
			d.wg.Add(1)
			go d.run()
		}
	})
}

// Dispatch enqueues the order and returns immediately. The request context
// only contributes its trace; its cancellation is ignored. Failures are
// logged and counted here and never reach the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, order domain.CoffeeBrew) {
	ctx = context.WithoutCancel(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.fail(ctx, order, &Failure{Reason: ReasonClosed}, 0)
		return
	}

	select {
	case d.jobs <- job{ctx: ctx, order: order}:
	default:
		d.fail(ctx, order, &Failure{Reason: ReasonQueueFull}, 0)
	}
}

// Shutdown stops accepting orders and waits for queued ones to be sent, or
// for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for j := range d.jobs {
		d.send(j)
	}
}

func (d *Dispatcher) send(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.timeout)
	defer cancel()

	typeAttr := attribute.String("coffee.type", j.order.Type.Wire())
	ctx, span := tracer.Start(ctx, "dispatch brew",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("order.id", j.order.ID), typeAttr),
	)
	defer span.End()

	d.metrics.attempts.Add(ctx, 1, metric.WithAttributes(typeAttr))

	start := time.Now()
	err := d.client.StartBrew(ctx, j.order.Type)
	elapsed := time.Since(start)
	d.metrics.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(typeAttr))

	if err != nil {
		var f *Failure
		if !errors.As(err, &f) {
			f = &Failure{Reason: ReasonTransport, Err: err}
		}
		span.RecordError(f)
		span.SetStatus(codes.Error, f.Error())
		d.fail(ctx, j.order, f, elapsed)
		return
	}

	if d.updater != nil {
		if err := d.updater.Advance(j.order.ID, domain.OrderStatusInProgress); err != nil {
			d.logger.WarnContext(ctx, "failed to advance order status", "error", err, "order_id", j.order.ID)
		}
	}

	d.logger.InfoContext(ctx, "brew dispatched", "order_id", j.order.ID, "type", j.order.Type, "duration", elapsed)
	d.report(Result{OrderID: j.order.ID, Type: j.order.Type, Duration: elapsed})
}

func (d *Dispatcher) fail(ctx context.Context, order domain.CoffeeBrew, f *Failure, elapsed time.Duration) {
	f.OrderID = order.ID
	f.Type = order.Type

	d.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(f.Reason))))
	d.logger.ErrorContext(ctx, "brew dispatch failed",
		"error", f,
		"reason", f.Reason,
		"order_id", order.ID,
		"type", order.Type,
	)
	d.report(Result{OrderID: order.ID, Type: order.Type, Duration: elapsed, Err: f})
}

func (d *Dispatcher) report(r Result) {
	if d.onResult != nil {
		d.onResult(r)
	}
}
