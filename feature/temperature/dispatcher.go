package temperature

import (
	"context"
	"errors"
	"fmt"

	"temperature-consumer/core/metrics"
	"temperature-consumer/core/reconcile"
	"temperature-consumer/core/workerpool"

	"go.uber.org/zap"
)

// Dispatcher is the boundary between raw payloads and the store.
// It decodes payloads, merges the readings and reports failures.
type Dispatcher struct {
	store   *reconcile.Store
	pool    *workerpool.Pool
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher. pool may be nil when only Handle is used.
func NewDispatcher(store *reconcile.Store, pool *workerpool.Pool, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		pool:    pool,
		metrics: m,
		logger:  logger,
	}
}

// Submit queues payload for processing on the worker pool and returns once it
// is queued. It blocks while the pool queue is full.
func (d *Dispatcher) Submit(ctx context.Context, payload []byte) error {
	if d.pool == nil {
		return errors.New("dispatcher has no worker pool")
	}
	return d.pool.Submit(ctx, func() {
		_, _ = d.Handle(payload)
	})
}

// Handle decodes payload and merges the reading into the store.
// A failure increments the failure counter, is logged with the raw payload and
// is returned for the caller's information only; the payload is dropped.
func (d *Dispatcher) Handle(payload []byte) (outcome reconcile.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing message: %v", r)
			d.fail(payload, "panic", err)
		}
	}()

	reading, err := Decode(payload)
	if err != nil {
		kind := "unknown"
		var de *DecodeError
		if errors.As(err, &de) {
			kind = string(de.Kind)
		}
		d.fail(payload, kind, err)
		return "", err
	}

	return d.store.Merge(reading), nil
}

func (d *Dispatcher) fail(payload []byte, kind string, err error) {
	d.metrics.IncFailed()
	d.logger.Error("Error processing message",
		zap.ByteString("rawMessage", payload),
		zap.String("exception", kind),
		zap.Error(err),
	)
}
