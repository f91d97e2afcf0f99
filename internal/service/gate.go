package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"giftlist/internal/models"
	"giftlist/internal/observability"
)

// Gate is the single mutual-exclusion boundary of a store instance. Every operation
// that writes, or reads and then writes, holds the exclusive lock for its whole
// duration; pure reads share the lock.
type Gate struct {
	mu sync.RWMutex
}

// NewGate returns an unlocked gate.
func NewGate() *Gate {
	return &Gate{}
}

// write runs fn under the exclusive lock.
func (g *Gate) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return g.run(ctx, op, true, fn)
}

// read runs fn under the shared lock.
func (g *Gate) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return g.run(ctx, op, false, fn)
}

func (g *Gate) run(ctx context.Context, op string, exclusive bool, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx = observability.EnsureCorrelationID(ctx)
	ctx, span := observability.StartOperation(ctx, op)

	mode := "read"
	if exclusive {
		mode = "write"
		g.mu.Lock()
		defer g.mu.Unlock()
	} else {
		g.mu.RLock()
		defer g.mu.RUnlock()
	}
	observability.StoreLockWait.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	err := fn(ctx)

	outcome := "ok"
	if err != nil {
		outcome = models.ErrorCode(err)
		logFailure(ctx, op, err)
	}
	observability.ObserveOperation(op, outcome, start)
	observability.EndOperation(span, err)
	return err
}

func logFailure(ctx context.Context, op string, err error) {
	attrs := []any{
		slog.String("operation", op),
		slog.String("code", models.ErrorCode(err)),
		slog.String("error", err.Error()),
	}
	if models.IsClientError(err) {
		observability.Logger.InfoContext(ctx, "store operation rejected", attrs...)
		return
	}
	observability.Logger.ErrorContext(ctx, "store operation failed", attrs...)
}

// writeValue is write for operations that produce a value.
func writeValue[T any](g *Gate, ctx context.Context, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.write(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}

// readValue is read for operations that produce a value.
func readValue[T any](g *Gate, ctx context.Context, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.read(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}
