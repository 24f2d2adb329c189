package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sutherm/glos-geo/internal/api"
)

// StatusFetcher reports the current state of a submitted order.
type StatusFetcher interface {
	GetOrderStatus(ctx context.Context, orderID string) (api.OrderStatus, error)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Wait between status checks (default: 30s)
	MaxWait  time.Duration // Give up after this long (default: 2h)
	Timeout  time.Duration // Per-request timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
		MaxWait:  2 * time.Hour,
		Timeout:  30 * time.Second,
	}
}

// WaitTimeoutError reports an order that did not finish within the wait bound.
type WaitTimeoutError struct {
	OrderID string
	Waited  time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("order %s not finished after %s", e.OrderID, e.Waited)
}

// OrderFailedError reports an order the service marked as failed.
type OrderFailedError struct {
	OrderID string
	Message string
}

func (e *OrderFailedError) Error() string {
	return fmt.Sprintf("order %s failed: %s", e.OrderID, e.Message)
}

// Poller watches a submitted order until it reaches a terminal state.
type Poller struct {
	cfg    Config
	client StatusFetcher
	logger *slog.Logger
}

// New creates a new Poller.
func New(cfg Config, client StatusFetcher, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Await polls the order until it completes, fails, times out, or the context
// is cancelled. On completion it returns the final status, which carries the
// output location.
func (p *Poller) Await(ctx context.Context, orderID string) (api.OrderStatus, error) {
	deadline := clock.Now().Add(p.cfg.MaxWait)

	p.logger.Info("awaiting order",
		"order_id", orderID,
		"interval", p.cfg.Interval,
		"max_wait", p.cfg.MaxWait,
	)

	for {
		status, err := p.fetch(ctx, orderID)
		if err != nil {
			return api.OrderStatus{}, err
		}

		switch {
		case status.Status == api.OrderStatusFailed:
			return status, &OrderFailedError{OrderID: orderID, Message: status.Message}
		case status.Terminal():
			p.logger.Info("order complete",
				"order_id", orderID,
				"output_location", status.OutputLocation,
			)
			return status, nil
		}

		if clock.Now().Add(p.cfg.Interval).After(deadline) {
			return status, &WaitTimeoutError{OrderID: orderID, Waited: p.cfg.MaxWait}
		}

		p.logger.Debug("order not ready",
			"order_id", orderID,
			"status", status.Status,
		)

		select {
		case <-ctx.Done():
			return api.OrderStatus{}, ctx.Err()
		case <-clock.After(p.cfg.Interval):
		}
	}
}

// fetch runs one status check, retrying transient failures with exponential
// backoff. Non-retryable API errors abort immediately.
func (p *Poller) fetch(ctx context.Context, orderID string) (api.OrderStatus, error) {
	var status api.OrderStatus

	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()

		var err error
		status, err = p.client.GetOrderStatus(reqCtx, orderID)
		if err == nil {
			return nil
		}

		var apiErr *api.APIError
		if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.RetryNotify(
		op,
		backoff.WithContext(backoff.NewExponentialBackOff(), ctx),
		func(err error, d time.Duration) {
			p.logger.Warn("status check failed",
				"order_id", orderID,
				"err", err,
				"retry_in", d,
			)
		},
	)
	if err != nil {
		return api.OrderStatus{}, fmt.Errorf("order %s status: %w", orderID, err)
	}

	return status, nil
}
